package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-session-gateway/internal/config"
	errs "github.com/jrsteele09/go-session-gateway/internal/errors"
	"github.com/jrsteele09/go-session-gateway/internal/requestid"
	"github.com/rs/zerolog"
)

const maxResponseBytes = 1 << 20

// TokenPreCheck validates a bearer token locally before the remote lookup.
type TokenPreCheck interface {
	Check(ctx context.Context, rawToken string) error
}

// Client is the identity gateway client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	preCheck   TokenPreCheck
	nowTime    func() time.Time
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenPreCheck enables a local token check that runs before every lookup.
// A token that fails the check resolves to no identity without a remote call.
func WithTokenPreCheck(pc TokenPreCheck) ClientOption {
	return func(c *Client) {
		c.preCheck = pc
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ClientOption {
	return func(c *Client) {
		c.nowTime = nowFunc
	}
}

// NewClient creates a client for the provider described by cfg.
func NewClient(cfg config.IdentityConfig, options ...ClientOption) (*Client, error) {
	if cfg.GetAPIKey() == "" {
		return nil, errs.New("[identity NewClient] api key is required")
	}
	if _, err := url.Parse(cfg.GetIdentityBaseURL()); err != nil {
		return nil, errs.Wrapf(err, "[identity NewClient] invalid base url")
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.GetIdentityTimeout()},
		baseURL:    strings.TrimRight(cfg.GetIdentityBaseURL(), "/"),
		apiKey:     cfg.GetAPIKey(),
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// SignIn posts the credential to the password sign-in endpoint.
func (c *Client) SignIn(ctx context.Context, cred Credential) Outcome {
	var resp authResponse
	err := c.post(ctx, EndpointSignIn, passwordRequest{
		Email:             cred.Email,
		Password:          cred.Password,
		ReturnSecureToken: true,
	}, &resp)
	return c.outcome(ctx, "signIn", resp, err, SignInReason)
}

// SignUp posts the credential to the account creation endpoint.
func (c *Client) SignUp(ctx context.Context, cred Credential) Outcome {
	var resp authResponse
	err := c.post(ctx, EndpointSignUp, passwordRequest{
		Email:             cred.Email,
		Password:          cred.Password,
		ReturnSecureToken: true,
	}, &resp)
	return c.outcome(ctx, "signUp", resp, err, SignUpReason)
}

// Verify looks the bearer token up at the provider. It returns nil when the
// token is rejected, when the provider cannot be reached, or when the response
// holds no user.
func (c *Client) Verify(ctx context.Context, bearerToken string) *Identity {
	logger := zerolog.Ctx(ctx)
	if strings.TrimSpace(bearerToken) == "" {
		return nil
	}

	if c.preCheck != nil {
		if err := c.preCheck.Check(ctx, bearerToken); err != nil {
			logger.Debug().Err(err).Msg("bearer token failed local check")
			return nil
		}
	}

	var resp lookupResponse
	if err := c.post(ctx, EndpointLookup, lookupRequest{IDToken: bearerToken}, &resp); err != nil {
		if errs.Is(err, errs.ErrProviderStatus) {
			logger.Debug().Err(err).Msg("bearer token rejected by provider")
		} else {
			logger.Error().Err(err).Msg("token verification error")
		}
		return nil
	}

	if len(resp.Users) == 0 || resp.Users[0].LocalID == "" {
		return nil
	}
	u := resp.Users[0]
	return &Identity{SubjectID: u.LocalID, Email: u.Email}
}

func (c *Client) outcome(ctx context.Context, op string, resp authResponse, err error, mapReason func(string) Reason) Outcome {
	logger := zerolog.Ctx(ctx)

	var pe *providerError
	switch {
	case errs.As(err, &pe):
		reason := mapReason(pe.Message)
		logger.Info().
			Str("op", op).
			Int("status", pe.Status).
			Str("provider_code", normalizeCode(pe.Message)).
			Str("reason", reason.String()).
			Msg("identity provider rejected request")
		return Failure(reason)
	case err != nil:
		logger.Error().Err(err).Str("op", op).Msg("server auth error")
		return Failure(ReasonServerError)
	}

	if resp.LocalID == "" || resp.IDToken == "" {
		logger.Error().Str("op", op).Msg("server auth error: response missing localId or idToken")
		return Failure(ReasonServerError)
	}
	if resp.expiresInSeconds() == 0 {
		logger.Error().Str("op", op).Str("expires_in", resp.ExpiresIn).Msg("server auth error: response has no usable expiresIn")
		return Failure(ReasonServerError)
	}

	return Success(Identity{SubjectID: resp.LocalID, Email: resp.Email}, resp.token(c.nowTime()))
}

// providerError is a non-2xx provider response with a decodable error body.
type providerError struct {
	Status  int
	Code    int
	Message string
}

func (e *providerError) Error() string {
	return fmt.Sprintf("provider status %d: %s", e.Status, e.Message)
}

func (e *providerError) Unwrap() error {
	return errs.ErrProviderStatus
}

// post sends body as JSON to endpoint and decodes a 2xx response into out.
func (c *Client) post(ctx context.Context, endpoint string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errs.Wrapf(err, "[identity post] marshal %s", endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(endpoint), bytes.NewReader(payload))
	if err != nil {
		return errs.Wrapf(err, "[identity post] build %s", endpoint)
	}
	req.Header.Set("Content-Type", "application/json")
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("[identity post] %s: %w: %v", endpoint, errs.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("[identity post] read %s: %w: %v", endpoint, errs.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		if err := json.Unmarshal(data, &eb); err != nil {
			return fmt.Errorf("[identity post] %s status %d: %w", endpoint, resp.StatusCode, errs.ErrMalformedResponse)
		}
		return &providerError{Status: resp.StatusCode, Code: eb.Error.Code, Message: eb.Error.Message}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("[identity post] decode %s: %w: %v", endpoint, errs.ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) endpointURL(endpoint string) string {
	return c.baseURL + endpoint + "?" + url.Values{"key": {c.apiKey}}.Encode()
}

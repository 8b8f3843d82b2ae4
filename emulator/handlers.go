package emulator

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-session-gateway/emulator/accounts"
	errs "github.com/jrsteele09/go-session-gateway/internal/errors"
	"github.com/rs/zerolog/log"
)

// Provider error messages. Some carry a " : detail" suffix, as the hosted
// provider does.
const (
	msgAPIKeyInvalid      = "API key not valid. Please pass a valid API key."
	msgInvalidEmail       = "INVALID_EMAIL"
	msgMissingPassword    = "MISSING_PASSWORD"
	msgWeakPassword       = "WEAK_PASSWORD : Password should be at least 6 characters"
	msgEmailExists        = "EMAIL_EXISTS"
	msgEmailNotFound      = "EMAIL_NOT_FOUND"
	msgInvalidPassword    = "INVALID_PASSWORD"
	msgInvalidCredentials = "INVALID_LOGIN_CREDENTIALS"
	msgUserDisabled       = "USER_DISABLED"
	msgTooManyAttempts    = "TOO_MANY_ATTEMPTS_TRY_LATER : Access to this account has been temporarily disabled due to many failed login attempts. You can try again later."
	msgInvalidIDToken     = "INVALID_ID_TOKEN"
	msgUserNotFound       = "USER_NOT_FOUND"
	msgInternal           = "INTERNAL_ERROR"
)

const maxRequestBytes = 1 << 20

func (e *Emulator) initRoutes() {
	e.registerRouteFunc("POST /v1/accounts:signUp", e.requireAPIKey(e.signUpHandler))
	e.registerRouteFunc("POST /v1/accounts:signInWithPassword", e.requireAPIKey(e.signInHandler))
	e.registerRouteFunc("POST /v1/accounts:lookup", e.requireAPIKey(e.lookupHandler))
	e.registerRouteFunc("GET /jwks.json", e.jwksHandler)
	e.registerRouteFunc("GET /.well-known/openid-configuration", e.discoveryHandler)
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type lookupRequest struct {
	IDToken string `json:"idToken"`
}

type authResponse struct {
	Kind         string `json:"kind"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	Registered   bool   `json:"registered,omitempty"`
}

type lookupUser struct {
	LocalID       string `json:"localId"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	Disabled      bool   `json:"disabled,omitempty"`
	CreatedAt     string `json:"createdAt"`
	LastLoginAt   string `json:"lastLoginAt,omitempty"`
}

type lookupResponse struct {
	Kind  string       `json:"kind"`
	Users []lookupUser `json:"users"`
}

type errorDetail struct {
	Message string `json:"message"`
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
}

type errorResponse struct {
	Error struct {
		Code    int           `json:"code"`
		Message string        `json:"message"`
		Errors  []errorDetail `json:"errors"`
	} `json:"error"`
}

func (e *Emulator) requireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != e.opts.APIKey {
			writeError(w, http.StatusBadRequest, msgAPIKeyInvalid)
			return
		}
		next(w, r)
	}
}

func (e *Emulator) signUpHandler(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if accounts.ValidateEmail(req.Email) != nil {
		writeError(w, http.StatusBadRequest, msgInvalidEmail)
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, msgMissingPassword)
		return
	}
	if accounts.ValidatePasswordStrength(req.Password) != nil {
		writeError(w, http.StatusBadRequest, msgWeakPassword)
		return
	}

	hash, err := accounts.HashPassword(req.Password)
	if err != nil {
		log.Err(err).Msg("emulator: hash password")
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	now := e.opts.Now()
	account := accounts.Account{
		LocalID:      newLocalID(),
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		LastLoginAt:  now,
	}
	if err := e.accounts.Create(account); err != nil {
		if errs.Is(err, errs.ErrAccountExists) {
			writeError(w, http.StatusBadRequest, msgEmailExists)
			return
		}
		log.Err(err).Msg("emulator: create account")
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	account.Email = accounts.NormalizeEmail(account.Email)

	e.writeTokens(w, "identitytoolkit#SignupNewUserResponse", account, false)
}

func (e *Emulator) signInHandler(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if accounts.ValidateEmail(req.Email) != nil {
		writeError(w, http.StatusBadRequest, msgInvalidEmail)
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, msgMissingPassword)
		return
	}

	account, err := e.accounts.GetByEmail(req.Email)
	if err != nil {
		if errs.Is(err, errs.ErrAccountNotFound) {
			writeError(w, http.StatusBadRequest, e.credentialsMessage(msgEmailNotFound))
			return
		}
		log.Err(err).Msg("emulator: get account")
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if account.Disabled {
		writeError(w, http.StatusBadRequest, msgUserDisabled)
		return
	}

	now := e.opts.Now()
	lim := e.limiter(account.Email)
	if lim.TokensAt(now) < 1 {
		writeError(w, http.StatusBadRequest, msgTooManyAttempts)
		return
	}
	if !account.CheckPassword(req.Password) {
		lim.AllowN(now, 1)
		writeError(w, http.StatusBadRequest, e.credentialsMessage(msgInvalidPassword))
		return
	}

	account.LastLoginAt = now
	if err := e.accounts.Upsert(account); err != nil {
		log.Err(err).Msg("emulator: record login")
	}
	e.writeTokens(w, "identitytoolkit#VerifyPasswordResponse", account, true)
}

func (e *Emulator) lookupHandler(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	localID, err := e.parseIDToken(req.IDToken)
	if err != nil {
		log.Debug().Err(err).Msg("emulator: lookup rejected token")
		writeError(w, http.StatusBadRequest, msgInvalidIDToken)
		return
	}
	account, err := e.accounts.GetByID(localID)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgUserNotFound)
		return
	}

	user := lookupUser{
		LocalID:       account.LocalID,
		Email:         account.Email,
		EmailVerified: account.EmailVerified,
		Disabled:      account.Disabled,
		CreatedAt:     strconv.FormatInt(account.CreatedAt.UnixMilli(), 10),
	}
	if !account.LastLoginAt.IsZero() {
		user.LastLoginAt = strconv.FormatInt(account.LastLoginAt.UnixMilli(), 10)
	}
	writeJSON(w, http.StatusOK, lookupResponse{
		Kind:  "identitytoolkit#GetAccountInfoResponse",
		Users: []lookupUser{user},
	})
}

func (e *Emulator) jwksHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, e.keys.JWKS())
}

// discoveryHandler serves the minimal OpenID metadata needed by verifiers that
// discover the key set from the issuer.
func (e *Emulator) discoveryHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"issuer":                                e.opts.Issuer,
		"jwks_uri":                              requestBaseURL(r) + "/jwks.json",
		"id_token_signing_alg_values_supported": []string{e.keys.Algorithm},
		"subject_types_supported":               []string{"public"},
		"response_types_supported":              []string{"id_token"},
	})
}

func (e *Emulator) writeTokens(w http.ResponseWriter, kind string, account accounts.Account, registered bool) {
	tokens, err := e.issueTokens(account)
	if err != nil {
		log.Err(err).Msg("emulator: issue tokens")
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		Kind:         kind,
		LocalID:      account.LocalID,
		Email:        account.Email,
		IDToken:      tokens.IDToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		Registered:   registered,
	})
}

// credentialsMessage hides which half of the credential was wrong when
// enumeration protection is on.
func (e *Emulator) credentialsMessage(msg string) string {
	if e.opts.EnumerationProtection {
		return msgInvalidCredentials
	}
	return msg
}

func decodeRequest(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON")
		return false
	}
	return true
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func writeError(w http.ResponseWriter, status int, message string) {
	var body errorResponse
	body.Error.Code = status
	body.Error.Message = message
	body.Error.Errors = []errorDetail{{Message: message, Domain: "global", Reason: "invalid"}}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("emulator: write response")
	}
}

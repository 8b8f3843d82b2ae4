package emulator

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-session-gateway/emulator/accounts"
	errs "github.com/jrsteele09/go-session-gateway/internal/errors"
)

// idTokenClaims mirrors the claims of a provider-issued ID token.
type idTokenClaims struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	AuthTime      int64  `json:"auth_time"`
	jwt.RegisteredClaims
}

// issuedTokens is what sign-in and sign-up hand back to the caller.
type issuedTokens struct {
	IDToken      string
	RefreshToken string
	ExpiresIn    string
}

func (e *Emulator) issueTokens(account accounts.Account) (issuedTokens, error) {
	now := e.opts.Now()
	claims := idTokenClaims{
		UserID:        account.LocalID,
		Email:         account.Email,
		EmailVerified: account.EmailVerified,
		AuthTime:      now.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    e.opts.Issuer,
			Subject:   account.LocalID,
			Audience:  jwt.ClaimStrings{e.opts.ProjectID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(e.opts.TokenTTL)),
		},
	}

	signed, err := e.keys.Sign(claims)
	if err != nil {
		return issuedTokens{}, errs.Wrapf(err, "[emulator issueTokens]")
	}
	return issuedTokens{
		IDToken:      signed,
		RefreshToken: newRefreshToken(),
		ExpiresIn:    strconv.FormatInt(int64(e.opts.TokenTTL/time.Second), 10),
	}, nil
}

// parseIDToken verifies signature, issuer, audience and expiry and returns the
// subject.
func (e *Emulator) parseIDToken(raw string) (string, error) {
	claims := &idTokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, e.keys.GetVerificationKey,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(e.opts.Issuer),
		jwt.WithAudience(e.opts.ProjectID),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(e.opts.Now),
	)
	if err != nil {
		return "", errs.Wrapf(errs.ErrInvalidToken, "[emulator parseIDToken] %v", err)
	}
	if claims.Subject == "" {
		return "", errs.Wrapf(errs.ErrInvalidToken, "[emulator parseIDToken] missing subject")
	}
	return claims.Subject, nil
}

package config

import (
	"strings"
	"time"
)

const secureTokenIssuerPrefix = "https://securetoken.google.com/"

type IdentityConfig interface {
	GetAPIKey() string
	GetIdentityBaseURL() string
	GetIdentityTimeout() time.Duration
	GetProjectID() string
	GetIDTokenIssuer() string
	GetIDTokenJWKSURL() string
}

var _ IdentityConfig = EnvVars{}

func (e EnvVars) GetAPIKey() string {
	return e.APIKey
}

func (e EnvVars) GetIdentityBaseURL() string {
	return strings.TrimRight(e.IdentityBaseURL, "/")
}

func (e EnvVars) GetIdentityTimeout() time.Duration {
	if e.IdentityTimeout <= 0 {
		return 10 * time.Second
	}
	return e.IdentityTimeout
}

// GetProjectID returns the provider project. When empty the local ID token
// pre-check is disabled.
func (e EnvVars) GetProjectID() string {
	return e.ProjectID
}

func (e EnvVars) GetIDTokenIssuer() string {
	if e.IDTokenIssuer != "" {
		return e.IDTokenIssuer
	}
	if e.ProjectID == "" {
		return ""
	}
	return secureTokenIssuerPrefix + e.ProjectID
}

func (e EnvVars) GetIDTokenJWKSURL() string {
	return e.IDTokenJWKSURL
}

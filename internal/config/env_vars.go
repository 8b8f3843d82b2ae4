package config

import (
	"fmt"
	"strings"
	"time"
)

// EnvVars is populated by envconfig. Field tags name the environment variables.
type EnvVars struct {
	Port          string `envconfig:"PORT" default:"8080"`
	AppName       string `envconfig:"APP_NAME" default:"Session Gateway"`
	Env           string `envconfig:"ENV" default:"DEV"`
	DefaultLocale string `envconfig:"DEFAULT_LOCALE" default:"ko"`

	APIKey          string        `envconfig:"IDENTITY_API_KEY" required:"true"`
	IdentityBaseURL string        `envconfig:"IDENTITY_BASE_URL" default:"https://identitytoolkit.googleapis.com/v1"`
	IdentityTimeout time.Duration `envconfig:"IDENTITY_TIMEOUT" default:"10s"`
	ProjectID       string        `envconfig:"PROJECT_ID"`
	IDTokenIssuer   string        `envconfig:"ID_TOKEN_ISSUER"`
	IDTokenJWKSURL  string        `envconfig:"ID_TOKEN_JWKS_URL" default:"https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "8080"
	}
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return strings.ToUpper(e.Env)
}

// IsProduction reports whether cookies must carry the Secure attribute.
func (e EnvVars) IsProduction() bool {
	switch e.GetEnv() {
	case "PROD", "PRODUCTION":
		return true
	}
	return false
}

func (e EnvVars) GetDefaultLocale() string {
	return e.DefaultLocale
}

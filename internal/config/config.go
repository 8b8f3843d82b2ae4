package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config interface {
	EnvConfig
	IdentityConfig
	SessionConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsProduction() bool
	GetDefaultLocale() string
}

type mainConfig struct {
	EnvVars
}

// New loads the configuration from the process environment. A .env file in the
// working directory is read first when present; real environment values win.
func New() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv loads the configuration from the process environment only.
func FromEnv() (Config, error) {
	var vars EnvVars
	if err := envconfig.Process("", &vars); err != nil {
		return nil, fmt.Errorf("[config New] %w", err)
	}
	if strings.TrimSpace(vars.APIKey) == "" {
		return nil, fmt.Errorf("[config New] required key IDENTITY_API_KEY has no value")
	}
	return mainConfig{EnvVars: vars}, nil
}

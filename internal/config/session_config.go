package config

import "time"

type SessionConfig interface {
	GetSecureCookies() bool
	GetRefreshTokenMaxAge() time.Duration
}

var _ SessionConfig = EnvVars{}

func (e EnvVars) GetSecureCookies() bool {
	return e.IsProduction()
}

func (EnvVars) GetRefreshTokenMaxAge() time.Duration {
	return 30 * 24 * time.Hour // 30 days
}

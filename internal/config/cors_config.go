package config

import "strings"

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

var _ CorsConfig = EnvVars{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

func (e EnvVars) GetAllowedOrigins() AllowedOrigins {
	origins := AllowedOrigins{}
	for _, o := range e.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = nullValue{}
		}
	}
	return origins
}

func (EnvVars) GetAllowedMethods() string {
	return "GET, POST"
}

func (EnvVars) GetAllowedHeaders() string {
	return "Content-Type, X-Request-ID"
}

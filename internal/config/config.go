package config

type Config interface {
	EnvConfig
	BackendConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

// BackendConfig selects and configures the backend-as-a-service boundary.
// A missing URL or key must not prevent startup; the unconfigured stub is
// selected instead and every call returns a typed not-configured error.
type BackendConfig interface {
	GetBackendDriver() string
	GetBackendURL() string
	GetBackendAnonKey() string
	GetSQLitePath() string
	GetSessionTTLHours() int
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}

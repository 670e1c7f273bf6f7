package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	portEnvVar       = "PORT"
	appNameVar       = "APP_NAME"
	backendDriverVar = "BACKEND_DRIVER"
	backendURLVar    = "BACKEND_URL"
	backendKeyVar    = "BACKEND_ANON_KEY"
	sqlitePathVar    = "SQLITE_PATH"
	sessionTTLVar    = "SESSION_TTL_HOURS"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}
var _ BackendConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Connect Dashboard")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetBackendDriver returns "rest", "sqlite" or "" (unconfigured).
// When unset, the driver is inferred: rest if a URL and key are present,
// sqlite if a database path is present, otherwise unconfigured.
func (e EnvVars) GetBackendDriver() string {
	driver := GetEnv(backendDriverVar, "")
	if driver != "" {
		return driver
	}
	if e.GetBackendURL() != "" && e.GetBackendAnonKey() != "" {
		return "rest"
	}
	if e.GetSQLitePath() != "" {
		return "sqlite"
	}
	return ""
}

func (EnvVars) GetBackendURL() string {
	return GetEnv(backendURLVar, "")
}

func (EnvVars) GetBackendAnonKey() string {
	return GetEnv(backendKeyVar, "")
}

func (EnvVars) GetSQLitePath() string {
	return GetEnv(sqlitePathVar, "")
}

func (EnvVars) GetSessionTTLHours() int {
	hours, err := strconv.Atoi(GetEnv(sessionTTLVar, "24"))
	if err != nil || hours <= 0 {
		return 24
	}
	return hours
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

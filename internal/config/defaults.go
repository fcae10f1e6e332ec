// Package config provides centralized configuration constants for DBAtlas.
// All default values should be defined here to ensure a single source of truth.
package config

import "github.com/spf13/viper"

const (
	// ConfigName is the config file name without extension
	ConfigName = ".dbatlas"

	// EnvPrefix prefixes environment overrides, e.g. DBATLAS_SERVER_PORT
	EnvPrefix = "DBATLAS"
)

// Storage defaults
const (
	DefaultBackend = "sqlite"
)

// Server defaults
const (
	DefaultPort                = 8080
	DefaultReadTimeoutSeconds  = 15
	DefaultWriteTimeoutSeconds = 15
	DefaultSessionTTLMinutes   = 60
)

// DefaultAllowedOrigins are the browser origins the API answers by default.
var DefaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// Logging defaults
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Defaults returns every default keyed by its config path.
func Defaults() map[string]any {
	return map[string]any{
		"storage.backend":            DefaultBackend,
		"storage.path":               "",
		"server.port":                DefaultPort,
		"server.allowedOrigins":      DefaultAllowedOrigins,
		"server.readTimeoutSeconds":  DefaultReadTimeoutSeconds,
		"server.writeTimeoutSeconds": DefaultWriteTimeoutSeconds,
		"server.sessionTtlMinutes":   DefaultSessionTTLMinutes,
		"consultant.rulesFile":       "",
		"log.level":                  DefaultLogLevel,
		"log.format":                 DefaultLogFormat,
	}
}

// ApplyDefaults registers Defaults with v.
func ApplyDefaults(v *viper.Viper) {
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}
}

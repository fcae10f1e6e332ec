/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose    bool             `mapstructure:"verbose"`
	Config     string           `mapstructure:"config"`
	Storage    StorageConfig    `mapstructure:"storage" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Consultant ConsultantConfig `mapstructure:"consultant"`
	Log        LogConfig        `mapstructure:"log" validate:"required"`
}

// StorageConfig selects the entry store backend
type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=memory sqlite bolt file"`
	// Path is the data directory; empty means the resolved default location
	Path string `mapstructure:"path"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	AllowedOrigins []string `mapstructure:"allowedOrigins" validate:"dive,url"`
	// ReadTimeoutSeconds and WriteTimeoutSeconds bound a single request
	ReadTimeoutSeconds  int `mapstructure:"readTimeoutSeconds" validate:"omitempty,min=1,max=300"`
	WriteTimeoutSeconds int `mapstructure:"writeTimeoutSeconds" validate:"omitempty,min=1,max=300"`
	// SessionTTLMinutes is how long an idle consultation is kept
	SessionTTLMinutes int `mapstructure:"sessionTtlMinutes" validate:"omitempty,min=1"`
}

// ConsultantConfig holds recommendation settings
type ConsultantConfig struct {
	// RulesFile overrides the built-in scoring rules
	RulesFile string `mapstructure:"rulesFile" validate:"omitempty,file"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

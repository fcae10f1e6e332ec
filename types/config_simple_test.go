package types

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func validConfig() AppConfig {
	return AppConfig{
		Storage: StorageConfig{Backend: "sqlite", Path: "/tmp/dbatlas"},
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

func TestAppConfig_Validation(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid", func(*AppConfig) {}, false},
		{"unknown backend", func(c *AppConfig) { c.Storage.Backend = "redis" }, true},
		{"missing backend", func(c *AppConfig) { c.Storage.Backend = "" }, true},
		{"port out of range", func(c *AppConfig) { c.Server.Port = 70000 }, true},
		{"bad origin", func(c *AppConfig) { c.Server.AllowedOrigins = []string{"not a url"} }, true},
		{"no origins", func(c *AppConfig) { c.Server.AllowedOrigins = nil }, false},
		{"unknown log level", func(c *AppConfig) { c.Log.Level = "trace" }, true},
		{"json logs", func(c *AppConfig) { c.Log.Format = "json" }, false},
		{"missing rules file", func(c *AppConfig) { c.Consultant.RulesFile = "/does/not/exist.yaml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := v.Struct(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

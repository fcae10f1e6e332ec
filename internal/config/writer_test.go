package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestWriteDefaultConfig(t *testing.T) {
	path := ProjectConfigPath(t.TempDir())

	if err := WriteDefaultConfig(path, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	if got := v.GetString("storage.backend"); got != DefaultBackend {
		t.Errorf("expected backend %q, got %q", DefaultBackend, got)
	}
	if got := v.GetInt("server.port"); got != DefaultPort {
		t.Errorf("expected port %d, got %d", DefaultPort, got)
	}
	if got := v.GetStringSlice("server.allowedOrigins"); len(got) != len(DefaultAllowedOrigins) {
		t.Errorf("expected %d origins, got %v", len(DefaultAllowedOrigins), got)
	}
}

func TestWriteDefaultConfig_Exists(t *testing.T) {
	path := ProjectConfigPath(t.TempDir())
	if err := WriteDefaultConfig(path, false); err != nil {
		t.Fatal(err)
	}

	err := WriteDefaultConfig(path, false)
	if !errors.Is(err, ErrConfigExists) {
		t.Fatalf("expected ErrConfigExists, got %v", err)
	}
	if err := WriteDefaultConfig(path, true); err != nil {
		t.Fatalf("force should overwrite: %v", err)
	}
}

func TestSetValue_PreservesOtherKeys(t *testing.T) {
	path := ProjectConfigPath(t.TempDir())
	if err := WriteDefaultConfig(path, false); err != nil {
		t.Fatal(err)
	}

	if err := SetValue(path, "storage.backend", "bolt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	if got := v.GetString("storage.backend"); got != "bolt" {
		t.Errorf("expected bolt, got %q", got)
	}
	if got := v.GetString("log.level"); got != DefaultLogLevel {
		t.Errorf("expected log level preserved, got %q", got)
	}
}

func TestSetValue_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := SetValue(path, "log.format", "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "json") {
		t.Errorf("expected json in written file, got:\n%s", data)
	}
}

func TestSetValue_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	err := SetValue(path, "llm.apiKey", "secret")
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("config file should not be created for unknown keys")
	}
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("keys not sorted: %v", keys)
		}
	}
}

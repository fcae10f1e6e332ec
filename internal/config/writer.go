package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/viper"
)

// ErrConfigExists is returned when init would overwrite an existing file.
var ErrConfigExists = errors.New("config file already exists")

// ErrUnknownKey is returned when setting a key DBAtlas does not read.
var ErrUnknownKey = errors.New("unknown config key")

// ProjectConfigPath returns the project config file location inside dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ".dbatlas", ConfigName+".yaml")
}

// Keys lists every settable config key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(Defaults()))
	for k := range Defaults() {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// WriteDefaultConfig writes a config file holding every default to path.
func WriteDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	for key, value := range Defaults() {
		v.Set(key, value)
	}
	return v.WriteConfigAs(path)
}

// SetValue updates one key in the config file at path, creating the file if
// needed and preserving other settings.
func SetValue(path, key string, value any) error {
	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v.Set(key, value)
	return v.WriteConfigAs(path)
}

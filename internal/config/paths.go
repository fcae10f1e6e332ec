package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetGlobalConfigDir returns the path to the global configuration directory (~/.dbatlas).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".dbatlas"), nil
}

// LocalDataDir is the per-project data directory checked before global locations.
const LocalDataDir = ".dbatlas/data"

// GetDataPath returns the directory the entry store lives in.
// Resolution order (first match wins):
// 1. Explicit config via "storage.path" (Viper/env/flag)
// 2. Local project directory: .dbatlas/data (if exists)
// 3. XDG_DATA_HOME/dbatlas (if XDG_DATA_HOME is set)
// 4. Global fallback: ~/.dbatlas/data
func GetDataPath() string {
	if path := viper.GetString("storage.path"); path != "" {
		return path
	}

	if info, err := os.Stat(LocalDataDir); err == nil && info.IsDir() {
		return LocalDataDir
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "dbatlas")
	}

	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(dir, "data")
}

// GetCrashLogDir returns where panic reports are written.
func GetCrashLogDir() string {
	return filepath.Join(GetDataPath(), "logs")
}

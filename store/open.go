package store

import (
	"fmt"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendFile   = "file"
)

// Open returns the Store for the named backend rooted at basePath.
func Open(backend, basePath string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite, "":
		return NewSQLiteStore(basePath)
	case BackendBolt:
		return NewBoltStore(basePath)
	case BackendFile:
		return NewFileStore(filepath.Join(basePath, "entries"))
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s. Supported backends are memory, sqlite, bolt, file", backend)
	}
}

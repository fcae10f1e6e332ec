package store

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound is returned by Read when no value exists under the key.
var ErrNotFound = errors.New("key not found")

// Store is the flat key to text persistence port used by the catalog and
// identity services. Keys are slash separated paths such as
// "database/postgresql/postgresql.md".
//
// Writes are last-write-wins overwrites. There are no transactions, so a
// read-modify-write performed by two callers at once can lose one update.
type Store interface {
	// Write stores text under key, replacing any previous value.
	Write(ctx context.Context, key, text string) error

	// Read returns the value stored under key or ErrNotFound.
	Read(ctx context.Context, key string) (string, error)

	// List returns every key that starts with prefix, sorted ascending.
	// An empty prefix lists the whole store.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a value is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases any resources held by the backend.
	Close() error
}

const (
	// EntryCollection is the key prefix under which catalog entries live.
	EntryCollection = "database"
	// SettingsCollection holds per-installation settings such as the
	// current username.
	SettingsCollection = "settings"
)

// EntryKey returns the key of the catalog entry with the given slug.
func EntryKey(slug string) string {
	return path.Join(EntryCollection, slug, slug+".md")
}

// SlugFromKey extracts the slug from an entry key. It returns false for
// keys that do not follow the "<collection>/<slug>/<slug>.md" layout.
func SlugFromKey(key string) (string, bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[0] != EntryCollection {
		return "", false
	}
	if parts[2] != parts[1]+".md" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// SettingKey returns the key of a named setting.
func SettingKey(name string) string {
	return path.Join(SettingsCollection, name)
}

// ErrInvalidKey is returned by Write for keys that are empty, absolute,
// contain a backslash or have an empty, "." or ".." path segment.
var ErrInvalidKey = errors.New("invalid key")

// validKey checks key segment by segment, so "v1..2" is a valid slug.
// Read, Exists and Delete treat an invalid key as absent on every backend.
func validKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if strings.Contains(key, `\`) {
		return fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
	for _, seg := range strings.Split(key, "/") {
		switch seg {
		case "", ".", "..":
			return fmt.Errorf("%w: %s", ErrInvalidKey, key)
		}
	}
	return nil
}

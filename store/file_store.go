package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

const lockFileName = ".atlas.lock"

// FileStore maps every key to a file below a root directory, so entries
// end up as plain Markdown files a person can read and edit. Writes go
// through a temp file and rename. When the filesystem is the real OS one,
// a flock on root/.atlas.lock serialises writers across processes.
type FileStore struct {
	fs   afero.Fs
	root string
	mu   sync.Mutex
	flk  *flock.Flock
}

// NewFileStore returns a FileStore rooted at root on the OS filesystem.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", root, err)
	}
	s := NewFileStoreFs(afero.NewOsFs(), root)
	s.flk = flock.New(filepath.Join(root, lockFileName))
	return s, nil
}

// NewFileStoreFs returns a FileStore on an arbitrary afero filesystem.
// No cross-process lock is taken.
func NewFileStoreFs(fsys afero.Fs, root string) *FileStore {
	return &FileStore{fs: fsys, root: root}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *FileStore) lock() (func(), error) {
	s.mu.Lock()
	if s.flk == nil {
		return s.mu.Unlock, nil
	}
	if err := s.flk.Lock(); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to acquire lock %s: %w", s.flk.Path(), err)
	}
	return func() {
		_ = s.flk.Unlock()
		s.mu.Unlock()
	}, nil
}

func (s *FileStore) Write(_ context.Context, key, text string) error {
	if err := validKey(key); err != nil {
		return err
	}
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	p := s.path(key)
	if err := s.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", key, err)
	}
	tmp := p + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Read(_ context.Context, key string) (string, error) {
	if validKey(key) != nil {
		return "", ErrNotFound
	}
	data, err := afero.ReadFile(s.fs, s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), nil
}

func (s *FileStore) List(_ context.Context, prefix string) ([]string, error) {
	keys := []string{}
	err := afero.Walk(s.fs, s.root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if key == lockFileName || strings.HasSuffix(key, ".tmp") {
			return nil
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	if validKey(key) != nil {
		return nil
	}
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	p := s.path(key)
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	// drop the per-entry directory once it is empty
	dir := filepath.Dir(p)
	if dir != s.root {
		if entries, err := afero.ReadDir(s.fs, dir); err == nil && len(entries) == 0 {
			_ = s.fs.Remove(dir)
		}
	}
	return nil
}

func (s *FileStore) Exists(_ context.Context, key string) (bool, error) {
	if validKey(key) != nil {
		return false, nil
	}
	return afero.Exists(s.fs, s.path(key))
}

func (s *FileStore) Close() error {
	if s.flk != nil {
		return s.flk.Close()
	}
	return nil
}

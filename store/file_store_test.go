package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns one fresh instance of every Store implementation.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)

	bolt, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)

	osFile, err := NewFileStore(filepath.Join(t.TempDir(), "entries"))
	require.NoError(t, err)

	all := map[string]Store{
		"memory":  NewMemoryStore(),
		"sqlite":  sqlite,
		"bolt":    bolt,
		"file":    osFile,
		"memfile": NewFileStoreFs(afero.NewMemMapFs(), "/data"),
	}
	t.Cleanup(func() {
		for _, s := range all {
			_ = s.Close()
		}
	})
	return all
}

func TestStore_Conformance(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Read(ctx, EntryKey("redis"))
			assert.ErrorIs(t, err, ErrNotFound)

			ok, err := s.Exists(ctx, EntryKey("redis"))
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Write(ctx, EntryKey("redis"), "first"))
			require.NoError(t, s.Write(ctx, EntryKey("mongodb"), "doc"))
			require.NoError(t, s.Write(ctx, SettingKey("github_username"), "octocat"))
			require.NoError(t, s.Write(ctx, EntryKey("redis"), "second"))

			got, err := s.Read(ctx, EntryKey("redis"))
			require.NoError(t, err)
			assert.Equal(t, "second", got, "last write wins")

			keys, err := s.List(ctx, EntryCollection+"/")
			require.NoError(t, err)
			assert.Equal(t, []string{"database/mongodb/mongodb.md", "database/redis/redis.md"}, keys)

			all, err := s.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 3)

			require.NoError(t, s.Delete(ctx, EntryKey("redis")))
			require.NoError(t, s.Delete(ctx, EntryKey("redis")), "deleting a missing key is not an error")

			ok, err = s.Exists(ctx, EntryKey("redis"))
			require.NoError(t, err)
			assert.False(t, ok)

			keys, err = s.List(ctx, EntryCollection+"/")
			require.NoError(t, err)
			assert.Equal(t, []string{"database/mongodb/mongodb.md"}, keys)
		})
	}
}

func TestStore_ListPrefixIsLiteral(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Write(ctx, "a_b/x", "1"))
			require.NoError(t, s.Write(ctx, "axb/y", "2"))

			keys, err := s.List(ctx, "a_b/")
			require.NoError(t, err)
			assert.Equal(t, []string{"a_b/x"}, keys)
		})
	}
}

func TestStore_RejectsInvalidKeys(t *testing.T) {
	ctx := context.Background()
	invalid := []string{"", "../escape", "/absolute", "database/../x", "a/./b", "a//b", "trailing/", `win\path`}

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range invalid {
				assert.ErrorIs(t, s.Write(ctx, key, "x"), ErrInvalidKey, key)

				_, err := s.Read(ctx, key)
				assert.ErrorIs(t, err, ErrNotFound, key)

				ok, err := s.Exists(ctx, key)
				assert.NoError(t, err, key)
				assert.False(t, ok, key)

				assert.NoError(t, s.Delete(ctx, key), key)
			}
		})
	}
}

func TestStore_DotsInsideSegment(t *testing.T) {
	ctx := context.Background()
	key := EntryKey("v1..2")

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Read(ctx, key)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Write(ctx, key, "dotted"))
			got, err := s.Read(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, "dotted", got)

			ok, err := s.Exists(ctx, key)
			require.NoError(t, err)
			assert.True(t, ok)

			require.NoError(t, s.Delete(ctx, key))
			_, err = s.Read(ctx, key)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					assert.NoError(t, s.Write(ctx, "settings/shared", "value"))
				}()
			}
			wg.Wait()

			got, err := s.Read(ctx, "settings/shared")
			require.NoError(t, err)
			assert.Equal(t, "value", got)
		})
	}
}

func TestEntryKey(t *testing.T) {
	assert.Equal(t, "database/postgresql/postgresql.md", EntryKey("postgresql"))

	slug, ok := SlugFromKey("database/postgresql/postgresql.md")
	assert.True(t, ok)
	assert.Equal(t, "postgresql", slug)

	for _, bad := range []string{"database/postgresql/other.md", "settings/github_username", "database//.md", "database/a/b/a.md"} {
		_, ok := SlugFromKey(bad)
		assert.False(t, ok, bad)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	for _, backend := range []string{BackendMemory, BackendSQLite, BackendBolt, BackendFile} {
		s, err := Open(backend, filepath.Join(dir, backend))
		require.NoError(t, err, backend)
		require.NoError(t, s.Close())
	}

	_, err := Open("redis", dir)
	assert.Error(t, err)
}

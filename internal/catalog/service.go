// Package catalog is the database directory: CRUD over catalog entries,
// search and listings, user ratings and comments, seeding and export.
// Entries are persisted as Markdown documents in a store.Store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/josephgoksu/DBAtlas/internal/entrycodec"
	"github.com/josephgoksu/DBAtlas/models"
	"github.com/josephgoksu/DBAtlas/store"
)

var (
	// ErrNotFound is returned when no entry exists for a slug.
	ErrNotFound = errors.New("database not found")
	// ErrAlreadyExists is returned by Add when the slug is taken.
	ErrAlreadyExists = errors.New("database already exists")
	// ErrUsernameRequired is returned by every interaction made without a
	// current username. Nothing is written in that case.
	ErrUsernameRequired = errors.New("GitHub username required")
	// ErrForbidden is returned when a user modifies another user's comment.
	ErrForbidden = errors.New("not allowed")
	// ErrCommentNotFound is returned when a comment id is unknown.
	ErrCommentNotFound = errors.New("comment not found")
)

// DefaultLimit is the size of the home page listings.
const DefaultLimit = 3

// Service is the catalog facade. It holds no state besides its store, so
// one instance can be shared by the HTTP server, the CLI and MCP tools.
type Service struct {
	store store.Store
	now   func() time.Time
}

// NewService returns a Service persisting to s.
func NewService(s store.Store) *Service {
	return &Service{store: s, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source. Tests use it for stable timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) load(ctx context.Context, slug string) (models.Entry, error) {
	text, err := s.store.Read(ctx, store.EntryKey(slug))
	if errors.Is(err, store.ErrNotFound) {
		return models.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	if err != nil {
		return models.Entry{}, fmt.Errorf("read entry %s: %w", slug, err)
	}
	e, err := entrycodec.Decode(text)
	if err != nil {
		return models.Entry{}, fmt.Errorf("decode entry %s: %w", slug, err)
	}
	return e, nil
}

func (s *Service) save(ctx context.Context, e models.Entry) error {
	text, err := entrycodec.Encode(e)
	if err != nil {
		return fmt.Errorf("encode entry %s: %w", e.Slug, err)
	}
	if err := s.store.Write(ctx, store.EntryKey(e.Slug), text); err != nil {
		return fmt.Errorf("write entry %s: %w", e.Slug, err)
	}
	return nil
}

// List returns every decodable entry in slug order. Entries that fail to
// decode are logged and skipped.
func (s *Service) List(ctx context.Context) ([]models.Entry, error) {
	keys, err := s.store.List(ctx, store.EntryCollection+"/")
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	entries := make([]models.Entry, 0, len(keys))
	for _, key := range keys {
		slug, ok := store.SlugFromKey(key)
		if !ok {
			continue
		}
		e, err := s.load(ctx, slug)
		if err != nil {
			slog.Warn("skipping unreadable catalog entry", "key", key, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Databases returns the catalog records without their interactions.
func (s *Service) Databases(ctx context.Context) ([]models.Database, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Database, len(entries))
	for i, e := range entries {
		out[i] = e.Database
	}
	return out, nil
}

// Get returns the entry for slug or ErrNotFound.
func (s *Service) Get(ctx context.Context, slug string) (models.Entry, error) {
	return s.load(ctx, slug)
}

// ByCategory returns the records whose category equals category, ignoring case.
func (s *Service) ByCategory(ctx context.Context, category string) ([]models.Database, error) {
	all, err := s.Databases(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Database
	for _, db := range all {
		if strings.EqualFold(db.Category, category) {
			out = append(out, db)
		}
	}
	return out, nil
}

// CategoryCount is one row of the category index.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Categories returns every category with the number of records in it,
// sorted by name.
func (s *Service) Categories(ctx context.Context) ([]CategoryCount, error) {
	all, err := s.Databases(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, db := range all {
		counts[db.Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, CategoryCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Add validates db, derives its slug and timestamps and stores a new entry.
func (s *Service) Add(ctx context.Context, db models.Database) (models.Entry, error) {
	db.Slug = models.Slugify(db.Name)
	if db.Slug == "" {
		return models.Entry{}, fmt.Errorf("name %q does not produce a slug", db.Name)
	}
	if err := db.Validate(); err != nil {
		return models.Entry{}, err
	}

	exists, err := s.store.Exists(ctx, store.EntryKey(db.Slug))
	if err != nil {
		return models.Entry{}, fmt.Errorf("check entry %s: %w", db.Slug, err)
	}
	if exists {
		return models.Entry{}, fmt.Errorf("%w: %s", ErrAlreadyExists, db.Slug)
	}

	now := s.now()
	db.CreatedAt = now
	db.UpdatedAt = now
	e := models.NewEntry(db)
	e.Ratings = []models.Rating{}
	e.Comments = []models.Comment{}
	if err := s.save(ctx, e); err != nil {
		return models.Entry{}, err
	}
	slog.Info("catalog entry added", "slug", e.Slug)
	return e, nil
}

// Update replaces the record stored under slug with db. The slug, the
// creation time, the technical profile and all ratings and comments are
// kept.
func (s *Service) Update(ctx context.Context, slug string, db models.Database) (models.Entry, error) {
	e, err := s.load(ctx, slug)
	if err != nil {
		return models.Entry{}, err
	}

	db.Slug = e.Slug
	db.CreatedAt = e.CreatedAt
	db.UpdatedAt = s.now()
	if err := db.Validate(); err != nil {
		return models.Entry{}, err
	}
	e.Database = db
	if err := s.save(ctx, e); err != nil {
		return models.Entry{}, err
	}
	return e, nil
}

// Delete removes the entry stored under slug.
func (s *Service) Delete(ctx context.Context, slug string) error {
	key := store.EntryKey(slug)
	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check entry %s: %w", slug, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete entry %s: %w", slug, err)
	}
	slog.Info("catalog entry deleted", "slug", slug)
	return nil
}

// Import stores entries as given. Existing slugs are skipped unless
// overwrite is set. It returns the number of entries written.
func (s *Service) Import(ctx context.Context, entries []models.Entry, overwrite bool) (int, error) {
	written := 0
	for _, e := range entries {
		if e.Slug == "" {
			e.Slug = models.Slugify(e.Name)
		}
		if err := e.Validate(); err != nil {
			return written, fmt.Errorf("import %s: %w", e.Name, err)
		}
		if !overwrite {
			exists, err := s.store.Exists(ctx, store.EntryKey(e.Slug))
			if err != nil {
				return written, fmt.Errorf("check entry %s: %w", e.Slug, err)
			}
			if exists {
				continue
			}
		}
		now := s.now()
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = e.CreatedAt
		}
		if err := s.save(ctx, e); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

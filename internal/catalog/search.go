package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/josephgoksu/DBAtlas/models"
)

// Search returns the records whose name, description, category, type,
// features or use cases contain query, ignoring case. An empty query
// matches everything.
func (s *Service) Search(ctx context.Context, query string) ([]models.Database, error) {
	all, err := s.Databases(ctx)
	if err != nil {
		return nil, err
	}
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return all, nil
	}

	var out []models.Database
	for _, db := range all {
		if matches(db, term) {
			out = append(out, db)
		}
	}
	return out, nil
}

func matches(db models.Database, term string) bool {
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), term) }
	if contains(db.Name) || contains(db.Description) || contains(db.Category) || contains(string(db.Type)) {
		return true
	}
	for _, f := range db.Features {
		if contains(f) {
			return true
		}
	}
	for _, u := range db.UseCases {
		if contains(u) {
			return true
		}
	}
	return false
}

// Newest returns the limit most recently created records.
func (s *Service) Newest(ctx context.Context, limit int) ([]models.Database, error) {
	return s.top(ctx, limit, func(a, b models.Database) bool { return a.CreatedAt.After(b.CreatedAt) })
}

// MostPopular returns the limit records with the highest popularity.
func (s *Service) MostPopular(ctx context.Context, limit int) ([]models.Database, error) {
	return s.top(ctx, limit, func(a, b models.Database) bool { return a.Popularity > b.Popularity })
}

// RecentlyUpdated returns the limit most recently updated records.
func (s *Service) RecentlyUpdated(ctx context.Context, limit int) ([]models.Database, error) {
	return s.top(ctx, limit, func(a, b models.Database) bool { return a.UpdatedAt.After(b.UpdatedAt) })
}

// Highlights groups the three home page listings.
type Highlights struct {
	Newest          []models.Database `json:"newest"`
	MostPopular     []models.Database `json:"mostPopular"`
	RecentlyUpdated []models.Database `json:"recentlyUpdated"`
}

// Highlights returns the newest, most popular and recently updated lists.
func (s *Service) Highlights(ctx context.Context, limit int) (Highlights, error) {
	var h Highlights
	var err error
	if h.Newest, err = s.Newest(ctx, limit); err != nil {
		return h, err
	}
	if h.MostPopular, err = s.MostPopular(ctx, limit); err != nil {
		return h, err
	}
	if h.RecentlyUpdated, err = s.RecentlyUpdated(ctx, limit); err != nil {
		return h, err
	}
	return h, nil
}

func (s *Service) top(ctx context.Context, limit int, less func(a, b models.Database) bool) ([]models.Database, error) {
	all, err := s.Databases(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	sort.SliceStable(all, func(i, j int) bool { return less(all[i], all[j]) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

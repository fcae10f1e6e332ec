package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"

	"github.com/josephgoksu/DBAtlas/models"
	"github.com/josephgoksu/DBAtlas/store"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// SeedEntries returns the built-in catalog.
func SeedEntries() ([]models.Entry, error) {
	return ReadEntries(bytes.NewReader(seedYAML))
}

// ReadEntries decodes a YAML list of entries, filling the technical profile
// defaults the same way Add does.
func ReadEntries(r io.Reader) ([]models.Entry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var entries []models.Entry
	if err := dec.Decode(&entries); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	for i := range entries {
		entries[i] = withDefaults(entries[i])
	}
	return entries, nil
}

func withDefaults(e models.Entry) models.Entry {
	d := models.NewEntry(e.Database)
	e.Slug = d.Slug
	if e.OfficialDescription == "" {
		e.OfficialDescription = d.OfficialDescription
	}
	if e.DataModel == "" {
		e.DataModel = d.DataModel
	}
	if e.DevelopmentStatus == "" {
		e.DevelopmentStatus = d.DevelopmentStatus
	}
	if e.MaintenanceStatus == "" {
		e.MaintenanceStatus = d.MaintenanceStatus
	}
	e.OnPremiseSupport = e.OnPremiseSupport || d.OnPremiseSupport
	if e.Ratings == nil {
		e.Ratings = []models.Rating{}
	}
	if e.Comments == nil {
		e.Comments = []models.Comment{}
	}
	return e
}

// Seed writes the built-in catalog when the store holds no entries yet.
// It returns the number of entries written.
func (s *Service) Seed(ctx context.Context) (int, error) {
	keys, err := s.store.List(ctx, store.EntryCollection+"/")
	if err != nil {
		return 0, fmt.Errorf("list entries: %w", err)
	}
	if len(keys) > 0 {
		return 0, nil
	}

	entries, err := SeedEntries()
	if err != nil {
		return 0, err
	}
	n, err := s.Import(ctx, entries, false)
	if err != nil {
		return n, err
	}
	slog.Info("catalog seeded", "entries", n)
	return n, nil
}

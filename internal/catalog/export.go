package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/josephgoksu/DBAtlas/models"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatXLSX = "xlsx"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ExportFormats lists the formats accepted by Export.
var ExportFormats = []string{FormatJSON, FormatYAML, FormatTOML, FormatXLSX}

// Record is the flattened, interaction-free view of an entry used for
// exports.
type Record struct {
	Name          string    `json:"name" yaml:"name" toml:"name"`
	Slug          string    `json:"slug" yaml:"slug" toml:"slug"`
	Category      string    `json:"category" yaml:"category" toml:"category"`
	Type          string    `json:"type" yaml:"type" toml:"type"`
	License       string    `json:"license" yaml:"license" toml:"license"`
	CloudOffering bool      `json:"cloudOffering" yaml:"cloudOffering" toml:"cloud_offering"`
	SelfHosted    bool      `json:"selfHosted" yaml:"selfHosted" toml:"self_hosted"`
	Popularity    int       `json:"popularity" yaml:"popularity" toml:"popularity"`
	Stars         int       `json:"stars" yaml:"stars" toml:"stars"`
	Features      []string  `json:"features" yaml:"features" toml:"features"`
	UseCases      []string  `json:"useCases" yaml:"useCases" toml:"use_cases"`
	Languages     []string  `json:"languages" yaml:"languages" toml:"languages"`
	WebsiteURL    string    `json:"websiteUrl,omitempty" yaml:"websiteUrl,omitempty" toml:"website_url,omitempty"`
	AverageRating float64   `json:"averageRating" yaml:"averageRating" toml:"average_rating"`
	TotalRatings  int       `json:"totalRatings" yaml:"totalRatings" toml:"total_ratings"`
	Comments      int       `json:"comments" yaml:"comments" toml:"comments"`
	CreatedAt     time.Time `json:"createdAt" yaml:"createdAt" toml:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" yaml:"updatedAt" toml:"updated_at"`
}

// NewRecord flattens e.
func NewRecord(e models.Entry) Record {
	summary := models.Summarize(e.Ratings)
	return Record{
		Name:          e.Name,
		Slug:          e.Slug,
		Category:      e.Category,
		Type:          string(e.Type),
		License:       string(e.License),
		CloudOffering: e.CloudOffering,
		SelfHosted:    e.SelfHosted,
		Popularity:    e.Popularity,
		Stars:         e.Stars,
		Features:      e.Features,
		UseCases:      e.UseCases,
		Languages:     e.Languages,
		WebsiteURL:    e.WebsiteURL,
		AverageRating: summary.Average,
		TotalRatings:  summary.Total,
		Comments:      len(e.Comments),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// Export writes every entry to w in the given format.
func (s *Service) Export(ctx context.Context, w io.Writer, format string) error {
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}
	records := make([]Record, len(entries))
	for i, e := range entries {
		records[i] = NewRecord(e)
	}
	return WriteRecords(w, format, records)
}

// WriteRecords encodes records in format.
func WriteRecords(w io.Writer, format string, records []Record) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(struct {
			Databases []Record `toml:"databases"`
		}{records})
	case FormatXLSX:
		return writeXLSX(w, records)
	default:
		return fmt.Errorf("%w %q (supported: %s)", ErrUnsupportedFormat, format, strings.Join(ExportFormats, ", "))
	}
}

var xlsxHeaders = []any{
	"Name", "Slug", "Category", "Type", "License", "Cloud", "Self Hosted",
	"Popularity", "Stars", "Features", "Use Cases", "Languages",
	"Average Rating", "Ratings", "Comments", "Updated",
}

func writeXLSX(w io.Writer, records []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Databases"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &xlsxHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			r.Name, r.Slug, r.Category, r.Type, r.License, r.CloudOffering, r.SelfHosted,
			r.Popularity, r.Stars,
			strings.Join(r.Features, ", "), strings.Join(r.UseCases, ", "), strings.Join(r.Languages, ", "),
			r.AverageRating, r.TotalRatings, r.Comments, r.UpdatedAt.Format(time.DateOnly),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f.Write(w)
}

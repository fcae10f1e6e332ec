package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/models"
	"github.com/stretchr/testify/assert"
)

func TestDatabaseTable(t *testing.T) {
	table := DatabaseTable([]models.Database{
		{Slug: "postgresql", Name: "PostgreSQL", Type: models.TypeSQL, Category: "Relational", License: models.LicenseOpenSource, Popularity: 95},
	})
	assert.Equal(t, []string{"postgresql", "PostgreSQL", "SQL", "Relational", "Open Source", "95"}, table.Rows[0])
}

func TestCategoryTable(t *testing.T) {
	table := CategoryTable([]catalog.CategoryCount{{Name: "Relational", Count: 3}})
	assert.Equal(t, [][]string{{"Relational", "3"}}, table.Rows)
}

func TestStars(t *testing.T) {
	tests := []struct {
		avg          float64
		filled, open int
	}{
		{0, 0, 5},
		{3.6, 4, 1},
		{5, 5, 0},
		{7, 5, 0},
	}
	for _, tc := range tests {
		out := Stars(tc.avg)
		assert.Equal(t, tc.filled, strings.Count(out, "★"), "avg %.1f", tc.avg)
		assert.Equal(t, tc.open, strings.Count(out, "☆"), "avg %.1f", tc.avg)
	}
}

func TestRenderEntry(t *testing.T) {
	e := models.Entry{
		Database: models.Database{
			Name:        "Redis",
			Type:        models.TypeKeyValue,
			Category:    "Key-Value",
			License:     models.LicenseOpenSource,
			Description: "In-memory data store",
			Features:    []string{"Pub/Sub"},
			WebsiteURL:  "https://redis.io",
		},
		Ratings: []models.Rating{{Username: "alice", Rating: 4}},
	}

	out := RenderEntry(e, 80)
	assert.Contains(t, out, "Redis")
	assert.Contains(t, out, "In-memory data store")
	assert.Contains(t, out, "• Pub/Sub")
	assert.Contains(t, out, "4.0 (1)")
	assert.Contains(t, out, "https://redis.io")
	assert.NotContains(t, out, "Cons")
}

func TestRenderComments(t *testing.T) {
	assert.Contains(t, RenderComments(nil, 80), "No comments yet")

	out := RenderComments([]models.Comment{{
		ID:       "0d9c1c5e-2f1e-4d1c-9a53-4a3f4e0b9b11",
		Username: "bob",
		Content:  "Great for caching",
		Date:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}}, 80)
	assert.Contains(t, out, "@bob")
	assert.Contains(t, out, "2025-03-01")
	assert.Contains(t, out, "0d9c1c5e-2f1e-4d1c-9a53-4a3f4e0b9b11")
	assert.Contains(t, out, "Great for caching")
}

func TestRenderEntry_Verdicts(t *testing.T) {
	e := models.Entry{Database: models.Database{
		Name:              "MongoDB",
		Type:              models.TypeDocument,
		License:           models.LicenseHybrid,
		Pros:              []string{"Flexible schema"},
		Cons:              []string{"Memory hungry"},
		NotRecommendedFor: []string{"Heavy joins"},
	}}

	out := RenderEntry(e, 60)
	assert.Contains(t, out, "Pros")
	assert.Contains(t, out, "• Flexible schema")
	assert.Contains(t, out, "• Memory hungry")
	assert.Contains(t, out, "Not recommended for")
	assert.Contains(t, out, "╭")
}

package entrycodec

import (
	"strings"
	"testing"
	"time"

	"github.com/josephgoksu/DBAtlas/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry() models.Entry {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	e := models.NewEntry(models.Database{
		Name:             "PostgreSQL",
		Description:      "Advanced open source relational database.\n\n## Not a heading\n# nor this\n\\ backslash line",
		ShortDescription: "Relational workhorse",
		Category:         "Relational",
		Type:             models.TypeSQL,
		License:          models.LicenseOpenSource,
		CloudOffering:    true,
		SelfHosted:       true,
		Features:         []string{"ACID", "Horizontal Scaling", "#hashtag feature", "  padded  "},
		UseCases:         []string{"Web Applications", "Analytics"},
		Languages:        []string{"Go", "Python", "Java"},
		Pros:             []string{"Mature", "Extensible"},
		Cons:             []string{"Vacuum tuning: needed"},
		Popularity:       95,
		Stars:            15000,
		WebsiteURL:       "https://www.postgresql.org",
		GithubURL:        "https://github.com/postgres/postgres",
		Tagline:          "The world's most advanced open source database",
		KeyStrength:      "Extensibility",
		NotRecommendedFor: []string{
			"Massive write-heavy time series",
		},
		UseCaseDetails: []models.UseCaseDetail{{
			Title:       "Order management",
			Description: "Transactional order pipeline",
			Industry:    "Retail",
			Benefits:    []string{"Strong consistency"},
		}},
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	})
	e.QueryLanguages = []string{"SQL", "PL/pgSQL"}
	e.ReplicationSupport = true
	e.LatestVersion = "17.0"
	e.Ratings = []models.Rating{
		{Username: "alice", Rating: 5, Date: created, Email: "alice@example.com", Comment: "Rock solid.\n### not a block", Industry: "Fintech"},
		{Username: "bob", Rating: 3, Date: created},
	}
	e.Comments = []models.Comment{
		{ID: "8d3f7c1e-4f5a-4b1b-9a4e-2f6f8d9c0a11", Username: "carol", Content: "- looks like a list\n\nsecond paragraph", Date: created, Helpful: 2},
	}
	return e
}

func TestRoundTrip(t *testing.T) {
	in := sampleEntry()

	text, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(text)
	require.NoError(t, err)

	assert.Equal(t, in, out)
}

func TestRoundTrip_WhitespaceOnlyProseLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "trailing indented line", text: "text\n  ", want: "text\n  "},
		{name: "leading break and space", text: "\n ", want: "\n "},
		{name: "single space", text: " ", want: " "},
		{name: "trailing breaks dropped", text: "text\n\n", want: "text"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := sampleEntry()
			in.Description = tc.text
			in.Comments[0].Content = tc.text

			text, err := Encode(in)
			require.NoError(t, err)
			out, err := Decode(text)
			require.NoError(t, err)

			assert.Equal(t, tc.want, out.Description)
			assert.Equal(t, tc.want, out.Comments[0].Content)
		})
	}
}

func TestRoundTrip_ListFieldsKeepOrder(t *testing.T) {
	tests := []struct {
		name  string
		items []string
	}{
		{name: "empty", items: []string{}},
		{name: "single", items: []string{"only"}},
		{name: "ordered", items: []string{"z", "a", "m"}},
		{name: "markdown looking items", items: []string{"## heading-ish", "- dash", "key: value"}},
		{name: "duplicates kept", items: []string{"x", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := sampleEntry()
			e.Features = tt.items
			e.UseCases = tt.items
			e.Pros = tt.items
			e.Cons = tt.items

			text, err := Encode(e)
			require.NoError(t, err)
			out, err := Decode(text)
			require.NoError(t, err)

			assert.Equal(t, tt.items, out.Features)
			assert.Equal(t, tt.items, out.UseCases)
			assert.Equal(t, tt.items, out.Pros)
			assert.Equal(t, tt.items, out.Cons)
		})
	}
}

func TestEncode_Layout(t *testing.T) {
	text, err := Encode(sampleEntry())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "---\nname: PostgreSQL\n"))
	assert.Contains(t, text, "\n# PostgreSQL\n")
	assert.Contains(t, text, "## Features\n\n- ACID\n- Horizontal Scaling\n")
	assert.Contains(t, text, "## Links\n\n- Website: https://www.postgresql.org\n- GitHub: https://github.com/postgres/postgres\n")
	assert.Contains(t, text, "### alice\n- Rating: 5\n")
	assert.Contains(t, text, "\\## Not a heading")
	assert.NotContains(t, text, "## Cloud Providers", "empty optional sections are omitted")

	features := strings.Index(text, "## Features")
	ratings := strings.Index(text, "## Ratings")
	comments := strings.Index(text, "## Comments")
	assert.True(t, features < ratings && ratings < comments)
}

func TestEncode_RejectsMultilineValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Entry)
	}{
		{name: "list item", mutate: func(e *models.Entry) { e.Features = []string{"a\nb"} }},
		{name: "name", mutate: func(e *models.Entry) { e.Name = "Postgre\nSQL" }},
		{name: "link", mutate: func(e *models.Entry) { e.WebsiteURL = "https://x\n" }},
		{name: "rating metadata", mutate: func(e *models.Entry) { e.Ratings[0].Experience = "2\nyears" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := sampleEntry()
			tt.mutate(&e)
			_, err := Encode(e)
			assert.ErrorIs(t, err, ErrMalformedEntry)
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	valid, err := Encode(sampleEntry())
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
	}{
		{name: "no frontmatter", text: "# PostgreSQL\n\n## Features\n- ACID\n"},
		{name: "unterminated frontmatter", text: "---\nname: x\n"},
		{name: "unknown frontmatter key", text: strings.Replace(valid, "name: PostgreSQL\n", "name: PostgreSQL\nmascot: elephant\n", 1)},
		{name: "unknown type", text: strings.Replace(valid, "type: SQL\n", "type: Spreadsheet\n", 1)},
		{name: "unknown license", text: strings.Replace(valid, "license: Open Source\n", "license: Beerware\n", 1)},
		{name: "unknown section", text: valid + "\n## Mascot\n\n- elephant\n"},
		{name: "duplicate section", text: valid + "\n## Features\n\n- again\n"},
		{name: "prose inside list section", text: strings.Replace(valid, "- ACID\n", "ACID is great\n", 1)},
		{name: "non-numeric rating", text: strings.Replace(valid, "- Rating: 5\n", "- Rating: five\n", 1)},
		{name: "unknown rating field", text: strings.Replace(valid, "- Rating: 5\n", "- Rating: 5\n- Mood: happy\n", 1)},
		{name: "comment without id", text: strings.Replace(valid, "- ID: 8d3f7c1e-4f5a-4b1b-9a4e-2f6f8d9c0a11\n", "", 1)},
		{name: "stray text before sections", text: strings.Replace(valid, "# PostgreSQL\n", "# PostgreSQL\nloose text\n", 1)},
		{name: "unknown link", text: strings.Replace(valid, "- Website: ", "- Homepage: ", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.text)
			assert.ErrorIs(t, err, ErrMalformedEntry)
		})
	}
}

func TestDecode_MissingSectionsYieldEmptyLists(t *testing.T) {
	text := "---\nname: Redis\nslug: redis\ncategory: In-Memory\ntype: Key-Value\nlicense: Hybrid\n---\n\n# Redis\n"

	e, err := Decode(text)
	require.NoError(t, err)

	assert.Equal(t, "Redis", e.Name)
	assert.Equal(t, models.TypeKeyValue, e.Type)
	assert.Equal(t, []string{}, e.Features)
	assert.Equal(t, []string{}, e.Pros)
	assert.Empty(t, e.Ratings)
	assert.NotNil(t, e.Comments)
	assert.Nil(t, e.QueryLanguages)
}

func TestDecode_AcceptsCRLF(t *testing.T) {
	text, err := Encode(sampleEntry())
	require.NoError(t, err)

	out, err := Decode(strings.ReplaceAll(text, "\n", "\r\n"))
	require.NoError(t, err)
	assert.Equal(t, sampleEntry().Features, out.Features)
}

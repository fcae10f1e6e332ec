package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_ColumnWidths(t *testing.T) {
	table := &Table{
		Headers: []string{"Slug", "Name", "Type"},
		Rows: [][]string{
			{"redis", "Redis", "Key-Value"},
			{"apache-cassandra", "Apache Cassandra", "NoSQL"},
		},
	}

	widths := table.ColumnWidths()

	assert.Equal(t, []int{16, 16, 9}, widths)
}

func TestTable_ColumnWidths_Wide(t *testing.T) {
	table := &Table{
		Headers: []string{"Name"},
		Rows:    [][]string{{"数据库"}},
	}

	// Each CJK rune takes two cells.
	assert.Equal(t, []int{6}, table.ColumnWidths())
}

func TestTable_ColumnWidths_MaxWidth(t *testing.T) {
	table := &Table{
		Headers:  []string{"ID", "Description"},
		Rows:     [][]string{{"a", "This is a very long description that should be truncated"}},
		MaxWidth: 20,
	}

	assert.Equal(t, []int{2, 20}, table.ColumnWidths())
}

func TestTable_Render(t *testing.T) {
	table := &Table{
		Headers: []string{"Slug", "Name"},
		Rows: [][]string{
			{"postgresql", "PostgreSQL"},
			{"redis", "Redis"},
		},
	}

	output := table.Render()

	assert.Contains(t, output, "Slug")
	assert.Contains(t, output, "PostgreSQL")
	assert.Contains(t, output, "Redis")
	assert.Contains(t, output, "─")
}

func TestTable_Render_Empty(t *testing.T) {
	table := &Table{}
	assert.Empty(t, table.Render())
}

func TestTable_Render_Truncation(t *testing.T) {
	table := &Table{
		Headers:  []string{"Text"},
		Rows:     [][]string{{"This is way too long"}},
		MaxWidth: 10,
	}

	assert.Contains(t, table.Render(), "This is w…")
}

func TestFitCell(t *testing.T) {
	tests := []struct {
		input string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncated", 5, "trun…"},
		{"abc", 1, "…"},
		{"abc", 0, ""},
		{"数据库", 4, "数…"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, fitCell(tc.input, tc.width), "fitCell(%q, %d)", tc.input, tc.width)
	}
}

func TestTable_Render_AlignRight(t *testing.T) {
	table := &Table{
		Headers:    []string{"Category", "Databases"},
		Rows:       [][]string{{"Relational", "12"}, {"Graph", "3"}},
		AlignRight: []int{1},
	}

	lines := strings.Split(table.Render(), "\n")
	assert.True(t, strings.HasSuffix(lines[2], "       12"), "%q", lines[2])
	assert.True(t, strings.HasSuffix(lines[3], "        3"), "%q", lines[3])
}

func TestPadLeft(t *testing.T) {
	assert.Equal(t, "   95", padLeft("95", 5))
	assert.Equal(t, "100", padLeft("100", 2))
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"abc", 5, "abc  "},
		{"hello", 5, "hello"},
		{"longer", 3, "longer"},
		{"", 3, "   "},
		{"数", 3, "数 "},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, padRight(tc.input, tc.width))
	}
}

func TestTable_Render_RowsHaveFewerColumns(t *testing.T) {
	table := &Table{
		Headers: []string{"Slug", "Name", "Type"},
		Rows: [][]string{
			{"redis", "Redis"},
		},
	}

	output := table.Render()

	assert.Contains(t, output, "Slug")
	assert.Contains(t, output, "Redis")
	lines := strings.Split(strings.TrimSpace(output), "\n")
	assert.Equal(t, 3, len(lines))
}

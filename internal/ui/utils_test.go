package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"", 10, ""},
		{"Redis", 10, "Redis"},
		{"Redis", 5, "Redis"},
		{"Amazon DynamoDB Accelerator", 15, "Amazon Dynam..."},
		{"CockroachDB", 3, "Coc"},
		{"CockroachDB", 0, "CockroachDB"},
		{"ScyllaDB für alle", 12, "ScyllaDB ..."},
		{"数据库管理系统", 5, "数据..."},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Truncate(tc.in, tc.max), "Truncate(%q, %d)", tc.in, tc.max)
	}
}

func TestWrapText(t *testing.T) {
	desc := "PostgreSQL is a powerful open source object-relational database system"

	wrapped := WrapText(desc, 20)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 20, "line %q", line)
	}
	assert.Equal(t, desc, strings.Join(strings.Fields(wrapped), " "))

	assert.Equal(t, "short line", WrapText("short line", 40))
	assert.Equal(t, desc, WrapText(desc, 0))
	assert.Equal(t, "first\nsecond", WrapText("first\nsecond", 40), "existing newlines are kept")
	assert.Equal(t, "supercalifragilistic", WrapText("supercalifragilistic", 5), "a single long word is not split")
}

func TestListPanel(t *testing.T) {
	out := ListPanel("Pros", []string{"Mature", "Rich SQL"}, ColorSuccess, 0)
	for _, want := range []string{"Pros", "• Mature", "• Rich SQL", "╭", "╯"} {
		assert.Contains(t, out, want)
	}

	long := ListPanel("Cons", []string{strings.Repeat("word ", 30)}, ColorWarning, 30)
	for _, line := range strings.Split(long, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 30, "line %q", line)
	}
}

package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func forceColor(t *testing.T) {
	t.Helper()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })
}

func TestStyles(t *testing.T) {
	forceColor(t)

	for name, style := range map[string]lipgloss.Style{
		"user":       StylePrefixUser,
		"consultant": StylePrefixConsultant,
		"star":       StyleStar,
	} {
		out := style.Render("Test")
		assert.Contains(t, out, "Test", name)
		assert.NotEqual(t, "Test", out, "%s should add ANSI codes when forced", name)
	}
}

func TestMarks(t *testing.T) {
	forceColor(t)

	assert.Contains(t, Check(), "✓")
	assert.NotEqual(t, "✓", Check())
	assert.Contains(t, Cross(), "✗")
	assert.NotEqual(t, Check(), Cross())
}

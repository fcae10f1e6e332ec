package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorPrimary   = lipgloss.Color("39")  // Blue
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorText      = lipgloss.Color("252")
	ColorStar      = lipgloss.Color("220") // Gold for ratings

	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleStar    = lipgloss.NewStyle().Foreground(ColorStar)

	StyleInputBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)

	// Chat speakers
	StylePrefixUser       = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StylePrefixConsultant = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StylePrefixSystem     = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrefixError      = lipgloss.NewStyle().Foreground(ColorError).Bold(true)

	// Catalog badges
	StyleBadgeOpenSource = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleBadgeCommercial = lipgloss.NewStyle().Foreground(ColorWarning)
)

// Check is the green tick printed before a completed action.
func Check() string {
	return StyleSuccess.Render("✓")
}

// Cross is the red mark printed before a failed step.
func Cross() string {
	return StyleError.Render("✗")
}

package ui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders rows as aligned columns under a bold header.
// Widths are measured in terminal cells, so emoji and CJK text line up.
type Table struct {
	Headers  []string
	Rows     [][]string
	MaxWidth int // Max width per column (0 = auto)
	// AlignRight lists the columns holding numbers.
	AlignRight []int
}

// ColumnWidths returns the display width of each column.
func (t *Table) ColumnWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	if t.MaxWidth > 0 {
		for i := range widths {
			widths[i] = min(widths[i], t.MaxWidth)
		}
	}
	return widths
}

// Render outputs the table to a string.
func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := t.ColumnWidths()
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	cellStyle := lipgloss.NewStyle().Foreground(ColorText)

	var sb strings.Builder
	sb.WriteString(t.renderRow(t.Headers, widths, headerStyle))

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = StyleSubtle.Render(strings.Repeat("─", w))
	}
	sb.WriteString(" " + strings.Join(sep, "──") + "\n")

	for _, row := range t.Rows {
		sb.WriteString(t.renderRow(row, widths, cellStyle))
	}
	return sb.String()
}

func (t *Table) renderRow(row []string, widths []int, style lipgloss.Style) string {
	cells := make([]string, len(t.Headers))
	for i := range t.Headers {
		val := ""
		if i < len(row) {
			val = fitCell(row[i], widths[i])
		}
		if slices.Contains(t.AlignRight, i) {
			val = padLeft(val, widths[i])
		} else {
			val = padRight(val, widths[i])
		}
		cells[i] = style.Render(val)
	}
	return " " + strings.Join(cells, "  ") + "\n"
}

// fitCell cuts s to width cells, marking the cut with an ellipsis.
func fitCell(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 0 {
		return ""
	}
	if width == 1 {
		return "…"
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > width-1 {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String() + "…"
}

// padRight pads a string to the specified display width.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func padLeft(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}

// Package mcp formats catalog, consultant and schema results as compact
// Markdown for MCP tool responses. The internal/ui package handles CLI output.
package mcp

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/internal/consultant"
	"github.com/josephgoksu/DBAtlas/internal/schema"
	"github.com/josephgoksu/DBAtlas/models"
)

// FormatDatabaseList renders one line per database.
// Format: 1. **Name** (`slug`) - Type, Category, License - tagline
func FormatDatabaseList(dbs []models.Database) string {
	if len(dbs) == 0 {
		return "No databases found."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Databases (%d)\n", len(dbs))
	for i, db := range dbs {
		fmt.Fprintf(&sb, "%d. **%s** (`%s`) - %s, %s, %s", i+1, db.Name, db.Slug, db.Type, db.Category, db.License)
		if blurb := firstNonEmpty(db.Tagline, db.ShortDescription, db.Description); blurb != "" {
			sb.WriteString(" - " + truncate(blurb, 100))
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// FormatEntry renders a single catalog entry with its rating summary.
func FormatEntry(e models.Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", e.Name)
	fmt.Fprintf(&sb, "%s | %s | %s | popularity %d/100\n\n", e.Type, e.Category, e.License, e.Popularity)
	if e.Description != "" {
		sb.WriteString(e.Description + "\n\n")
	}

	hosting := []string{}
	if e.CloudOffering {
		hosting = append(hosting, "managed cloud")
	}
	if e.SelfHosted {
		hosting = append(hosting, "self-hosted")
	}
	if len(hosting) > 0 {
		fmt.Fprintf(&sb, "**Hosting**: %s\n", strings.Join(hosting, ", "))
	}
	writeList(&sb, "Features", e.Features)
	writeList(&sb, "Use cases", e.UseCases)
	writeList(&sb, "Pros", e.Pros)
	writeList(&sb, "Cons", e.Cons)
	writeList(&sb, "Not recommended for", e.NotRecommendedFor)

	summary := models.Summarize(e.Ratings)
	if summary.Total > 0 {
		fmt.Fprintf(&sb, "\n**Rating**: %.1f/5 from %d users, %d comments\n", summary.Average, summary.Total, len(e.Comments))
	}
	if e.WebsiteURL != "" {
		fmt.Fprintf(&sb, "\n%s\n", e.WebsiteURL)
	}
	return strings.TrimSpace(sb.String())
}

// FormatCategories renders category counts.
func FormatCategories(cats []catalog.CategoryCount) string {
	if len(cats) == 0 {
		return "The catalog is empty."
	}
	var sb strings.Builder
	sb.WriteString("## Categories\n")
	for _, c := range cats {
		fmt.Fprintf(&sb, "- %s: %d\n", c.Name, c.Count)
	}
	return strings.TrimSpace(sb.String())
}

// FormatHighlights renders the three highlight lists.
func FormatHighlights(h catalog.Highlights) string {
	var sb strings.Builder
	for _, section := range []struct {
		title string
		dbs   []models.Database
	}{
		{"Newest", h.Newest},
		{"Most Popular", h.MostPopular},
		{"Recently Updated", h.RecentlyUpdated},
	} {
		fmt.Fprintf(&sb, "## %s\n", section.title)
		for _, db := range section.dbs {
			fmt.Fprintf(&sb, "- **%s** (`%s`)\n", db.Name, db.Slug)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// FormatRatings renders a rating summary.
func FormatRatings(slug string, s models.RatingSummary) string {
	if s.Total == 0 {
		return fmt.Sprintf("`%s` has no ratings yet.", slug)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Ratings for `%s`\n", slug)
	fmt.Fprintf(&sb, "Average %.1f/5 from %d ratings\n\n", s.Average, s.Total)
	for _, r := range s.Ratings {
		fmt.Fprintf(&sb, "- @%s: %d/5", r.Username, r.Rating)
		if r.Comment != "" {
			sb.WriteString(" - " + truncate(r.Comment, 120))
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// FormatRecommendation renders a recommendation with scores, reasons and
// the plan.
func FormatRecommendation(req consultant.Requirements, r consultant.Result) string {
	if r.Primary == nil {
		return consultant.NoMatchReply
	}
	p := r.Primary
	top := p.Score

	var sb strings.Builder
	sb.WriteString("## Requirements\n")
	fmt.Fprintf(&sb, "project: %s | load: %s | budget: %s | team: %s",
		orUnknown(string(req.ProjectType)), orUnknown(string(req.ExpectedLoad)),
		orUnknown(string(req.Budget)), orUnknown(string(req.Team)))
	if len(req.Performance) > 0 {
		perf := make([]string, len(req.Performance))
		for i, n := range req.Performance {
			perf[i] = string(n)
		}
		fmt.Fprintf(&sb, " | performance: %s", strings.Join(perf, ", "))
	}
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "## Recommended: %s\n", p.Database.Name)
	fmt.Fprintf(&sb, "%s score %d\n", scoreToBar(p.Score, top), p.Score)
	for _, reason := range p.Reasons {
		sb.WriteString("- " + reason + "\n")
	}
	for _, w := range p.Warnings {
		sb.WriteString("- ⚠ " + w + "\n")
	}

	if len(r.Alternatives) > 0 {
		sb.WriteString("\n## Alternatives\n")
		for _, alt := range r.Alternatives {
			fmt.Fprintf(&sb, "- %s **%s** (`%s`) score %d", scoreToBar(alt.Score, top), alt.Database.Name, alt.Database.Slug, alt.Score)
			if len(alt.Reasons) > 0 {
				sb.WriteString(" - " + alt.Reasons[0])
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n## Architecture\n")
	fmt.Fprintf(&sb, "%s\n", r.Architecture.Pattern)
	writeList(&sb, "Components", r.Architecture.Components)
	fmt.Fprintf(&sb, "**Scaling**: %s\n", r.Architecture.ScalingStrategy)
	fmt.Fprintf(&sb, "**Backups**: %s\n", r.Architecture.BackupStrategy)

	sb.WriteString("\n## Plan\n")
	for i, step := range r.Implementation.Steps {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
	}
	fmt.Fprintf(&sb, "**Timeline**: %s\n", r.Implementation.Timeline)
	fmt.Fprintf(&sb, "**Costs**: development %s, operations %s, scaling %s\n",
		r.Costs.Development, r.Costs.Operational, r.Costs.Scaling)
	return strings.TrimSpace(sb.String())
}

// FormatSchemaSummary renders tables and relationships without DDL.
func FormatSchemaSummary(s schema.Schema, target schema.Target) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s (%s pattern, %s)\n", s.Name, s.Pattern, target.Name)
	for _, t := range s.Tables {
		cols := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cols[i] = c.Name + " " + c.Type
		}
		fmt.Fprintf(&sb, "- **%s**: %s\n", t.Name, strings.Join(cols, ", "))
	}
	if len(s.Relationships) > 0 {
		sb.WriteString("\n### Relationships\n")
		for _, rel := range s.Relationships {
			fmt.Fprintf(&sb, "- %s %s %s", rel.FromTable, rel.Type, rel.ToTable)
			if rel.Through != "" {
				fmt.Fprintf(&sb, " via %s", rel.Through)
			}
			sb.WriteString("\n")
		}
	}
	return strings.TrimSpace(sb.String())
}

// === Error Formatters ===

// FormatError returns a standardized Markdown error message.
func FormatError(message string) string {
	return fmt.Sprintf("## ❌ Error\n\n**Details**: %s", message)
}

// FormatValidationError returns a Markdown error for validation failures.
func FormatValidationError(field, message string) string {
	return fmt.Sprintf("## ❌ Validation Error\n\n**Field**: `%s`\n**Details**: %s", field, message)
}

// === Helpers ===

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "**%s**: %s\n", title, strings.Join(items, ", "))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

// truncate shortens a string to maxLen runes and adds ellipsis
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// scoreToBar draws score relative to top as a five cell bar.
func scoreToBar(score, top int) string {
	if top <= 0 {
		return strings.Repeat("░", 5)
	}
	bars := score * 5 / top
	if bars < 1 && score > 0 {
		bars = 1
	}
	bars = min(max(bars, 0), 5)
	return strings.Repeat("█", bars) + strings.Repeat("░", 5-bars)
}

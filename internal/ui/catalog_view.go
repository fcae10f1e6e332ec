package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/models"
)

// DatabaseTable lists catalog records one per row.
func DatabaseTable(dbs []models.Database) *Table {
	t := &Table{
		Headers:    []string{"Slug", "Name", "Type", "Category", "License", "Popularity"},
		MaxWidth:   28,
		AlignRight: []int{5},
	}
	for _, db := range dbs {
		t.Rows = append(t.Rows, []string{
			db.Slug,
			db.Name,
			string(db.Type),
			db.Category,
			string(db.License),
			strconv.Itoa(db.Popularity),
		})
	}
	return t
}

// CategoryTable lists categories with their record counts.
func CategoryTable(cats []catalog.CategoryCount) *Table {
	t := &Table{Headers: []string{"Category", "Databases"}, AlignRight: []int{1}}
	for _, c := range cats {
		t.Rows = append(t.Rows, []string{c.Name, strconv.Itoa(c.Count)})
	}
	return t
}

// Stars renders an average rating as five filled or empty stars.
func Stars(average float64) string {
	filled := int(math.Round(average))
	filled = max(0, min(5, filled))
	return StyleStar.Render(strings.Repeat("★", filled)) + StyleSubtle.Render(strings.Repeat("☆", 5-filled))
}

// LicenseBadge colors a license by how it is distributed.
func LicenseBadge(l models.License) string {
	switch l {
	case models.LicenseOpenSource:
		return StyleBadgeOpenSource.Render(string(l))
	case models.LicenseCommercial:
		return StyleBadgeCommercial.Render(string(l))
	default:
		return StyleSubtle.Render(string(l))
	}
}

func bulletList(items []string) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString("• " + it + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// RenderEntry renders the detail view of one catalog entry.
func RenderEntry(e models.Entry, width int) string {
	var sb strings.Builder

	sb.WriteString(StyleHeader.Render(e.Name))
	if e.Tagline != "" {
		sb.WriteString(" " + StyleSubtle.Render(e.Tagline))
	}
	sb.WriteString("\n")

	summary := models.Summarize(e.Ratings)
	fmt.Fprintf(&sb, " %s  %s  %s  %s %.1f (%d)\n\n",
		StylePrimary.Render(string(e.Type)),
		e.Category,
		LicenseBadge(e.License),
		Stars(summary.Average), summary.Average, summary.Total)

	if e.Description != "" {
		sb.WriteString(WrapText(e.Description, width) + "\n\n")
	}

	sections := []struct {
		title string
		items []string
	}{
		{"Features", e.Features},
		{"Use cases", e.UseCases},
		{"Languages", e.Languages},
	}
	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		sb.WriteString(StyleSectionTitle.Render(s.title) + "\n")
		sb.WriteString(bulletList(s.items) + "\n\n")
	}

	verdicts := []struct {
		title  string
		items  []string
		border lipgloss.Color
	}{
		{"Pros", e.Pros, ColorSuccess},
		{"Cons", e.Cons, ColorWarning},
		{"Not recommended for", e.NotRecommendedFor, ColorError},
	}
	for _, v := range verdicts {
		if len(v.items) == 0 {
			continue
		}
		sb.WriteString(ListPanel(v.title, v.items, v.border, width) + "\n")
	}
	if len(e.Pros)+len(e.Cons)+len(e.NotRecommendedFor) > 0 {
		sb.WriteString("\n")
	}

	var links []string
	for _, l := range []struct{ label, url string }{
		{"Website", e.WebsiteURL},
		{"Docs", e.DocumentationURL},
		{"GitHub", e.GithubURL},
	} {
		if l.url != "" {
			links = append(links, fmt.Sprintf("%s: %s", l.label, l.url))
		}
	}
	if len(links) > 0 {
		sb.WriteString(StyleSubtle.Render(strings.Join(links, "  ")) + "\n")
	}
	return sb.String()
}

// RenderComments renders comments oldest first.
func RenderComments(comments []models.Comment, width int) string {
	if len(comments) == 0 {
		return StyleSubtle.Render("No comments yet.")
	}
	var sb strings.Builder
	for _, c := range comments {
		fmt.Fprintf(&sb, "%s %s %s\n",
			StylePrefixUser.Render("@"+c.Username),
			StyleSubtle.Render(c.Date.Format("2006-01-02")),
			StyleSubtle.Render(c.ID))
		sb.WriteString(WrapText(c.Content, width) + "\n\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

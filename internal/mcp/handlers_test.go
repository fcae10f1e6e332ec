package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/store"
)

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	svc := catalog.NewService(store.NewMemoryStore())
	if _, err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	h := NewHandlers(svc, nil)
	h.now = func() time.Time { return time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC) }
	return h
}

func TestHandleCatalogTool_InvalidAction(t *testing.T) {
	h := newTestHandlers(t)
	result, err := h.HandleCatalogTool(context.Background(), CatalogToolParams{Action: "drop"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Error == "" {
		t.Error("expected error for invalid action")
	}
	if result.Action != "drop" {
		t.Errorf("expected action 'drop', got %q", result.Action)
	}
}

func TestHandleCatalogTool_MissingArguments(t *testing.T) {
	h := newTestHandlers(t)
	tests := []struct {
		name   string
		params CatalogToolParams
	}{
		{"get without slug", CatalogToolParams{Action: CatalogActionGet}},
		{"ratings without slug", CatalogToolParams{Action: CatalogActionRatings}},
		{"search without query", CatalogToolParams{Action: CatalogActionSearch, Query: "  "}},
		{"highlights over limit", CatalogToolParams{Action: CatalogActionHighlights, Limit: 51}},
		{"highlights negative", CatalogToolParams{Action: CatalogActionHighlights, Limit: -1}},
		{"unknown slug", CatalogToolParams{Action: CatalogActionGet, Slug: "no-such-db"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleCatalogTool(context.Background(), tt.params)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Error == "" {
				t.Errorf("expected error, got content %q", result.Content)
			}
		})
	}
}

func TestHandleCatalogTool_Actions(t *testing.T) {
	h := newTestHandlers(t)
	tests := []struct {
		name   string
		params CatalogToolParams
		want   string
	}{
		{"list", CatalogToolParams{Action: CatalogActionList}, "`postgresql`"},
		{"list by category", CatalogToolParams{Action: CatalogActionList, Category: "Graph"}, "Neo4j"},
		{"get", CatalogToolParams{Action: CatalogActionGet, Slug: "redis"}, "# Redis"},
		{"search", CatalogToolParams{Action: CatalogActionSearch, Query: "time series"}, "InfluxDB"},
		{"categories", CatalogToolParams{Action: CatalogActionCategories}, "- Relational: 2"},
		{"highlights", CatalogToolParams{Action: CatalogActionHighlights}, "## Most Popular"},
		{"ratings", CatalogToolParams{Action: CatalogActionRatings, Slug: "mongodb"}, "no ratings yet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleCatalogTool(context.Background(), tt.params)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Error != "" {
				t.Fatalf("unexpected tool error: %s", result.Error)
			}
			if !strings.Contains(result.Content, tt.want) {
				t.Errorf("expected %q in:\n%s", tt.want, result.Content)
			}
		})
	}
}

func TestHandleCatalogTool_CategoryFilterExcludesOthers(t *testing.T) {
	h := newTestHandlers(t)
	result, err := h.HandleCatalogTool(context.Background(), CatalogToolParams{Action: CatalogActionList, Category: "Graph"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(result.Content, "PostgreSQL") {
		t.Errorf("graph listing should not contain PostgreSQL:\n%s", result.Content)
	}
}

func TestHandleRecommendTool(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	t.Run("nothing given", func(t *testing.T) {
		result, err := h.HandleRecommendTool(ctx, RecommendParams{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Error == "" {
			t.Error("expected error when no requirement is given")
		}
	})

	t.Run("bad enum", func(t *testing.T) {
		result, err := h.HandleRecommendTool(ctx, RecommendParams{Load: "extreme"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Error == "" {
			t.Error("expected error for unknown load")
		}
	})

	t.Run("explicit requirements", func(t *testing.T) {
		result, err := h.HandleRecommendTool(ctx, RecommendParams{
			ProjectType: "analytics platform",
			Load:        "high",
			Budget:      "enterprise",
			Team:        "large",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Error != "" {
			t.Fatalf("unexpected tool error: %s", result.Error)
		}
		for _, want := range []string{"project: analytics platform", "## Recommended:", "## Architecture", "## Plan"} {
			if !strings.Contains(result.Content, want) {
				t.Errorf("expected %q in:\n%s", want, result.Content)
			}
		}
	})

	t.Run("explicit value wins over description", func(t *testing.T) {
		result, err := h.HandleRecommendTool(ctx, RecommendParams{
			Description: "an online store for a small team",
			Team:        "large",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(result.Content, "team: large") {
			t.Errorf("expected explicit team to win:\n%s", result.Content)
		}
	})
}

func TestHandleConsultTool_Conversation(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	result, err := h.HandleConsultTool(ctx, ConsultParams{Report: true}, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Error == "" {
		t.Error("expected report to fail before any recommendation")
	}

	result, err = h.HandleConsultTool(ctx, ConsultParams{Message: "We're building an e-commerce platform"}, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Content, "Still unknown") {
		t.Errorf("expected follow-up with missing topics:\n%s", result.Content)
	}

	result, err = h.HandleConsultTool(ctx, ConsultParams{Message: "millions of users, enterprise budget, large team"}, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Error != "" {
		t.Fatalf("unexpected tool error: %s", result.Error)
	}

	result, err = h.HandleConsultTool(ctx, ConsultParams{Report: true}, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Content, "# Database Recommendation Report") {
		t.Errorf("expected Markdown report:\n%s", result.Content)
	}

	// Another session starts empty.
	result, err = h.HandleConsultTool(ctx, ConsultParams{Report: true, SessionID: "other"}, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Error == "" {
		t.Error("expected a separate session to have no report")
	}
}

func TestHandleConsultTool_ResetAndEmptyMessage(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	result, err := h.HandleConsultTool(ctx, ConsultParams{}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Error == "" {
		t.Error("expected error for empty message")
	}

	result, err = h.HandleConsultTool(ctx, ConsultParams{Reset: true}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Error != "" || !strings.Contains(result.Content, "database consultant") {
		t.Errorf("expected greeting after reset, got %+v", result)
	}
}

func TestHandleSchemaTool(t *testing.T) {
	h := newTestHandlers(t)
	tests := []struct {
		name    string
		params  SchemaToolParams
		want    string
		wantErr bool
	}{
		{"missing use case", SchemaToolParams{}, "", true},
		{"bad format", SchemaToolParams{UseCase: "blog", Format: "png"}, "", true},
		{"bad type", SchemaToolParams{UseCase: "blog", DatabaseType: "Spreadsheet"}, "", true},
		{"unknown slug", SchemaToolParams{UseCase: "blog", Database: "nope"}, "", true},
		{"summary default", SchemaToolParams{UseCase: "online store"}, "PostgreSQL", false},
		{"sql", SchemaToolParams{UseCase: "online store", Format: SchemaFormatSQL}, "CREATE TABLE", false},
		{"mermaid", SchemaToolParams{UseCase: "blog", Format: SchemaFormatMermaid}, "erDiagram", false},
		{"validators from slug", SchemaToolParams{UseCase: "crm", Database: "mongodb", Format: SchemaFormatValidators}, "$jsonSchema", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleSchemaTool(context.Background(), tt.params)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr {
				if result.Error == "" {
					t.Errorf("expected tool error, got content %q", result.Content)
				}
				return
			}
			if result.Error != "" {
				t.Fatalf("unexpected tool error: %s", result.Error)
			}
			if !strings.Contains(result.Content, tt.want) {
				t.Errorf("expected %q in:\n%s", tt.want, result.Content)
			}
		})
	}
}

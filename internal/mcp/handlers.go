// Package mcp provides handlers for the DBAtlas MCP tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/internal/consultant"
	"github.com/josephgoksu/DBAtlas/internal/schema"
	"github.com/josephgoksu/DBAtlas/models"
)

// MaxHighlightLimit caps the highlights action.
const MaxHighlightLimit = 50

// defaultSession keys conversations when neither the caller nor the MCP
// session supplies an id.
const defaultSession = "default"

// ToolResult represents the response from a tool handler.
type ToolResult struct {
	Action  string `json:"action"`
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

func failed(action string, format string, args ...any) *ToolResult {
	return &ToolResult{Action: action, Error: fmt.Sprintf(format, args...)}
}

// Handlers serves the MCP tools from one catalog.
type Handlers struct {
	catalog *catalog.Service
	scorer  *consultant.Scorer
	schemas *schema.Generator
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*consultant.Session
}

// NewHandlers returns handlers backed by svc, ranking with scorer (the
// built-in rules when nil).
func NewHandlers(svc *catalog.Service, scorer *consultant.Scorer) *Handlers {
	if scorer == nil {
		scorer = consultant.NewScorer(nil)
	}
	return &Handlers{
		catalog:  svc,
		scorer:   scorer,
		schemas:  schema.NewGenerator(),
		now:      time.Now,
		sessions: make(map[string]*consultant.Session),
	}
}

// HandleCatalogTool routes a catalog tool call to the matching action.
func (h *Handlers) HandleCatalogTool(ctx context.Context, params CatalogToolParams) (*ToolResult, error) {
	if !params.Action.IsValid() {
		valid := make([]string, 0, len(ValidCatalogActions()))
		for _, a := range ValidCatalogActions() {
			valid = append(valid, string(a))
		}
		return failed(string(params.Action), "invalid action %q, must be one of: %s", params.Action, strings.Join(valid, ", ")), nil
	}
	action := string(params.Action)

	switch params.Action {
	case CatalogActionList:
		var (
			dbs []models.Database
			err error
		)
		if params.Category != "" {
			dbs, err = h.catalog.ByCategory(ctx, params.Category)
		} else {
			dbs, err = h.catalog.Databases(ctx)
		}
		if err != nil {
			return failed(action, "%v", err), nil
		}
		return &ToolResult{Action: action, Content: FormatDatabaseList(dbs)}, nil

	case CatalogActionGet, CatalogActionRatings:
		if strings.TrimSpace(params.Slug) == "" {
			return failed(action, "slug is required for %s", action), nil
		}
		if params.Action == CatalogActionRatings {
			summary, err := h.catalog.Ratings(ctx, params.Slug)
			if err != nil {
				return failed(action, "%v", err), nil
			}
			return &ToolResult{Action: action, Content: FormatRatings(params.Slug, summary)}, nil
		}
		entry, err := h.catalog.Get(ctx, params.Slug)
		if err != nil {
			return failed(action, "%v", err), nil
		}
		return &ToolResult{Action: action, Content: FormatEntry(entry)}, nil

	case CatalogActionSearch:
		if strings.TrimSpace(params.Query) == "" {
			return failed(action, "query is required for search"), nil
		}
		dbs, err := h.catalog.Search(ctx, params.Query)
		if err != nil {
			return failed(action, "%v", err), nil
		}
		return &ToolResult{Action: action, Content: FormatDatabaseList(dbs)}, nil

	case CatalogActionCategories:
		cats, err := h.catalog.Categories(ctx)
		if err != nil {
			return failed(action, "%v", err), nil
		}
		return &ToolResult{Action: action, Content: FormatCategories(cats)}, nil

	default: // highlights
		limit := params.Limit
		if limit == 0 {
			limit = catalog.DefaultLimit
		}
		if limit < 1 || limit > MaxHighlightLimit {
			return failed(action, "limit must be between 1 and %d", MaxHighlightLimit), nil
		}
		hl, err := h.catalog.Highlights(ctx, limit)
		if err != nil {
			return failed(action, "%v", err), nil
		}
		return &ToolResult{Action: action, Content: FormatHighlights(hl)}, nil
	}
}

// HandleRecommendTool ranks the catalog in one shot. Requirements read from
// the description are overridden by explicit values.
func (h *Handlers) HandleRecommendTool(ctx context.Context, params RecommendParams) (*ToolResult, error) {
	const action = "recommend"

	explicit, err := consultant.ParseRequirements(params.ProjectType, params.Load, params.Budget, params.Team, params.Performance)
	if err != nil {
		return failed(action, "%v", err), nil
	}
	req := consultant.Extract(params.Description).Merge(explicit)
	if req.IsZero() {
		return failed(action, "describe the project or give at least one of project_type, load, budget, team, performance"), nil
	}

	dbs, err := h.catalog.Databases(ctx)
	if err != nil {
		return failed(action, "%v", err), nil
	}
	result := h.scorer.Recommend(req, dbs)
	return &ToolResult{Action: action, Content: FormatRecommendation(req, result)}, nil
}

// HandleConsultTool continues the conversation identified by the params'
// session id, or defaultSessionID when that is empty.
func (h *Handlers) HandleConsultTool(ctx context.Context, params ConsultParams, defaultSessionID string) (*ToolResult, error) {
	const action = "consult"

	id := firstNonEmpty(strings.TrimSpace(params.SessionID), strings.TrimSpace(defaultSessionID), defaultSession)
	sess := h.session(ctx, id)

	if params.Reset {
		sess.Reset()
	}
	if params.Report {
		report, err := sess.Report(h.now())
		if errors.Is(err, consultant.ErrNoRecommendation) {
			return failed(action, "no recommendation yet; keep describing the project first"), nil
		}
		if err != nil {
			return failed(action, "%v", err), nil
		}
		return &ToolResult{Action: action, Content: report}, nil
	}

	if strings.TrimSpace(params.Message) == "" {
		if params.Reset {
			return &ToolResult{Action: action, Content: consultant.Greeting}, nil
		}
		return failed(action, "message is required"), nil
	}
	reply, err := sess.Respond(params.Message)
	if err != nil {
		return failed(action, "%v", err), nil
	}

	content := reply.Text
	if len(reply.Missing) > 0 {
		topics := make([]string, len(reply.Missing))
		for i, t := range reply.Missing {
			topics[i] = string(t)
		}
		content += "\n\n_Still unknown: " + strings.Join(topics, ", ") + "_"
	}
	return &ToolResult{Action: action, Content: content}, nil
}

func (h *Handlers) session(ctx context.Context, id string) *consultant.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[id]; ok {
		return s
	}
	s := consultant.NewSession(h.scorer, func() ([]models.Database, error) {
		return h.catalog.Databases(context.WithoutCancel(ctx))
	})
	h.sessions[id] = s
	return s
}

// HandleSchemaTool generates a schema for the params' use case.
func (h *Handlers) HandleSchemaTool(ctx context.Context, params SchemaToolParams) (*ToolResult, error) {
	const action = "schema"

	if strings.TrimSpace(params.UseCase) == "" {
		return failed(action, "use_case is required"), nil
	}
	if !params.Format.IsValid() {
		return failed(action, "invalid format %q", params.Format), nil
	}

	var target schema.Target
	if params.Database != "" {
		entry, err := h.catalog.Get(ctx, params.Database)
		if err != nil {
			return failed(action, "%v", err), nil
		}
		target = schema.TargetFor(entry.Database)
	} else {
		var err error
		if target, err = schema.ParseTarget(params.DatabaseName, params.DatabaseType); err != nil {
			return failed(action, "%v", err), nil
		}
	}

	s := h.schemas.Generate(params.UseCase, target)
	switch params.Format {
	case SchemaFormatSQL:
		return &ToolResult{Action: action, Content: "```sql\n" + schema.RenderSQL(s, target) + "```"}, nil
	case SchemaFormatMermaid:
		return &ToolResult{Action: action, Content: "```mermaid\n" + schema.RenderMermaid(s) + "```"}, nil
	case SchemaFormatValidators:
		validators, err := schema.RenderDocumentValidators(s)
		if err != nil {
			return failed(action, "%v", err), nil
		}
		return &ToolResult{Action: action, Content: "```json\n" + validators + "\n```"}, nil
	default:
		return &ToolResult{Action: action, Content: FormatSchemaSummary(s, target)}, nil
	}
}

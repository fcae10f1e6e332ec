// Package mcp provides types and utilities for the MCP server.
package mcp

// === Action Constants ===

// CatalogAction defines the valid actions for the catalog tool.
type CatalogAction string

const (
	CatalogActionList       CatalogAction = "list"
	CatalogActionGet        CatalogAction = "get"
	CatalogActionSearch     CatalogAction = "search"
	CatalogActionCategories CatalogAction = "categories"
	CatalogActionHighlights CatalogAction = "highlights"
	CatalogActionRatings    CatalogAction = "ratings"
)

// ValidCatalogActions returns all valid catalog actions.
func ValidCatalogActions() []CatalogAction {
	return []CatalogAction{
		CatalogActionList, CatalogActionGet, CatalogActionSearch,
		CatalogActionCategories, CatalogActionHighlights, CatalogActionRatings,
	}
}

// IsValid checks if the action is a valid catalog action.
func (a CatalogAction) IsValid() bool {
	switch a {
	case CatalogActionList, CatalogActionGet, CatalogActionSearch,
		CatalogActionCategories, CatalogActionHighlights, CatalogActionRatings:
		return true
	}
	return false
}

// SchemaFormat selects what the schema tool returns.
type SchemaFormat string

const (
	SchemaFormatSQL        SchemaFormat = "sql"
	SchemaFormatMermaid    SchemaFormat = "mermaid"
	SchemaFormatValidators SchemaFormat = "validators"
	SchemaFormatSummary    SchemaFormat = "summary"
)

// ValidSchemaFormats returns all valid schema formats.
func ValidSchemaFormats() []SchemaFormat {
	return []SchemaFormat{SchemaFormatSummary, SchemaFormatSQL, SchemaFormatMermaid, SchemaFormatValidators}
}

// IsValid checks if the format is a valid schema format. Empty means summary.
func (f SchemaFormat) IsValid() bool {
	switch f {
	case "", SchemaFormatSQL, SchemaFormatMermaid, SchemaFormatValidators, SchemaFormatSummary:
		return true
	}
	return false
}

// === MCP Tool Parameters ===

// CatalogToolParams defines the parameters for the catalog tool.
type CatalogToolParams struct {
	// Action specifies which operation to perform.
	// Required. One of: list, get, search, categories, highlights, ratings
	Action CatalogAction `json:"action"`

	// Slug identifies one database.
	// Required for: get, ratings
	Slug string `json:"slug,omitempty"`

	// Query is the search text.
	// Required for: search
	Query string `json:"query,omitempty"`

	// Category restricts the listing.
	// Optional for: list
	Category string `json:"category,omitempty"`

	// Limit is the number of entries per highlight list.
	// Optional for: highlights (default: 3, range: 1-50)
	Limit int `json:"limit,omitempty"`
}

// RecommendParams defines the parameters for the recommend tool. Either a
// free-text description or explicit requirements must be given; explicit
// values win over what is read from the description.
type RecommendParams struct {
	Description string   `json:"description,omitempty"`
	ProjectType string   `json:"project_type,omitempty"`
	Load        string   `json:"load,omitempty"`
	Budget      string   `json:"budget,omitempty"`
	Team        string   `json:"team,omitempty"`
	Performance []string `json:"performance,omitempty"`
}

// ConsultParams defines the parameters for the consult tool.
type ConsultParams struct {
	Message string `json:"message"`
	// SessionID keeps a conversation across calls. Defaults to the MCP session.
	SessionID string `json:"session_id,omitempty"`
	// Reset starts the conversation over before handling Message.
	Reset bool `json:"reset,omitempty"`
	// Report returns the Markdown report of the latest recommendation
	// instead of replying to Message.
	Report bool `json:"report,omitempty"`
}

// SchemaToolParams defines the parameters for the schema tool.
type SchemaToolParams struct {
	UseCase      string       `json:"use_case"`
	Database     string       `json:"database,omitempty"`      // catalog slug
	DatabaseName string       `json:"database_name,omitempty"` // used when database is empty
	DatabaseType string       `json:"database_type,omitempty"`
	Format       SchemaFormat `json:"format,omitempty"`
}

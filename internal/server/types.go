package server

import (
	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/internal/consultant"
	"github.com/josephgoksu/DBAtlas/internal/schema"
	"github.com/josephgoksu/DBAtlas/models"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// CategoriesResponse is the response for /api/categories
type CategoriesResponse struct {
	Categories []catalog.CategoryCount `json:"categories"`
	Total      int                     `json:"total"`
}

// SearchResponse is the response for /api/search
type SearchResponse struct {
	Query   string            `json:"query"`
	Results []models.Database `json:"results"`
}

// UseCaseRequest is the payload for /api/databases/{slug}/use-cases
type UseCaseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UserRatingResponse is the response for /api/databases/{slug}/ratings/mine
type UserRatingResponse struct {
	Rated  bool           `json:"rated"`
	Rating *models.Rating `json:"rating,omitempty"`
}

// SessionResponse is the response for a new consultation
type SessionResponse struct {
	ID       string `json:"id"`
	Greeting string `json:"greeting"`
}

// MessageRequest is one chat turn
type MessageRequest struct {
	Message string `json:"message"`
}

// RecommendRequest is the payload for /api/recommend
type RecommendRequest struct {
	ProjectType  string   `json:"projectType"`
	ExpectedLoad string   `json:"expectedLoad"`
	Budget       string   `json:"budget"`
	TeamSize     string   `json:"teamSize"`
	Performance  []string `json:"performance"`
}

// RecommendResponse pairs a ranking with the requirements it was made for
type RecommendResponse struct {
	Requirements consultant.Requirements `json:"requirements"`
	Result       consultant.Result       `json:"result"`
	Text         string                  `json:"text"`
}

// SchemaRequest is the payload for /api/schema and /api/schema/sql.
// Database names a catalog slug; DatabaseName and DatabaseType describe a
// target outside the catalog.
type SchemaRequest struct {
	UseCase      string `json:"useCase"`
	Database     string `json:"database,omitempty"`
	DatabaseName string `json:"databaseName,omitempty"`
	DatabaseType string `json:"databaseType,omitempty"`
}

// SchemaResponse carries a generated schema and its renderings
type SchemaResponse struct {
	Target     schema.Target          `json:"target"`
	Schema     schema.Schema          `json:"schema"`
	SQL        string                 `json:"sql"`
	Mermaid    string                 `json:"mermaid"`
	Validators string                 `json:"validators,omitempty"`
	Analysis   schema.UseCaseAnalysis `json:"analysis"`
}

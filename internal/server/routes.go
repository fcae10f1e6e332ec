package server

import "net/http"

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	// Catalog
	mux.HandleFunc("GET /api/databases", s.handleListDatabases)
	mux.HandleFunc("POST /api/databases", s.handleCreateDatabase)
	mux.HandleFunc("GET /api/databases/{slug}", s.handleGetDatabase)
	mux.HandleFunc("PUT /api/databases/{slug}", s.handleUpdateDatabase)
	mux.HandleFunc("DELETE /api/databases/{slug}", s.handleDeleteDatabase)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/highlights", s.handleHighlights)
	mux.HandleFunc("GET /api/export", s.handleExport)

	// Interactions
	mux.HandleFunc("GET /api/databases/{slug}/ratings", s.handleRatings)
	mux.HandleFunc("POST /api/databases/{slug}/ratings", s.handleAddRating)
	mux.HandleFunc("GET /api/databases/{slug}/ratings/mine", s.handleUserRating)
	mux.HandleFunc("GET /api/databases/{slug}/comments", s.handleComments)
	mux.HandleFunc("POST /api/databases/{slug}/comments", s.handleAddComment)
	mux.HandleFunc("DELETE /api/databases/{slug}/comments/{id}", s.handleDeleteComment)
	mux.HandleFunc("POST /api/databases/{slug}/use-cases", s.handleSubmitUseCase)

	// Consultant
	mux.HandleFunc("POST /api/consultant/sessions", s.handleCreateSession)
	mux.HandleFunc("POST /api/consultant/sessions/{id}/messages", s.handleMessage)
	mux.HandleFunc("GET /api/consultant/sessions/{id}/report", s.handleReport)
	mux.HandleFunc("DELETE /api/consultant/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /api/recommend", s.handleRecommend)

	// Schema
	mux.HandleFunc("POST /api/schema", s.handleSchema)
	mux.HandleFunc("POST /api/schema/sql", s.handleSchemaSQL)

	return s.recoverMiddleware(s.logMiddleware(s.corsMiddleware(mux)))
}

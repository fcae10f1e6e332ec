package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/models"
)

func username(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(UsernameHeader))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.len(),
	})
}

// handleListDatabases
func (s *Server) handleListDatabases(w http.ResponseWriter, r *http.Request) {
	var (
		dbs []models.Database
		err error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		dbs, err = s.catalog.ByCategory(r.Context(), category)
	} else {
		dbs, err = s.catalog.Databases(r.Context())
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeAPIJSON(w, dbs)
}

// handleGetDatabase
func (s *Server) handleGetDatabase(w http.ResponseWriter, r *http.Request) {
	entry, err := s.catalog.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeAPIJSON(w, entry)
}

func (s *Server) handleCreateDatabase(w http.ResponseWriter, r *http.Request) {
	var db models.Database
	if err := decodeJSON(r, &db); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry, err := s.catalog.Add(r.Context(), db)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("database added", "slug", entry.Slug, "by", username(r))
	writeAPIJSONStatus(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateDatabase(w http.ResponseWriter, r *http.Request) {
	var db models.Database
	if err := decodeJSON(r, &db); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry, err := s.catalog.Update(r.Context(), r.PathValue("slug"), db)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeAPIJSON(w, entry)
}

func (s *Server) handleDeleteDatabase(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if err := s.catalog.Delete(r.Context(), slug); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("database deleted", "slug", slug, "by", username(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.catalog.Categories(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	total := 0
	for _, c := range cats {
		total += c.Count
	}
	writeAPIJSON(w, CategoriesResponse{Categories: cats, Total: total})
}

// handleSearch
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results, err := s.catalog.Search(r.Context(), query)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeAPIJSON(w, SearchResponse{Query: query, Results: results})
}

func (s *Server) handleHighlights(w http.ResponseWriter, r *http.Request) {
	limit := catalog.DefaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 50 {
			limit = l
		}
	}
	h, err := s.catalog.Highlights(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeAPIJSON(w, h)
}

var exportContentTypes = map[string]string{
	catalog.FormatJSON: "application/json",
	catalog.FormatYAML: "application/yaml",
	catalog.FormatTOML: "application/toml",
	catalog.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = catalog.FormatJSON
	}
	contentType, ok := exportContentTypes[format]
	if !ok {
		s.fail(w, r, fmt.Errorf("%w %q", catalog.ErrUnsupportedFormat, format))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="dbatlas-catalog.%s"`, format))
	if err := s.catalog.Export(r.Context(), w, format); err != nil {
		s.logger.Error("export failed", "format", format, "error", err)
	}
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	summary, err := s.catalog.Ratings(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeAPIJSON(w, summary)
}

func (s *Server) handleAddRating(w http.ResponseWriter, r *http.Request) {
	user := username(r)
	if user == "" {
		s.fail(w, r, catalog.ErrUsernameRequired)
		return
	}
	var in catalog.RatingInput
	if err := decodeJSON(r, &in); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	summary, err := s.catalog.AddRating(r.Context(), r.PathValue("slug"), user, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeAPIJSON(w, summary)
}

func (s *Server) handleUserRating(w http.ResponseWriter, r *http.Request) {
	rating, ok, err := s.catalog.UserRating(r.Context(), r.PathValue("slug"), username(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := UserRatingResponse{Rated: ok}
	if ok {
		resp.Rating = &rating
	}
	writeAPIJSON(w, resp)
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.catalog.Comments(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeAPIJSON(w, comments)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	user := username(r)
	if user == "" {
		s.fail(w, r, catalog.ErrUsernameRequired)
		return
	}
	var in catalog.CommentInput
	if err := decodeJSON(r, &in); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c, err := s.catalog.AddComment(r.Context(), r.PathValue("slug"), user, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeAPIJSONStatus(w, http.StatusCreated, c)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	err := s.catalog.DeleteComment(r.Context(), r.PathValue("slug"), r.PathValue("id"), username(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmitUseCase(w http.ResponseWriter, r *http.Request) {
	user := username(r)
	if user == "" {
		s.fail(w, r, catalog.ErrUsernameRequired)
		return
	}
	var req UseCaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeAPIError(w, http.StatusBadRequest, "title is required")
		return
	}
	c, err := s.catalog.SubmitUseCase(r.Context(), r.PathValue("slug"), user, req.Title, req.Description)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeAPIJSONStatus(w, http.StatusCreated, c)
}

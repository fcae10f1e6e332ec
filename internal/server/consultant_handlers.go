package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/josephgoksu/DBAtlas/internal/consultant"
	"github.com/josephgoksu/DBAtlas/models"
)

var errSessionNotFound = errors.New("consultation session not found")

// ReportFilename is the attachment name of a downloaded report.
const ReportFilename = "database-recommendation-report.md"

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := s.sessions.create(consultant.NewSession(s.scorer.Load(), s.catalogFunc()))
	s.logger.Debug("consultation started", "session", id)
	writeAPIJSONStatus(w, http.StatusCreated, SessionResponse{ID: id, Greeting: consultant.Greeting})
}

// catalogFunc reads the catalog fresh on each recommendation. Sessions
// outlive the request that created them, so it must not capture a
// request context.
func (s *Server) catalogFunc() consultant.CatalogFunc {
	return func() ([]models.Database, error) {
		ctx, cancel := s.backgroundContext()
		defer cancel()
		return s.catalog.Databases(ctx)
	}
}

func (s *Server) session(id string) (*consultant.Session, error) {
	sess, ok := s.sessions.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errSessionNotFound, id)
	}
	return sess, nil
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req MessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeAPIError(w, http.StatusBadRequest, "message is required")
		return
	}
	reply, err := sess.Respond(req.Message)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeAPIJSON(w, reply)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	report, err := sess.Report(s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, ReportFilename))
	_, _ = w.Write([]byte(report))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.sessions.remove(id) {
		s.fail(w, r, fmt.Errorf("%w: %s", errSessionNotFound, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRecommend ranks the catalog against explicit requirements in one
// call, without a conversation.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var body RecommendRequest
	if err := decodeJSON(r, &body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req, err := consultant.ParseRequirements(body.ProjectType, body.ExpectedLoad, body.Budget, body.TeamSize, body.Performance)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	dbs, err := s.catalog.Databases(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	result := s.scorer.Load().Recommend(req, dbs)
	writeAPIJSON(w, RecommendResponse{
		Requirements: req,
		Result:       result,
		Text:         consultant.ChatReply(result),
	})
}

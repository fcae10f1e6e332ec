// Package server exposes the catalog, the consultant and the schema
// generator as a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/internal/consultant"
	"github.com/josephgoksu/DBAtlas/internal/schema"
	"github.com/josephgoksu/DBAtlas/models"
)

// UsernameHeader carries the acting user's GitHub username. Authentication
// is left to whatever sits in front of the API.
const UsernameHeader = "X-Username"

const storeTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Port           int
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	// SessionTTL is how long an idle consultation is kept; zero keeps
	// sessions forever.
	SessionTTL time.Duration
	// Rules overrides the built-in scoring rules.
	Rules  *consultant.RuleSet
	Logger *slog.Logger
}

type Server struct {
	catalog  *catalog.Service
	scorer   atomic.Pointer[consultant.Scorer]
	schemas  *schema.Generator
	sessions *sessionRegistry
	origins  map[string]struct{}
	logger   *slog.Logger
	now      func() time.Time
	port     int
	server   *http.Server
}

// New builds a Server over svc. The caller owns svc's store.
func New(svc *catalog.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		origins[o] = struct{}{}
	}

	s := &Server{
		catalog:  svc,
		schemas:  schema.NewGenerator(),
		sessions: newSessionRegistry(opts.SessionTTL),
		origins:  origins,
		logger:   logger,
		now:      time.Now,
		port:     opts.Port,
	}
	s.scorer.Store(consultant.NewScorer(opts.Rules))

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.Handler(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// SetRules swaps the scoring rules. Sessions created afterwards and every
// one-shot recommendation use the new rules.
func (s *Server) SetRules(rules *consultant.RuleSet) {
	s.scorer.Store(consultant.NewScorer(rules))
	s.logger.Info("scoring rules reloaded")
}

// Handler returns the routed API with its middleware.
func (s *Server) Handler() http.Handler {
	return s.registerRoutes()
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		s.logger.Info("api server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()
}

// backgroundContext bounds store reads made outside a request.
func (s *Server) backgroundContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func writeAPIJSON(w http.ResponseWriter, data any) {
	writeAPIJSONStatus(w, http.StatusOK, data)
}

func writeAPIJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeAPIError(w http.ResponseWriter, status int, msg string) {
	writeAPIJSONStatus(w, status, ErrorResponse{Error: msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, catalog.ErrCommentNotFound),
		errors.Is(err, errSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrUsernameRequired):
		return http.StatusUnauthorized
	case errors.Is(err, catalog.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, catalog.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrInvalidType),
		errors.Is(err, models.ErrInvalidLicense),
		errors.Is(err, consultant.ErrInvalidRequirement),
		errors.Is(err, catalog.ErrUnsupportedFormat),
		errors.Is(err, errUseCaseRequired):
		return http.StatusBadRequest
	case errors.Is(err, consultant.ErrNoRecommendation):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Server errors are logged and
// their details withheld from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeAPIError(w, status, "internal server error")
		return
	}
	writeAPIError(w, status, err.Error())
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

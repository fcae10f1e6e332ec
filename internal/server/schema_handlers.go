package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/josephgoksu/DBAtlas/internal/schema"
)

var errUseCaseRequired = errors.New("use case is required")

// target resolves the database a schema request is for: a catalog slug
// wins over an explicit name and type.
func (s *Server) target(r *http.Request, req SchemaRequest) (schema.Target, error) {
	if req.Database != "" {
		entry, err := s.catalog.Get(r.Context(), req.Database)
		if err != nil {
			return schema.Target{}, err
		}
		return schema.TargetFor(entry.Database), nil
	}
	return schema.ParseTarget(req.DatabaseName, req.DatabaseType)
}

func (s *Server) decodeSchemaRequest(r *http.Request) (SchemaRequest, schema.Target, error) {
	var req SchemaRequest
	if err := decodeJSON(r, &req); err != nil {
		return req, schema.Target{}, fmt.Errorf("%w: invalid request body", errUseCaseRequired)
	}
	if strings.TrimSpace(req.UseCase) == "" {
		return req, schema.Target{}, errUseCaseRequired
	}
	target, err := s.target(r, req)
	return req, target, err
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	req, target, err := s.decodeSchemaRequest(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	generated := s.schemas.Generate(req.UseCase, target)
	resp := SchemaResponse{
		Target:   target,
		Schema:   generated,
		SQL:      schema.RenderSQL(generated, target),
		Mermaid:  schema.RenderMermaid(generated),
		Analysis: schema.Analyze(req.UseCase),
	}
	if !target.Relational() {
		validators, err := schema.RenderDocumentValidators(generated)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.Validators = validators
	}
	writeAPIJSON(w, resp)
}

func (s *Server) handleSchemaSQL(w http.ResponseWriter, r *http.Request) {
	req, target, err := s.decodeSchemaRequest(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	generated := s.schemas.Generate(req.UseCase, target)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.sql"`, generated.Name))
	_, _ = w.Write([]byte(schema.RenderSQL(generated, target)))
}

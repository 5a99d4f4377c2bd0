// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api serves a loaded syllabus over HTTP as read-only JSON.
package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/syllabus-engine/internal/classify"
	"github.com/pdiddy/syllabus-engine/internal/store"
	"github.com/pdiddy/syllabus-engine/pkg/types"
)

// Searcher runs module searches. *store.Store satisfies it.
type Searcher interface {
	Search(ctx context.Context, opts store.QueryOptions) ([]store.Result, error)
}

// Server is the HTTP API server for syllabus-engine.
type Server struct {
	router     chi.Router
	syllabus   *types.Syllabus
	store      Searcher
	classifier *classify.Classifier
	log        *slog.Logger
	cfg        types.ServeConfig
}

// NewServer creates and configures the HTTP server. store and classifier
// may be nil; their endpoints then answer 503.
func NewServer(syl *types.Syllabus, st Searcher, classifier *classify.Classifier, log *slog.Logger, cfg types.ServeConfig) *Server {
	if syl == nil {
		syl = types.NewSyllabus()
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		syllabus:   syl,
		store:      st,
		classifier: classifier,
		log:        log,
		cfg:        cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/api/semesters", s.handleListSemesters)
		r.Get("/api/semesters/{semester}/subjects", s.handleListSubjects)
		r.Get("/api/subjects/{code}", s.handleGetSubject)
		r.Get("/api/search", s.handleSearch)
		r.Get("/api/classify", s.handleClassify)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// Package api exposes the geometry pipeline and consistency gates over
// HTTP.
//
// Routes (all JSON, versioned under /v1):
//
//	POST /v1/generate             run the pipeline for a specification
//	POST /v1/gate                 run a gate batch against a stored design
//	GET  /v1/designs              list stored design versions
//	GET  /v1/designs/{fingerprint} fetch one stored design version
//	GET  /healthz                 liveness probe
//
// The server owns no geometry logic; it adapts wire input at the
// boundary, delegates to the pipeline runner and gate, and persists
// accepted designs in the configured store.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/gate"
	"github.com/parti-studio/parti/pkg/pipeline"
	"github.com/parti-studio/parti/pkg/spec"
	"github.com/parti-studio/parti/pkg/store"
)

// Server wires the pipeline runner, gate, and design store behind the
// HTTP routes.
type Server struct {
	runner *pipeline.Runner
	gate   *gate.Gate
	store  store.Store
	cfg    spec.Config
	logger *log.Logger
}

// NewServer creates a server. A nil store falls back to an in-memory
// store, a nil logger to the default logger.
func NewServer(runner *pipeline.Runner, st store.Store, cfg spec.Config, logger *log.Logger) *Server {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner: runner,
		gate:   gate.New(cfg, logger),
		store:  st,
		cfg:    cfg,
		logger: logger,
	}
}

// Router builds the chi router with middleware and routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/gate", s.handleGate)
		r.Get("/designs", s.handleListDesigns)
		r.Get("/designs/{fingerprint}", s.handleGetDesign)
	})

	return r
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

// requestID assigns a UUID to every request and echoes it in the
// response headers.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"id", r.Context().Value(requestIDKey),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// writeError maps structured error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeDesignNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidSpec, errors.ErrCodeInvalidSite, errors.ErrCodeInvalidProgram,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidManifest, errors.ErrCodeInvalidFootprint:
		status = http.StatusBadRequest
	case errors.ErrCodeInfeasiblePacking, errors.ErrCodeEnvelopeExpansion, errors.ErrCodeEmptyFloor:
		status = http.StatusUnprocessableEntity
	case errors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

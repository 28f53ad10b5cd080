package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/langdiff/internal/workspace"
	"github.com/dmitrymomot/langdiff/pkg/health"
	"github.com/dmitrymomot/langdiff/pkg/logger"
)

// handlerFunc is an HTTP handler that reports failures by returning an error.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// Server exposes a workspace over HTTP.
type Server struct {
	ws     *workspace.Workspace
	logger *slog.Logger
	checks health.Checks
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCheck adds a readiness check next to the built-in workspace check.
func WithCheck(name string, fn health.CheckFunc) Option {
	return func(s *Server) {
		s.checks[name] = fn
	}
}

// New builds the router for ws.
func New(ws *workspace.Workspace, opts ...Option) *Server {
	s := &Server{
		ws:     ws,
		logger: logger.NewNope(),
		checks: health.Checks{"workspace": ws.Healthcheck},
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(requestID, s.accessLog)
	r.NotFound(s.handle(func(http.ResponseWriter, *http.Request) error {
		return errNotFound("not found", nil)
	}))
	r.MethodNotAllowed(s.handle(func(http.ResponseWriter, *http.Request) error {
		return newHTTPError(http.StatusMethodNotAllowed, "method not allowed", nil)
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/languages", s.handle(s.languages))
		r.Put("/primary", s.handle(s.setPrimary))
		r.Post("/reload", s.handle(s.reload))
		r.Get("/records", s.handle(s.records))
		r.Get("/records/subtree", s.handle(s.subtree))
		r.Get("/counts", s.handle(s.counts))
		r.Get("/placeholders", s.handle(s.placeholders))
	})
	r.Get("/report", s.handle(s.reportHTML))
	r.Get("/report.md", s.handle(s.reportMarkdown))

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(s.checks,
		health.WithLogger(s.logger),
		health.WithDetails(ws.Details),
	))

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.handleError(w, r, err)
		}
	}
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		s.logger.ErrorContext(ctx, "panic recovered",
			slog.Any("panic", panicErr.Value),
			slog.String("stack", string(panicErr.Stack)),
		)
	}

	httpErr := asHTTPError(err)
	if httpErr.Code >= http.StatusInternalServerError && panicErr == nil {
		s.logger.ErrorContext(ctx, "request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}

	writeJSON(w, httpErr.Code, map[string]string{"error": httpErr.Message})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Package server exposes the scheduler's debug counters over HTTP. The
// endpoint is observability only: nothing here mutates scheduler state.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/me/gomote/internal/sched"
)

type ctxKey int

const ctxKeyRequestID ctxKey = iota

// Server is the debug/stats HTTP server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	sched     *sched.Scheduler
	startTime time.Time
}

// New creates a server with all routes registered.
func New(s *sched.Scheduler, logger *slog.Logger) *Server {
	srv := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		sched:     s,
		startTime: time.Now(),
	}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.withRequestID)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Get("/bands", s.handleBands)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// withRequestID tags every request with a short unique id, echoed in the
// response envelope.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := "req_" + uuid.New().String()[:8]
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request id set by the middleware.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return id
	}
	return ""
}

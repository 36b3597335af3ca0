// Package api wires the room package to HTTP: the room/gameplay endpoints,
// the SSE push channel, request logging, and error-to-status mapping.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/marianogappa/yaniv-backend/internal/room"
)

// Server holds the dependencies every handler needs.
type Server struct {
	reg      *room.Registry
	degraded bool
}

// New builds a Server. degraded marks whether persistence fell back to
// MemoryStore (surfaced on /api/health, never blocks gameplay).
func New(reg *room.Registry, degraded bool) *Server {
	return &Server{reg: reg, degraded: degraded}
}

// Router returns the fully wired gorilla/mux router covering the room
// and gameplay endpoints plus the /api/health probe.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoverMiddleware)

	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/create", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/api/join", s.handleJoin).Methods(http.MethodPost)
	r.HandleFunc("/api/leave", s.handleLeave).Methods(http.MethodPost)
	r.HandleFunc("/api/room/{code}", s.handleGetRoom).Methods(http.MethodGet)
	r.HandleFunc("/api/options", s.handleOptions).Methods(http.MethodPost)
	r.HandleFunc("/api/start", s.handleStart).Methods(http.MethodPost)
	r.HandleFunc("/api/action", s.handleAction).Methods(http.MethodPost)
	r.HandleFunc("/api/playAgain", s.handlePlayAgain).Methods(http.MethodPost)
	r.HandleFunc("/api/events/{code}/{pid}", s.handleEvents).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"rooms":    s.reg.RoomCount(),
		"degraded": s.degraded,
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   sw.status,
			"duration": time.Since(start),
		}).Info("request")
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logrus.WithField("panic", p).Error("api: handler panicked")
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer so the SSE handler can stream
// through this middleware.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

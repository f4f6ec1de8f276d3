// Package console exposes the HTTP surface the staff browser talks to:
// session endpoints, guarded navigation, reservation and hotel
// operations backed by the shared stores, and export scheduling.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"frontdesk/internal/config"
	"frontdesk/internal/guard"
	"frontdesk/internal/models"
	"frontdesk/internal/session"
	"frontdesk/internal/store"
	"frontdesk/internal/worker"
)

// StatusSource lists the closed reservation status table.
type StatusSource interface {
	Statuses() []models.Status
}

// ExportQueue schedules export work off the request path.
type ExportQueue interface {
	Enqueue(task worker.ExportTask) error
}

// Server is the console HTTP server.
type Server struct {
	cfg          config.ConsoleConfig
	sessions     *session.Store
	router       *guard.Router
	reservations *store.ReservationStore
	hotels       *store.HotelStore
	statuses     StatusSource
	exports      ExportQueue
	logger       zerolog.Logger
	server       *http.Server
	limiters     sync.Map // map[string]*rate.Limiter
}

func NewServer(
	cfg config.ConsoleConfig,
	sessions *session.Store,
	router *guard.Router,
	reservations *store.ReservationStore,
	hotels *store.HotelStore,
	statuses StatusSource,
	exports ExportQueue,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		cfg:          cfg,
		sessions:     sessions,
		router:       router,
		reservations: reservations,
		hotels:       hotels,
		statuses:     statuses,
		exports:      exports,
		logger:       logger.With().Str("component", "console").Logger(),
	}

	readHeaderTimeout := time.Duration(cfg.ReadHeaderTimeout) * time.Second
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = 5 * time.Second
	}
	writeTimeout := time.Duration(cfg.WriteTimeout) * time.Second
	if writeTimeout <= 0 {
		writeTimeout = 15 * time.Second
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	return s
}

// Handler builds the routed handler with logging and rate limiting.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/console/v1/session/login", s.handleLogin)
	mux.HandleFunc("/console/v1/session/logout", s.handleLogout)
	mux.HandleFunc("/console/v1/session", s.handleSession)
	mux.HandleFunc("/console/v1/navigate", s.handleNavigate)
	mux.HandleFunc("/console/v1/reservations", s.handleReservations)
	mux.HandleFunc("/console/v1/reservations/", s.handleReservationByID)
	mux.HandleFunc("/console/v1/hotels", s.handleHotels)
	mux.HandleFunc("/console/v1/hotels/", s.handleHotelByID)
	mux.HandleFunc("/console/v1/statuses", s.handleStatuses)
	mux.HandleFunc("/console/v1/exports", s.handleExports)

	return s.loggingMiddleware(s.rateLimitMiddleware(mux))
}

func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("console server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("console listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireSession restores the session and rejects unauthenticated
// callers. The bool result tells the handler whether to proceed.
func (s *Server) requireSession(w http.ResponseWriter) (session.Session, bool) {
	s.sessions.CheckAuth()
	snapshot := s.sessions.Snapshot()
	if !snapshot.Authenticated {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return session.Session{}, false
	}
	return snapshot, true
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.RateLimitRPS > 0 {
			lim := s.getLimiter(clientKey(r))
			if !lim.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (s *Server) getLimiter(key string) *rate.Limiter {
	if v, ok := s.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := s.cfg.RateLimitBurst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(s.cfg.RateLimitRPS), burst)
	actual, loaded := s.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

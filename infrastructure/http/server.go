package http

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"verifyimage/frontend/verification"
	"verifyimage/infrastructure/session"
	"verifyimage/infrastructure/sqlite"
)

var ShutdownTimeout = 2 * time.Second

// SessionSweepInterval is the default period between expired-session sweeps.
var SessionSweepInterval = 10 * time.Minute

// Server bundles dependencies and route wiring.
type Server struct {
	Addr   string
	ln     net.Listener
	server *http.Server
	router *chi.Mux

	DB        *sqlite.DB
	Sessions  *session.Store
	Generator *verification.Generator

	// SweepInterval controls how often expired sessions are purged while
	// the server runs. Zero disables the sweep.
	SweepInterval time.Duration
	stopSweep     chan struct{}
	sweepDone     chan struct{}
}

// NewServer creates a new http server.
func NewServer(addr string, db *sqlite.DB, sessions *session.Store, gen *verification.Generator) *Server {
	s := &Server{
		Addr:          addr,
		router:        chi.NewRouter(),
		DB:            db,
		Sessions:      sessions,
		Generator:     gen,
		SweepInterval: SessionSweepInterval,
		server: &http.Server{
			MaxHeaderBytes:    1 << 20,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	// Secure headers first.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			next.ServeHTTP(w, r)
		})
	})

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Group(func(r chi.Router) {
		r.Use(s.SessionMiddleware)
		s.RegisterVerificationRoutes(r)
	})

	s.server.Handler = s.router
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go s.server.Serve(s.ln)

	if s.Sessions != nil && s.SweepInterval > 0 {
		s.stopSweep = make(chan struct{})
		s.sweepDone = make(chan struct{})
		go s.sweepSessions(s.SweepInterval, s.stopSweep, s.sweepDone)
	}
	return nil
}

func (s *Server) sweepSessions(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			n, err := s.Sessions.DeleteExpired(context.Background(), now)
			if err != nil {
				slog.Error("sweep expired sessions failed", slog.Any("err", err))
				continue
			}
			if n > 0 {
				slog.Info("swept expired sessions", slog.Int64("deleted", n))
			}
		}
	}
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	if s.stopSweep != nil {
		close(s.stopSweep)
		<-s.sweepDone
		s.stopSweep, s.sweepDone = nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	s.ln = nil
	return nil
}

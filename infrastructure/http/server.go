package http

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sessioncontext "odinpos/frontend/shared/context"
	"odinpos/frontend/templates"
	sessioncookie "odinpos/infrastructure/session"
)

//go:embed assets/*
var assets embed.FS

var ShutdownTimeout = 2 * time.Second

// JanitorInterval is how often idle editor sessions are evicted.
var JanitorInterval = time.Minute

// Server bundles dependencies and route wiring.
type Server struct {
	Addr   string
	ln     net.Listener
	server *http.Server
	router *chi.Mux
	stop   chan struct{}

	Deps     templates.Deps
	Gatherer prometheus.Gatherer
}

// NewServer creates a new http server. A nil gatherer disables /metrics.
func NewServer(addr string, deps templates.Deps, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		Addr:     addr,
		router:   chi.NewRouter(),
		Deps:     deps,
		Gatherer: gatherer,
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
			w.Header().Set("X-XSS-Protection", "1; mode=block")
			next.ServeHTTP(w, r)
		})
	})

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Compress(5))
	s.router.Use(s.CSRFMiddleware)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/pos/templates", http.StatusSeeOther)
	})

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Serve assets from embedded FS.
	var assetsFS fs.FS = assets
	if sub, err := fs.Sub(assets, "assets"); err == nil {
		assetsFS = sub
	} else {
		slog.Error("assets subfs init failed; serving fallback fs", slog.Any("err", err))
	}
	s.router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))

	s.router.Route("/pos", func(r chi.Router) {
		r.Use(EditorSessionMiddleware)
		s.RegisterTemplateRoutes(r)
		s.RegisterEditorRoutes(r)
	})

	s.server.Handler = s.router
	return s
}

// EditorSessionMiddleware puts the editor session id from the cookie, if
// any, on the request context.
func EditorSessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := sessioncookie.FromRequest(r); ok {
			r = r.WithContext(sessioncontext.NewContextWithEditorSession(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and the idle editor janitor.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	s.stop = make(chan struct{})
	go s.evictIdleEditors(s.stop)
	go func() {
		if err := s.server.Serve(s.ln); err != nil && err != http.ErrServerClosed {
			slog.Error("http server stopped", slog.Any("err", err))
		}
	}()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	close(s.stop)
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	s.ln = nil
	return nil
}

func (s *Server) evictIdleEditors(stop <-chan struct{}) {
	if s.Deps.Sessions == nil {
		return
	}
	ticker := time.NewTicker(JanitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := s.Deps.Sessions.EvictIdle(sessioncookie.IdleTimeout); n > 0 {
				slog.Info("evicted idle editor sessions", slog.Int("count", n))
			}
			s.Deps.Metrics.SetEditorSessions(s.Deps.Sessions.Len())
		}
	}
}

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/parsescope/parsescope/internal/content"
	"github.com/parsescope/parsescope/internal/database"
	"github.com/parsescope/parsescope/internal/model"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8787"

// shutdownTimeout bounds graceful shutdown after the context ends.
const shutdownTimeout = 5 * time.Second

// ViewFunc produces the classified view of a file under the given display
// windows.
type ViewFunc func(ctx context.Context, id int64, windows *content.WindowSet) (*model.FileView, error)

// Config holds the server settings.
type Config struct {
	// Addr is the listen address. Empty means DefaultAddr.
	Addr string

	// View loads and classifies files for /files/{id}/view.
	View ViewFunc

	// Cached lists the local cache for /views. Nil disables the route.
	Cached func(ctx context.Context) ([]database.CachedView, error)

	// Renderer bounds truncation and page size for /classify. Nil uses the
	// defaults.
	Renderer *content.Renderer

	// Version is reported in view responses.
	Version string

	Logger *slog.Logger
}

// Server is the local JSON endpoint.
type Server struct {
	addr     string
	view     ViewFunc
	cached   func(ctx context.Context) ([]database.CachedView, error)
	renderer *content.Renderer
	version  string
	logger   *slog.Logger
	router   chi.Router
}

// New creates a server and registers its routes.
func New(cfg Config) *Server {
	s := &Server{
		addr:     cfg.Addr,
		view:     cfg.View,
		cached:   cfg.Cached,
		renderer: cfg.Renderer,
		version:  cfg.Version,
		logger:   cfg.Logger,
	}
	if s.addr == "" {
		s.addr = DefaultAddr
	}
	if s.renderer == nil {
		s.renderer = content.NewRenderer()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		s.requestLogger,
	)
	r.Get("/healthz", s.handleHealth)
	r.Get("/files/{id}/view", s.handleView)
	if s.cached != nil {
		r.Get("/views", s.handleCachedViews)
	}
	r.Post("/classify", s.handleClassify)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	s.router = r

	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the HTTP handler with all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on the configured address and blocks until ctx is
// canceled or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.router,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("serving classified views", "addr", "http://"+ln.Addr().String())

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// requestLogger logs each request at Debug level through slog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

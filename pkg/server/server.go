// Package server exposes the gallery service over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /metrics
//	GET    /api/walls?owner=<id>
//	POST   /api/walls
//	POST   /api/walls/import?format=json|yaml
//	GET    /api/walls/{wallID}
//	PATCH  /api/walls/{wallID}
//	DELETE /api/walls/{wallID}
//	GET    /api/walls/{wallID}/export?format=json|yaml
//	POST   /api/walls/{wallID}/fit
//	POST   /api/walls/{wallID}/check
//	POST   /api/walls/{wallID}/items
//	DELETE /api/walls/{wallID}/items/{itemID}
//	POST   /api/walls/{wallID}/items/{itemID}/move
//	POST   /api/walls/{wallID}/items/{itemID}/resize
//
// Requests authenticate with "Authorization: Bearer <session id>". Requests
// without a token are anonymous and may only read public walls.
//
// Errors are returned as JSON with the HTTP status from
// [apperrors.HTTPStatus]:
//
//	{"code": "INVALID_PLACEMENT", "message": "item a overlaps item b",
//	 "conflicts": ["b"], "out_of_bounds": false}
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/myseum/pkg/gallery"
	"github.com/matzehuels/myseum/pkg/session"
)

// Options configures a [Server].
type Options struct {
	// Sessions resolves bearer tokens. Required unless NoAuth is set.
	Sessions session.Store
	// NoAuth treats every request as the local user.
	NoAuth bool
	// Gatherer serves /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	Logger   *log.Logger
	// MaxBodyBytes bounds request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
	// ReadTimeout bounds reading a whole request. Defaults to 15s.
	ReadTimeout time.Duration
}

// Server is the HTTP API.
type Server struct {
	svc      *gallery.Service
	sessions session.Store
	noAuth   bool
	gatherer prometheus.Gatherer
	logger   *log.Logger
	maxBody  int64
	timeout  time.Duration
	router   chi.Router
}

// New creates a server over svc.
func New(svc *gallery.Service, opts Options) *Server {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 15 * time.Second
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewMemoryStore()
	}
	s := &Server{
		svc:      svc,
		sessions: opts.Sessions,
		noAuth:   opts.NoAuth,
		gatherer: opts.Gatherer,
		logger:   opts.Logger,
		maxBody:  opts.MaxBodyBytes,
		timeout:  opts.ReadTimeout,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		r.Route("/walls", func(r chi.Router) {
			r.Get("/", s.handleListWalls)
			r.Post("/", s.handleCreateWall)
			r.Post("/import", s.handleImport)

			r.Route("/{wallID}", func(r chi.Router) {
				r.Get("/", s.handleGetWall)
				r.Patch("/", s.handleUpdateWall)
				r.Delete("/", s.handleDeleteWall)
				r.Get("/export", s.handleExport)
				r.Post("/fit", s.handleFit)
				r.Post("/check", s.handleCheck)
				r.Post("/items", s.handleAddItem)
				r.Delete("/items/{itemID}", s.handleRemoveItem)
				r.Post("/items/{itemID}/move", s.handleMoveItem)
				r.Post("/items/{itemID}/resize", s.handleResizeItem)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.timeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("starting http server", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("http server shutdown error", "error", err)
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
}

// Package server exposes the catalog as a read-only JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/catalog"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/model"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/registry"
)

// Catalog is the query surface the server exposes.
type Catalog interface {
	Search(ctx context.Context, params catalog.SearchParams) (*catalog.SearchResult, error)
	FilterOptions() registry.Options
	GetPackageByID(ctx context.Context, id int64) (*model.Package, error)
	GetPackage(ctx context.Context, key registry.Key, name string) (*model.Package, error)
}

// Options configures a Server.
type Options struct {
	Addr        string
	CORSOrigins []string
	// Debug keeps gin in debug mode.
	Debug bool
}

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router  *gin.Engine
	catalog Catalog
	logger  catalog.Logger
	metrics *Metrics
	addr    string
}

// New creates a Server with every route registered.
func New(c Catalog, logger catalog.Logger, opts Options) *Server {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:  gin.New(),
		catalog: c,
		logger:  logger,
		metrics: NewMetrics(),
		addr:    opts.Addr,
	}

	s.router.Use(gin.Recovery())
	s.router.Use(requestID())
	s.router.Use(requestLogger(logger))
	s.router.Use(s.metrics.Middleware())
	s.router.Use(corsMiddleware(opts.CORSOrigins))

	s.router.GET("/health", s.health)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))

	api := s.router.Group("/api")
	api.GET("/packages", s.searchPackages)
	api.GET("/filters", s.filterOptions)
	api.GET("/package/:id", s.getPackageByID)
	api.GET("/packages/:abiVersion/:abiArch/:repository/:period/:name", s.getPackage)

	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

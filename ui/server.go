// Package ui serves the analytics engine over a JSON HTTP API, with an HTML
// report page and Prometheus metrics.
package ui

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sheetlens/internal"
	"sheetlens/internal/config"
	"sheetlens/internal/storage"
	"sheetlens/ports"
)

// Server represents the web server. One engine backs every request, so
// engine calls are serialised by mu.
type Server struct {
	router   *gin.Engine
	cfg      *config.Config
	engine   ports.AnalyticsEngine
	storage  storage.FileStorage
	gatherer prometheus.Gatherer
	logger   *internal.Logger

	mu sync.Mutex
}

// NewServer wires the routes. A nil gatherer disables the metrics endpoint.
func NewServer(cfg *config.Config, engine ports.AnalyticsEngine, store storage.FileStorage, gatherer prometheus.Gatherer, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	s := &Server{
		router:   gin.New(),
		cfg:      cfg,
		engine:   engine,
		storage:  store,
		gatherer: gatherer,
		logger:   logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/report", s.handleReport)

	api := s.router.Group("/api")
	{
		api.POST("/upload", s.handleUpload)
		api.GET("/data", s.handleData)
		api.GET("/integrity", s.handleIntegrity)
		api.POST("/remediate", s.handleRemediate)
		api.GET("/describe", s.handleDescribe)
		api.POST("/outliers", s.handleOutliers)
		api.GET("/distribution/:feature", s.handleDistribution)
		api.GET("/trend", s.handleTrend)
		api.GET("/boxplot/:feature", s.handleBoxPlot)
		api.POST("/export", s.handleExport)
		api.GET("/export/download", s.handleDownload)
	}

	if s.gatherer != nil && s.cfg.Metrics.Enabled {
		path := s.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		s.router.GET(path, gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
}

// Run serves on the configured port until ctx is cancelled, then drains
// in-flight requests
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[Server] Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("[Server] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// locked runs fn while holding the engine lock
func (s *Server) locked(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

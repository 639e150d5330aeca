package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"perfume-dashboard/charts"
	"perfume-dashboard/metrics"
	"perfume-dashboard/services"
	"perfume-dashboard/utils"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP front end of the dashboard.
type Server struct {
	svc      *services.DashboardService
	renderer *charts.Renderer
	metrics  *metrics.Metrics
	logger   *utils.Logger
	engine   *gin.Engine
	upgrader websocket.Upgrader
}

// NewServer wires every route over svc. m may be nil.
func NewServer(svc *services.DashboardService, renderer *charts.Renderer, m *metrics.Metrics, logger *utils.Logger) *Server {
	s := &Server{
		svc:      svc,
		renderer: renderer,
		metrics:  m,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	s.engine = s.newEngine()
	s.routes()
	return s
}

// NewFatalServer serves the load failure with 503 on every route. Nothing
// else is computed once the dataset failed to load.
func NewFatalServer(loadErr error, m *metrics.Metrics, logger *utils.Logger) *Server {
	s := &Server{metrics: m, logger: logger}
	s.engine = s.newEngine()
	s.engine.NoRoute(fatalHandler(loadErr))
	s.engine.NoMethod(fatalHandler(loadErr))
	return s
}

func (s *Server) newEngine() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), requestLogger(s.logger, s.metrics))
	return r
}

func (s *Server) routes() {
	r := s.engine

	r.GET("/", s.index)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "listings": s.svc.Dataset().Len()})
	})
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	r.GET("/ws", s.serveWS)
	r.GET("/charts/:file", s.chart)

	api := r.Group("/api/v1")
	api.GET("/dashboard", s.dashboard)
	api.GET("/summary", s.summary)
	api.GET("/composition", s.composition)
	api.GET("/ranking", s.ranking)
	api.GET("/brands", s.brands)
	api.GET("/prices/box", s.box)
	api.GET("/prices/strip", s.strip)
	api.GET("/prices/violin", s.violin)
	api.GET("/listings", s.listings)
	api.GET("/export.csv", s.exportCSV)
	api.GET("/export.xlsx", s.exportXLSX)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[http] Dashboard listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("dashboard: serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("[http] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dashboard: shutdown: %w", err)
	}
	return nil
}

// ABOUTME: HTTP API exposing feed loading, XML parsing and XML generation
// ABOUTME: Errors are returned as {"error": {"message", "type"}} with 400 or 500 status

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/harper/rssedit/internal/config"
	"github.com/harper/rssedit/internal/loader"
	"github.com/harper/rssedit/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server wraps the gin engine and its dependencies.
type Server struct {
	engine *gin.Engine
	loader *loader.Loader
	cfg    *config.Config
}

// New creates the server and registers its routes.
func New(cfg *config.Config, l *loader.Loader) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), AccessLog())

	s := &Server{engine: engine, loader: l, cfg: cfg}

	api := engine.Group("/api/rss")
	api.POST("", RateLimit(cfg.RateLimitPerMinute, config.DefaultRateLimitBurst), s.handleLoad)
	api.POST("/parse", s.handleParse)
	api.POST("/generate", s.handleGenerate)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// Handler returns the HTTP handler.
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

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.WithFields(logging.Fields{"addr": addr}).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

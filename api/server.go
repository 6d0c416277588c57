// Package api - Thin HTTP layer over the resolver and the bike store.
// Handlers parse input, call the core packages and serialize results; no
// part selection or pricing happens here.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bike-config/core/engine"
	"bike-config/db/bikestore"
	"bike-config/internal/logging"
	"bike-config/internal/metrics"
)

// Config wires a Server
type Config struct {
	Version string

	Resolver *engine.Resolver
	Bikes    *bikestore.Store
	Metrics  *metrics.Recorder
	Logger   *zap.Logger

	// AllowedOrigin is sent as Access-Control-Allow-Origin; empty disables CORS
	AllowedOrigin string
}

// Server is the API server
type Server struct {
	router   *gin.Engine
	handler  *Handler
	version  string
	logger   *zap.Logger
	metrics  *metrics.Recorder
	origin   string
	shutdown time.Duration
}

// NewServer creates a server with all routes registered
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Named("api")
	}

	s := &Server{
		router:   gin.New(),
		version:  cfg.Version,
		logger:   logger,
		metrics:  cfg.Metrics,
		origin:   cfg.AllowedOrigin,
		shutdown: 10 * time.Second,
	}
	s.handler = &Handler{
		resolver: cfg.Resolver,
		bikes:    cfg.Bikes,
		version:  cfg.Version,
		logger:   logger,
	}

	s.router.Use(s.recovery(), s.requestLogger())
	if s.origin != "" {
		s.router.Use(s.cors())
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	r := s.router

	// Supporting endpoints
	r.GET("/health", s.handleHealth)
	r.GET("/version", s.handleVersion)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	// Core endpoints
	r.POST("/resolve", s.handler.Resolve)
	r.POST("/options", s.handler.Options)

	bikes := r.Group("/bikes")
	{
		bikes.POST("", s.handler.CreateBike)
		bikes.GET("", s.handler.ListBikes)
		bikes.DELETE("", s.handler.DeleteBikes)
		bikes.GET("/current", s.handler.CurrentBike)
		bikes.PUT("/current/:name", s.handler.SetCurrentBike)
		bikes.GET("/current/parts", s.handler.CurrentParts)
		bikes.POST("/backup", s.handler.Backup)
		bikes.POST("/restore", s.handler.Restore)
	}
}

// handleHealth handles GET /health
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleVersion handles GET /version
func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": s.version,
		"engine":  "bike-config",
	})
}

func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", s.origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.Error("handler panic",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "INTERNAL_ERROR", Message: "internal server error"},
		})
	})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

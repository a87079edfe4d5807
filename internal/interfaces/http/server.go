// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/app"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/interfaces/http/middleware"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/interfaces/http/routes"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/tenant"
)

// Server represents the HTTP server
type Server struct {
	app        *app.App
	gin        *gin.Engine
	httpServer *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(a *app.App) *Server {
	return &Server{app: a}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	cfg := s.app.Config

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	s.gin = gin.New()
	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	s.app.Logger.WithField("port", cfg.Server.Port).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	// Recovery middleware - recover from panics
	s.gin.Use(gin.Recovery())

	// Custom logger middleware
	s.gin.Use(middleware.Logger(s.app.Logger))

	// CORS middleware
	s.gin.Use(middleware.CORS(s.app.Config))

	// Request ID middleware
	s.gin.Use(middleware.RequestID())

	// Security headers middleware
	s.gin.Use(middleware.SecurityHeaders())

	// Timeout middleware
	s.gin.Use(middleware.Timeout(30 * time.Second))

	// Rate limiting rides on the catalog cache connection when Redis is up
	if client := s.app.CacheClient(); client != nil {
		s.gin.Use(middleware.RateLimit(s.app.Config, client))
	}

	// Tenant resolution: every request runs in the context of one storefront
	s.gin.Use(tenant.Middleware())
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)

	v1 := s.gin.Group("/api/v1")
	{
		routes.SetupTenantRoutes(v1, s.app)
		routes.SetupProductRoutes(v1, s.app)
		routes.SetupAuthRoutes(v1, s.app)
		routes.SetupCartRoutes(v1, s.app)
		routes.SetupOrderRoutes(v1, s.app)
	}
}

// healthCheck reports basic process health
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"app":     s.app.Config.App.Name,
		"version": s.app.Config.App.Version,
	})
}

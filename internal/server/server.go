// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stwalsh4118/lyra/internal/api"
	"github.com/stwalsh4118/lyra/internal/config"
	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/identity"
	"github.com/stwalsh4118/lyra/internal/logger"
	"github.com/stwalsh4118/lyra/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	deps   api.Dependencies
	router *gin.Engine
	server *http.Server
}

// New creates a new server instance. rdb may be nil, which disables token revocation.
func New(cfg *config.Config, database *db.DB, rdb *redis.Client) *Server {
	var revocations identity.RevocationStore
	if rdb != nil {
		revocations = identity.NewRedisRevocationStore(rdb)
	}

	s := &Server{
		config: cfg,
		deps: api.Dependencies{
			DB:             database,
			Factory:        db.NewScopeFactory(database, cfg.Database.Role),
			Provider:       identity.NewLocalProvider(database, cfg.Auth.BcryptCost),
			Issuer:         identity.NewTokenIssuer(cfg.Auth),
			Verifier:       identity.NewVerifier(cfg.Auth, revocations),
			RequestTimeout: cfg.Server.RequestTimeout,
		},
	}
	s.setupRouter()

	// Start and Shutdown use this from different goroutines
	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	return s
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.New(corsConfig()))

	api.SetupRoutes(s.router, s.deps)
}

// corsConfig allows any origin to send bearer tokens
func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
	cfg.AddExposeHeaders(middleware.RequestIDHeader)
	return cfg
}

// Start starts the HTTP server. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	logger.Log.Info().
		Str("addr", s.server.Addr).
		Str("database", string(s.deps.DB.Dialect())).
		Bool("revocation", s.deps.Verifier.RevocationEnabled()).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}

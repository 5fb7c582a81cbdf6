// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"marquee/internal/api"
	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/db"
	"marquee/internal/engine"
	"marquee/internal/logger"
	"marquee/internal/middleware"
	"marquee/internal/playback"
)

// Server represents the HTTP server
type Server struct {
	config         *config.Config
	db             *db.DB
	repos          *db.Repositories
	engine         *engine.Engine
	catalogService *catalog.Service
	persister      *playback.Persister
	router         *gin.Engine
	server         *http.Server

	cancelBackground context.CancelFunc
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) *Server {
	repos := db.NewRepositories(database)
	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	catalogService := catalog.NewService(client, repos)
	persister := playback.NewPersister(repos.PlaybackConfigs)

	return &Server{
		config:         cfg,
		db:             database,
		repos:          repos,
		engine:         engine.New(),
		catalogService: catalogService,
		persister:      persister,
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default())

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.db)
	api.SetupChannelRoutes(apiGroup, s.engine, s.catalogService, s.config.Stream.Host)
	api.SetupPlaybackRoutes(apiGroup, s.persister)
}

// Start builds the initial schedule and starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	// Seed the schedule from the catalog; an unreachable upstream with no
	// snapshot leaves the channel idle until a refresh succeeds
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Catalog.Timeout+5*time.Second)
	items, err := s.catalogService.Load(ctx)
	cancel()
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Msg("No catalog available at startup, channel starts idle")
	} else {
		s.engine.Rebuild(items)
	}

	backgroundCtx, cancelBackground := context.WithCancel(context.Background())
	s.cancelBackground = cancelBackground

	go s.engine.Run(backgroundCtx)
	go s.refreshLoop(backgroundCtx)

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// refreshLoop periodically refetches the catalog and rebuilds the schedule
func (s *Server) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.Catalog.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refreshCtx, cancel := context.WithTimeout(ctx, s.config.Catalog.Timeout+5*time.Second)
			items, err := s.catalogService.Refresh(refreshCtx)
			cancel()
			if err != nil {
				// Keep broadcasting from the current schedule
				logger.Log.Warn().
					Err(err).
					Msg("Periodic catalog refresh failed")
				continue
			}
			s.engine.Rebuild(items)
		}
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	if s.cancelBackground != nil {
		s.cancelBackground()
	}

	// Pending playback state must land before the process exits
	if err := s.persister.Close(ctx); err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to flush playback configs on shutdown")
	}

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}

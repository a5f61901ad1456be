package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"ncs-viewer-go/internal/api/handlers"
	"ncs-viewer-go/internal/api/middleware"
	"ncs-viewer-go/internal/config"
)

type Server struct {
	config *config.Config
	router *gin.Engine
	server *http.Server

	healthHandler *handlers.HealthHandler
	statsHandler  *handlers.StatsHandler
	streamHandler *handlers.StreamHandler
}

func NewServer(cfg *config.Config, viewer handlers.ViewerStatus, frames handlers.FrameSource) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	s := &Server{
		config:        cfg,
		router:        router,
		healthHandler: handlers.NewHealthHandler(cfg.WorkerID, cfg.Version, viewer),
		statsHandler:  handlers.NewStatsHandler(cfg.WorkerID, viewer),
		streamHandler: handlers.NewStreamHandler(frames),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupSwagger()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestContext())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.CORS())
}

// Start blocks serving HTTP until Shutdown is called
func (s *Server) Start() error {
	log.Info().Int("port", s.config.Port).Msg("Starting viewer API")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Stopping viewer API")
	return s.server.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

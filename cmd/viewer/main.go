package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog/log"

	"ncs-viewer-go/internal/api"
	"ncs-viewer-go/internal/config"
	"ncs-viewer-go/internal/logging"
	"ncs-viewer-go/internal/services"
)

// HighGUI must be driven from the main OS thread
func init() {
	runtime.LockOSThread()
}

// @title NCS Detection Viewer API
// @version 1.0.0
// @description Renders object detections from the NCS stream onto their frames and serves them as a window, MJPEG stream and stats API
// @BasePath /
func main() {
	cfg := config.Load()
	logging.Setup(cfg)

	log.Info().
		Str("worker_id", cfg.WorkerID).
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Str("nats_url", cfg.NatsURL).
		Str("subject", cfg.DetectionsSubject).
		Bool("display_enabled", cfg.DisplayEnabled).
		Bool("mjpeg_enabled", cfg.MJPEGEnabled).
		Int("port", cfg.Port).
		Msg("Starting NCS detection viewer")

	container, err := services.NewServiceContainer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create services")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(cfg, container.Viewer, container.Publisher)
	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("API server failed")
			stop()
		}
	}()

	grpcServer := api.NewGRPCServer(cfg, container.Viewer)
	go func() {
		if err := grpcServer.Start(ctx); err != nil {
			log.Error().Err(err).Msg("gRPC server failed")
			stop()
		}
	}()

	// Blocks on the main thread until a signal arrives or the bus goes away
	exitCode := 0
	if err := container.Viewer.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Viewer stopped unexpectedly")
		exitCode = 1
	} else {
		log.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("API server forced to shutdown")
	}
	if err := grpcServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("gRPC server forced to shutdown")
	}
	if err := container.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Services forced to shutdown")
	} else {
		log.Info().Msg("Viewer shutdown complete")
	}

	if exitCode != 0 {
		cancel()
		os.Exit(exitCode)
	}
}

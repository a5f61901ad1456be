package api

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"ncs-viewer-go/internal/api/handlers"
	"ncs-viewer-go/internal/config"
)

// ViewerServiceName is the health service name reported alongside the
// overall ("") status
const ViewerServiceName = "ncs.viewer.Viewer"

// GRPCServer exposes the standard gRPC health service driven by the viewer's
// health, plus server reflection
type GRPCServer struct {
	config *config.Config
	viewer handlers.ViewerStatus
	server *grpc.Server
	health *health.Server
}

func NewGRPCServer(cfg *config.Config, viewer handlers.ViewerStatus) *GRPCServer {
	server := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(server, healthSrv)
	reflection.Register(server)

	g := &GRPCServer{
		config: cfg,
		viewer: viewer,
		server: server,
		health: healthSrv,
	}
	g.updateStatus()
	return g
}

// Start listens on the configured port and serves until Shutdown
func (g *GRPCServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", g.config.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port %d: %w", g.config.GRPCPort, err)
	}
	return g.Serve(ctx, lis)
}

func (g *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	go g.watch(ctx)

	log.Info().Str("addr", lis.Addr().String()).Msg("Starting gRPC health server")
	if err := g.server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

func (g *GRPCServer) watch(ctx context.Context) {
	interval := g.config.HealthCheckInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.updateStatus()
		}
	}
}

func (g *GRPCServer) updateStatus() {
	status := healthpb.HealthCheckResponse_SERVING
	if !g.viewer.Healthy() {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	g.health.SetServingStatus("", status)
	g.health.SetServingStatus(ViewerServiceName, status)
}

func (g *GRPCServer) Shutdown(ctx context.Context) error {
	log.Info().Msg("Stopping gRPC health server")
	g.health.Shutdown()

	done := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		g.server.Stop()
		return ctx.Err()
	}
}

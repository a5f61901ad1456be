package api

import (
	"context"
	"net"
	"testing"
	"time"

	"go.viam.com/test"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"ncs-viewer-go/internal/config"
)

func TestGRPCHealth(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	viewer := &fakeViewer{healthy: true}
	cfg := &config.Config{HealthCheckInterval: time.Hour}
	srv := NewGRPCServer(cfg, viewer)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	test.That(t, err, test.ShouldBeNil)
	go srv.Serve(ctx, lis)
	defer srv.Shutdown(context.Background())

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	test.That(t, err, test.ShouldBeNil)
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	callCtx, callCancel := context.WithTimeout(ctx, 5*time.Second)
	defer callCancel()

	resp, err := client.Check(callCtx, &healthpb.HealthCheckRequest{Service: ViewerServiceName})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp.Status, test.ShouldEqual, healthpb.HealthCheckResponse_SERVING)

	viewer.healthy = false
	srv.updateStatus()

	resp, err = client.Check(callCtx, &healthpb.HealthCheckRequest{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp.Status, test.ShouldEqual, healthpb.HealthCheckResponse_NOT_SERVING)
}

// Package health поднимает gRPC-сервер со стандартным сервисом grpc.health.v1.
//
// Статус сервиса "lms" периодически обновляется проверкой готовности
// хранилища: SERVING, пока проверка проходит, иначе NOT_SERVING.
package health

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
)

// ServiceName — имя сервиса в ответах health-проверки.
const ServiceName = "lms"

// Probe проверяет готовность зависимостей.
type Probe func(ctx context.Context) error

// Server — gRPC health-сервер.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	probe      Probe
	interval   time.Duration
	log        *slog.Logger
}

// New создаёт Server. До первой проверки сервис считается NOT_SERVING.
func New(probe Probe, interval time.Duration, log *slog.Logger) *Server {
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	return &Server{
		grpcServer: gs,
		health:     hs,
		probe:      probe,
		interval:   interval,
		log:        log,
	}
}

// Check выполняет проверку и обновляет статус.
func (s *Server) Check(ctx context.Context) {
	const op = "health.Check"
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.probe(ctx); err != nil {
		s.log.Warn("readiness probe failed", slog.String("op", op), sl.Err(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus(ServiceName, status)
	s.health.SetServingStatus("", status)
}

// Serve обслуживает lis до отмены ctx.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("gRPC health service listening on", slog.String("address", lis.Addr().String()))
		errCh <- s.grpcServer.Serve(lis)
	}()

	s.Check(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
			return nil
		case err := <-errCh:
			return err
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

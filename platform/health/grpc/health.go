package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Health обёртка над стандартным gRPC health service (probes оркестратора)
type Health struct {
	srv *health.Server
}

// New создаёт Health; для readiness стартовать лучше с NOT_SERVING
func New(initialStatus grpc_health_v1.HealthCheckResponse_ServingStatus) *Health {
	srv := health.NewServer()
	srv.SetServingStatus("", initialStatus)
	return &Health{srv: srv}
}

// Register регистрирует health service; вызывать до Serve
func (h *Health) Register(grpcSrv *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(grpcSrv, h.srv)
}

// SetServing переводит serviceName ("" = весь сервер) в SERVING
func (h *Health) SetServing(serviceName string) {
	h.srv.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)
}

// SetNotServing переводит serviceName ("" = весь сервер) в NOT_SERVING
func (h *Health) SetNotServing(serviceName string) {
	h.srv.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
}

// Watch периодически вызывает check и переключает общий статус.
// Блокируется до отмены ctx.
func (h *Health) Watch(ctx context.Context, interval time.Duration, check func(context.Context) error, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	serving := false
	for {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		err := check(checkCtx)
		cancel()

		switch {
		case err == nil && !serving:
			h.SetServing("")
			serving = true
			logger.Info("readiness status set to SERVING")
		case err != nil && serving:
			h.SetNotServing("")
			serving = false
			logger.Warn("readiness status set to NOT_SERVING", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

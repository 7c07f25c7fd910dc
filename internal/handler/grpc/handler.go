// Package grpc exposes the standard gRPC health service of the document
// server so orchestrators can probe liveness without an HTTP round trip.
package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-life-keeper/internal/logger"
)

// DocumentServiceName is the health-check service name reported for the
// document API.
const DocumentServiceName = "lifekeeper.DocumentService"

// Handler is the root gRPC transport handler. It owns the health server and
// the unary logging interceptor.
type Handler struct {
	health *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler] whose health server starts out SERVING.
func NewHandler(logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")

	hs := health.NewServer()
	hs.SetServingStatus(DocumentServiceName, healthpb.HealthCheckResponse_SERVING)

	return &Handler{
		health: hs,
		logger: logger,
	}
}

// Register attaches every service of the handler to server.
func (h *Handler) Register(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, h.health)
}

// Shutdown flips every service to NOT_SERVING so in-flight watchers are told
// before the listener closes.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}

// LoggingInterceptor writes one access log line per unary call.
func (h *Handler) LoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	event := h.logger.Debug()
	if err != nil {
		event = h.logger.Warn().Err(err)
	}
	event.Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Send()

	return resp, err
}

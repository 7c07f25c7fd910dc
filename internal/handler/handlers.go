package handler

import (
	"github.com/MKhiriev/go-life-keeper/internal/config"
	"github.com/MKhiriev/go-life-keeper/internal/handler/grpc"
	"github.com/MKhiriev/go-life-keeper/internal/handler/http"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

// NewHandlers creates a transport handler for every address configured in
// cfg.Server. The REST handler verifies request hashes when cfg.App.HashKey
// is set.
func NewHandlers(services *service.Services, cfg *config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, cfg.App.HashKey, logger)
	}
	if cfg.Server.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}

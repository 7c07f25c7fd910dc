package http

import (
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/service"
	"github.com/MKhiriev/go-life-keeper/internal/utils"
)

type Handler struct {
	services *service.Services

	// verifyHash is set when a hash key is configured; PUT bodies must then
	// carry a matching HashSHA256 header.
	verifyHash bool

	logger *logger.Logger
}

// NewHandler creates the REST handler. A non-empty hashKey initialises the
// shared HMAC pool and turns on request body verification.
func NewHandler(services *service.Services, hashKey string, logger *logger.Logger) *Handler {
	if hashKey != "" {
		utils.InitHasherPool(hashKey)
	}

	logger.Info().Bool("verify_hash", hashKey != "").Msg("http handler created")
	return &Handler{
		services:   services,
		verifyHash: hashKey != "",
		logger:     logger,
	}
}

package service

import (
	"fmt"

	"github.com/MKhiriev/go-life-keeper/internal/config"
	"github.com/MKhiriev/go-life-keeper/internal/crypto"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/store"
	"github.com/MKhiriev/go-life-keeper/models"
)

type Services struct {
	AuthService     AuthService
	DocumentService DocumentService
	AppInfoService  AppInfoService
}

func NewServices(storages *store.Storages, cfg *config.StructuredConfig, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	documents := NewDocumentService(storages.DocumentRepository, cfg.Server.MaxPollWait, logger)
	maxWaitSeconds := int(cfg.Server.MaxPollWait.Seconds())

	return &Services{
		AuthService:     NewAuthService(storages.UserRepository, crypto.NewPasswordHasher(), cfg.App, logger),
		DocumentService: NewDocumentValidationService(maxWaitSeconds).Wrap(documents),
		AppInfoService:  appInfo,
	}, nil
}

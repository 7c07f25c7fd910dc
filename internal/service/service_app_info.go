package service

import (
	"context"

	"github.com/MKhiriev/go-life-keeper/internal/config"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/models"
)

type appInfoService struct {
	appVersion string
	build      models.AppBuildInfo

	logger *logger.Logger
}

// NewAppInfoService reports cfg.Version, or the linker-injected build version
// when the configuration has none.
func NewAppInfoService(cfg config.App, build models.AppBuildInfo, logger *logger.Logger) (AppInfoService, error) {
	version := cfg.Version
	if version == "" {
		version = build.BuildVersion()
	}
	if version == "" || version == "N/A" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		appVersion: version,
		build:      build,
		logger:     logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.appVersion
}

func (s *appInfoService) GetBuildInfo(ctx context.Context) models.AppBuildInfo {
	return s.build
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-life-keeper/internal/config"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// NewAppInfoService
// ─────────────────────────────────────────────

func TestNewAppInfoService_Success(t *testing.T) {
	svc, err := NewAppInfoService(config.App{Version: "1.0.0"}, models.AppBuildInfo{}, logger.Nop())

	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestNewAppInfoService_NoVersionAnywhere_ReturnsError(t *testing.T) {
	svc, err := NewAppInfoService(config.App{}, models.NewAppBuildInfo("N/A", "N/A", "N/A"), logger.Nop())

	assert.Nil(t, svc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVersionIsNotSpecified))
}

func TestNewAppInfoService_FallsBackToBuildVersion(t *testing.T) {
	build := models.NewAppBuildInfo("v0.4.0", "2026-05-01", "abc123")

	svc, err := NewAppInfoService(config.App{}, build, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "v0.4.0", svc.GetAppVersion(context.Background()))
	assert.Equal(t, "abc123", svc.GetBuildInfo(context.Background()).BuildCommit())
}

// ─────────────────────────────────────────────
// GetAppVersion
// ─────────────────────────────────────────────

func TestGetAppVersion_ConfigBeatsBuild(t *testing.T) {
	build := models.NewAppBuildInfo("v0.4.0", "", "")
	svc, err := NewAppInfoService(config.App{Version: "3.1.4"}, build, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "3.1.4", svc.GetAppVersion(context.Background()))
}

func TestGetAppVersion_DifferentInstances_IndependentVersions(t *testing.T) {
	svc1, err := NewAppInfoService(config.App{Version: "1.0.0"}, models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)

	svc2, err := NewAppInfoService(config.App{Version: "2.0.0"}, models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", svc1.GetAppVersion(context.Background()))
	assert.Equal(t, "2.0.0", svc2.GetAppVersion(context.Background()))
}

func TestGetAppVersion_CancelledContext_StillReturnsVersion(t *testing.T) {
	svc, err := NewAppInfoService(config.App{Version: "1.0.0"}, models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "1.0.0", svc.GetAppVersion(ctx))
}

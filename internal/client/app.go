package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-life-keeper/internal/config"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/service"
	"github.com/MKhiriev/go-life-keeper/internal/workers"
)

var ErrNoUI = errors.New("no user interface is configured")

type App struct {
	services *service.ClientServices
	ui       UI
	cfg      config.ClientSync
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, ui UI, cfg config.ClientSync, logger *logger.Logger) (*App, error) {
	if ui == nil {
		return nil, ErrNoUI
	}

	return &App{
		services: services,
		ui:       ui,
		cfg:      cfg,
		logger:   logger.WithComponent("client"),
	}, nil
}

// Run loads every domain store, restores the previous session and runs the
// UI and the sync engine until either of them finishes.
func (a *App) Run(ctx context.Context) error {
	log := a.logger.With().Str("func", "*App.Run").Logger()

	if err := a.services.Registry.LoadAll(ctx); err != nil {
		return fmt.Errorf("error loading local state: %w", err)
	}
	defer a.services.Registry.Close()

	identity, err := a.services.AuthService.RestoreSession(ctx)
	switch {
	case err != nil:
		// a broken session only means the user signs in again
		log.Warn().Err(err).Msg("could not restore session")
	case identity != nil:
		log.Info().Int64("user_id", identity.UserID).Msg("session restored")
	default:
		log.Info().Msg("no saved session")
	}

	return workers.NewWorkers(
		workers.NewSyncWorker(a.services.SyncService, a.services.SyncJob, a.cfg.RetryInterval, a.logger),
		workers.WorkerFunc(a.ui.Run),
	).Run(ctx)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/service"
)

// SyncWorker keeps the sync engine and its retry job running for the
// lifetime of the context.
type SyncWorker struct {
	engine        service.ClientSyncService
	job           service.ClientSyncJob
	retryInterval time.Duration
	logger        *logger.Logger
}

func NewSyncWorker(engine service.ClientSyncService, job service.ClientSyncJob, retryInterval time.Duration, logger *logger.Logger) *SyncWorker {
	return &SyncWorker{
		engine:        engine,
		job:           job,
		retryInterval: retryInterval,
		logger:        logger.WithComponent("sync_worker"),
	}
}

// Run starts the engine and the retry job and tears both down when ctx is
// done. The stores must be loaded before Run.
func (w *SyncWorker) Run(ctx context.Context) error {
	log := w.logger.With().Str("func", "SyncWorker.Run").Logger()

	w.engine.Start(ctx)
	w.job.Start(ctx, w.retryInterval)
	log.Info().Dur("retry_interval", w.retryInterval).Msg("sync started")

	<-ctx.Done()

	w.job.Stop()
	w.engine.Stop()
	log.Info().Msg("sync stopped")
	return nil
}

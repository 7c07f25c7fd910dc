package service

import (
	"github.com/MKhiriev/go-life-keeper/internal/adapter"
	"github.com/MKhiriev/go-life-keeper/internal/config"
	"github.com/MKhiriev/go-life-keeper/internal/domain"
	"github.com/MKhiriev/go-life-keeper/internal/events"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/notify"
	"github.com/MKhiriev/go-life-keeper/internal/store"
	"github.com/MKhiriev/go-life-keeper/internal/utils"
)

const noticeFeedSize = 16

type ClientServices struct {
	Bus         *events.Bus
	Tracker     *domain.ChangeTracker
	Registry    *domain.Registry
	Notices     *notify.Feed
	AuthService ClientAuthService
	Builder     SnapshotBuilder
	Applier     LocalApplier
	SyncService ClientSyncService
	SyncJob     ClientSyncJob
}

// NewClientServices wires the domain stores, the sync engine and its
// collaborators around one local key-value storage.
func NewClientServices(storage store.KeyValueStorage, serverAdapter adapter.ServerAdapter, channel RemoteDocumentChannel, cfg config.ClientSync, clock utils.Scheduler, logger *logger.Logger) *ClientServices {
	bus := events.NewBus()
	tracker := domain.NewChangeTracker(storage, bus, clock, logger)
	registry := domain.NewRegistry(storage, tracker, bus, logger)
	feed := notify.NewFeed(noticeFeedSize)

	authSvc := NewClientAuthService(storage, serverAdapter, clock, logger)
	builder := NewSnapshotBuilder(registry, tracker)
	applier := NewLocalApplier(storage, tracker, bus, logger)

	syncSvc := NewClientSyncService(SyncDeps{
		Builder:  builder,
		Channel:  channel,
		Applier:  applier,
		Identity: authSvc,
		Stores:   registry,
		Account:  NewLocalAccount(storage, tracker, bus, logger),
		Bus:      bus,
		Notices:  notify.FanOut{notify.NewLogSink(logger), feed},
		Clock:    clock,
	}, cfg, logger)

	return &ClientServices{
		Bus:         bus,
		Tracker:     tracker,
		Registry:    registry,
		Notices:     feed,
		AuthService: authSvc,
		Builder:     builder,
		Applier:     applier,
		SyncService: syncSvc,
		SyncJob:     NewClientSyncJob(syncSvc, logger),
	}
}

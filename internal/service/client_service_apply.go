// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/MKhiriev/go-life-keeper/internal/domain"
	"github.com/MKhiriev/go-life-keeper/internal/events"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/store"
	"github.com/MKhiriev/go-life-keeper/models"
)

// StampAdopter takes over the stamp of an applied remote snapshot.
type StampAdopter interface {
	Adopt(stamp time.Time)
}

type localApplier struct {
	storage store.KeyValueStorage
	tracker StampAdopter
	bus     *events.Bus
	logger  *logger.Logger
}

// NewLocalApplier returns a LocalApplier writing to storage. When storage is
// also a store.BatchSaver all writes of one snapshot share a transaction.
func NewLocalApplier(storage store.KeyValueStorage, tracker StampAdopter, bus *events.Bus, logger *logger.Logger) LocalApplier {
	return &localApplier{
		storage: storage,
		tracker: tracker,
		bus:     bus,
		logger:  logger.WithComponent("applier"),
	}
}

// Apply overwrites the storage key of every module present in snapshot.
// Modules missing from it keep their local data. Modules named in the
// reserved key space are dropped, so a remote snapshot can never replace the
// session, device id or stamp. The snapshot stamp is
// written with the modules. On success a single reload event is published;
// on failure nothing is.
//
// Without batch support writes happen one key at a time and a failure can
// leave earlier keys overwritten.
func (a *localApplier) Apply(ctx context.Context, snapshot models.Snapshot) error {
	log := a.logger.With().Str("func", "*localApplier.Apply").Logger()

	entries := make(map[string]json.RawMessage, len(snapshot.Modules)+1)
	for name, data := range snapshot.Modules {
		if name.IsReserved() {
			log.Warn().Str("module", string(name)).Msg("reserved module name in remote snapshot skipped")
			continue
		}
		if !name.IsKnown() {
			log.Debug().Str("module", string(name)).Msg("module unknown to this version stored as is")
		}

		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("error encoding module %s: %w", name, err)
		}
		entries[name.StorageKey()] = raw
	}

	stamp, err := domain.EncodeStamp(snapshot.ExportedAt)
	if err != nil {
		return err
	}
	entries[store.MetaExportedAtKey] = stamp

	if batch, ok := a.storage.(store.BatchSaver); ok {
		err = batch.SaveBatch(ctx, entries)
	} else {
		err = a.saveSequentially(ctx, entries)
	}
	if err != nil {
		return fmt.Errorf("error applying remote snapshot: %w", err)
	}

	a.tracker.Adopt(snapshot.ExportedAt)
	a.bus.Publish(events.Event{Topic: events.TopicReload, Source: "applier"})

	log.Debug().
		Time("exported_at", snapshot.ExportedAt).
		Int("modules", len(entries)-1).
		Msg("remote snapshot applied")

	return nil
}

// the stamp goes last so that an interrupted apply never claims to be
// complete
func (a *localApplier) saveSequentially(ctx context.Context, entries map[string]json.RawMessage) error {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		if key != store.MetaExportedAtKey {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	keys = append(keys, store.MetaExportedAtKey)

	for _, key := range keys {
		if err := a.storage.Save(ctx, key, entries[key]); err != nil {
			return fmt.Errorf("error saving %s: %w", key, err)
		}
	}

	return nil
}

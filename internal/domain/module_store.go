// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/huandu/go-clone"

	"github.com/MKhiriev/go-life-keeper/internal/events"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/store"
	"github.com/MKhiriev/go-life-keeper/models"
)

// ModuleStore keeps one module's data in memory, backed by local storage
// under the module's storage key.
type ModuleStore struct {
	mu     sync.RWMutex
	data   any
	loaded bool

	module  models.ModuleName
	storage store.KeyValueStorage
	tracker *ChangeTracker
	logger  *logger.Logger

	unsubscribe func()
}

// NewModuleStore builds a store for module and subscribes it to reload
// events on bus. The store is empty until Load.
func NewModuleStore(module models.ModuleName, storage store.KeyValueStorage, tracker *ChangeTracker, bus *events.Bus, logger *logger.Logger) *ModuleStore {
	s := &ModuleStore{
		module:  module,
		storage: storage,
		tracker: tracker,
		logger:  logger.WithComponent("store." + string(module)),
	}
	s.unsubscribe = bus.Subscribe(events.TopicReload, func(events.Event) {
		if err := s.Reload(context.Background()); err != nil {
			s.logger.Err(err).Str("func", "*ModuleStore.Reload").Msg("error reloading module")
		}
	})

	return s
}

func (s *ModuleStore) Module() models.ModuleName {
	return s.module
}

// CurrentData returns the module data. The value is shared; callers that
// keep it must copy it.
func (s *ModuleStore) CurrentData() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *ModuleStore) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Load reads the module from storage. A module never saved starts with
// models.DefaultModuleData.
func (s *ModuleStore) Load(ctx context.Context) error {
	data, err := s.read(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data = data
	s.loaded = true
	s.mu.Unlock()

	return nil
}

// Reload re-reads the module from storage without reporting a local change.
func (s *ModuleStore) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// Set replaces the module data, persists it and reports a local change.
func (s *ModuleStore) Set(ctx context.Context, data any) error {
	if !s.IsLoaded() {
		return ErrStoreNotLoaded
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error encoding module %s: %w", s.module, err)
	}

	// decode again so the kept value has the same shape as a loaded one
	var normalized any
	if err = json.Unmarshal(raw, &normalized); err != nil {
		return fmt.Errorf("error decoding module %s: %w", s.module, err)
	}

	if err = s.storage.Save(ctx, s.module.StorageKey(), raw); err != nil {
		return fmt.Errorf("error saving module %s: %w", s.module, err)
	}

	s.mu.Lock()
	s.data = normalized
	s.mu.Unlock()

	s.tracker.NotifyChanged(ctx, s.module)

	return nil
}

// Update passes a copy of the current data to fn and stores what fn returns.
func (s *ModuleStore) Update(ctx context.Context, fn func(current any) (any, error)) error {
	if !s.IsLoaded() {
		return ErrStoreNotLoaded
	}

	next, err := fn(clone.Clone(s.CurrentData()))
	if err != nil {
		return err
	}

	return s.Set(ctx, next)
}

// Close stops listening for reload events.
func (s *ModuleStore) Close() {
	s.unsubscribe()
}

func (s *ModuleStore) read(ctx context.Context) (any, error) {
	raw, err := s.storage.Load(ctx, s.module.StorageKey())
	if errors.Is(err, store.ErrKeyNotFound) {
		return models.DefaultModuleData(s.module), nil
	}
	if err != nil {
		return nil, fmt.Errorf("error loading module %s: %w", s.module, err)
	}

	var data any
	if err = json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodingModule, s.module, err)
	}

	return data, nil
}

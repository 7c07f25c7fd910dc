package domain

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-life-keeper/internal/events"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/store"
	"github.com/MKhiriev/go-life-keeper/internal/utils"
	"github.com/MKhiriev/go-life-keeper/models"
)

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T) (*ChangeTracker, *store.MemoryKeyValueStorage, *events.Bus, *utils.ManualScheduler) {
	t.Helper()
	storage := store.NewMemoryKeyValueStorage()
	bus := events.NewBus()
	clock := utils.NewManualScheduler(t0)
	return NewChangeTracker(storage, bus, clock, logger.Nop()), storage, bus, clock
}

func TestChangeTracker_NotifyChanged(t *testing.T) {
	tracker, storage, bus, _ := newTestTracker(t)

	var got []events.Event
	bus.Subscribe(events.TopicLocalChange, func(e events.Event) { got = append(got, e) })

	tracker.NotifyChanged(context.Background(), models.ModuleTasks)

	assert.True(t, t0.Equal(tracker.Stamp()))
	require.Len(t, got, 1)
	assert.Equal(t, "tasks", got[0].Source)

	raw, err := storage.Load(context.Background(), store.MetaExportedAtKey)
	require.NoError(t, err)
	persisted, err := DecodeStamp(raw)
	require.NoError(t, err)
	assert.True(t, t0.Equal(persisted))
}

func TestChangeTracker_StampNeverGoesBack(t *testing.T) {
	tracker, _, _, clock := newTestTracker(t)

	tracker.NotifyChanged(context.Background(), models.ModuleTasks)
	first := tracker.Stamp()

	// same instant
	tracker.NotifyChanged(context.Background(), models.ModuleTasks)
	assert.True(t, tracker.Stamp().After(first))

	// clock moved backwards
	clock.Set(t0.Add(-time.Hour))
	before := tracker.Stamp()
	tracker.NotifyChanged(context.Background(), models.ModuleTasks)
	assert.True(t, tracker.Stamp().After(before))
}

func TestChangeTracker_AdoptOnlyMovesForward(t *testing.T) {
	tracker, _, _, _ := newTestTracker(t)

	tracker.Adopt(t0.Add(time.Hour))
	assert.True(t, t0.Add(time.Hour).Equal(tracker.Stamp()))

	tracker.Adopt(t0)
	assert.True(t, t0.Add(time.Hour).Equal(tracker.Stamp()))
}

func TestChangeTracker_TouchDoesNotPublish(t *testing.T) {
	tracker, _, bus, clock := newTestTracker(t)

	published := 0
	bus.Subscribe(events.TopicLocalChange, func(events.Event) { published++ })

	clock.Advance(time.Minute)
	stamp := tracker.Touch(context.Background())

	assert.True(t, t0.Add(time.Minute).Equal(stamp))
	assert.Zero(t, published)
}

func TestChangeTracker_Restore(t *testing.T) {
	tracker, storage, _, _ := newTestTracker(t)

	require.NoError(t, tracker.Restore(context.Background()))
	assert.True(t, tracker.Stamp().IsZero())

	raw, err := EncodeStamp(t0.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, storage.Save(context.Background(), store.MetaExportedAtKey, raw))

	require.NoError(t, tracker.Restore(context.Background()))
	assert.True(t, t0.Add(-time.Hour).Equal(tracker.Stamp()))
}

func TestChangeTracker_RestoreRejectsGarbage(t *testing.T) {
	tracker, storage, _, _ := newTestTracker(t)
	require.NoError(t, storage.Save(context.Background(), store.MetaExportedAtKey, json.RawMessage(`42`)))

	assert.Error(t, tracker.Restore(context.Background()))
}

func TestChangeTracker_Reset(t *testing.T) {
	tracker, storage, _, _ := newTestTracker(t)
	tracker.NotifyChanged(context.Background(), models.ModuleGoals)

	tracker.Reset(context.Background())

	assert.True(t, tracker.Stamp().IsZero())
	_, err := storage.Load(context.Background(), store.MetaExportedAtKey)
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
}

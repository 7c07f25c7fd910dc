package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-life-keeper/internal/events"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/store"
	"github.com/MKhiriev/go-life-keeper/internal/utils"
	"github.com/MKhiriev/go-life-keeper/models"
)

// ChangeTracker keeps the local stamp: the instant of the latest local
// mutation, or of the latest adopted remote snapshot. The stamp never moves
// backwards and is persisted under store.MetaExportedAtKey.
type ChangeTracker struct {
	mu      sync.Mutex
	stamp   time.Time
	storage store.KeyValueStorage
	bus     *events.Bus
	clock   utils.Scheduler
	logger  *logger.Logger
}

func NewChangeTracker(storage store.KeyValueStorage, bus *events.Bus, clock utils.Scheduler, logger *logger.Logger) *ChangeTracker {
	return &ChangeTracker{
		storage: storage,
		bus:     bus,
		clock:   clock,
		logger:  logger,
	}
}

// Restore reads the persisted stamp. A missing stamp leaves the zero time.
func (t *ChangeTracker) Restore(ctx context.Context) error {
	raw, err := t.storage.Load(ctx, store.MetaExportedAtKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error loading local stamp: %w", err)
	}

	stamp, err := DecodeStamp(raw)
	if err != nil {
		return err
	}

	t.mu.Lock()
	if stamp.After(t.stamp) {
		t.stamp = stamp
	}
	t.mu.Unlock()

	return nil
}

// Stamp returns the current local stamp.
func (t *ChangeTracker) Stamp() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stamp
}

// NotifyChanged records a local mutation of module: the stamp advances to
// now (or just past the previous stamp when the clock lags), is persisted and
// events.TopicLocalChange is published.
func (t *ChangeTracker) NotifyChanged(ctx context.Context, module models.ModuleName) {
	stamp := t.advance()

	if err := t.persist(ctx, stamp); err != nil {
		t.logger.Err(err).Str("func", "*ChangeTracker.NotifyChanged").Str("module", string(module)).Msg("error persisting local stamp")
	}

	t.bus.Publish(events.Event{Topic: events.TopicLocalChange, Source: string(module)})
}

// Touch advances the stamp like a mutation but publishes nothing. Used for
// explicit "sync now" so that the uploaded document wins on other devices.
func (t *ChangeTracker) Touch(ctx context.Context) time.Time {
	stamp := t.advance()

	if err := t.persist(ctx, stamp); err != nil {
		t.logger.Err(err).Str("func", "*ChangeTracker.Touch").Msg("error persisting local stamp")
	}

	return stamp
}

// Adopt sets the stamp to an applied remote snapshot's exportedAt. The caller
// persists it together with the module data.
func (t *ChangeTracker) Adopt(stamp time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if stamp.After(t.stamp) {
		t.stamp = stamp
	}
}

// Reset forgets the stamp. Used when local data is wiped for another account.
func (t *ChangeTracker) Reset(ctx context.Context) {
	t.mu.Lock()
	t.stamp = time.Time{}
	t.mu.Unlock()

	if err := t.storage.Delete(ctx, store.MetaExportedAtKey); err != nil {
		t.logger.Err(err).Str("func", "*ChangeTracker.Reset").Msg("error deleting local stamp")
	}
}

func (t *ChangeTracker) advance() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now().UTC()
	if !now.After(t.stamp) {
		now = t.stamp.Add(time.Millisecond)
	}
	t.stamp = now

	return now
}

func (t *ChangeTracker) persist(ctx context.Context, stamp time.Time) error {
	raw, err := EncodeStamp(stamp)
	if err != nil {
		return err
	}
	return t.storage.Save(ctx, store.MetaExportedAtKey, raw)
}

// EncodeStamp encodes a stamp the way it is kept in local storage.
func EncodeStamp(stamp time.Time) (json.RawMessage, error) {
	raw, err := json.Marshal(stamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("error encoding local stamp: %w", err)
	}
	return raw, nil
}

// DecodeStamp is the inverse of EncodeStamp.
func DecodeStamp(raw json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("error decoding local stamp: %w", err)
	}

	stamp, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing local stamp: %w", err)
	}

	return stamp, nil
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-life-keeper/internal/events"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/store"
	"github.com/MKhiriev/go-life-keeper/models"
)

// StampResetter forgets the local stamp.
type StampResetter interface {
	Reset(ctx context.Context)
}

type localAccount struct {
	storage store.KeyValueStorage
	tracker StampResetter
	bus     *events.Bus
	logger  *logger.Logger
}

// NewLocalAccount returns a LocalAccount that records the owner under
// store.MetaOwnerKey in storage.
func NewLocalAccount(storage store.KeyValueStorage, tracker StampResetter, bus *events.Bus, logger *logger.Logger) LocalAccount {
	return &localAccount{
		storage: storage,
		tracker: tracker,
		bus:     bus,
		logger:  logger.WithComponent("account"),
	}
}

// Claim implements LocalAccount. Data with no recorded owner was created
// before the first sign-in and goes to whoever signs in first.
func (a *localAccount) Claim(ctx context.Context, userID int64) (bool, error) {
	owner, found, err := a.owner(ctx)
	if err != nil {
		return false, err
	}
	if found && owner == userID {
		return false, nil
	}

	wipe := found
	if wipe {
		if err = a.wipe(ctx); err != nil {
			return false, err
		}
	}

	raw, err := json.Marshal(userID)
	if err != nil {
		return false, fmt.Errorf("error encoding owner: %w", err)
	}
	if err = a.storage.Save(ctx, store.MetaOwnerKey, raw); err != nil {
		return false, fmt.Errorf("error saving owner: %w", err)
	}

	if wipe {
		a.bus.Publish(events.Event{Topic: events.TopicReload, Source: "account"})
		a.logger.Info().
			Str("func", "*localAccount.Claim").
			Int64("previous_owner", owner).
			Int64("owner", userID).
			Msg("local data of another account wiped")
	}

	return wipe, nil
}

func (a *localAccount) owner(ctx context.Context) (int64, bool, error) {
	raw, err := a.storage.Load(ctx, store.MetaOwnerKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("error loading owner: %w", err)
	}

	var owner int64
	if err = json.Unmarshal(raw, &owner); err != nil {
		// an unreadable owner is treated as foreign
		a.logger.Warn().Err(err).Str("func", "*localAccount.owner").Msg("unreadable owner record")
		return -1, true, nil
	}
	return owner, true, nil
}

func (a *localAccount) wipe(ctx context.Context) error {
	for _, m := range models.AllModules() {
		if err := a.storage.Delete(ctx, m.StorageKey()); err != nil {
			return fmt.Errorf("error deleting module %s: %w", m, err)
		}
	}
	a.tracker.Reset(ctx)
	return nil
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-life-keeper/internal/adapter"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/store"
	"github.com/MKhiriev/go-life-keeper/internal/utils"
	"github.com/MKhiriev/go-life-keeper/models"
)

type clientAuthService struct {
	storage store.KeyValueStorage
	adapter adapter.ServerAdapter
	clock   utils.Scheduler
	logger  *logger.Logger

	mu          sync.RWMutex
	current     *models.Identity
	nextID      uint64
	subscribers map[uint64]func(*models.Identity)
}

func NewClientAuthService(storage store.KeyValueStorage, serverAdapter adapter.ServerAdapter, clock utils.Scheduler, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{
		storage:     storage,
		adapter:     serverAdapter,
		clock:       clock,
		logger:      logger.WithComponent("auth"),
		subscribers: make(map[uint64]func(*models.Identity)),
	}
}

func (a *clientAuthService) Current() *models.Identity {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.current == nil {
		return nil
	}
	id := *a.current
	return &id
}

func (a *clientAuthService) Subscribe(fn func(*models.Identity)) func() {
	a.mu.Lock()
	a.nextID++
	id := a.nextID
	a.subscribers[id] = fn
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.subscribers, id)
			a.mu.Unlock()
		})
	}
}

func (a *clientAuthService) Register(ctx context.Context, login, password string) (models.Identity, error) {
	identity, err := a.adapter.Register(ctx, models.User{Login: login, Password: password})
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrRegisterOnServer, mapAdapterError(err))
	}

	if err = a.signIn(ctx, identity); err != nil {
		return models.Identity{}, err
	}

	return identity, nil
}

func (a *clientAuthService) Login(ctx context.Context, login, password string) (models.Identity, error) {
	identity, err := a.adapter.Login(ctx, models.User{Login: login, Password: password})
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrLoginOnServer, mapAdapterError(err))
	}

	if err = a.signIn(ctx, identity); err != nil {
		return models.Identity{}, err
	}

	return identity, nil
}

func (a *clientAuthService) Logout(ctx context.Context) error {
	err := a.storage.Delete(ctx, store.MetaSessionKey)

	a.adapter.SetToken("")
	a.setCurrent(nil)

	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

func (a *clientAuthService) RestoreSession(ctx context.Context) (*models.Identity, error) {
	raw, err := a.storage.Load(ctx, store.MetaSessionKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	var identity models.Identity
	if err = json.Unmarshal(raw, &identity); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodingSession, err)
	}

	if identity.Token == "" || utils.IsJWTExpired(identity.Token, a.clock.Now()) {
		a.logger.Info().Str("func", "*clientAuthService.RestoreSession").Str("login", identity.Login).Msg("stored session expired")
		if err = a.storage.Delete(ctx, store.MetaSessionKey); err != nil {
			return nil, fmt.Errorf("error deleting expired session: %w", err)
		}
		return nil, nil
	}

	a.adapter.SetToken(identity.Token)
	a.setCurrent(&identity)

	return a.Current(), nil
}

func (a *clientAuthService) signIn(ctx context.Context, identity models.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("error encoding session: %w", err)
	}
	if err = a.storage.Save(ctx, store.MetaSessionKey, raw); err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}

	a.adapter.SetToken(identity.Token)
	a.setCurrent(&identity)

	a.logger.Info().Str("func", "*clientAuthService.signIn").Int64("user_id", identity.UserID).Msg("signed in")

	return nil
}

// setCurrent swaps the identity and notifies subscribers outside the lock.
func (a *clientAuthService) setCurrent(identity *models.Identity) {
	a.mu.Lock()
	a.current = identity
	subs := make([]func(*models.Identity), 0, len(a.subscribers))
	for _, fn := range a.subscribers {
		subs = append(subs, fn)
	}
	a.mu.Unlock()

	for _, fn := range subs {
		fn(a.Current())
	}
}

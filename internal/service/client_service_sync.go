// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-life-keeper/internal/adapter"
	"github.com/MKhiriev/go-life-keeper/internal/config"
	"github.com/MKhiriev/go-life-keeper/internal/events"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/notify"
	"github.com/MKhiriev/go-life-keeper/internal/utils"
	"github.com/MKhiriev/go-life-keeper/models"
)

const defaultRetryBackoff = time.Second

// Notice texts shown to the user.
const (
	MsgSynchronized          = "cloud data synchronized"
	MsgManualSyncSuccess     = "manual sync succeeded"
	MsgManualSyncFailure     = "manual sync failed"
	MsgAuthorizationRequired = "sign in to sync"
)

// SyncDeps are the collaborators of the sync engine.
type SyncDeps struct {
	Builder  SnapshotBuilder
	Channel  RemoteDocumentChannel
	Applier  LocalApplier
	Identity IdentityProvider
	Stores   StoreRegistry
	Account  LocalAccount
	Bus      *events.Bus
	Notices  notify.Sink
	Clock    utils.Scheduler
}

// clientSyncService is the sync engine. Every field below mu is guarded by
// it. Network and storage calls run with mu released; isSyncing keeps a
// second apply or upload from starting meanwhile.
//
// generation is bumped on every subscription change. Callbacks and in-flight
// operations carry the generation they were started in and are discarded when
// it no longer matches, so a sign-out never sees late results of the previous
// session.
type clientSyncService struct {
	SyncDeps
	cfg    config.ClientSync
	logger *logger.Logger

	mu  sync.Mutex
	ctx context.Context

	state                  models.SyncState
	isSyncing              bool
	isApplyingRemoteChange bool
	handshakeDone          bool
	offlineChecked         bool
	cursor                 time.Time
	lastSyncedAt           *time.Time

	generation     uint64
	subscribedUser int64
	unsubscribe    func()
	pendingRemote  *models.DocumentChange

	debounce    utils.Timer
	debounceSeq uint64
	cooldown    utils.Timer

	stopBus      func()
	stopIdentity func()
}

func NewClientSyncService(deps SyncDeps, cfg config.ClientSync, logger *logger.Logger) ClientSyncService {
	return &clientSyncService{
		SyncDeps: deps,
		cfg:      cfg,
		logger:   logger.WithComponent("sync"),
		ctx:      context.Background(),
	}
}

// Start implements ClientSyncService. It listens for local changes and
// identity changes, then subscribes right away if possible.
func (s *clientSyncService) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	stopBus := s.Bus.Subscribe(events.TopicLocalChange, s.onLocalChange)
	stopIdentity := s.Identity.Subscribe(func(*models.Identity) { s.Evaluate() })

	s.mu.Lock()
	s.stopBus = stopBus
	s.stopIdentity = stopIdentity
	s.mu.Unlock()

	s.Evaluate()
}

// Stop implements ClientSyncService.
func (s *clientSyncService) Stop() {
	s.mu.Lock()
	stopBus, stopIdentity := s.stopBus, s.stopIdentity
	s.stopBus, s.stopIdentity = nil, nil
	unsubscribe := s.teardownLocked()
	s.mu.Unlock()

	for _, fn := range []func(){stopBus, stopIdentity, unsubscribe} {
		if fn != nil {
			fn()
		}
	}
}

// Evaluate subscribes to the remote document when an identity is present and
// every store is loaded, and tears the subscription down on sign-out or user
// switch. Local data left by another account is wiped before subscribing.
func (s *clientSyncService) Evaluate() {
	identity := s.Identity.Current()

	s.mu.Lock()
	if identity == nil {
		unsubscribe := s.teardownLocked()
		s.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
			s.logger.Info().Str("func", "*clientSyncService.Evaluate").Msg("signed out, sync stopped")
		}
		return
	}

	if s.unsubscribe != nil && s.subscribedUser == identity.UserID {
		s.mu.Unlock()
		return
	}
	previous := s.teardownLocked()

	if !s.Stores.AllLoaded() {
		s.mu.Unlock()
		if previous != nil {
			previous()
		}
		return
	}

	gen := s.generation
	ctx := s.ctx
	s.subscribedUser = identity.UserID
	s.mu.Unlock()

	if previous != nil {
		previous()
	}

	if s.Account != nil {
		if _, err := s.Account.Claim(ctx, identity.UserID); err != nil {
			s.mu.Lock()
			if gen == s.generation {
				s.subscribedUser = 0
			}
			s.mu.Unlock()
			s.logger.Err(err).Str("func", "*clientSyncService.Evaluate").Msg("error claiming local data, not subscribing")
			return
		}
	}

	unsubscribe, err := s.Channel.Subscribe(ctx, func(change models.DocumentChange) {
		s.handleRemote(gen, change)
	}, func(err error) {
		s.onSubscriptionEnd(gen, err)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.subscribedUser = 0
		s.logger.Err(err).Str("func", "*clientSyncService.Evaluate").Msg("error subscribing to remote document")
		return
	}
	if gen != s.generation {
		unsubscribe()
		return
	}
	s.unsubscribe = unsubscribe

	s.logger.Info().Str("func", "*clientSyncService.Evaluate").Int64("user_id", identity.UserID).Msg("subscribed to remote document")
}

// onSubscriptionEnd drops a subscription the channel gave up on, so that the
// next Evaluate, typically after signing in again, subscribes afresh.
func (s *clientSyncService) onSubscriptionEnd(gen uint64, err error) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	unsubscribe := s.teardownLocked()
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}

	s.logger.Err(err).Str("func", "*clientSyncService.onSubscriptionEnd").Msg("remote document subscription lost")
	if errors.Is(err, adapter.ErrUnauthorized) {
		s.notice(models.NoticeAuthorizationRequired, MsgAuthorizationRequired)
	}
}

// teardownLocked resets the session and returns the unsubscribe function of
// the old subscription, to be called after mu is released.
func (s *clientSyncService) teardownLocked() func() {
	s.generation++
	s.stopDebounceLocked()
	if s.cooldown != nil {
		s.cooldown.Stop()
		s.cooldown = nil
	}

	s.state = models.SyncStateIdle
	s.isApplyingRemoteChange = false
	s.handshakeDone = false
	s.offlineChecked = false
	s.cursor = time.Time{}
	s.pendingRemote = nil
	s.subscribedUser = 0

	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	return unsubscribe
}

// Status implements ClientSyncService.
func (s *clientSyncService) Status() models.SyncStatus {
	identity := s.Identity.Current()

	s.mu.Lock()
	defer s.mu.Unlock()

	status := models.SyncStatus{
		State:     s.state,
		IsSyncing: s.isSyncing,
		Cursor:    s.cursor,
		Identity:  identity,
	}
	if s.lastSyncedAt != nil {
		at := *s.lastSyncedAt
		status.LastSyncedAt = &at
	}
	return status
}

// handleRemote processes a delivered change, then whatever change arrived
// while it was being processed.
func (s *clientSyncService) handleRemote(gen uint64, change models.DocumentChange) {
	next := &change
	for next != nil {
		next = s.processRemote(gen, *next)
	}
}

func (s *clientSyncService) processRemote(gen uint64, change models.DocumentChange) *models.DocumentChange {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return nil
	}
	if s.isSyncing {
		// only the newest change matters
		s.pendingRemote = &change
		s.mu.Unlock()
		return nil
	}

	remote := change.Document
	log := s.logger.With().Str("func", "*clientSyncService.processRemote").Int64("revision", change.Revision).Logger()

	if remote.IsEmpty() {
		if s.handshakeDone {
			s.mu.Unlock()
			log.Debug().Msg("empty remote document ignored")
			return nil
		}
		s.handshakeDone = true
		s.offlineChecked = true

		if !s.Stores.HasContent() {
			s.mu.Unlock()
			log.Debug().Msg("remote and local are both empty")
			return nil
		}

		s.beginUploadLocked()
		ctx := s.ctx
		s.mu.Unlock()

		// local data may predate any recorded mutation, so stamp it now
		snapshot := s.Builder.BuildFresh(ctx)

		log.Info().Time("exported_at", snapshot.ExportedAt).Msg("remote is empty, uploading local state")
		return s.finishUpload(gen, snapshot, s.write(ctx, snapshot))
	}

	localStamp := s.Builder.LocalStamp()
	if change.IsLocalOrigin || !remoteIsNewer(localStamp, remote) {
		s.advanceCursorLocked(remote.ExportedAt)
		s.handshakeDone = true
		if !s.offlineChecked {
			s.offlineChecked = true
			if localStamp.After(s.cursor) {
				log.Info().Time("local", localStamp).Time("cursor", s.cursor).Msg("local changes made offline, scheduling upload")
				s.armDebounceLocked()
			}
		}
		s.mu.Unlock()
		return nil
	}

	s.stopDebounceLocked()
	if s.cooldown != nil {
		s.cooldown.Stop()
		s.cooldown = nil
	}
	s.state = models.SyncStateDownloading
	s.isSyncing = true
	s.isApplyingRemoteChange = true
	ctx := s.ctx
	s.mu.Unlock()

	err := s.Applier.Apply(ctx, remote)

	s.mu.Lock()
	s.isSyncing = false
	s.state = models.SyncStateIdle
	if gen != s.generation {
		s.mu.Unlock()
		return nil
	}

	next := s.pendingRemote
	s.pendingRemote = nil

	if err != nil {
		s.isApplyingRemoteChange = false
		s.mu.Unlock()
		log.Err(err).Msg("error applying remote snapshot")
		return next
	}

	s.advanceCursorLocked(remote.ExportedAt)
	s.handshakeDone = true
	s.offlineChecked = true
	now := s.Clock.Now()
	s.lastSyncedAt = &now
	s.scheduleCooldownLocked(gen)
	s.mu.Unlock()

	log.Info().Time("exported_at", remote.ExportedAt).Msg("remote snapshot adopted")
	s.notice(models.NoticeSynchronized, MsgSynchronized)

	return next
}

func (s *clientSyncService) onLocalChange(events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isSyncing || s.isApplyingRemoteChange || !s.handshakeDone {
		return
	}
	s.armDebounceLocked()
}

func (s *clientSyncService) armDebounceLocked() {
	s.stopDebounceLocked()

	s.state = models.SyncStateUploadPending
	gen, seq := s.generation, s.debounceSeq
	s.debounce = s.Clock.AfterFunc(s.cfg.DebounceDelay, func() {
		s.onDebounce(gen, seq)
	})
}

func (s *clientSyncService) stopDebounceLocked() {
	s.debounceSeq++
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
	if s.state == models.SyncStateUploadPending {
		s.state = models.SyncStateIdle
	}
}

func (s *clientSyncService) onDebounce(gen, seq uint64) {
	s.mu.Lock()
	if gen != s.generation || seq != s.debounceSeq || s.isSyncing {
		s.mu.Unlock()
		return
	}
	s.debounce = nil

	snapshot := s.Builder.Build()
	if !snapshot.ExportedAt.After(s.cursor) {
		s.state = models.SyncStateIdle
		s.mu.Unlock()
		return
	}

	s.beginUploadLocked()
	ctx := s.ctx
	s.mu.Unlock()

	if next := s.finishUpload(gen, snapshot, s.write(ctx, snapshot)); next != nil {
		s.handleRemote(gen, *next)
	}
}

// SyncNow implements ClientSyncService. It uploads even when the remote is
// not older and reports the outcome as a notice.
func (s *clientSyncService) SyncNow(ctx context.Context) error {
	if s.Identity.Current() == nil {
		s.notice(models.NoticeAuthorizationRequired, MsgAuthorizationRequired)
		return ErrAuthorizationRequired
	}

	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		s.notice(models.NoticeManualSyncFailure, fmt.Sprintf("%s: %v", MsgManualSyncFailure, ErrSyncInProgress))
		return ErrSyncInProgress
	}
	s.stopDebounceLocked()
	s.beginUploadLocked()
	gen := s.generation
	s.mu.Unlock()

	snapshot := s.Builder.BuildFresh(ctx)

	err := s.write(ctx, snapshot)
	if next := s.finishUpload(gen, snapshot, err); next != nil {
		s.handleRemote(gen, *next)
	}

	if err != nil {
		s.notice(models.NoticeManualSyncFailure, fmt.Sprintf("%s: %v", MsgManualSyncFailure, err))
		return err
	}

	s.notice(models.NoticeManualSyncSuccess, MsgManualSyncSuccess)
	return nil
}

// RetryPending implements ClientSyncService.
func (s *clientSyncService) RetryPending(ctx context.Context) error {
	s.mu.Lock()
	if s.unsubscribe == nil || !s.handshakeDone || s.isSyncing || s.isApplyingRemoteChange || s.state == models.SyncStateUploadPending {
		s.mu.Unlock()
		return nil
	}
	if !s.Builder.LocalStamp().After(s.cursor) {
		s.mu.Unlock()
		return nil
	}

	snapshot := s.Builder.Build()
	s.beginUploadLocked()
	gen := s.generation
	s.mu.Unlock()

	s.logger.Info().Str("func", "*clientSyncService.RetryPending").Time("exported_at", snapshot.ExportedAt).Msg("retrying upload")

	err := s.write(ctx, snapshot)
	if next := s.finishUpload(gen, snapshot, err); next != nil {
		s.handleRemote(gen, *next)
	}

	return err
}

func (s *clientSyncService) beginUploadLocked() {
	s.state = models.SyncStateUploading
	s.isSyncing = true
}

// finishUpload records the outcome of a write and returns a remote change
// delivered meanwhile. After a successful write,
// local changes that were ignored while it was in flight are scheduled.
func (s *clientSyncService) finishUpload(gen uint64, snapshot models.Snapshot, err error) *models.DocumentChange {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isSyncing = false
	s.state = models.SyncStateIdle
	if gen != s.generation {
		return nil
	}

	next := s.pendingRemote
	s.pendingRemote = nil

	if err != nil {
		s.logger.Err(err).Str("func", "*clientSyncService.finishUpload").Time("exported_at", snapshot.ExportedAt).Msg("upload failed")
		return next
	}

	s.advanceCursorLocked(snapshot.ExportedAt)
	now := s.Clock.Now()
	s.lastSyncedAt = &now

	if s.handshakeDone && s.Builder.LocalStamp().After(s.cursor) {
		s.armDebounceLocked()
	}

	return next
}

// write sends snapshot, retrying transient failures Sync.UploadRetries
// times with exponential backoff.
func (s *clientSyncService) write(ctx context.Context, snapshot models.Snapshot) error {
	base := s.cfg.RetryBackoff
	if base <= 0 {
		base = defaultRetryBackoff
	}
	backoff := retry.WithMaxRetries(s.cfg.UploadRetries, retry.NewExponential(base))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.Channel.Write(ctx, snapshot)
		if err == nil {
			return nil
		}
		if errors.Is(err, adapter.ErrUnauthorized) || errors.Is(err, adapter.ErrBadRequest) {
			return mapAdapterError(err)
		}
		return retry.RetryableError(err)
	})
}

func (s *clientSyncService) advanceCursorLocked(t time.Time) {
	if t.After(s.cursor) {
		s.cursor = t
	}
}

func (s *clientSyncService) scheduleCooldownLocked(gen uint64) {
	if s.cfg.ApplyCooldown <= 0 {
		s.isApplyingRemoteChange = false
		return
	}

	s.cooldown = s.Clock.AfterFunc(s.cfg.ApplyCooldown, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if gen == s.generation {
			s.isApplyingRemoteChange = false
			s.cooldown = nil
		}
	})
}

func (s *clientSyncService) notice(kind models.NoticeKind, message string) {
	if s.Notices == nil {
		return
	}
	s.Notices.Notify(models.Notice{Kind: kind, Message: message, At: s.Clock.Now()})
}

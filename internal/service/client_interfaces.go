package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-life-keeper/internal/domain"
	"github.com/MKhiriev/go-life-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// ClientAuthService signs the user in and out and tells the rest of the
// client who is signed in.
type ClientAuthService interface {
	IdentityProvider

	// Register creates an account and signs in with it.
	Register(ctx context.Context, login, password string) (models.Identity, error)

	// Login signs in and persists the session locally.
	Login(ctx context.Context, login, password string) (models.Identity, error)

	// Logout forgets the session and notifies subscribers with nil.
	Logout(ctx context.Context) error

	// RestoreSession signs in with the session saved by a previous run.
	// An absent or expired session leaves the client signed out and is not
	// an error.
	RestoreSession(ctx context.Context) (*models.Identity, error)
}

// IdentityProvider exposes the signed-in identity.
type IdentityProvider interface {
	// Current returns the signed-in identity or nil.
	Current() *models.Identity

	// Subscribe calls fn with the new identity on every sign-in and with nil
	// on sign-out.
	Subscribe(fn func(*models.Identity)) (unsubscribe func())
}

// SnapshotBuilder produces total snapshots of local state.
type SnapshotBuilder interface {
	// Build copies every module and stamps the copy with the instant of the
	// latest local mutation.
	Build() models.Snapshot

	// BuildFresh re-stamps local state with the current time, then builds.
	BuildFresh(ctx context.Context) models.Snapshot

	// LocalStamp returns the stamp Build would use, without copying data.
	LocalStamp() time.Time
}

// RemoteDocumentChannel is the client's view of the remote document.
type RemoteDocumentChannel interface {
	// Write replaces the remote document.
	Write(ctx context.Context, snapshot models.Snapshot) error

	// Subscribe delivers the current remote document, then every change.
	// The handler is never called concurrently with itself. onEnd, if not
	// nil, is called once when the subscription stops on its own, with the
	// error that stopped it; it is not called after unsubscribe.
	Subscribe(ctx context.Context, handler func(models.DocumentChange), onEnd func(error)) (unsubscribe func(), err error)
}

// LocalApplier overwrites local state with a remote snapshot.
type LocalApplier interface {
	Apply(ctx context.Context, snapshot models.Snapshot) error
}

// LocalAccount ties local module data to the account it belongs to.
type LocalAccount interface {
	// Claim hands local data to userID. Data owned by another account is
	// wiped first, and wiped reports whether that happened.
	Claim(ctx context.Context, userID int64) (wiped bool, err error)
}

// StoreRegistry is what the sync engine needs to know about domain stores.
type StoreRegistry interface {
	Stores() []domain.Store
	AllLoaded() bool
	HasContent() bool
}

// ClientSyncService keeps local state and the remote document converged.
type ClientSyncService interface {
	// Start begins reacting to identity, local change and remote events.
	Start(ctx context.Context)

	// Stop tears down the subscription and all timers.
	Stop()

	// Evaluate subscribes once an identity is present and every store is
	// loaded. Call it after the stores finish their initial load.
	Evaluate()

	// Status returns a snapshot of the engine state.
	Status() models.SyncStatus

	// SyncNow uploads local state immediately, even if not newer than the
	// remote.
	SyncNow(ctx context.Context) error

	// RetryPending uploads local state if it is newer than the remote and
	// nothing else is in flight or pending.
	RetryPending(ctx context.Context) error
}

// ClientSyncJob defines the contract for a background worker that
// periodically retries uploads the engine could not complete.
type ClientSyncJob interface {
	// Start launches the background goroutine. It retries every interval,
	// defaulting to 1 minute if interval is zero or negative. Any previously
	// running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}

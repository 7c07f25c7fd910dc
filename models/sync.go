package models

import "time"

// SyncState is the state of the client sync engine.
type SyncState int

const (
	// SyncStateIdle means nothing is in flight.
	SyncStateIdle SyncState = iota
	// SyncStateDownloading means an incoming remote snapshot is being applied.
	SyncStateDownloading
	// SyncStateUploadPending means a local change was seen and the debounce
	// timer is running.
	SyncStateUploadPending
	// SyncStateUploading means a write to the remote document is in flight.
	SyncStateUploading
)

func (s SyncState) String() string {
	switch s {
	case SyncStateIdle:
		return "idle"
	case SyncStateDownloading:
		return "downloading"
	case SyncStateUploadPending:
		return "upload_pending"
	case SyncStateUploading:
		return "uploading"
	default:
		return "unknown"
	}
}

// SyncStatus is the read-only view of the engine exposed to the UI.
type SyncStatus struct {
	State        SyncState
	IsSyncing    bool
	LastSyncedAt *time.Time
	// Cursor is the newest exportedAt known to be on the remote.
	Cursor   time.Time
	Identity *Identity
}

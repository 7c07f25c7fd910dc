package models

import "time"

// NoticeKind classifies a user-visible sync notice.
type NoticeKind string

const (
	NoticeSynchronized          NoticeKind = "synchronized"
	NoticeManualSyncSuccess     NoticeKind = "manual_sync_success"
	NoticeManualSyncFailure     NoticeKind = "manual_sync_failure"
	NoticeAuthorizationRequired NoticeKind = "authorization_required"
)

// Notice is a human-readable event emitted by the sync engine.
type Notice struct {
	Kind    NoticeKind
	Message string
	At      time.Time
}

// IsError reports whether the notice describes a failure.
func (n Notice) IsError() bool {
	return n.Kind == NoticeManualSyncFailure || n.Kind == NoticeAuthorizationRequired
}

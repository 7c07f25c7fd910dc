package models

import "time"

// RemoteDocument is the server-side envelope around the single snapshot kept
// per user.
type RemoteDocument struct {
	// UserID is the owner of the document. Never serialized.
	UserID int64 `json:"-"`

	// Revision is incremented by the server on every write. Zero means the
	// user has never written a document.
	Revision int64 `json:"revision"`

	// WriterID is the device id of the client that performed the latest
	// write, as reported in the X-Device-ID header.
	WriterID string `json:"writer_id,omitempty"`

	// Document is the stored snapshot. It is empty when Revision is zero.
	Document Snapshot `json:"document"`

	// UpdatedAt is the server time of the latest write.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// DocumentChange is delivered by a remote document subscription.
type DocumentChange struct {
	// Document is the latest remote snapshot (possibly empty).
	Document Snapshot

	// IsLocalOrigin is true when this client's own write produced the
	// delivered revision.
	IsLocalOrigin bool

	// Revision is the server revision of the delivered document.
	Revision int64
}

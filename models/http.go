package models

// PutDocumentResponse is returned by PUT /api/documents.
type PutDocumentResponse struct {
	// Revision is the revision assigned to the stored document.
	Revision int64 `json:"revision"`
}

// DocumentQuery describes a document read, optionally long-polling for a
// revision newer than Since.
type DocumentQuery struct {
	// UserID is the owner of the document.
	UserID int64 `json:"-"`

	// Since is the newest revision the caller already has. A negative value
	// asks for the current document immediately.
	Since int64 `json:"since"`

	// WaitSeconds bounds how long the server holds the request open waiting
	// for a newer revision. Zero means answer immediately.
	WaitSeconds int `json:"wait"`
}

// Request headers of the document API.
const (
	// HeaderHashSHA256 carries the hex HMAC-SHA256 of the request body.
	HeaderHashSHA256 = "HashSHA256"

	// HeaderDeviceID identifies the writing installation.
	HeaderDeviceID = "X-Device-ID"
)

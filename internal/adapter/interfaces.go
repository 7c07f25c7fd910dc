// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the document server.
//
// [ServerAdapter] decouples the service layer from the protocol; the package
// ships an HTTP/REST implementation ([NewHTTPServerAdapter]). [DocumentChannel]
// builds the remote document subscription used by the sync engine on top of
// the adapter's long-poll read.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-life-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the document
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel values
// defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all subsequent
	// authenticated requests.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Register creates an account and returns the signed-in identity. The
	// returned token is also stored via SetToken.
	Register(ctx context.Context, user models.User) (models.Identity, error)

	// Login authenticates and returns the signed-in identity. The returned
	// token is also stored via SetToken.
	Login(ctx context.Context, user models.User) (models.Identity, error)

	// GetDocument reads the caller's remote document. With query.Since >= 0
	// the server holds the request for up to query.WaitSeconds until a
	// revision newer than Since exists; a timeout yields [ErrNoChanges].
	GetDocument(ctx context.Context, query models.DocumentQuery) (models.RemoteDocument, error)

	// PutDocument replaces the caller's remote document and returns the new
	// revision.
	PutDocument(ctx context.Context, snapshot models.Snapshot) (models.PutDocumentResponse, error)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used by the
// document server handlers and by the client adapter that interprets their
// responses.
//
// All Msg* constants are human-readable message strings written into HTTP
// response bodies. Keeping them in one place lets the client map a response
// body back to a sentinel error.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidLoginPassword is returned when the supplied login/password
	// combination does not match any existing user record.
	MsgInvalidLoginPassword = "invalid login/password"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpired is returned when a JWT bearer token is syntactically
	// valid but its expiry time has passed.
	MsgTokenIsExpired = "token is expired"

	// MsgTokenIsExpiredOrInvalid is returned when a JWT bearer token is
	// either expired or cannot be verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgNoUserIDProvided is returned when a handler requires a user ID but
	// none is present in the request context.
	MsgNoUserIDProvided = "no user ID provided"

	// MsgRegistrationFailed is returned when registration fails for a reason
	// other than a taken login.
	MsgRegistrationFailed = "registration failed"

	// MsgLoginFailed is returned when login fails for a reason other than
	// wrong credentials.
	MsgLoginFailed = "login failed"

	// MsgLoginAlreadyExists is returned when the requested login is taken.
	MsgLoginAlreadyExists = "login already exists"

	// MsgInvalidDocument is returned when an uploaded snapshot is rejected.
	MsgInvalidDocument = "invalid document"

	// MsgInvalidDocumentQuery is returned for unusable since/wait values.
	MsgInvalidDocumentQuery = "invalid document query"

	// MsgDocumentNotSaved is returned when the document could not be stored.
	MsgDocumentNotSaved = "document not saved"

	// MsgHashMismatch is returned when the HashSHA256 header does not match
	// the request body.
	MsgHashMismatch = "request hash mismatch"
)

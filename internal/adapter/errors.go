package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")

	// ErrNoChanges is returned by a long-poll read that timed out without a
	// newer revision.
	ErrNoChanges = errors.New("no changes")
)

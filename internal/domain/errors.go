package domain

import "errors"

var (
	// ErrStoreNotLoaded is returned by mutations attempted before Load.
	ErrStoreNotLoaded = errors.New("module store is not loaded")
	// ErrDecodingModule is returned when stored module data is not JSON.
	ErrDecodingModule = errors.New("module data is not valid JSON")
)

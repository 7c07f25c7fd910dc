package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, missing address or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN or unsupported in-memory DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, missing hash key or token sign key).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidServerConfigs indicates invalid document server settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidSyncConfigs indicates invalid sync engine tuning
	// (for example, zero debounce delay).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)

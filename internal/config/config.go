// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// document server and the sync client. It is populated by merging values from
// environment variables, command-line flags, an optional JSON file and the
// built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token parameters, integrity keys and per-installation values.
	App App `envPrefix:"APP_"`

	// Storage holds the server database and the client local database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds listen addresses and timeouts of the document server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client's view of the document server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds the sync engine tuning used by the client.
	Sync Sync `envPrefix:"SYNC_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// TokenSignKey signs and verifies JWT tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a JWT token remains valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// HashKey is the HMAC key used for the HashSHA256 request integrity header.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Version is exposed via the /api/version endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// DeviceID identifies the client installation in uploaded documents.
	// A random id is generated when empty.
	// Env: APP_DEVICE_ID
	DeviceID string `env:"DEVICE_ID"`

	// LogPath is the client log file. The terminal UI owns stdout.
	// Env: APP_LOG_PATH
	LogPath string `env:"LOG_PATH"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB holds the server PostgreSQL connection settings.
	DB DB `envPrefix:"DB_"`

	// Local holds the client SQLite settings.
	Local Local `envPrefix:"LOCAL_"`
}

// DB holds connection settings for the server database.
type DB struct {
	// DSN is the PostgreSQL connection string.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Local holds connection settings for the client key-value database.
type Local struct {
	// DSN is the SQLite database file path.
	// Env: STORAGE_LOCAL_DSN
	DSN string `env:"DSN"`
}

// Server holds network and timeout settings of the document server.
type Server struct {
	// HTTPAddress is the TCP address of the HTTP server ("host:port").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address of the gRPC health server ("host:port").
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout bounds a single non-polling request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// MaxPollWait caps the wait window a client may ask for on long-poll.
	// Env: SERVER_MAX_POLL_WAIT
	MaxPollWait time.Duration `env:"MAX_POLL_WAIT"`
}

// Adapter holds the client-side settings for reaching the document server.
type Adapter struct {
	// HTTPAddress is the base URL of the document server.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every outbound request. Long-poll requests get
	// the poll wait added on top.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// PollWait is the wait window requested on every long-poll.
	// Env: ADAPTER_POLL_WAIT
	PollWait time.Duration `env:"POLL_WAIT"`
}

// Sync holds the sync engine tuning.
type Sync struct {
	// DebounceDelay is the quiet period after the last local change before
	// an upload starts.
	// Env: SYNC_DEBOUNCE_DELAY
	DebounceDelay time.Duration `env:"DEBOUNCE_DELAY"`

	// ApplyCooldown keeps the applying-remote flag raised after a download so
	// that the reload it triggers is not mistaken for a local edit.
	// Env: SYNC_APPLY_COOLDOWN
	ApplyCooldown time.Duration `env:"APPLY_COOLDOWN"`

	// RetryInterval is the period of the background upload retry job.
	// Env: SYNC_RETRY_INTERVAL
	RetryInterval time.Duration `env:"RETRY_INTERVAL"`

	// UploadRetries is the number of extra attempts for a failed automatic
	// upload. Zero disables in-place retries.
	// Env: SYNC_UPLOAD_RETRIES
	UploadRetries uint64 `env:"UPLOAD_RETRIES"`

	// RetryBackoff is the first delay of the exponential upload backoff.
	// Env: SYNC_RETRY_BACKOFF
	RetryBackoff time.Duration `env:"RETRY_BACKOFF"`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources. Earlier sources win for non-zero fields:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}

// GetServerConfig returns the structured config after checking the fields
// the document server cannot start without.
func GetServerConfig() (*StructuredConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, err
	}

	return cfg, cfg.validateServer()
}

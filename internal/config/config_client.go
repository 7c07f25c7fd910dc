package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings.
type ClientApp struct {
	// HashKey is the HMAC key used for payload integrity checks.
	HashKey string
	// DeviceID identifies this installation; empty means "generate one".
	DeviceID string
	// LogPath is the log file location.
	LogPath string
	// Version is shown by the terminal UI.
	Version string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the document server base URL.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
	// PollWait is the long-poll wait window.
	PollWait time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite connection string.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientSync contains the sync engine tuning.
type ClientSync struct {
	DebounceDelay time.Duration
	ApplyCooldown time.Duration
	RetryInterval time.Duration
	UploadRetries uint64
	RetryBackoff  time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Adapter contains the document server address and timeouts.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Sync contains the sync engine tuning.
	Sync ClientSync
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)

	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			HashKey:  cfg.App.HashKey,
			DeviceID: cfg.App.DeviceID,
			LogPath:  cfg.App.LogPath,
			Version:  cfg.App.Version,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			PollWait:       cfg.Adapter.PollWait,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.Local.DSN,
			},
		},
		Sync: ClientSync{
			DebounceDelay: cfg.Sync.DebounceDelay,
			ApplyCooldown: cfg.Sync.ApplyCooldown,
			RetryInterval: cfg.Sync.RetryInterval,
			UploadRetries: cfg.Sync.UploadRetries,
			RetryBackoff:  cfg.Sync.RetryBackoff,
		},
	}
}

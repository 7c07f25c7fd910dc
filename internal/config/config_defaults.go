package config

import "time"

const (
	defaultTokenIssuer    = "go-life-keeper"
	defaultTokenDuration  = 24 * time.Hour
	defaultServerAddress  = "localhost:8080"
	defaultServerTimeout  = 30 * time.Second
	defaultMaxPollWait    = 30 * time.Second
	defaultAdapterAddress = "http://localhost:8080"
	defaultAdapterTimeout = 10 * time.Second
	defaultPollWait       = 25 * time.Second
	defaultLocalDSN       = "life-keeper.db"
	defaultDebounceDelay  = 8 * time.Second
	defaultApplyCooldown  = 3 * time.Second
	defaultRetryInterval  = time.Minute
	defaultRetryBackoff   = 2 * time.Second
)

// defaultConfig holds the lowest-priority values. It never sets secrets.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   defaultTokenIssuer,
			TokenDuration: defaultTokenDuration,
		},
		Storage: Storage{
			Local: Local{DSN: defaultLocalDSN},
		},
		Server: Server{
			HTTPAddress:    defaultServerAddress,
			RequestTimeout: defaultServerTimeout,
			MaxPollWait:    defaultMaxPollWait,
		},
		Adapter: Adapter{
			HTTPAddress:    defaultAdapterAddress,
			RequestTimeout: defaultAdapterTimeout,
			PollWait:       defaultPollWait,
		},
		Sync: Sync{
			DebounceDelay: defaultDebounceDelay,
			ApplyCooldown: defaultApplyCooldown,
			RetryInterval: defaultRetryInterval,
			RetryBackoff:  defaultRetryBackoff,
		},
	}
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for JSON config files.
// Durations accept both strings ("8s") and nanosecond numbers.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		HashKey       string   `json:"hash_key"`
		Version       string   `json:"version"`
		DeviceID      string   `json:"device_id"`
		LogPath       string   `json:"log_path"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Local struct {
			DSN string `json:"dsn"`
		} `json:"local,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
		MaxPollWait    Duration `json:"max_poll_wait"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		PollWait       Duration `json:"poll_wait"`
	} `json:"adapter,omitempty"`

	Sync struct {
		DebounceDelay Duration `json:"debounce_delay"`
		ApplyCooldown Duration `json:"apply_cooldown"`
		RetryInterval Duration `json:"retry_interval"`
		UploadRetries uint64   `json:"upload_retries"`
		RetryBackoff  Duration `json:"retry_backoff"`
	} `json:"sync,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			HashKey:       jsonCfg.App.HashKey,
			Version:       jsonCfg.App.Version,
			DeviceID:      jsonCfg.App.DeviceID,
			LogPath:       jsonCfg.App.LogPath,
		},
		Storage: Storage{
			DB:    DB{DSN: jsonCfg.Storage.DB.DSN},
			Local: Local{DSN: jsonCfg.Storage.Local.DSN},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			MaxPollWait:    time.Duration(jsonCfg.Server.MaxPollWait),
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			PollWait:       time.Duration(jsonCfg.Adapter.PollWait),
		},
		Sync: Sync{
			DebounceDelay: time.Duration(jsonCfg.Sync.DebounceDelay),
			ApplyCooldown: time.Duration(jsonCfg.Sync.ApplyCooldown),
			RetryInterval: time.Duration(jsonCfg.Sync.RetryInterval),
			UploadRetries: jsonCfg.Sync.UploadRetries,
			RetryBackoff:  time.Duration(jsonCfg.Sync.RetryBackoff),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

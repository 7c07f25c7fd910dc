// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks invariants that hold for every role: no negative durations.
func (cfg *StructuredConfig) validate() error {
	durations := []struct {
		err   error
		value int64
	}{
		{ErrInvalidAppConfigs, int64(cfg.App.TokenDuration)},
		{ErrInvalidServerConfigs, int64(cfg.Server.RequestTimeout)},
		{ErrInvalidServerConfigs, int64(cfg.Server.MaxPollWait)},
		{ErrInvalidAdapterConfigs, int64(cfg.Adapter.RequestTimeout)},
		{ErrInvalidAdapterConfigs, int64(cfg.Adapter.PollWait)},
		{ErrInvalidSyncConfigs, int64(cfg.Sync.DebounceDelay)},
		{ErrInvalidSyncConfigs, int64(cfg.Sync.ApplyCooldown)},
		{ErrInvalidSyncConfigs, int64(cfg.Sync.RetryInterval)},
		{ErrInvalidSyncConfigs, int64(cfg.Sync.RetryBackoff)},
	}
	for _, d := range durations {
		if d.value < 0 {
			return d.err
		}
	}

	return nil
}

func (cfg *StructuredConfig) validateServer() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout == 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenDuration == 0 {
		return ErrInvalidAppConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.DebounceDelay == 0 || cfg.Sync.RetryInterval == 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.App.HashKey == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-life-keeper/internal/store"
	"github.com/MKhiriev/go-life-keeper/internal/utils"
)

// DeviceID returns configured when it is set. Otherwise it returns the id
// saved by an earlier run, generating and saving one on first start.
func DeviceID(ctx context.Context, storage store.KeyValueStorage, configured string) (string, error) {
	if id := strings.TrimSpace(configured); id != "" {
		return id, nil
	}

	raw, err := storage.Load(ctx, store.MetaDeviceIDKey)
	switch {
	case err == nil:
		var id string
		if err = json.Unmarshal(raw, &id); err == nil && id != "" {
			return id, nil
		}
	case !errors.Is(err, store.ErrKeyNotFound):
		return "", fmt.Errorf("error loading device id: %w", err)
	}

	id := utils.NewUUIDGenerator().Generate()
	raw, err = json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("error encoding device id: %w", err)
	}
	if err = storage.Save(ctx, store.MetaDeviceIDKey, raw); err != nil {
		return "", fmt.Errorf("error saving device id: %w", err)
	}

	return id, nil
}

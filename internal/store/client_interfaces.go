package store

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-life-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// Local meta keys. Module data lives under the module name itself.
const (
	// MetaExportedAtKey holds the instant of the latest local mutation or
	// adopted remote snapshot.
	MetaExportedAtKey = models.ReservedKeyPrefix + "exported_at"
	// MetaSessionKey holds the signed-in identity.
	MetaSessionKey = models.ReservedKeyPrefix + "session"
	// MetaDeviceIDKey holds the generated id of this installation.
	MetaDeviceIDKey = models.ReservedKeyPrefix + "device_id"
	// MetaOwnerKey holds the id of the account the local module data
	// belongs to.
	MetaOwnerKey = models.ReservedKeyPrefix + "owner"
)

// KeyValueStorage is the client's local persistent storage: JSON values
// under string keys.
type KeyValueStorage interface {
	// Load returns the value saved under key or ErrKeyNotFound.
	Load(ctx context.Context, key string) (json.RawMessage, error)
	Save(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
}

// BatchSaver is implemented by storages able to write several keys
// atomically.
type BatchSaver interface {
	SaveBatch(ctx context.Context, entries map[string]json.RawMessage) error
}

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-life-keeper/internal/config"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
)

// LocalStorage is what the client keeps its state in.
type LocalStorage interface {
	KeyValueStorage
	BatchSaver
}

// ClientStorages groups all client-side storage.
type ClientStorages struct {
	// KeyValue is the SQLite-backed storage of module data and meta values.
	KeyValue LocalStorage

	db *DB
}

// NewClientStorages opens the SQLite file from cfg, runs migrations and
// returns the wired storages.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		KeyValue: NewSQLiteKeyValueStorage(db, logger),
		db:       db,
	}, nil
}

// Close releases the database handle.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

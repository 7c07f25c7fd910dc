package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-life-keeper/internal/config"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
)

// Storages groups the document server repositories.
type Storages struct {
	UserRepository     UserRepository
	DocumentRepository DocumentRepository

	db *DB
}

// NewStorages connects to PostgreSQL, migrates it and builds the
// repositories.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		UserRepository:     NewUserRepository(db, logger),
		DocumentRepository: NewDocumentRepository(db, logger),
		db:                 db,
	}, nil
}

// Close releases the database handle.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

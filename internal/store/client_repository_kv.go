package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
)

const kvTable = "kv_store"

const kvUpsertSuffix = "ON CONFLICT(store_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at"

// sqliteKeyValueStorage keeps module data and meta values in the client's
// SQLite database.
type sqliteKeyValueStorage struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

// NewSQLiteKeyValueStorage returns a storage implementing both
// [KeyValueStorage] and [BatchSaver].
func NewSQLiteKeyValueStorage(db *DB, logger *logger.Logger) LocalStorage {
	logger.Debug().Msg("creating local key-value storage")
	return &sqliteKeyValueStorage{db: db, logger: logger, now: time.Now}
}

func (s *sqliteKeyValueStorage) Load(ctx context.Context, key string) (json.RawMessage, error) {
	query, args, err := sq.Select("value").From(kvTable).Where(sq.Eq{"store_key": key}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrKeyNotFound
	case err != nil:
		s.logger.Err(err).Str("func", "*sqliteKeyValueStorage.Load").Str("key", key).Msg("error loading key")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return json.RawMessage(value), nil
}

func (s *sqliteKeyValueStorage) Save(ctx context.Context, key string, value json.RawMessage) error {
	query, args, err := s.upsert(key, value)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "*sqliteKeyValueStorage.Save").Str("key", key).Msg("error saving key")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// SaveBatch writes all entries in one transaction, in key order.
func (s *sqliteKeyValueStorage) SaveBatch(ctx context.Context, entries map[string]json.RawMessage) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		query, args, err := s.upsert(key, entries[key])
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			s.logger.Err(err).Str("func", "*sqliteKeyValueStorage.SaveBatch").Str("key", key).Msg("error saving key, rolling back")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (s *sqliteKeyValueStorage) Delete(ctx context.Context, key string) error {
	query, args, err := sq.Delete(kvTable).Where(sq.Eq{"store_key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteKeyValueStorage) upsert(key string, value json.RawMessage) (string, []any, error) {
	query, args, err := sq.Insert(kvTable).
		Columns("store_key", "value", "updated_at").
		Values(key, string(value), s.now().UTC()).
		Suffix(kvUpsertSuffix).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

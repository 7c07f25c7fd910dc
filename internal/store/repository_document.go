// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/models"
	"github.com/sethvargo/go-retry"
)

const documentsTable = "documents"

const (
	saveDocumentRetries = 3
	saveDocumentBackoff = 50 * time.Millisecond
)

// documentRepository stores one row per user. The row keeps the snapshot as
// JSONB plus the columns the server needs without decoding it.
type documentRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewDocumentRepository constructs a [DocumentRepository] over db.
func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentRepository {
	logger.Debug().Msg("creating document repository")
	return &documentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *documentRepository) GetDocument(ctx context.Context, userID int64) (models.RemoteDocument, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("revision", "writer_id", "body", "updated_at").
		From(documentsTable).
		Where(sq.Eq{"user_id": userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return models.RemoteDocument{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	doc := models.RemoteDocument{UserID: userID}
	var body []byte
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&doc.Revision, &doc.WriterID, &body, &doc.UpdatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		doc.Document = models.Snapshot{Modules: map[models.ModuleName]any{}}
		return doc, nil
	case err != nil:
		log.Err(err).Str("func", "*documentRepository.GetDocument").Int64("user_id", userID).Msg("error selecting document")
		return models.RemoteDocument{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err := json.Unmarshal(body, &doc.Document); err != nil {
		log.Err(err).Str("func", "*documentRepository.GetDocument").Int64("user_id", userID).Msg("stored document body is not a snapshot")
		return models.RemoteDocument{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return doc, nil
}

// SaveDocument upserts the user's row and bumps its revision. Transient
// PostgreSQL failures are retried with exponential backoff.
func (r *documentRepository) SaveDocument(ctx context.Context, doc models.RemoteDocument) (models.RemoteDocument, error) {
	log := logger.FromContext(ctx)

	body, err := json.Marshal(doc.Document)
	if err != nil {
		return models.RemoteDocument{}, fmt.Errorf("error encoding document: %w", err)
	}

	query, args, err := sq.Insert(documentsTable).
		Columns("user_id", "revision", "writer_id", "exported_at", "schema_version", "body", "updated_at").
		Values(doc.UserID, int64(1), doc.WriterID, doc.Document.ExportedAt.UTC(), doc.Document.SchemaVersion, body, sq.Expr("NOW()")).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			revision = documents.revision + 1,
			writer_id = EXCLUDED.writer_id,
			exported_at = EXCLUDED.exported_at,
			schema_version = EXCLUDED.schema_version,
			body = EXCLUDED.body,
			updated_at = EXCLUDED.updated_at
		RETURNING revision, updated_at`).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return models.RemoteDocument{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	backoff := retry.WithMaxRetries(saveDocumentRetries, retry.NewExponential(saveDocumentBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		scanErr := r.db.QueryRowContext(ctx, query, args...).Scan(&doc.Revision, &doc.UpdatedAt)
		if scanErr != nil && r.db.classify(scanErr) == Retryable {
			log.Warn().Err(scanErr).Str("func", "*documentRepository.SaveDocument").Int64("user_id", doc.UserID).Msg("retrying document upsert")
			return retry.RetryableError(scanErr)
		}
		return scanErr
	})
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.RemoteDocument{}, ErrDocumentNotSaved
	case err != nil:
		log.Err(err).Str("func", "*documentRepository.SaveDocument").Int64("user_id", doc.UserID).Msg("error upserting document")
		return models.RemoteDocument{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return doc, nil
}

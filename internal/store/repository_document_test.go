package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/models"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocumentRepo(t *testing.T) (*documentRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := logger.Nop()
	return &documentRepository{
		db:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}, mock
}

var documentExportedAt = time.Date(2026, 4, 10, 8, 30, 0, 123456789, time.UTC)

func sampleDocument() models.RemoteDocument {
	return models.RemoteDocument{
		UserID:   3,
		WriterID: "laptop",
		Document: models.Snapshot{
			SchemaVersion: models.CurrentSchemaVersion,
			ExportedAt:    documentExportedAt,
			Modules: map[models.ModuleName]any{
				models.ModuleTasks: []any{map[string]any{"id": "t1"}},
			},
		},
	}
}

func TestGetDocument_Found(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)
	updated := time.Now()
	body := `{"schemaVersion":"1.0.0","exportedAt":"2026-04-10T08:30:00.123456789Z","modules":{"tasks":[]}}`

	mock.ExpectQuery("SELECT revision, writer_id, body, updated_at FROM documents").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"revision", "writer_id", "body", "updated_at"}).
			AddRow(4, "phone", []byte(body), updated))

	doc, err := repo.GetDocument(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), doc.Revision)
	assert.Equal(t, "phone", doc.WriterID)
	assert.True(t, doc.Document.ExportedAt.Equal(documentExportedAt))
	assert.Contains(t, doc.Document.Modules, models.ModuleTasks)
}

func TestGetDocument_NeverWritten(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)

	mock.ExpectQuery("SELECT revision").
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)

	doc, err := repo.GetDocument(context.Background(), 3)
	require.NoError(t, err)
	assert.Zero(t, doc.Revision)
	assert.True(t, doc.Document.IsEmpty())
	assert.Equal(t, int64(3), doc.UserID)
}

func TestGetDocument_DBError(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)

	mock.ExpectQuery("SELECT revision").WillReturnError(errors.New("timeout"))

	_, err := repo.GetDocument(context.Background(), 3)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestSaveDocument_ReturnsRevision(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)
	updated := time.Now()

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(int64(3), int64(1), "laptop", documentExportedAt, models.CurrentSchemaVersion, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"revision", "updated_at"}).AddRow(5, updated))

	saved, err := repo.SaveDocument(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, int64(5), saved.Revision)
	assert.Equal(t, updated, saved.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveDocument_RetriesTransientError(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)

	mock.ExpectQuery("INSERT INTO documents").WillReturnError(pgError(pgerrcode.SerializationFailure))
	mock.ExpectQuery("INSERT INTO documents").
		WillReturnRows(sqlmock.NewRows([]string{"revision", "updated_at"}).AddRow(2, time.Now()))

	saved, err := repo.SaveDocument(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.Revision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveDocument_PermanentErrorNotRetried(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)

	mock.ExpectQuery("INSERT INTO documents").WillReturnError(pgError(pgerrcode.ForeignKeyViolation))

	_, err := repo.SaveDocument(context.Background(), sampleDocument())
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

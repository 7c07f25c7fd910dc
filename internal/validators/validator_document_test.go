// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-life-keeper/models"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func validSnapshot() models.Snapshot {
	return models.Snapshot{
		SchemaVersion: models.CurrentSchemaVersion,
		ExportedAt:    time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
		Modules: map[models.ModuleName]any{
			models.ModuleTasks: []any{map[string]any{"title": "run"}},
		},
	}
}

func validDocument() models.RemoteDocument {
	return models.RemoteDocument{UserID: 7, Document: validSnapshot()}
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

func TestNewDocumentValidator(t *testing.T) {
	require.NotNil(t, NewDocumentValidator(30))
}

func TestValidate_Dispatch(t *testing.T) {
	v := NewDocumentValidator(30)
	ctx := context.Background()

	snap := validSnapshot()
	doc := validDocument()
	user := models.User{Login: "a", Password: "b"}
	query := models.DocumentQuery{UserID: 1, Since: -1}

	assert.NoError(t, v.Validate(ctx, snap))
	assert.NoError(t, v.Validate(ctx, &snap))
	assert.NoError(t, v.Validate(ctx, doc))
	assert.NoError(t, v.Validate(ctx, &doc))
	assert.NoError(t, v.Validate(ctx, user))
	assert.NoError(t, v.Validate(ctx, &user))
	assert.NoError(t, v.Validate(ctx, query))
	assert.NoError(t, v.Validate(ctx, &query))

	assert.ErrorIs(t, v.Validate(ctx, 42), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(ctx, snap, "colour"), ErrUnknownField)
}

// ---------------------------------------------------------------------------
// Snapshot
// ---------------------------------------------------------------------------

func TestValidate_Snapshot(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *models.Snapshot)
		fields  []string
		wantErr error
	}{
		{name: "valid", mutate: func(*models.Snapshot) {}},
		{name: "no schema version", mutate: func(s *models.Snapshot) { s.SchemaVersion = "" }, wantErr: ErrEmptySchemaVersion},
		{name: "no exportedAt", mutate: func(s *models.Snapshot) { s.ExportedAt = time.Time{} }, wantErr: ErrEmptyExportedAt},
		{name: "no modules", mutate: func(s *models.Snapshot) { s.Modules = nil }, wantErr: ErrEmptyModules},
		{name: "empty module name", mutate: func(s *models.Snapshot) { s.Modules[""] = []any{} }, wantErr: ErrInvalidModuleName},
		{name: "reserved session key", mutate: func(s *models.Snapshot) { s.Modules["_meta.session"] = []any{"junk"} }, wantErr: ErrInvalidModuleName},
		{name: "reserved device key", mutate: func(s *models.Snapshot) { s.Modules["_meta.device_id"] = "device-b" }, wantErr: ErrInvalidModuleName},
		{name: "unknown module accepted", mutate: func(s *models.Snapshot) { s.Modules["weather"] = []any{} }},
		{
			name:   "only schema version checked",
			mutate: func(s *models.Snapshot) { s.ExportedAt = time.Time{} },
			fields: []string{FieldSchemaVersion},
		},
	}

	v := NewDocumentValidator(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSnapshot()
			tt.mutate(&s)

			err := v.Validate(context.Background(), s, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ---------------------------------------------------------------------------
// RemoteDocument
// ---------------------------------------------------------------------------

func TestValidate_RemoteDocument(t *testing.T) {
	v := NewDocumentValidator(0)
	ctx := context.Background()

	doc := validDocument()
	doc.UserID = 0
	assert.ErrorIs(t, v.Validate(ctx, doc), ErrInvalidUserID)

	doc = validDocument()
	doc.Document.SchemaVersion = ""
	err := v.Validate(ctx, doc)
	assert.ErrorIs(t, err, ErrEmptySchemaVersion)
	assert.Contains(t, err.Error(), "invalid document")

	doc = validDocument()
	doc.UserID = 0
	assert.NoError(t, v.Validate(ctx, doc, FieldDocument))
}

// ---------------------------------------------------------------------------
// User
// ---------------------------------------------------------------------------

func TestValidate_User(t *testing.T) {
	v := NewDocumentValidator(0)
	ctx := context.Background()

	assert.ErrorIs(t, v.Validate(ctx, models.User{Password: "p"}), ErrEmptyLogin)
	assert.ErrorIs(t, v.Validate(ctx, models.User{Login: "l"}), ErrEmptyPassword)
	assert.NoError(t, v.Validate(ctx, models.User{Login: "l"}, FieldLogin))
}

// ---------------------------------------------------------------------------
// DocumentQuery
// ---------------------------------------------------------------------------

func TestValidate_DocumentQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   models.DocumentQuery
		wantErr error
	}{
		{name: "immediate", query: models.DocumentQuery{UserID: 1, Since: -1}},
		{name: "long poll", query: models.DocumentQuery{UserID: 1, Since: 4, WaitSeconds: 30}},
		{name: "no user", query: models.DocumentQuery{Since: 1}, wantErr: ErrInvalidUserID},
		{name: "since below -1", query: models.DocumentQuery{UserID: 1, Since: -2}, wantErr: ErrInvalidSinceRevision},
		{name: "negative wait", query: models.DocumentQuery{UserID: 1, WaitSeconds: -1}, wantErr: ErrInvalidWait},
		{name: "wait above max", query: models.DocumentQuery{UserID: 1, WaitSeconds: 31}, wantErr: ErrInvalidWait},
	}

	v := NewDocumentValidator(30)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.query)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

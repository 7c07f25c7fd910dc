package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-life-keeper/models"
)

const (
	FieldUserID        = "user_id"
	FieldSchemaVersion = "schema_version"
	FieldExportedAt    = "exported_at"
	FieldModules       = "modules"
	FieldDocument      = "document"
	FieldLogin         = "login"
	FieldPassword      = "password"
	FieldSince         = "since"
	FieldWait          = "wait"
)

// DocumentValidator checks what the document server accepts from clients.
type DocumentValidator struct {
	// maxWaitSeconds bounds DocumentQuery.WaitSeconds. Zero disables the
	// bound.
	maxWaitSeconds int
}

func NewDocumentValidator(maxWaitSeconds int) Validator {
	return &DocumentValidator{maxWaitSeconds: maxWaitSeconds}
}

func (v *DocumentValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Snapshot:
		return v.validateSnapshot(ctx, value, fields...)
	case *models.Snapshot:
		return v.validateSnapshot(ctx, *value, fields...)

	case models.RemoteDocument:
		return v.validateRemoteDocument(ctx, value, fields...)
	case *models.RemoteDocument:
		return v.validateRemoteDocument(ctx, *value, fields...)

	case models.User:
		return v.validateUser(ctx, value, fields...)
	case *models.User:
		return v.validateUser(ctx, *value, fields...)

	case models.DocumentQuery:
		return v.validateDocumentQuery(ctx, value, fields...)
	case *models.DocumentQuery:
		return v.validateDocumentQuery(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// Only the presence of schemaVersion is checked. Module names unknown to
// this version are accepted so that newer clients can add modules; names in
// the client's reserved key space are not.
func (v *DocumentValidator) validateSnapshot(_ context.Context, s models.Snapshot, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSchemaVersion, FieldExportedAt, FieldModules}
	}

	for _, f := range fields {
		switch f {
		case FieldSchemaVersion:
			if s.SchemaVersion == "" {
				return ErrEmptySchemaVersion
			}
		case FieldExportedAt:
			if s.IsEmpty() {
				return ErrEmptyExportedAt
			}
		case FieldModules:
			if len(s.Modules) == 0 {
				return ErrEmptyModules
			}
			for name := range s.Modules {
				if name == "" || name.IsReserved() {
					return ErrInvalidModuleName
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *DocumentValidator) validateRemoteDocument(ctx context.Context, doc models.RemoteDocument, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldDocument}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if doc.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldDocument:
			if err := v.validateSnapshot(ctx, doc.Document); err != nil {
				return fmt.Errorf("invalid document: %w", err)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *DocumentValidator) validateUser(_ context.Context, user models.User, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLogin, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldLogin:
			if user.Login == "" {
				return ErrEmptyLogin
			}
		case FieldPassword:
			if user.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *DocumentValidator) validateDocumentQuery(_ context.Context, q models.DocumentQuery, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldSince, FieldWait}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if q.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldSince:
			if q.Since < -1 {
				return ErrInvalidSinceRevision
			}
		case FieldWait:
			if q.WaitSeconds < 0 || (v.maxWaitSeconds > 0 && q.WaitSeconds > v.maxWaitSeconds) {
				return ErrInvalidWait
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidUserID        = errors.New("invalid user ID")
	ErrEmptySchemaVersion   = errors.New("schema version is required")
	ErrEmptyExportedAt      = errors.New("exportedAt is required")
	ErrEmptyModules         = errors.New("modules are required")
	ErrInvalidModuleName    = errors.New("invalid module name")
	ErrEmptyLogin           = errors.New("login is required")
	ErrEmptyPassword        = errors.New("password is required")
	ErrInvalidSinceRevision = errors.New("invalid since revision")
	ErrInvalidWait          = errors.New("invalid wait")
)

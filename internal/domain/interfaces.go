package domain

import (
	"context"

	"github.com/MKhiriev/go-life-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/domain_mock.go -package=mock

// Store is the read side of a module store, as used by the snapshot builder.
type Store interface {
	Module() models.ModuleName
	// CurrentData returns the module's data. Callers must not mutate it.
	CurrentData() any
	IsLoaded() bool
	Load(ctx context.Context) error
}

package store

import (
	"context"

	"github.com/MKhiriev/go-life-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists server accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// DocumentRepository keeps the single document of every user.
type DocumentRepository interface {
	// GetDocument returns the user's document. A user who never wrote one
	// gets a zero-revision document with an empty snapshot and no error.
	GetDocument(ctx context.Context, userID int64) (models.RemoteDocument, error)
	// SaveDocument replaces the user's document and returns the new revision.
	SaveDocument(ctx context.Context, doc models.RemoteDocument) (models.RemoteDocument, error)
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

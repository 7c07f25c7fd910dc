package service

import (
	"context"

	"github.com/MKhiriev/go-life-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// DocumentService serves the single document of every user.
type DocumentService interface {
	// GetDocument returns the user's document. When query.Since is not
	// negative and the stored revision is not newer, it waits up to
	// query.WaitSeconds for a write and returns ErrNoChanges on timeout.
	GetDocument(ctx context.Context, query models.DocumentQuery) (models.RemoteDocument, error)

	// PutDocument replaces the user's document and wakes every waiting
	// reader of that user.
	PutDocument(ctx context.Context, doc models.RemoteDocument) (models.RemoteDocument, error)
}

// AppInfoService reports what build of the server is running.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}

// DocumentServiceWrapper defines middleware composition for DocumentService.
// Implementations wrap an existing DocumentService to add behavior such as
// validation.
type DocumentServiceWrapper interface {
	Wrap(DocumentService) DocumentService
}

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-life-keeper/internal/validators"
	"github.com/MKhiriev/go-life-keeper/models"
)

// DocumentValidationService rejects malformed queries and documents before
// they reach the wrapped DocumentService.
type DocumentValidationService struct {
	inner     DocumentService
	validator validators.Validator
}

func NewDocumentValidationService(maxWaitSeconds int) DocumentServiceWrapper {
	return &DocumentValidationService{
		validator: validators.NewDocumentValidator(maxWaitSeconds),
	}
}

func (v *DocumentValidationService) GetDocument(ctx context.Context, query models.DocumentQuery) (models.RemoteDocument, error) {
	if err := v.validator.Validate(ctx, query); err != nil {
		return models.RemoteDocument{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.GetDocument(ctx, query)
}

func (v *DocumentValidationService) PutDocument(ctx context.Context, doc models.RemoteDocument) (models.RemoteDocument, error) {
	if err := v.validator.Validate(ctx, doc); err != nil {
		return models.RemoteDocument{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.PutDocument(ctx, doc)
}

func (v *DocumentValidationService) Wrap(inner DocumentService) DocumentService {
	v.inner = inner
	return v
}

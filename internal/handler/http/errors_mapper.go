package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-life-keeper/internal/app"
	"github.com/MKhiriev/go-life-keeper/internal/service"
	"github.com/MKhiriev/go-life-keeper/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpired:          http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrVersionIsNotSpecified:   http.StatusInternalServerError,

	store.ErrLoginAlreadyExists: http.StatusConflict,
	store.ErrNoUserWasFound:     http.StatusNotFound,
	store.ErrDocumentNotSaved:   http.StatusInternalServerError,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// messageFromStatus picks the response body for a failed document request.
// badRequest is used for 400 so the client sees which input was rejected.
func messageFromStatus(status int, badRequest string) string {
	switch status {
	case http.StatusBadRequest:
		return badRequest
	case http.StatusUnauthorized:
		return app.MsgTokenIsExpiredOrInvalid
	case http.StatusNotFound:
		return http.StatusText(http.StatusNotFound)
	default:
		return app.MsgInternalServerError
	}
}

package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpired          = errors.New("token is expired")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrVersionIsNotSpecified   = errors.New("app version is not specified")

	ErrNoChanges = errors.New("no newer revision")

	ErrRegisterOnServer      = errors.New("registration on server failed")
	ErrLoginOnServer         = errors.New("login on server failed")
	ErrAuthorizationRequired = errors.New("authorization required")
	ErrSyncInProgress        = errors.New("sync already in progress")
	ErrDecodingSession       = errors.New("stored session is not valid JSON")
)

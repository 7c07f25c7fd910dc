package crypto

import "errors"

var (
	ErrMalformedHash       = errors.New("malformed password hash")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Bearer header parsing failures. The auth middleware answers all of them
// with 401.
var (
	ErrEmptyAuthorizationHeader   = errors.New("empty `Authorization` header")
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")
	ErrEmptyToken                 = errors.New("empty token in `Authorization` header")
)

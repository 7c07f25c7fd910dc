// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-life-keeper/internal/service"
	"github.com/MKhiriev/go-life-keeper/internal/store"
)

// ErrTasksModuleMissing is returned by New when the registry has no tasks store.
var ErrTasksModuleMissing = errors.New("tasks module is not registered")

func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, service.ErrWrongPassword):
		return "Wrong login or password"
	case errors.Is(err, store.ErrLoginAlreadyExists):
		return "This login is already taken"
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "Network is unavailable or the server is down"
	}

	return err.Error()
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-life-keeper/internal/logger"
)

// CheckHTTPMethod returns the router's MethodNotAllowed handler. A request
// whose path is registered but whose method is not is answered with 404
// Not Found instead of chi's 405, so the set of supported methods is not
// disclosed.
//
// Usage:
//
//	router := chi.NewRouter()
//	// ... register routes ...
//	router.MethodNotAllowed(CheckHTTPMethod(router))
func CheckHTTPMethod(router *chi.Mux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if router.Match(chi.NewRouteContext(), r.Method, r.URL.Path) {
			router.ServeHTTP(w, r)
			return
		}

		logger.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("method is not registered for path")
		w.WriteHeader(http.StatusNotFound)
	}
}

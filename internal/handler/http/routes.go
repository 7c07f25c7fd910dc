package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging, h.withGZip)

	router.Get("/api/version", h.getServerVersion)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth, h.withDeviceID)

		r.Get("/api/documents", h.getDocument)
		r.With(h.checkHash).Put("/api/documents", h.putDocument)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-life-keeper/internal/logger"
)

// responseWriter records the status code and body size for the access log.
// WriteHeader is forwarded at most once.
type responseWriter struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
	size        int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()
		lw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(lw, r)

		status := lw.status
		if !lw.wroteHeader {
			status = http.StatusOK
		}

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}

package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-life-keeper/internal/utils"
	"github.com/MKhiriev/go-life-keeper/models"
)

const (
	traceIDHeader = "X-Trace-ID"

	// maxTraceIDLength bounds caller-supplied ids that end up in every log line.
	maxTraceIDLength = 64
)

var traceIDs = utils.NewUUIDGenerator()

// withTraceID attaches a request-scoped logger tagged with trace_id, and with
// device_id when the caller identified itself. The trace id is echoed back in
// the X-Trace-ID response header.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" || len(traceID) > maxTraceIDLength {
			traceID = traceIDs.Generate()
		}
		deviceID := r.Header.Get(models.HeaderDeviceID)

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			c = c.Str("trace_id", traceID)
			if deviceID != "" {
				c = c.Str("device_id", deviceID)
			}
			return c
		})
		r = r.WithContext(l.WithContext(r.Context()))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}

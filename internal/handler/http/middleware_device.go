package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-life-keeper/internal/utils"
	"github.com/MKhiriev/go-life-keeper/models"
)

// withDeviceID copies the X-Device-ID header into the request context under
// [utils.DeviceIDCtxKey]. Requests without the header pass through unchanged.
func (h *Handler) withDeviceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if deviceID := strings.TrimSpace(r.Header.Get(models.HeaderDeviceID)); deviceID != "" {
			r = r.WithContext(context.WithValue(r.Context(), utils.DeviceIDCtxKey, deviceID))
		}
		next.ServeHTTP(w, r)
	})
}

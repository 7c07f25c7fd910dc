package http

import (
	"bytes"
	"crypto/hmac"
	"io"
	"net/http"

	"github.com/MKhiriev/go-life-keeper/internal/app"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/utils"
	"github.com/MKhiriev/go-life-keeper/models"
)

// checkHash verifies the HashSHA256 header against the HMAC of the raw
// request body. It is a no-op when the handler was created without a hash
// key.
func (h *Handler) checkHash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.verifyHash {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)
		log.Debug().Str("func", "*Handler.checkHash").Msg("checking hash begins")

		// read bytes from body
		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.checkHash").Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		hashFromRequest := r.Header.Get(models.HeaderHashSHA256)
		hashedBody := utils.HashHex(body)
		if !hmac.Equal([]byte(hashFromRequest), []byte(hashedBody)) {
			log.Error().Str("func", "*Handler.checkHash").
				Str("hash from request", hashFromRequest).
				Str("hashed body", hashedBody).
				Msg("hashes are not equal")
			http.Error(w, app.MsgHashMismatch, http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}

package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-life-keeper/internal/app"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/service"
	"github.com/MKhiriev/go-life-keeper/internal/utils"
)

// auth enforces JWT authentication. On success the user id from the token is
// stored under [utils.UserIDCtxKey]; every failure is answered with 401.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := getTokenFromAuthHeader(r.Header.Get("Authorization"))
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			if errors.Is(err, service.ErrTokenIsExpired) {
				log.Err(err).Msg("token expired")
				http.Error(w, app.MsgTokenIsExpired, http.StatusUnauthorized)
				return
			}
			log.Err(err).Msg("error occurred during parsing token")
			http.Error(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
			return
		}

		ctx = context.WithValue(ctx, utils.UserIDCtxKey, token.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getTokenFromAuthHeader extracts the token from "Bearer <token>". The scheme
// is matched case-insensitively.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrEmptyAuthorizationHeader
	}

	scheme, tokenString, found := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}

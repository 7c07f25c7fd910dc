// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-life-keeper/internal/app"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/service"
	"github.com/MKhiriev/go-life-keeper/internal/utils"
	"github.com/MKhiriev/go-life-keeper/models"
)

// getDocument serves GET /api/documents?since=N&wait=S.
//
// A missing since reads the document immediately. Otherwise the request is
// held until a revision newer than since exists or wait seconds pass, in
// which case 204 No Content is returned.
func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r).WithComponent("documents")

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg(app.MsgNoUserIDProvided)
		http.Error(w, app.MsgNoUserIDProvided, http.StatusUnauthorized)
		return
	}

	query, err := parseDocumentQuery(r)
	if err != nil {
		log.Err(err).Msg("bad document query")
		http.Error(w, app.MsgInvalidDocumentQuery, http.StatusBadRequest)
		return
	}
	query.UserID = userID

	doc, err := h.services.DocumentService.GetDocument(ctx, query)
	if err != nil {
		if service.IsNoChanges(err) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if ctx.Err() != nil {
			log.Debug().Err(err).Msg("client went away while waiting")
			return
		}
		status := statusFromError(err)
		log.Err(err).Int("status", status).Msg("failed to read document")
		http.Error(w, messageFromStatus(status, app.MsgInvalidDocumentQuery), status)
		return
	}

	log.Debug().Int64("revision", doc.Revision).Str("writer_id", doc.WriterID).Msg("document served")
	utils.WriteJSON(w, doc, http.StatusOK)
}

// putDocument serves PUT /api/documents. The body is a bare snapshot; the
// answer carries the revision it was stored under.
func (h *Handler) putDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r).WithComponent("documents")

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg(app.MsgNoUserIDProvided)
		http.Error(w, app.MsgNoUserIDProvided, http.StatusUnauthorized)
		return
	}

	var snapshot models.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, app.MsgInvalidDocument, http.StatusBadRequest)
		return
	}

	saved, err := h.services.DocumentService.PutDocument(ctx, models.RemoteDocument{
		UserID:   userID,
		WriterID: utils.GetDeviceIDFromContext(ctx),
		Document: snapshot,
	})
	if err != nil {
		status := statusFromError(err)
		log.Err(err).Int("status", status).Msg("failed to save document")
		http.Error(w, messageFromStatus(status, app.MsgInvalidDocument), status)
		return
	}

	log.Info().Int64("user_id", userID).Int64("revision", saved.Revision).
		Str("writer_id", saved.WriterID).Time("exported_at", snapshot.ExportedAt).
		Msg("document saved")
	utils.WriteJSON(w, models.PutDocumentResponse{Revision: saved.Revision}, http.StatusOK)
}

// parseDocumentQuery reads since and wait. An absent since is -1, an absent
// wait is 0.
func parseDocumentQuery(r *http.Request) (models.DocumentQuery, error) {
	query := models.DocumentQuery{Since: -1}
	values := r.URL.Query()

	if raw := values.Get("since"); raw != "" {
		since, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return models.DocumentQuery{}, err
		}
		query.Since = since
	}

	if raw := values.Get("wait"); raw != "" {
		wait, err := strconv.Atoi(raw)
		if err != nil {
			return models.DocumentQuery{}, err
		}
		query.WaitSeconds = wait
	}

	return query, nil
}

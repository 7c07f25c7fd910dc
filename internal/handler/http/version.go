package http

import (
	"net/http"
)

// getServerVersion answers with the running version as plain text. The
// commit and build date, when known, travel in response headers.
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	serverVersion := h.services.AppInfoService.GetAppVersion(ctx)
	build := h.services.AppInfoService.GetBuildInfo(ctx)

	if commit := build.BuildCommit(); commit != "" && commit != "N/A" {
		w.Header().Set("X-Build-Commit", commit)
	}
	if date := build.BuildDate(); date != "" && date != "N/A" {
		w.Header().Set("X-Build-Date", date)
	}
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(serverVersion))
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/MKhiriev/go-life-keeper/models"
)

func renderBuildInfoWindow(info models.AppBuildInfo) string {
	var b strings.Builder

	b.WriteString("Application: LifeKeeper\n")
	b.WriteString("Version: ")
	b.WriteString(valueOrNA(info.BuildVersion()))
	b.WriteString("\n")
	b.WriteString("Date: ")
	b.WriteString(valueOrNA(info.BuildDate()))
	b.WriteString("\n")
	b.WriteString("Commit: ")
	b.WriteString(valueOrNA(info.BuildCommit()))

	return renderPage("ABOUT", overlayBoxStyle.Render(b.String()), "esc: back")
}

func valueOrNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "N/A"
	}
	return v
}

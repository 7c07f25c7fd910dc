// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// CurrentSchemaVersion is written into every snapshot built by this client.
const CurrentSchemaVersion = "1.0.0"

// Snapshot is the unit of synchronization: a total copy of every module's
// data at one instant.
//
// Two snapshots are only ever compared by ExportedAt. Modules is opaque to
// the sync core; its values are whatever the owning domain store keeps
// (decoded JSON arrays and objects).
type Snapshot struct {
	// SchemaVersion identifies the document format. Only its presence is
	// checked.
	SchemaVersion string `json:"schemaVersion"`

	// ExportedAt is the sole ordering key. The zero value marks an empty or
	// malformed document.
	ExportedAt time.Time `json:"exportedAt"`

	// Modules maps module names to the module's full data.
	Modules map[ModuleName]any `json:"modules"`
}

// IsEmpty reports whether the snapshot carries no usable ordering key, i.e.
// the remote "has nothing".
func (s Snapshot) IsEmpty() bool {
	return s.ExportedAt.IsZero()
}

type snapshotJSON struct {
	SchemaVersion string                         `json:"schemaVersion"`
	ExportedAt    string                         `json:"exportedAt,omitempty"`
	Modules       map[ModuleName]json.RawMessage `json:"modules,omitempty"`
}

// MarshalJSON encodes ExportedAt as an RFC 3339 string with nanoseconds and
// omits it entirely for empty snapshots.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := struct {
		SchemaVersion string             `json:"schemaVersion"`
		ExportedAt    string             `json:"exportedAt,omitempty"`
		Modules       map[ModuleName]any `json:"modules"`
	}{
		SchemaVersion: s.SchemaVersion,
		Modules:       s.Modules,
	}
	if !s.ExportedAt.IsZero() {
		out.ExportedAt = s.ExportedAt.UTC().Format(time.RFC3339Nano)
	}
	if out.Modules == nil {
		out.Modules = map[ModuleName]any{}
	}

	return json.Marshal(out)
}

// UnmarshalJSON is lenient: a missing or unparsable exportedAt leaves the
// zero time instead of failing, so that a malformed remote document is
// treated as "nothing to adopt" rather than an error.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	s.SchemaVersion = raw.SchemaVersion
	s.ExportedAt = time.Time{}
	if raw.ExportedAt != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw.ExportedAt); err == nil {
			s.ExportedAt = ts
		}
	}

	s.Modules = make(map[ModuleName]any, len(raw.Modules))
	for name, data := range raw.Modules {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		s.Modules[name] = v
	}

	return nil
}

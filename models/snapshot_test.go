package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_UnmarshalJSON_MissingExportedAtIsEmpty(t *testing.T) {
	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"schemaVersion":"1.0.0","modules":{"tasks":[{"id":1}]}}`), &s))

	assert.True(t, s.IsEmpty())
	assert.Equal(t, "1.0.0", s.SchemaVersion)
	require.Contains(t, s.Modules, ModuleTasks)
	assert.Len(t, s.Modules[ModuleTasks], 1)
}

func TestSnapshot_UnmarshalJSON_GarbageExportedAtIsEmpty(t *testing.T) {
	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"exportedAt":"yesterday"}`), &s))

	assert.True(t, s.IsEmpty())
	assert.NotNil(t, s.Modules)
}

func TestSnapshot_UnmarshalJSON_EmptyObject(t *testing.T) {
	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{}`), &s))
	assert.True(t, s.IsEmpty())
}

func TestSnapshot_MarshalJSON_KeepsNanoseconds(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 123456789, time.UTC)
	s := Snapshot{SchemaVersion: CurrentSchemaVersion, ExportedAt: ts}

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"exportedAt":"2026-03-01T10:00:00.123456789Z"`)
	assert.Contains(t, string(b), `"modules":{}`)

	var back Snapshot
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, ts.Equal(back.ExportedAt))
}

func TestSnapshot_MarshalJSON_EmptyOmitsExportedAt(t *testing.T) {
	b, err := json.Marshal(Snapshot{})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "exportedAt")
}

func TestModuleName_IsKnown(t *testing.T) {
	assert.True(t, ModuleReligiousPractice.IsKnown())
	assert.False(t, ModuleName("weather").IsKnown())
	assert.Len(t, AllModules(), 14)
}

func TestModuleName_IsReserved(t *testing.T) {
	for _, m := range AllModules() {
		assert.False(t, m.IsReserved(), m)
	}
	assert.True(t, ModuleName("_meta.session").IsReserved())
	assert.True(t, ModuleName(ReservedKeyPrefix).IsReserved())
	assert.False(t, ModuleName("meta.session").IsReserved())
}

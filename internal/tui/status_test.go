// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-life-keeper/internal/service"
	"github.com/MKhiriev/go-life-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

type statusHarness struct {
	model   *StatusModel
	sync    *fakeSync
	auth    *fakeAuth
	builder *fakeBuilder
	tasks   *fakeTasks
	copied  []string
	copyErr error
}

func newStatusHarness(t *testing.T) *statusHarness {
	t.Helper()

	h := &statusHarness{
		sync:    &fakeSync{},
		auth:    &fakeAuth{},
		builder: &fakeBuilder{},
		tasks:   &fakeTasks{data: []any{}},
	}
	h.model = NewStatusModel(context.Background(), &service.ClientServices{
		SyncService: h.sync,
		AuthService: h.auth,
		Builder:     h.builder,
	}, h.tasks)
	h.model.copy = func(s string) error {
		if h.copyErr != nil {
			return h.copyErr
		}
		h.copied = append(h.copied, s)
		return nil
	}
	return h
}

// press sends a key and feeds the resulting message back to the model.
func (h *statusHarness) press(msg tea.KeyMsg) tea.Msg {
	_, cmd := h.model.Update(msg)
	out := exec(cmd)
	if out != nil {
		h.model.Update(out)
	}
	return out
}

// ── Status rendering ─────────────────────────────────────────────────────────

func TestStatusModel_InitReadsEngineStatus(t *testing.T) {
	h := newStatusHarness(t)
	h.sync.status = models.SyncStatus{
		State:    models.SyncStateUploadPending,
		Identity: &models.Identity{UserID: 4, Login: "alice"},
	}

	h.model.Init()
	view := h.model.View()

	assert.Contains(t, view, "alice (#4)")
	assert.Contains(t, view, "upload_pending")
	assert.Contains(t, view, "Last sync │ never")
}

func TestStatusModel_TickRefreshesStatus(t *testing.T) {
	h := newStatusHarness(t)
	h.model.Init()

	synced := t0
	h.sync.status = models.SyncStatus{State: models.SyncStateIdle, LastSyncedAt: &synced}
	h.model.Update(statusTickMsg(t0))

	assert.Contains(t, h.model.View(), synced.Local().Format(timeLayout))
}

func TestStatusModel_NoticesAreCappedNewestFirst(t *testing.T) {
	h := newStatusHarness(t)

	for i := 0; i < maxNotices+3; i++ {
		h.model.Update(noticeMsg{notice: models.Notice{
			Kind:    models.NoticeSynchronized,
			Message: fmt.Sprintf("notice %02d", i),
			At:      t0.Add(time.Duration(i) * time.Second),
		}})
	}

	require.Len(t, h.model.notices, maxNotices)
	assert.Equal(t, "notice 03", h.model.notices[0].Message)

	view := h.model.View()
	assert.NotContains(t, view, "notice 02")
	assert.Less(t, strings.Index(view, "notice 10"), strings.Index(view, "notice 03"))
}

func TestStatusModel_ErrorNoticeIsMarked(t *testing.T) {
	h := newStatusHarness(t)

	h.model.Update(noticeMsg{notice: models.Notice{
		Kind:    models.NoticeAuthorizationRequired,
		Message: "sign in to sync",
		At:      t0,
	}})

	assert.Contains(t, h.model.View(), "! "+t0.Local().Format("15:04:05")+" sign in to sync")
}

// ── Sync now ─────────────────────────────────────────────────────────────────

func TestStatusModel_SyncNow(t *testing.T) {
	h := newStatusHarness(t)

	_, cmd := h.model.Update(runes("s"))
	require.NotNil(t, cmd)
	assert.True(t, h.model.syncing)

	_, again := h.model.Update(runes("s"))
	assert.Nil(t, again, "second press while syncing is ignored")

	h.model.Update(exec(cmd))

	assert.Equal(t, 1, h.sync.syncNows)
	assert.False(t, h.model.syncing)
	assert.Contains(t, h.model.View(), "OK: Synchronized")
}

func TestStatusModel_SyncNowFailure(t *testing.T) {
	h := newStatusHarness(t)
	h.sync.syncErr = errors.New("dial tcp 127.0.0.1:8080: connection refused")

	h.press(runes("s"))

	view := h.model.View()
	assert.Contains(t, view, "Error: Network is unavailable or the server is down")
	assert.NotContains(t, view, "OK:")
}

// ── Copy snapshot ────────────────────────────────────────────────────────────

func TestStatusModel_CopySnapshot(t *testing.T) {
	h := newStatusHarness(t)
	h.builder.snapshot = models.Snapshot{
		SchemaVersion: models.CurrentSchemaVersion,
		ExportedAt:    t0,
		Modules:       map[models.ModuleName]any{models.ModuleTasks: []any{map[string]any{"title": "a"}}},
	}

	h.press(runes("c"))

	require.Len(t, h.copied, 1)
	var got models.Snapshot
	require.NoError(t, json.Unmarshal([]byte(h.copied[0]), &got))
	assert.True(t, got.ExportedAt.Equal(t0))
	assert.Equal(t, models.CurrentSchemaVersion, got.SchemaVersion)
	assert.Contains(t, h.model.View(), "OK: Snapshot copied to clipboard")
}

func TestStatusModel_CopySnapshotFailure(t *testing.T) {
	h := newStatusHarness(t)
	h.copyErr = errors.New("no clipboard utilities available")

	h.press(runes("c"))

	assert.Contains(t, h.model.View(), "Error: no clipboard utilities available")
}

// ── Add task ─────────────────────────────────────────────────────────────────

func TestStatusModel_AddTask(t *testing.T) {
	h := newStatusHarness(t)

	h.model.Update(runes("a"))
	require.True(t, h.model.adding)
	assert.Contains(t, h.model.View(), "New task:")

	h.model.Update(runes("buy milk"))
	h.press(special(tea.KeyEnter))

	assert.False(t, h.model.adding)
	assert.Equal(t, []any{map[string]any{"title": "buy milk", "done": false}}, h.tasks.data)
	assert.Contains(t, h.model.View(), "OK: Task added: buy milk")
}

func TestStatusModel_AddTaskKeysGoToInput(t *testing.T) {
	h := newStatusHarness(t)

	h.model.Update(runes("a"))
	h.model.Update(runes("s"))

	assert.Zero(t, h.sync.syncNows, "s is typed, not a hotkey")
	assert.Equal(t, "s", h.model.input.Value())
}

func TestStatusModel_AddTaskEmptyTitle(t *testing.T) {
	h := newStatusHarness(t)

	h.model.Update(runes("a"))
	_, cmd := h.model.Update(special(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.True(t, h.model.adding)
	assert.Contains(t, h.model.View(), "Error: Task title is required")
}

func TestStatusModel_AddTaskCancel(t *testing.T) {
	h := newStatusHarness(t)

	h.model.Update(runes("a"))
	h.model.Update(runes("draft"))
	h.model.Update(special(tea.KeyEsc))

	assert.False(t, h.model.adding)
	assert.Equal(t, []any{}, h.tasks.data)
}

func TestStatusModel_AddTaskStoreError(t *testing.T) {
	h := newStatusHarness(t)
	h.tasks.err = errors.New("store is not loaded")

	h.model.Update(runes("a"))
	h.model.Update(runes("x"))
	h.press(special(tea.KeyEnter))

	assert.Contains(t, h.model.View(), "Error: store is not loaded")
}

func TestAppendTask(t *testing.T) {
	tests := []struct {
		name    string
		current any
		want    []any
	}{
		{"empty list", []any{}, []any{map[string]any{"title": "t", "done": false}}},
		{"existing tasks kept", []any{"old"}, []any{"old", map[string]any{"title": "t", "done": false}}},
		{"not a list", map[string]any{"x": 1}, []any{map[string]any{"title": "t", "done": false}}},
		{"nil", nil, []any{map[string]any{"title": "t", "done": false}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, appendTask(tt.current, "t"))
		})
	}
}

// ── Sign out / quit ──────────────────────────────────────────────────────────

func TestStatusModel_Logout(t *testing.T) {
	h := newStatusHarness(t)
	h.model.Update(noticeMsg{notice: models.Notice{Message: "old", At: t0}})

	_, cmd := h.model.Update(runes("l"))
	_, next := h.model.Update(exec(cmd))

	assert.Equal(t, 1, h.auth.logouts)
	assert.Empty(t, h.model.notices)
	assert.Equal(t, NavigateTo{Page: pageMenu, Payload: menuNotice{text: "Signed out"}}, exec(next))
}

func TestStatusModel_LogoutFailure(t *testing.T) {
	h := newStatusHarness(t)
	h.auth.logoutErr = errors.New("disk full")

	_, cmd := h.model.Update(runes("l"))
	_, next := h.model.Update(exec(cmd))

	assert.Nil(t, next)
	assert.Contains(t, h.model.View(), "Error: disk full")
}

func TestStatusModel_Quit(t *testing.T) {
	h := newStatusHarness(t)

	_, cmd := h.model.Update(runes("q"))

	assert.IsType(t, tea.QuitMsg{}, exec(cmd))
}

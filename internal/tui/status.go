// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-life-keeper/internal/service"
	"github.com/MKhiriev/go-life-keeper/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	maxNotices      = 8
	noticeTextWidth = 60
)

// TaskStore is the part of the tasks module store the status page writes to.
type TaskStore interface {
	Update(ctx context.Context, fn func(current any) (any, error)) error
}

// StatusModel shows the sync engine state and the latest notices, and lets
// the user sync, add a task, copy the snapshot or sign out.
type StatusModel struct {
	ctx     context.Context
	sync    service.ClientSyncService
	builder service.SnapshotBuilder
	auth    service.ClientAuthService
	tasks   TaskStore
	copy    func(string) error

	spinner spinner.Model
	input   textinput.Model
	adding  bool
	syncing bool

	status  models.SyncStatus
	notices []models.Notice
	okMsg   string
	errMsg  string
}

func NewStatusModel(ctx context.Context, services *service.ClientServices, tasks TaskStore) *StatusModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	in := textinput.New()
	in.Placeholder = "task title"
	in.CharLimit = 200
	in.Width = inputWidth

	return &StatusModel{
		ctx:     ctx,
		sync:    services.SyncService,
		builder: services.Builder,
		auth:    services.AuthService,
		tasks:   tasks,
		copy:    clipboard.WriteAll,
		spinner: s,
		input:   in,
	}
}

func (m *StatusModel) Init() tea.Cmd {
	m.status = m.sync.Status()
	return m.spinner.Tick
}

func (m *StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusTickMsg:
		m.status = m.sync.Status()
		return m, nil

	case noticeMsg:
		m.notices = append(m.notices, msg.notice)
		if len(m.notices) > maxNotices {
			m.notices = m.notices[len(m.notices)-maxNotices:]
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case syncDoneMsg:
		m.syncing = false
		m.status = m.sync.Status()
		m.setResult("Synchronized", msg.err)
		return m, nil

	case copiedMsg:
		m.setResult("Snapshot copied to clipboard", msg.err)
		return m, nil

	case taskAddedMsg:
		m.setResult("Task added: "+msg.title, msg.err)
		return m, nil

	case logoutDoneMsg:
		if msg.err != nil {
			m.setResult("", msg.err)
			return m, nil
		}
		m.reset()
		return m, func() tea.Msg {
			return NavigateTo{Page: pageMenu, Payload: menuNotice{text: "Signed out"}}
		}

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m *StatusModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.sync):
		if m.syncing {
			return m, nil
		}
		m.syncing = true
		m.clearResult()
		return m, m.cmdSyncNow()
	case key.Matches(msg, keys.addTask):
		m.adding = true
		m.clearResult()
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, keys.copy):
		m.clearResult()
		return m, m.cmdCopySnapshot()
	case key.Matches(msg, keys.logout):
		m.clearResult()
		return m, m.cmdLogout()
	}
	return m, nil
}

func (m *StatusModel) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.adding = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, keys.enter):
		title := strings.TrimSpace(m.input.Value())
		if title == "" {
			m.errMsg = "Task title is required"
			return m, nil
		}
		m.adding = false
		m.input.Blur()
		m.errMsg = ""
		return m, m.cmdAddTask(title)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *StatusModel) View() string {
	var b strings.Builder

	account := "-"
	if id := m.status.Identity; id != nil {
		account = fmt.Sprintf("%s (#%d)", id.Login, id.UserID)
	}

	state := m.status.State.String()
	if m.status.IsSyncing || m.syncing {
		state = m.spinner.View() + " " + state
	}

	fmt.Fprintf(&b, "Account   │ %s\n", account)
	fmt.Fprintf(&b, "State     │ %s\n", state)
	fmt.Fprintf(&b, "Last sync │ %s\n", formatTime(m.status.LastSyncedAt))
	fmt.Fprintf(&b, "Remote at │ %s\n", formatTime(&m.status.Cursor))

	b.WriteString("\nNotices\n")
	if len(m.notices) == 0 {
		b.WriteString("  none yet\n")
	}
	for i := len(m.notices) - 1; i >= 0; i-- {
		n := m.notices[i]
		marker := " "
		if n.IsError() {
			marker = "!"
		}
		fmt.Fprintf(&b, "%s %s %s\n", marker, n.At.Local().Format("15:04:05"), fitText(n.Message, noticeTextWidth))
	}

	if m.adding {
		b.WriteString("\nNew task: [")
		b.WriteString(m.input.View())
		b.WriteString("]\n")
	}
	if m.okMsg != "" {
		b.WriteString("\n")
		b.WriteString(okStyle.Render("OK: " + m.okMsg))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}

	hotKeys := "s: sync now │ a: add task │ c: copy snapshot │ l: sign out │ q: quit"
	if m.adding {
		hotKeys = "enter: add │ esc: cancel"
	}

	return renderPage("SYNC STATUS", strings.TrimRight(b.String(), "\n"), hotKeys)
}

func (m *StatusModel) setResult(ok string, err error) {
	if err != nil {
		m.okMsg = ""
		m.errMsg = humanizeError(err)
		return
	}
	m.okMsg = ok
	m.errMsg = ""
}

func (m *StatusModel) clearResult() {
	m.okMsg = ""
	m.errMsg = ""
}

func (m *StatusModel) reset() {
	m.clearResult()
	m.adding = false
	m.syncing = false
	m.notices = nil
	m.input.SetValue("")
	m.input.Blur()
}

func (m *StatusModel) cmdSyncNow() tea.Cmd {
	ctx := m.ctx
	sync := m.sync

	return func() tea.Msg {
		return syncDoneMsg{err: sync.SyncNow(ctx)}
	}
}

func (m *StatusModel) cmdCopySnapshot() tea.Cmd {
	builder := m.builder
	copyFn := m.copy

	return func() tea.Msg {
		data, err := json.MarshalIndent(builder.Build(), "", "  ")
		if err != nil {
			return copiedMsg{err: fmt.Errorf("error encoding snapshot: %w", err)}
		}
		return copiedMsg{err: copyFn(string(data))}
	}
}

func (m *StatusModel) cmdAddTask(title string) tea.Cmd {
	ctx := m.ctx
	tasks := m.tasks

	return func() tea.Msg {
		err := tasks.Update(ctx, func(current any) (any, error) {
			return appendTask(current, title), nil
		})
		return taskAddedMsg{title: title, err: err}
	}
}

func (m *StatusModel) cmdLogout() tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	return func() tea.Msg {
		return logoutDoneMsg{err: auth.Logout(ctx)}
	}
}

// appendTask adds a task to the module data. Data that is not a list is
// replaced.
func appendTask(current any, title string) []any {
	list, _ := current.([]any)
	return append(list, map[string]any{
		"title": title,
		"done":  false,
	})
}

package tui

import (
	"context"
	"time"

	"github.com/MKhiriev/go-life-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeSync struct {
	status   models.SyncStatus
	syncErr  error
	syncNows int
}

func (f *fakeSync) Start(context.Context)              {}
func (f *fakeSync) Stop()                              {}
func (f *fakeSync) Evaluate()                          {}
func (f *fakeSync) Status() models.SyncStatus          { return f.status }
func (f *fakeSync) RetryPending(context.Context) error { return nil }

func (f *fakeSync) SyncNow(context.Context) error {
	f.syncNows++
	return f.syncErr
}

type fakeAuth struct {
	current   *models.Identity
	identity  models.Identity
	err       error
	logoutErr error

	logins    []string
	registers []string
	logouts   int
}

func (f *fakeAuth) Current() *models.Identity { return f.current }

func (f *fakeAuth) Subscribe(func(*models.Identity)) func() { return func() {} }

func (f *fakeAuth) Register(_ context.Context, login, _ string) (models.Identity, error) {
	f.registers = append(f.registers, login)
	return f.identity, f.err
}

func (f *fakeAuth) Login(_ context.Context, login, _ string) (models.Identity, error) {
	f.logins = append(f.logins, login)
	return f.identity, f.err
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	return f.logoutErr
}

func (f *fakeAuth) RestoreSession(context.Context) (*models.Identity, error) {
	return f.current, nil
}

type fakeBuilder struct {
	snapshot models.Snapshot
}

func (f *fakeBuilder) Build() models.Snapshot                     { return f.snapshot }
func (f *fakeBuilder) BuildFresh(context.Context) models.Snapshot { return f.snapshot }
func (f *fakeBuilder) LocalStamp() time.Time                      { return f.snapshot.ExportedAt }

type fakeTasks struct {
	data any
	err  error
}

func (f *fakeTasks) Update(_ context.Context, fn func(current any) (any, error)) error {
	if f.err != nil {
		return f.err
	}
	next, err := fn(f.data)
	if err != nil {
		return err
	}
	f.data = next
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func special(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// exec runs cmd and returns its message, or nil for a nil cmd.
func exec(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-life-keeper/internal/service"
	"github.com/MKhiriev/go-life-keeper/internal/store"
	"github.com/MKhiriev/go-life-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

// ── Login ────────────────────────────────────────────────────────────────────

func TestLoginModel_RequiresBothFields(t *testing.T) {
	m := NewLoginModel(context.Background(), &fakeAuth{})

	m.Update(runes("alice"))
	_, cmd := m.Update(special(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Error: Login and password are required")
}

func TestLoginModel_Success(t *testing.T) {
	auth := &fakeAuth{identity: models.Identity{UserID: 3, Login: "alice"}}
	m := NewLoginModel(context.Background(), auth)

	m.Update(runes(" alice "))
	m.Update(special(tea.KeyTab))
	m.Update(runes("secret"))
	_, cmd := m.Update(special(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, m.submitting)
	assert.Contains(t, m.View(), "[Signing in...]")

	_, again := m.Update(special(tea.KeyEnter))
	assert.Nil(t, again, "no double submit")

	result := exec(cmd)
	assert.Equal(t, LoginResult{Identity: auth.identity}, result)
	assert.Equal(t, []string{"alice"}, auth.logins)

	_, next := m.Update(result)
	assert.Equal(t, NavigateTo{Page: pageStatus}, exec(next))
	assert.False(t, m.submitting)
	assert.Empty(t, m.form.value(0), "form is cleared for the next sign-in")
	assert.Empty(t, m.form.value(1))
}

func TestLoginModel_ErrorsAreHumanized(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"wrong password", fmt.Errorf("%w: %w", service.ErrLoginOnServer, service.ErrWrongPassword), "Wrong login or password"},
		{"server down", errors.New("Post \"http://localhost/api/auth/login\": dial tcp: connection refused"), "Network is unavailable or the server is down"},
		{"other", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewLoginModel(context.Background(), &fakeAuth{})

			_, cmd := m.Update(LoginResult{Err: tt.err})

			assert.Nil(t, cmd)
			assert.Contains(t, m.View(), "Error: "+tt.want)
		})
	}
}

func TestLoginModel_FocusCycles(t *testing.T) {
	m := NewLoginModel(context.Background(), &fakeAuth{})

	m.Update(special(tea.KeyTab))
	assert.Equal(t, 1, m.form.focus)
	m.Update(special(tea.KeyTab))
	assert.Equal(t, 0, m.form.focus)
	m.Update(special(tea.KeyShiftTab))
	assert.Equal(t, 1, m.form.focus)
}

func TestLoginModel_EscGoesBack(t *testing.T) {
	m := NewLoginModel(context.Background(), &fakeAuth{})
	m.errMsg = "stale"

	_, cmd := m.Update(special(tea.KeyEsc))

	assert.Equal(t, NavigateTo{Page: pageMenu}, exec(cmd))
	assert.Empty(t, m.errMsg)
}

// ── Register ─────────────────────────────────────────────────────────────────

func fillRegister(m *RegisterModel, login, pass, repeat string) {
	m.Update(runes(login))
	m.Update(special(tea.KeyTab))
	m.Update(runes(pass))
	m.Update(special(tea.KeyTab))
	m.Update(runes(repeat))
}

func TestRegisterModel_Validation(t *testing.T) {
	tests := []struct {
		name                string
		login, pass, repeat string
		want                string
	}{
		{"empty login", "", "pw", "pw", "Login and password are required"},
		{"empty password", "bob", "", "", "Login and password are required"},
		{"mismatch", "bob", "pw", "wp", "Passwords do not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{}
			m := NewRegisterModel(context.Background(), auth)
			fillRegister(m, tt.login, tt.pass, tt.repeat)

			_, cmd := m.Update(special(tea.KeyEnter))

			assert.Nil(t, cmd)
			assert.Contains(t, m.View(), "Error: "+tt.want)
			assert.Empty(t, auth.registers)
		})
	}
}

func TestRegisterModel_Success(t *testing.T) {
	auth := &fakeAuth{identity: models.Identity{UserID: 9, Login: "bob"}}
	m := NewRegisterModel(context.Background(), auth)
	fillRegister(m, "bob", "pw", "pw")

	_, cmd := m.Update(special(tea.KeyEnter))
	require.NotNil(t, cmd)

	_, next := m.Update(exec(cmd))

	assert.Equal(t, []string{"bob"}, auth.registers)
	assert.Equal(t, NavigateTo{Page: pageStatus}, exec(next))
}

func TestRegisterModel_LoginTaken(t *testing.T) {
	auth := &fakeAuth{err: fmt.Errorf("%w: %w", service.ErrRegisterOnServer, store.ErrLoginAlreadyExists)}
	m := NewRegisterModel(context.Background(), auth)
	fillRegister(m, "bob", "pw", "pw")

	_, cmd := m.Update(special(tea.KeyEnter))
	_, next := m.Update(exec(cmd))

	assert.Nil(t, next)
	assert.Contains(t, m.View(), "Error: This login is already taken")
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-life-keeper/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// LoginModel is the sign-in screen. It dispatches an async login on enter and
// opens the status page once the server accepted the credentials.
type LoginModel struct {
	ctx  context.Context
	auth service.ClientAuthService

	form       credentialsForm
	submitting bool
	errMsg     string
}

// NewLoginModel creates a [LoginModel] with the login field focused.
func NewLoginModel(ctx context.Context, auth service.ClientAuthService) *LoginModel {
	return &LoginModel{
		ctx:  ctx,
		auth: auth,
		form: newCredentialsForm("Login", "Password"),
	}
}

// Init implements [tea.Model]. Starts the cursor-blink animation for the active input.
func (m *LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. Handled messages:
//   - [LoginResult] clears the submitting state and either shows the error or
//     navigates to the status page.
//   - esc returns to the menu.
//   - tab and shift+tab move focus between inputs.
//   - enter validates the inputs and dispatches the login.
//
// All other key events are forwarded to the focused input.
func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(LoginResult); ok {
		m.submitting = false
		if result.Err != nil {
			m.errMsg = humanizeError(result.Err)
			return m, nil
		}
		m.errMsg = ""
		m.form.reset()
		return m, func() tea.Msg { return NavigateTo{Page: pageStatus} }
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.submitting = false
			m.errMsg = ""
			return m, func() tea.Msg { return NavigateTo{Page: pageMenu} }
		case key.Matches(keyMsg, keys.tab):
			m.form.focusNext()
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.form.focusPrev()
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.submitting {
				return m, nil
			}

			login, pass := m.form.value(0), m.form.value(1)
			if login == "" || pass == "" {
				m.errMsg = "Login and password are required"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdLogin(login, pass)
		}
	}

	return m, m.form.update(msg)
}

// View implements [tea.Model].
func (m *LoginModel) View() string {
	var b strings.Builder
	b.WriteString(m.form.view())

	if m.submitting {
		b.WriteString("\n[Signing in...]\n")
	} else {
		b.WriteString("\n[Sign in]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage("SIGN IN", strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: submit")
}

func (m *LoginModel) cmdLogin(login, pass string) tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	return func() tea.Msg {
		identity, err := auth.Login(ctx, login, pass)
		return LoginResult{Identity: identity, Err: err}
	}
}

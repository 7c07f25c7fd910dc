package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-life-keeper/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// RegisterModel is the account creation screen. The server signs the new
// account in right away, so success leads straight to the status page.
type RegisterModel struct {
	ctx  context.Context
	auth service.ClientAuthService

	form       credentialsForm
	submitting bool
	errMsg     string
}

func NewRegisterModel(ctx context.Context, auth service.ClientAuthService) *RegisterModel {
	return &RegisterModel{
		ctx:  ctx,
		auth: auth,
		form: newCredentialsForm("Login", "Password", "Repeat"),
	}
}

func (m *RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(RegisterResult); ok {
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
			if err := m.validate(); err != "" {
				m.errMsg = err
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdRegister(m.form.value(0), m.form.value(1))
		}
	}

	return m, m.form.update(msg)
}

func (m *RegisterModel) View() string {
	var b strings.Builder
	b.WriteString(m.form.view())

	if m.submitting {
		b.WriteString("\n[Creating account...]\n")
	} else {
		b.WriteString("\n[Create account]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage("CREATE ACCOUNT", strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: submit")
}

func (m *RegisterModel) validate() string {
	login, pass, repeat := m.form.value(0), m.form.value(1), m.form.value(2)
	switch {
	case login == "" || pass == "":
		return "Login and password are required"
	case pass != repeat:
		return "Passwords do not match"
	}
	return ""
}

func (m *RegisterModel) cmdRegister(login, pass string) tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	return func() tea.Msg {
		identity, err := auth.Register(ctx, login, pass)
		return RegisterResult{Identity: identity, Err: err}
	}
}

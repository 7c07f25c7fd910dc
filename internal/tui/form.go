package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	loginCharLimit    = 64
	passwordCharLimit = 256
	inputWidth        = 40
)

// credentialsForm is a column of text inputs with tab navigation. The first
// input is the login; every following input is masked.
type credentialsForm struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newCredentialsForm(labels ...string) credentialsForm {
	inputs := make([]textinput.Model, len(labels))
	for i, label := range labels {
		in := textinput.New()
		in.Placeholder = strings.ToLower(label)
		in.Width = inputWidth
		if i == 0 {
			in.CharLimit = loginCharLimit
			in.Focus()
		} else {
			in.CharLimit = passwordCharLimit
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '*'
		}
		inputs[i] = in
	}

	return credentialsForm{labels: labels, inputs: inputs}
}

func (f *credentialsForm) value(i int) string {
	if i == 0 {
		return strings.TrimSpace(f.inputs[i].Value())
	}
	return f.inputs[i].Value()
}

func (f *credentialsForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *credentialsForm) focusNext() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *credentialsForm) focusPrev() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *credentialsForm) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focus = 0
	f.inputs[0].Focus()
}

func (f *credentialsForm) view() string {
	width := len("Field")
	for _, label := range f.labels {
		if len(label) > width {
			width = len(label)
		}
	}

	var b strings.Builder
	b.WriteString(padRight("Field", width))
	b.WriteString(" │ Value\n")
	b.WriteString(strings.Repeat("─", width))
	b.WriteString("─┼────────────────────────────────────────────\n")
	for i, label := range f.labels {
		b.WriteString(padRight(label, width))
		b.WriteString(" │ [")
		b.WriteString(f.inputs[i].View())
		b.WriteString("]\n")
	}
	return b.String()
}

func padRight(v string, width int) string {
	if len(v) >= width {
		return v
	}
	return v + strings.Repeat(" ", width-len(v))
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type MenuModel struct {
	items  []string
	pages  []string
	idx    int
	status string
}

func NewMenuModel() *MenuModel {
	return &MenuModel{
		items: []string{"Sign in", "Create account"},
		pages: []string{pageLogin, pageRegister},
	}
}

func (m *MenuModel) Init() tea.Cmd {
	return nil
}

func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if notice, ok := msg.(menuNotice); ok {
		m.status = notice.text
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.enter):
		m.status = ""
		page := m.pages[m.idx]
		return m, func() tea.Msg { return NavigateTo{Page: page} }
	}

	return m, nil
}

func (m *MenuModel) View() string {
	var b strings.Builder
	idColWidth := lipgloss.Width("ID")
	if w := lipgloss.Width(fmt.Sprintf("%d", len(m.items))); w > idColWidth {
		idColWidth = w
	}
	// selection marker and a space
	idColWidth += 2

	actionColWidth := lipgloss.Width("Action")
	for _, item := range m.items {
		if w := lipgloss.Width(item); w > actionColWidth {
			actionColWidth = w
		}
	}

	if m.status != "" {
		b.WriteString(okStyle.Render(m.status))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("%-*s │ %-*s\n", idColWidth, "ID", actionColWidth, "Action"))
	b.WriteString(strings.Repeat("─", idColWidth))
	b.WriteString("─┼─")
	b.WriteString(strings.Repeat("─", actionColWidth))
	b.WriteString("\n")

	for i, item := range m.items {
		cursor := " "
		if i == m.idx {
			cursor = ">"
		}
		idCell := fmt.Sprintf("%s %d", cursor, i+1)
		b.WriteString(fmt.Sprintf("%-*s │ %-*s\n", idColWidth, idCell, actionColWidth, item))
	}

	return renderPage("LIFEKEEPER", strings.TrimRight(b.String(), "\n"), "enter: select │ ↑/↓: move │ v: version │ q: quit")
}

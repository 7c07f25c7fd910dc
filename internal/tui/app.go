package tui

import (
	"time"

	"github.com/MKhiriev/go-life-keeper/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	pageMenu     = "menu"
	pageLogin    = "login"
	pageRegister = "register"
	pageStatus   = "status"
)

const statusRefreshInterval = time.Second

// RootModel is a TUI router:
// 1) keeps active page
// 2) handles global Ctrl+C quit
// 3) handles NavigateTo messages
// 4) feeds sync notices and status ticks to the status page
// 5) delegates all other messages to the active page
type RootModel struct {
	pages   map[string]tea.Model
	current tea.Model
	notices <-chan models.Notice

	buildInfo     models.AppBuildInfo
	showBuildInfo bool
}

// NewRootModel registers all pages and opens startPage. Notices read from
// notices are delivered to the status page whichever page is active.
func NewRootModel(pages map[string]tea.Model, startPage string, notices <-chan models.Notice, buildInfo models.AppBuildInfo) RootModel {
	return RootModel{
		pages:     pages,
		current:   pages[startPage],
		notices:   notices,
		buildInfo: buildInfo,
	}
}

func (r RootModel) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForNotice(r.notices), tickStatus()}
	if r.current != nil {
		cmds = append(cmds, r.current.Init())
	}
	return tea.Batch(cmds...)
}

func (r RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Global hotkeys for every page.
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMsg.Type == tea.KeyCtrlC:
			return r, tea.Quit
		case key.Matches(keyMsg, keys.version) && r.isMenuPage():
			r.showBuildInfo = !r.showBuildInfo
			return r, nil
		case key.Matches(keyMsg, keys.esc) && r.showBuildInfo:
			r.showBuildInfo = false
			return r, nil
		}

		if r.showBuildInfo {
			return r, nil
		}
	}

	switch msg := msg.(type) {
	case NavigateTo:
		return r.navigate(msg)

	case noticeMsg:
		if status, ok := r.pages[pageStatus]; ok {
			r.pages[pageStatus], _ = status.Update(msg)
		}
		return r, waitForNotice(r.notices)

	case statusTickMsg:
		var cmd tea.Cmd
		if r.isStatusPage() {
			r.current, cmd = r.current.Update(msg)
		}
		return r, tea.Batch(cmd, tickStatus())

	case identityMsg:
		if msg.identity == nil && r.isStatusPage() {
			return r.navigate(NavigateTo{Page: pageMenu, Payload: menuNotice{text: "Session ended, sign in again"}})
		}
		return r, nil
	}

	if r.current == nil {
		return r, nil
	}

	updated, cmd := r.current.Update(msg)
	r.current = updated
	return r, cmd
}

func (r RootModel) View() string {
	if r.showBuildInfo {
		return renderBuildInfoWindow(r.buildInfo)
	}
	if r.current == nil {
		return renderPage("LIFEKEEPER", "", "")
	}
	return r.current.View()
}

func (r RootModel) navigate(nav NavigateTo) (tea.Model, tea.Cmd) {
	next, exists := r.pages[nav.Page]
	if !exists {
		return r, nil
	}

	r.showBuildInfo = false
	r.current = next

	if nav.Payload != nil {
		payload := nav.Payload
		return r, func() tea.Msg { return payload }
	}
	return r, r.current.Init()
}

func (r RootModel) isMenuPage() bool {
	_, ok := r.current.(*MenuModel)
	return ok
}

func (r RootModel) isStatusPage() bool {
	_, ok := r.current.(*StatusModel)
	return ok
}

func waitForNotice(notices <-chan models.Notice) tea.Cmd {
	if notices == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-notices
		if !ok {
			return nil
		}
		return noticeMsg{notice: n}
	}
}

func tickStatus() tea.Cmd {
	return tea.Tick(statusRefreshInterval, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

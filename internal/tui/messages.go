package tui

import (
	"time"

	"github.com/MKhiriev/go-life-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

// NavigateTo asks the RootModel to switch pages. A non-nil Payload is
// delivered to the new page instead of calling its Init.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

// LoginResult is produced by the login form once the server answered.
type LoginResult struct {
	Identity models.Identity
	Err      error
}

// RegisterResult is produced by the registration form once the server answered.
type RegisterResult struct {
	Identity models.Identity
	Err      error
}

// menuNotice is shown above the menu table.
type menuNotice struct {
	text string
}

type identityMsg struct {
	identity *models.Identity
}

type noticeMsg struct {
	notice models.Notice
}

type statusTickMsg time.Time

type syncDoneMsg struct {
	err error
}

type copiedMsg struct {
	err error
}

type taskAddedMsg struct {
	title string
	err   error
}

type logoutDoneMsg struct {
	err error
}

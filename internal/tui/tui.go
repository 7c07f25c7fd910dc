// Package tui is the terminal front end of the sync client.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/service"
	"github.com/MKhiriev/go-life-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

type TUI struct {
	services *service.ClientServices
	tasks    TaskStore
	build    models.AppBuildInfo
	logger   *logger.Logger
}

func New(services *service.ClientServices, build models.AppBuildInfo, logger *logger.Logger) (*TUI, error) {
	tasks, ok := services.Registry.Store(models.ModuleTasks)
	if !ok {
		return nil, ErrTasksModuleMissing
	}

	return &TUI{
		services: services,
		tasks:    tasks,
		build:    build,
		logger:   logger.WithComponent("tui"),
	}, nil
}

// Run shows the UI until the user quits or ctx is cancelled. The status page
// opens directly when a session is already active.
func (t *TUI) Run(ctx context.Context) error {
	root := t.newRoot(ctx)
	program := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := t.services.AuthService.Subscribe(func(identity *models.Identity) {
		go program.Send(identityMsg{identity: identity})
	})
	defer unsubscribe()

	t.logger.Debug().Str("func", "TUI.Run").Msg("starting terminal UI")

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (t *TUI) newRoot(ctx context.Context) RootModel {
	pages := map[string]tea.Model{
		pageMenu:     NewMenuModel(),
		pageLogin:    NewLoginModel(ctx, t.services.AuthService),
		pageRegister: NewRegisterModel(ctx, t.services.AuthService),
		pageStatus:   NewStatusModel(ctx, t.services, t.tasks),
	}

	start := pageMenu
	if t.services.AuthService.Current() != nil {
		start = pageStatus
	}

	var notices <-chan models.Notice
	if t.services.Notices != nil {
		notices = t.services.Notices.C()
	}

	return NewRootModel(pages, start, notices, t.build)
}

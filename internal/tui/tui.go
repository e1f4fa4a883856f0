package tui

import (
	"context"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/service"
	"github.com/MKhiriev/go-tool-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

type TUI struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.ClientServices, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{services: services, buildInfo: buildInfo, logger: logger}
}

// AuthFlow runs the login/register screens. It returns the login of the new
// session, or an empty login when the user chose to continue offline.
func (t *TUI) AuthFlow(ctx context.Context) (string, error) {
	pages := map[string]tea.Model{
		pageMenu:     NewMenuModel(),
		pageLogin:    NewLoginModel(ctx, t.services.AuthService),
		pageRegister: NewRegisterModel(ctx, t.services.AuthService),
	}

	root := NewRootModel(pages, pageMenu, t.buildInfo)
	finalModel, err := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return "", tea.ErrProgramKilled
	}
	if result.quitByUser {
		return "", ErrUserQuit
	}
	if result.offline {
		t.logger.Info().Msg("continuing without a session")
	}

	return result.login, nil
}

// Dashboard runs the main screen until the user quits.
func (t *TUI) Dashboard(ctx context.Context) error {
	model := NewDashboardModel(ctx, DashboardServices{
		Engine:       t.services.SyncEngine,
		Scheduler:    t.services.SyncJob,
		Queue:        t.services.Queue,
		Connectivity: t.services.Connectivity,
		Bus:          t.services.Bus,
		Toasts:       t.services.Notifier.Toasts(),
	}, t.buildInfo)

	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-tool-keeper/internal/adapter"
	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/realtime"
	"github.com/MKhiriev/go-tool-keeper/internal/service"
	"github.com/MKhiriev/go-tool-keeper/internal/store"
	"github.com/MKhiriev/go-tool-keeper/internal/tui"
	"github.com/MKhiriev/go-tool-keeper/models"
)

type App struct {
	services *service.ClientServices
	storages *store.ClientStorages
	ui       UI
	cfg      config.ClientAdapter

	logger *logger.Logger
}

// NewApp opens the local store and wires the client services, the realtime
// bridge and the terminal UI.
func NewApp(cfg *config.ClientConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(cfg.Storage, cfg.Workers.MaxRetries, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, logger)
	if err != nil {
		storages.Close()
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	services := service.NewClientServices(storages, serverAdapter, cfg.Workers, logger)
	services.Workers.Add(realtime.NewBridge(
		newRealtimeChannel(cfg.Adapter, serverAdapter, logger),
		services.Bus,
		models.KnownTables,
		logger.WithComponent("realtime"),
	))

	return newApp(services, storages, tui.New(services, buildInfo, logger), cfg.Adapter, logger), nil
}

func newApp(services *service.ClientServices, storages *store.ClientStorages, ui UI, cfg config.ClientAdapter, logger *logger.Logger) *App {
	return &App{
		services: services,
		storages: storages,
		ui:       ui,
		cfg:      cfg,
		logger:   logger,
	}
}

func newRealtimeChannel(cfg config.ClientAdapter, serverAdapter adapter.ServerAdapter, logger *logger.Logger) realtime.Channel {
	if cfg.DisableRealtime {
		return realtime.NewNopChannel()
	}

	endpoint, err := realtime.EndpointURL(serverAdapter.BaseURL())
	if err != nil {
		logger.Warn().Err(err).Msg("realtime disabled")
		return realtime.NewNopChannel()
	}
	return realtime.NewWSChannel(endpoint, serverAdapter.Token, logger.WithComponent("realtime"))
}

// Run authenticates, starts the background jobs and shows the dashboard.
// The local store is closed on return.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.storages.Close(); err != nil {
			a.logger.Error().Err(err).Msg("close local storage")
		}
	}()

	if err := a.authenticate(ctx); err != nil {
		if errors.Is(err, tui.ErrUserQuit) {
			return nil
		}
		return err
	}

	if err := a.services.SyncJob.Restore(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("restore sync settings")
	}

	unwatch := a.services.DataService.WatchChanges(ctx)
	defer unwatch()

	a.services.Workers.Start(ctx)
	defer a.services.Workers.Stop()
	defer a.services.Notifier.Close()

	return a.ui.Dashboard(ctx)
}

// authenticate restores the stored session, then tries the configured
// credentials, then asks the user.
func (a *App) authenticate(ctx context.Context) error {
	restored, err := a.services.AuthService.RestoreSession(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if restored {
		return nil
	}

	if a.cfg.Login != "" {
		err = a.services.AuthService.Login(ctx, models.User{Login: a.cfg.Login, Password: a.cfg.Password})
		if err == nil {
			return nil
		}
		a.logger.Warn().Err(err).Str("login", a.cfg.Login).Msg("configured credentials rejected")
	}

	login, err := a.ui.AuthFlow(ctx)
	if err != nil {
		return err
	}
	if login == "" {
		a.logger.Info().Msg("running without a session; changes stay queued until login")
	}
	return nil
}

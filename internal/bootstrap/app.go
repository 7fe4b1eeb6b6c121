package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/opsdeskhq/opsdesk/config"
	"github.com/opsdeskhq/opsdesk/internal/adapters/filestore"
	redisstore "github.com/opsdeskhq/opsdesk/internal/adapters/redis"
	"github.com/opsdeskhq/opsdesk/internal/api"
	"github.com/opsdeskhq/opsdesk/internal/observability/statsd"
	"github.com/opsdeskhq/opsdesk/internal/ports"
	"github.com/opsdeskhq/opsdesk/internal/service"
	"github.com/opsdeskhq/opsdesk/internal/session"
)

// App bundles the wired dashboard client: the settings store backing the
// session keys, the backend REST client, the session manager, and the
// per-resource services the commands drive.
type App struct {
	Config   config.AppConfig
	Logger   *slog.Logger
	Store    ports.SettingsStore
	Metrics  *statsd.Client
	Client   *api.Client
	Modules  *config.ModuleRegistry
	Session  *session.Manager
	Sections *service.Sections
	Overview *service.OverviewService
	Roster   *service.RosterImporter

	closers []func() error
}

// NewApp wires the client stack from configuration. The returned App owns
// its connections; call Close when done.
func NewApp(cfg config.AppConfig, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &App{Config: cfg, Logger: logger}

	store, watcher, err := app.buildSettingsStore()
	if err != nil {
		return nil, app.failClosing(fmt.Errorf("settings store: %w", err))
	}
	app.Store = store

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Metrics.IsEnabled(),
		Address: cfg.Metrics.StatsdAddress,
		Prefix:  cfg.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, app.failClosing(fmt.Errorf("statsd client: %w", err))
	}
	app.Metrics = metrics
	app.closers = append(app.closers, metrics.Close)

	client, err := api.NewClient(api.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
		Logger:  logger,
		Metrics: metrics,
		Token:   tokenSource(store),
	})
	if err != nil {
		return nil, app.failClosing(fmt.Errorf("api client: %w", err))
	}
	app.Client = client

	registry, err := config.LoadModuleRegistry(cfg.Modules)
	if err != nil {
		return nil, app.failClosing(fmt.Errorf("module registry: %w", err))
	}
	app.Modules = registry

	manager, err := session.NewManager(session.Options{
		Store:   store,
		Auth:    client,
		Modules: registry,
		Watcher: watcher,
		Logger:  logger,
	})
	if err != nil {
		return nil, app.failClosing(fmt.Errorf("session manager: %w", err))
	}
	app.Session = manager

	sections, err := service.NewSections(service.SectionsOptions{
		Client: client,
		Logger: logger,
	})
	if err != nil {
		return nil, app.failClosing(fmt.Errorf("sections: %w", err))
	}
	app.Sections = sections

	overview, err := service.NewOverviewService(service.OverviewServiceOptions{
		Client: client,
		Logger: logger,
	})
	if err != nil {
		return nil, app.failClosing(fmt.Errorf("overview: %w", err))
	}
	app.Overview = overview

	roster, err := service.NewRosterImporter(service.RosterImporterOptions{
		Create: sections.Employees.Create,
		Logger: logger,
	})
	if err != nil {
		return nil, app.failClosing(fmt.Errorf("roster importer: %w", err))
	}
	app.Roster = roster

	return app, nil
}

// Close releases the app's connections in reverse construction order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// failClosing tears down whatever was already wired before returning the
// construction error.
func (a *App) failClosing(err error) error {
	if closeErr := a.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	return err
}

// buildSettingsStore constructs the configured store. Both kinds also act
// as the change watcher for cross-context session sync.
func (a *App) buildSettingsStore() (ports.SettingsStore, ports.SettingsWatcher, error) {
	switch a.Config.Settings.Store {
	case config.SettingsStoreRedis:
		client, err := ConnectRedis(a.Config.Redis, a.Logger)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, client.Close)
		store := redisstore.NewSettingsStoreWithPrefix(client, a.Config.Settings.KeyPrefix)
		return store, store, nil
	default:
		store := filestore.NewStoreWithInterval(a.Config.Settings.Path, a.Config.Settings.SyncInterval)
		return store, store, nil
	}
}

// tokenSource reads the persisted token for outgoing requests. A failed
// lookup reads as "no token"; request paths stay anonymous rather than
// erroring.
func tokenSource(store ports.SettingsStore) api.TokenSource {
	return func(ctx context.Context) string {
		token, err := store.Get(ctx, session.TokenKey)
		if err != nil {
			return ""
		}
		return token
	}
}

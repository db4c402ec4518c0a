package app

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-di/framework/config"
	"github.com/km-arc/go-di/framework/container"
	"github.com/km-arc/go-di/framework/definition"
	"github.com/km-arc/go-di/framework/inspect"
	"github.com/km-arc/go-di/framework/logging"
	"github.com/km-arc/go-di/framework/providers"
	"github.com/km-arc/go-di/framework/stats"
)

// Application is the top-level application container.
// It embeds the Container and ProviderRegistry so user code can call
// app.Get(), app.SetDefinition(), app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	config *config.Config
	logger *logrus.Logger
}

// New loads configuration and builds the application: logger, stats
// receiver, container and the framework providers, in that order.
func New(envFiles ...string) (*Application, error) {
	cfg := config.Load(envFiles...)
	return NewWithConfig(cfg)
}

// NewWithConfig builds the application from an already loaded config.
func NewWithConfig(cfg *config.Config) (*Application, error) {
	logger, err := logging.New(cfg.Container)
	if err != nil {
		return nil, errors.Wrap(err, "app")
	}

	var recv stats.Receiver = stats.NilReceiver()
	if cfg.Container.Stats {
		recv = stats.NewReceiver(metrics.NewRegistry())
	}

	log := logger.WithField("app", cfg.App.Name)
	c := container.New(definition.NewMapSource(nil),
		container.WithLogger(log),
		container.WithStats(recv),
	)
	registry := container.NewProviderRegistry(c)

	a := &Application{
		Container: c,
		Providers: registry,
		config:    cfg,
		logger:    logger,
	}

	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: log, Stats: recv},
		&providers.DefinitionsServiceProvider{Path: cfg.Container.Definitions},
		&providers.InspectServiceProvider{},
	} {
		if err := registry.Register(p); err != nil {
			return nil, errors.Wrap(err, "app: register framework providers")
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config returns the loaded configuration.
func (a *Application) Config() *config.Config { return a.config }

// Logger returns the application logger.
func (a *Application) Logger() *logrus.Logger { return a.logger }

// Run boots the application (if needed) and serves the inspect handler on
// DI_INSPECT_ADDR until ctx is done. An empty address returns right away.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}

	addr := a.config.Container.InspectAddr
	if addr == "" {
		a.logger.Info("app: DI_INSPECT_ADDR is empty, inspect server disabled")
		return nil
	}

	handler, err := container.Resolve[*inspect.Handler](a.Container, providers.NameInspect)
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: addr, Handler: handler}
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe() }()

	a.logger.WithFields(logrus.Fields{"addr": addr, "env": a.config.App.Env}).
		Infof("%s inspect server listening", a.config.App.Name)

	select {
	case err := <-done:
		return errors.Wrap(err, "app: inspect server")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "app: shutdown")
		}
		return nil
	}
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.config.App.Debug }

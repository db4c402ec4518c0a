package providers

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-di/framework/config"
	"github.com/km-arc/go-di/framework/container"
	"github.com/km-arc/go-di/framework/definition"
	"github.com/km-arc/go-di/framework/inspect"
	"github.com/km-arc/go-di/framework/stats"
)

// Names bound by the framework providers.
const (
	NameConfig        = "config"
	NameConfiguration = "configuration"
	NameLogger        = "logger"
	NameStats         = "stats"
	NameInspect       = "inspect"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the already loaded configuration.
//
// Bound names:
//   - "config"         → *config.Config
//   - "configuration"  → alias of "config"
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	if p.Config == nil {
		return errors.New("providers: ConfigServiceProvider has no config")
	}
	if err := app.SetDefinition(NameConfig, definition.Value(p.Config)); err != nil {
		return err
	}
	return app.SetDefinition(NameConfiguration, definition.Alias(NameConfig))
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the shared logger and stats receiver.
//
// Bound names:
//   - "logger"  → logrus.FieldLogger
//   - "stats"   → stats.Receiver
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger logrus.FieldLogger
	Stats  stats.Receiver
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	logger := p.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	receiver := p.Stats
	if receiver == nil {
		receiver = stats.NilReceiver()
	}
	if err := app.SetDefinition(NameLogger, definition.Value(logger)); err != nil {
		return err
	}
	return app.SetDefinition(NameStats, definition.Value(receiver))
}

// ── DefinitionsServiceProvider ────────────────────────────────────────────────

// DefinitionsServiceProvider loads a static YAML definitions file. An empty
// Path registers nothing.
type DefinitionsServiceProvider struct {
	container.BaseProvider
	Path string
}

func (p *DefinitionsServiceProvider) Register(app *container.Container) error {
	if p.Path == "" {
		return nil
	}
	f, err := os.Open(p.Path)
	if err != nil {
		return errors.Wrapf(err, "providers: open definitions %s", p.Path)
	}
	defer f.Close()

	// Decode into a scratch source so every name goes through SetDefinition.
	scratch := definition.NewMapSource(nil)
	if err := definition.DecodeYAML(f, scratch); err != nil {
		return errors.Wrapf(err, "providers: %s", p.Path)
	}
	for _, name := range scratch.Names() {
		def, _ := scratch.GetDefinition(name)
		if err := app.SetDefinition(name, def); err != nil {
			return errors.Wrapf(err, "providers: %s", p.Path)
		}
	}
	return nil
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

// InspectServiceProvider is deferred: the inspect handler is defined the
// first time "inspect" is resolved.
//
// Bound names:
//   - "inspect"  → *inspect.Handler
type InspectServiceProvider struct {
	container.BaseProvider
}

func (p *InspectServiceProvider) Register(app *container.Container) error {
	return app.SetDefinition(NameInspect, definition.Factory(inspect.New,
		definition.Dep("container", container.NameContainer),
		definition.DepOr("stats", NameStats, stats.NilReceiver()),
	))
}

func (p *InspectServiceProvider) IsDeferred() bool   { return true }
func (p *InspectServiceProvider) Provides() []string { return []string{NameInspect} }

package providers_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/km-arc/go-di/framework/config"
	"github.com/km-arc/go-di/framework/container"
	"github.com/km-arc/go-di/framework/definition"
	"github.com/km-arc/go-di/framework/inspect"
	"github.com/km-arc/go-di/framework/providers"
	"github.com/km-arc/go-di/framework/stats"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newApp(t *testing.T) (*container.Container, *container.ProviderRegistry) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	c := container.New(definition.NewMapSource(nil), container.WithLogger(logger))
	return c, container.NewProviderRegistry(c)
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "definitions.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

func TestConfigServiceProvider_BindsConfig(t *testing.T) {
	c, reg := newApp(t)
	cfg := &config.Config{App: config.AppConfig{Name: "test"}}

	if err := reg.Register(&providers.ConfigServiceProvider{Config: cfg}); err != nil {
		t.Fatal(err)
	}

	got, err := container.Resolve[*config.Config](c, providers.NameConfig)
	if err != nil || got != cfg {
		t.Fatalf("config: got %v, %v", got, err)
	}
	alias, err := container.Resolve[*config.Config](c, providers.NameConfiguration)
	if err != nil || alias != cfg {
		t.Errorf("configuration alias: got %v, %v", alias, err)
	}
}

func TestConfigServiceProvider_RequiresConfig(t *testing.T) {
	_, reg := newApp(t)
	if err := reg.Register(&providers.ConfigServiceProvider{}); err == nil {
		t.Error("expected an error without a config")
	}
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

func TestLoggingServiceProvider_Binds(t *testing.T) {
	c, reg := newApp(t)
	logger, _ := test.NewNullLogger()
	recv := stats.NewReceiver(nil)

	_ = reg.Register(&providers.LoggingServiceProvider{Logger: logger, Stats: recv})

	if got, err := container.Resolve[logrus.FieldLogger](c, providers.NameLogger); err != nil || got != logger {
		t.Errorf("logger: got %v, %v", got, err)
	}
	if got, err := container.Resolve[stats.Receiver](c, providers.NameStats); err != nil || got != recv {
		t.Errorf("stats: got %v, %v", got, err)
	}
}

func TestLoggingServiceProvider_Defaults(t *testing.T) {
	c, reg := newApp(t)
	_ = reg.Register(&providers.LoggingServiceProvider{})

	if got, _ := container.Resolve[logrus.FieldLogger](c, providers.NameLogger); got != logrus.StandardLogger() {
		t.Errorf("logger: got %v, want the standard logger", got)
	}
	if _, err := container.Resolve[stats.Receiver](c, providers.NameStats); err != nil {
		t.Errorf("stats: %v", err)
	}
}

// ── DefinitionsServiceProvider ────────────────────────────────────────────────

func TestDefinitionsServiceProvider_LoadsFile(t *testing.T) {
	c, reg := newApp(t)
	path := writeFile(t, `
values:
  db.host: 127.0.0.1
aliases:
  database.host: db.host
`)
	// A miss recorded before loading must not hide the loaded value.
	if ok, _ := c.Has("db.host"); ok {
		t.Fatal("db.host defined too early")
	}

	if err := reg.Register(&providers.DefinitionsServiceProvider{Path: path}); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"db.host", "database.host"} {
		if got, err := c.Get(name); err != nil || got != "127.0.0.1" {
			t.Errorf("%s: got %v, %v", name, got, err)
		}
	}
}

func TestDefinitionsServiceProvider_EmptyPath(t *testing.T) {
	c, reg := newApp(t)
	if err := reg.Register(&providers.DefinitionsServiceProvider{}); err != nil {
		t.Fatal(err)
	}
	if got := c.Entries(); len(got) != 2 {
		t.Errorf("entries: got %v", got)
	}
}

func TestDefinitionsServiceProvider_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		want string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") }, "open definitions"},
		{"malformed", func(t *testing.T) string { return writeFile(t, "values: [1, 2") }, "decode definitions"},
		{"self alias", func(t *testing.T) string { return writeFile(t, "aliases:\n  a: a\n") }, "aliased to itself"},
		{"invalid name", func(t *testing.T) string { return writeFile(t, "values:\n  \"bad name\": 1\n") }, "invalid name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, reg := newApp(t)
			err := reg.Register(&providers.DefinitionsServiceProvider{Path: tt.path(t)})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want an error containing %q", err, tt.want)
			}
		})
	}
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

func TestInspectServiceProvider_Deferred(t *testing.T) {
	c, reg := newApp(t)
	recv := stats.NewReceiver(nil)
	_ = reg.Register(&providers.LoggingServiceProvider{Stats: recv})

	p := &providers.InspectServiceProvider{}
	_ = reg.Register(p)
	_ = reg.Boot()

	if len(reg.Providers()) != 1 {
		t.Errorf("inspect should not be listed as eager: %d providers", len(reg.Providers()))
	}

	h, err := container.Resolve[*inspect.Handler](c, providers.NameInspect)
	if err != nil || h == nil {
		t.Fatalf("inspect: got %v, %v", h, err)
	}
	if again, _ := container.Resolve[*inspect.Handler](c, providers.NameInspect); again != h {
		t.Error("inspect should be cached")
	}
}

func TestInspectServiceProvider_WithoutStats(t *testing.T) {
	c, reg := newApp(t)
	_ = reg.Register(&providers.InspectServiceProvider{})

	if _, err := container.Resolve[*inspect.Handler](c, providers.NameInspect); err != nil {
		t.Errorf("inspect without stats: %v", err)
	}
}

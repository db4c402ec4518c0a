package container_test

import (
	"errors"
	"testing"

	"github.com/km-arc/go-di/framework/container"
	"github.com/km-arc/go-di/framework/definition"
)

// ── stub providers ────────────────────────────────────────────────────────────

type eagerProvider struct {
	container.BaseProvider
	registerCalls int
	bootCalled    bool
}

func (p *eagerProvider) Register(app *container.Container) error {
	p.registerCalls++
	return app.SetDefinition("eager-svc", definition.Value("eager"))
}

func (p *eagerProvider) Boot(app *container.Container) error {
	p.bootCalled = true
	return nil
}

// deferredProvider is only registered when "deferred-svc" is first resolved.
type deferredProvider struct {
	container.BaseProvider
	registerCalls counter
	bootCalled    bool
}

func (p *deferredProvider) Register(app *container.Container) error {
	p.registerCalls.next()
	return app.SetDefinition("deferred-svc", definition.Factory(func() *Logger { return &Logger{id: 1} }))
}

func (p *deferredProvider) Boot(app *container.Container) error {
	p.bootCalled = true
	return nil
}

func (p *deferredProvider) IsDeferred() bool   { return true }
func (p *deferredProvider) Provides() []string { return []string{"deferred-svc"} }

// multiProvider registers multiple names.
type multiProvider struct {
	container.BaseProvider
}

func (p *multiProvider) Register(app *container.Container) error {
	if err := app.SetDefinition("alpha", definition.Value("α")); err != nil {
		return err
	}
	return app.SetDefinition("beta", definition.Value("β"))
}

type failingProvider struct {
	container.BaseProvider
	deferred bool
}

func (p *failingProvider) Register(_ *container.Container) error { return errBoom }
func (p *failingProvider) IsDeferred() bool                      { return p.deferred }
func (p *failingProvider) Provides() []string                    { return []string{"broken"} }

// forgetfulProvider claims a name it never defines.
type forgetfulProvider struct {
	container.BaseProvider
}

func (p *forgetfulProvider) Register(_ *container.Container) error { return nil }
func (p *forgetfulProvider) IsDeferred() bool                      { return true }
func (p *forgetfulProvider) Provides() []string                    { return []string{"ghost"} }

func newRegistry(t *testing.T) (*container.Container, *container.ProviderRegistry) {
	t.Helper()
	c := newContainer(t, nil)
	return c, container.NewProviderRegistry(c)
}

// ── ProviderRegistry ──────────────────────────────────────────────────────────

func TestRegistry_EagerProvider_RegisterCalled(t *testing.T) {
	_, reg := newRegistry(t)

	p := &eagerProvider{}
	if err := reg.Register(p); err != nil {
		t.Fatal(err)
	}

	if p.registerCalls != 1 {
		t.Error("Register() should be called immediately for eager providers")
	}
}

func TestRegistry_EagerProvider_BootCalledAfterBoot(t *testing.T) {
	_, reg := newRegistry(t)

	p := &eagerProvider{}
	_ = reg.Register(p)

	if p.bootCalled {
		t.Error("Boot() should NOT be called before registry.Boot()")
	}

	if err := reg.Boot(); err != nil {
		t.Fatal(err)
	}

	if !p.bootCalled {
		t.Error("Boot() should be called after registry.Boot()")
	}
}

func TestRegistry_EagerProvider_ServiceResolvable(t *testing.T) {
	c, reg := newRegistry(t)
	_ = reg.Register(&eagerProvider{})
	_ = reg.Boot()

	if got := mustGet(t, c, "eager-svc"); got != "eager" {
		t.Errorf("eager-svc: got %v, want 'eager'", got)
	}
}

func TestRegistry_Boot_IdempotentCallsAreIgnored(t *testing.T) {
	_, reg := newRegistry(t)
	_ = reg.Register(&eagerProvider{})

	_ = reg.Boot()
	_ = reg.Boot()

	if !reg.Booted() {
		t.Error("Booted() should be true after Boot()")
	}
}

func TestRegistry_Booted_FalseBeforeBoot(t *testing.T) {
	_, reg := newRegistry(t)
	if reg.Booted() {
		t.Error("Booted() should be false before Boot()")
	}
}

func TestRegistry_DuplicateRegister_Ignored(t *testing.T) {
	_, reg := newRegistry(t)

	p := &eagerProvider{}
	_ = reg.Register(p)
	_ = reg.Register(p)

	if p.registerCalls != 1 {
		t.Errorf("Register() calls: got %d, want 1", p.registerCalls)
	}
	if len(reg.Providers()) != 1 {
		t.Errorf("Providers(): got %d, want 1", len(reg.Providers()))
	}
}

func TestRegistry_RegisterError_Propagates(t *testing.T) {
	_, reg := newRegistry(t)
	if err := reg.Register(&failingProvider{}); !errors.Is(err, errBoom) {
		t.Errorf("got %v, want errBoom", err)
	}
}

// ── Deferred providers ────────────────────────────────────────────────────────

func TestRegistry_DeferredProvider_NotRegisteredEagerly(t *testing.T) {
	c, reg := newRegistry(t)

	p := &deferredProvider{}
	_ = reg.Register(p)
	_ = reg.Boot()

	if p.registerCalls.count() != 0 {
		t.Error("deferred provider Register() should not be called until first resolution")
	}
	if ok, _ := c.Has("deferred-svc"); !ok {
		t.Error("Has() should report the deferred name before it is loaded")
	}
}

func TestRegistry_DeferredProvider_RegisteredOnFirstGet(t *testing.T) {
	c, reg := newRegistry(t)

	p := &deferredProvider{}
	_ = reg.Register(p)
	_ = reg.Boot()

	first := mustGet(t, c, "deferred-svc")
	if _, ok := first.(*Logger); !ok {
		t.Fatalf("deferred-svc: got %T, want *Logger", first)
	}
	if !p.bootCalled {
		t.Error("a deferred provider loaded after Boot() should be booted")
	}
	if second := mustGet(t, c, "deferred-svc"); second != first {
		t.Error("the loaded entry should be cached")
	}
	if p.registerCalls.count() != 1 {
		t.Errorf("Register() calls: got %d, want 1", p.registerCalls.count())
	}
}

func TestRegistry_DeferredProvider_MakeBuildsFresh(t *testing.T) {
	c, reg := newRegistry(t)
	_ = reg.Register(&deferredProvider{})

	made := mustMake(t, c, "deferred-svc", nil)
	if made == mustMake(t, c, "deferred-svc", nil) {
		t.Error("Make after loading should construct a fresh instance")
	}
}

func TestRegistry_DeferredProvider_RegisterError(t *testing.T) {
	c, reg := newRegistry(t)
	_ = reg.Register(&failingProvider{deferred: true})

	for i := 0; i < 2; i++ {
		if _, err := c.Get("broken"); !errors.Is(err, errBoom) {
			t.Errorf("Get #%d: got %v, want errBoom", i, err)
		}
	}
}

func TestRegistry_DeferredProvider_MissingDefinition(t *testing.T) {
	c, reg := newRegistry(t)
	_ = reg.Register(&forgetfulProvider{})

	_, err := c.Get("ghost")
	var invalid container.InvalidDefinitionError
	if !errors.As(err, &invalid) || invalid.Name != "ghost" {
		t.Errorf("got %v, want InvalidDefinitionError for ghost", err)
	}
}

// ── Multiple providers ────────────────────────────────────────────────────────

func TestRegistry_MultipleProviders_AllServicesResolvable(t *testing.T) {
	c, reg := newRegistry(t)
	_ = reg.Register(&multiProvider{})
	_ = reg.Register(&eagerProvider{})
	_ = reg.Boot()

	for name, want := range map[string]string{"alpha": "α", "beta": "β", "eager-svc": "eager"} {
		if got := mustGet(t, c, name); got != want {
			t.Errorf("%s: got %v, want %q", name, got, want)
		}
	}
}

// ── Providers list ────────────────────────────────────────────────────────────

func TestRegistry_Providers_ReturnsEagerOnes(t *testing.T) {
	_, reg := newRegistry(t)
	_ = reg.Register(&eagerProvider{})
	_ = reg.Register(&deferredProvider{})

	if len(reg.Providers()) != 1 {
		t.Errorf("Providers(): got %d, want 1 (eager only)", len(reg.Providers()))
	}
}

// ── BaseProvider defaults ─────────────────────────────────────────────────────

func TestBaseProvider_Defaults(t *testing.T) {
	var p container.BaseProvider

	if err := p.Boot(newContainer(t, nil)); err != nil {
		t.Errorf("BaseProvider.Boot(): %v", err)
	}
	if p.IsDeferred() {
		t.Error("BaseProvider.IsDeferred() should be false")
	}
	if len(p.Provides()) != 0 {
		t.Error("BaseProvider.Provides() should return empty slice")
	}
}

// ── Boot after registration (late provider) ───────────────────────────────────

func TestRegistry_RegisterAfterBoot_BootsImmediately(t *testing.T) {
	_, reg := newRegistry(t)
	_ = reg.Boot()

	p := &eagerProvider{}
	_ = reg.Register(p)

	if !p.bootCalled {
		t.Error("provider registered after Boot() should be booted immediately")
	}
}

package container

import (
	"sync"

	"github.com/km-arc/go-di/framework/definition"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related definitions.
//
// Register is called first and should only set definitions. Boot runs after
// every eager provider is registered and may resolve anything.
//
//	type MailServiceProvider struct{ container.BaseProvider }
//
//	func (p *MailServiceProvider) Register(app *container.Container) error {
//	    return app.SetDefinition("mailer", definition.Factory(mail.NewSMTP,
//	        definition.Dep("config", "config")))
//	}
type ServiceProvider interface {
	Register(app *Container) error
	Boot(app *Container) error

	// Provides lists the names a deferred provider defines.
	Provides() []string

	// IsDeferred delays Register until one of Provides() is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider supplies no-op Boot, Provides and IsDeferred. Embed it and
// implement Register.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots providers, loading deferred ones on
// first use.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	deferred   map[ServiceProvider]*deferredLoad
	registered map[ServiceProvider]bool
	booted     bool
}

type deferredLoad struct {
	once sync.Once
	err  error
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[ServiceProvider]*deferredLoad),
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider. Eager providers are registered immediately, and
// booted too if the registry is already booted. Registering the same
// provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true
	booted := r.booted
	if provider.IsDeferred() {
		r.deferred[provider] = &deferredLoad{}
		r.mu.Unlock()
		return r.installDeferred(provider)
	}
	r.eager = append(r.eager, provider)
	r.mu.Unlock()

	if err := provider.Register(r.app); err != nil {
		return err
	}
	if booted {
		return provider.Boot(r.app)
	}
	return nil
}

// installDeferred binds a stub per provided name. The stub registers the
// provider on first resolution and returns the entry built from the real
// definition.
func (r *ProviderRegistry) installDeferred(provider ServiceProvider) error {
	for _, name := range provider.Provides() {
		var stub *definition.FactoryDefinition
		stub = definition.Factory(func(c *Container) (any, error) {
			if err := r.load(provider); err != nil {
				return nil, err
			}
			if def, ok := c.Source().GetDefinition(name); !ok || def == definition.Definition(stub) {
				return nil, InvalidDefinitionError{Name: name, Reason: "deferred provider did not define it"}
			}
			// SetDefinition dropped the in-flight call for name, so this Get
			// builds from the real definition instead of waiting on us.
			return c.Get(name)
		}, definition.Dep("container", NameContainer))

		if err := r.app.SetDefinition(name, stub); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProviderRegistry) load(provider ServiceProvider) error {
	r.mu.Lock()
	d := r.deferred[provider]
	r.mu.Unlock()

	d.once.Do(func() {
		if d.err = provider.Register(r.app); d.err != nil {
			return
		}
		r.mu.Lock()
		booted := r.booted
		r.mu.Unlock()
		if booted {
			d.err = provider.Boot(r.app)
		}
	})
	return d.err
}

// Boot boots every eager provider once. The first error stops the loop.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	eager := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range eager {
		if err := provider.Boot(r.app); err != nil {
			return err
		}
	}
	return nil
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}

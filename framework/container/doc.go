// Package container resolves symbolic names into fully constructed values.
//
// # Overview
//
// A Container reads Definitions from a definition.Source and builds values
// from them, recursively resolving the dependency slots each definition
// declares. Three kinds of definition exist:
//
//   - definition.Value: an already built value, returned as is
//   - definition.Object: a class name, a constructor and its slots
//   - definition.Factory: a func whose parameters are resolved like slots
//
// Go has no constructor reflection to discover slots, so definitions carry
// them explicitly. Factories are invoked with reflect; objects receive their
// arguments in slot order.
//
// # Resolving
//
//	src := definition.NewMapSource(nil)
//	c := container.New(src)
//
//	_ = c.SetDefinition("Logger", definition.Factory(newLogger))
//	_ = c.SetDefinition("Service", definition.Object("Service",
//	    func(args []any) (any, error) { return &Service{Logger: args[0].(*Logger)}, nil },
//	    definition.Dep("logger", "Logger")))
//
//	svc, err := c.Get("Service")       // cached: same value on every Get
//	fresh, err := c.Make("Service", nil) // built again on every Make
//
//	// Generic helpers
//	svc, err := container.Resolve[*Service](c, "Service")
//
// # Slots
//
// Each slot is filled in declaration order from, in turn: an override passed
// to Make under the slot's name, the referenced entry when the container has
// it, the slot default. Otherwise resolution fails with a
// MissingDependencyError.
//
//	c.With("logger", testLogger).Make("Service")
//
// # Cycles and laziness
//
// Every top-level Get or Make tracks the names in flight. Re-entering one
// through eager slots fails with a CyclicDependencyError. A slot declared
// with definition.LazyDep receives a proxy instead and is resolved on first
// use; definition.LazyDepOnCycle is eager unless the target is already in
// flight.
//
//	_ = c.SetDefinition("A", definition.Object("A", newA, definition.LazyDep("b", "B")))
//	_ = c.SetDefinition("B", definition.Object("B", newB, definition.Dep("a", "A")))
//
// A proxy is a *Proxy unless an Adapter is registered for the name, in which
// case the adapter wraps it into a value implementing the capability
// interface. Proxies resolve through Get, so the resolved value is shared
// with the resolved-entry cache.
//
// # Self registration
//
// The resolved-entry cache starts with exactly two entries:
// NameContainer (the container) and NameProxyFactory (its ProxyFactory).
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    return app.SetDefinition("mailer", definition.Factory(newMailer,
//	        definition.Dep("config", "config")))
//	}
//
//	registry := container.NewProviderRegistry(c)
//	_ = registry.Register(&AppServiceProvider{})
//	_ = registry.Boot()
//
// Deferred providers (IsDeferred true) are registered on the first
// resolution of any name in Provides().
package container

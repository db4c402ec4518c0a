package container

import (
	"fmt"
	"sort"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-di/framework/definition"
	"github.com/km-arc/go-di/framework/stats"
)

// Names the container registers for itself at construction.
const (
	NameContainer    = "container"
	NameProxyFactory = "proxy.factory"
)

// Container resolves names into fully constructed values.
//
// Get caches: once it returns a value for a name, every later Get returns
// the same value until SetDefinition replaces that name. Make never touches
// the resolved-entry cache and builds a fresh value on every call.
//
// A Container is safe for concurrent use. Concurrent Gets of one name share
// a single construction. A Get that would wait on a construction which is
// itself waiting on the caller builds on its own instead, so eager cycles
// spanning goroutines still end in a CyclicDependencyError.
type Container struct {
	mu sync.RWMutex

	// name → resolved value; membership matters, values may be nil
	resolvedEntries map[string]any

	// name → definition fetched from the source; nil records a miss
	fetchedDefinitions map[string]definition.Definition

	// name → construction in progress for a Get; later callers wait on it
	calls map[string]*call

	// bumped by every SetDefinition so an in-progress Get does not cache a
	// value built from a replaced definition
	generation uint64

	source   definition.Source
	resolver *resolverDispatcher
	proxies  *ProxyFactory

	log   logrus.FieldLogger
	stats stats.Receiver
}

// Option configures a Container.
type Option func(*Container)

// WithLogger routes container diagnostics to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Container) { c.log = l }
}

// WithStats records resolution instruments on r.
func WithStats(r stats.Receiver) Option {
	return func(c *Container) { c.stats = r }
}

// New creates a container reading definitions from source. A nil source
// gets an empty MapSource.
//
//	c := container.New(definition.NewMapSource(nil))
//	_ = c.SetDefinition("Logger", definition.Factory(newLogger))
//	logger, err := c.Get("Logger")
func New(source definition.Source, opts ...Option) *Container {
	if source == nil {
		source = definition.NewMapSource(nil)
	}
	c := &Container{
		fetchedDefinitions: make(map[string]definition.Definition),
		calls:              make(map[string]*call),
		source:             source,
		log:                logrus.StandardLogger(),
		stats:              stats.NilReceiver(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resolver = &resolverDispatcher{container: c}
	c.proxies = &ProxyFactory{container: c, adapters: make(map[string]Adapter)}

	c.resolvedEntries = map[string]any{
		NameContainer:    c,
		NameProxyFactory: c.proxies,
	}
	return c
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get returns the cached value for name, building and caching it on first use.
func (c *Container) Get(name string) (any, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	v, err := c.get(name, &resolution{})
	if err != nil {
		c.stats.Counter(stats.Errors).Inc(1)
	}
	return v, err
}

// Make builds a fresh value for name. params override slots by slot name and
// are used verbatim. The resolved-entry cache is neither read nor written for
// name itself; its dependencies still go through Get.
//
//	svc, err := c.Make("Service", container.Parameters{"logger": testLogger})
func (c *Container) Make(name string, params Parameters) (any, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	v, err := c.make(name, params, &resolution{})
	if err != nil {
		c.stats.Counter(stats.Errors).Inc(1)
	}
	return v, err
}

// Has reports whether name can be resolved without a NotFoundError. A true
// result does not promise construction will succeed.
func (c *Container) Has(name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}
	return c.has(name), nil
}

// SetDefinition adds or replaces the definition for name. The cached value
// for name is evicted and every fetched definition is forgotten.
func (c *Container) SetDefinition(name string, def definition.Definition) error {
	if err := validateName(name); err != nil {
		return err
	}
	if def == nil {
		return InvalidArgumentError{Name: name, Reason: "definition is nil"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.resolvedEntries, name)
	c.fetchedDefinitions = make(map[string]definition.Definition)
	// In-flight builds may depend on name. Their waiters still get the old
	// value; new callers start over.
	c.calls = make(map[string]*call)
	c.generation++
	c.source.AddDefinition(name, def)

	c.log.WithFields(logrus.Fields{"name": name, "definition": def.String()}).
		Debug("container: definition set")
	return nil
}

// call is one in-flight construction started by get.
type call struct {
	owner *resolution
	done  chan struct{}
	value any
	err   error
}

func (c *Container) get(name string, res *resolution) (any, error) {
	c.mu.RLock()
	v, ok := c.resolvedEntries[name]
	c.mu.RUnlock()
	if ok {
		c.stats.Counter(stats.GetHit).Inc(1)
		return v, nil
	}

	c.mu.Lock()
	if v, ok := c.resolvedEntries[name]; ok {
		c.mu.Unlock()
		c.stats.Counter(stats.GetHit).Inc(1)
		return v, nil
	}
	c.stats.Counter(stats.GetMiss).Inc(1)

	// Re-entry through this resolution is a cycle: make reports it.
	if res.inFlight(name) {
		c.mu.Unlock()
		return c.make(name, nil, res)
	}

	if cl, ok := c.calls[name]; ok {
		if !c.waitsFor(cl.owner, res) {
			res.waitingOn = cl.owner
			c.mu.Unlock()
			<-cl.done
			c.mu.Lock()
			res.waitingOn = nil
			c.mu.Unlock()
			return cl.value, cl.err
		}
		// The builder is itself waiting on this resolution. Build here;
		// a real cycle still surfaces through the stack.
		gen := c.generation
		c.mu.Unlock()
		return c.build(name, res, gen, nil)
	}

	cl := &call{owner: res, done: make(chan struct{})}
	c.calls[name] = cl
	gen := c.generation
	c.mu.Unlock()
	return c.build(name, res, gen, cl)
}

// build constructs name for get and stores it unless a SetDefinition
// happened meanwhile. cl, when set, is completed even if construction panics.
func (c *Container) build(name string, res *resolution, gen uint64, cl *call) (v any, err error) {
	completed := false
	defer func() {
		if cl == nil {
			return
		}
		if !completed {
			err = fmt.Errorf("container: construction of [%s] panicked", name)
		}
		c.mu.Lock()
		if c.calls[name] == cl {
			delete(c.calls, name)
		}
		c.mu.Unlock()
		cl.value, cl.err = v, err
		close(cl.done)
	}()

	v, err = c.make(name, nil, res)
	completed = true
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A concurrent Get may have stored first; everyone sees its value.
	if existing, ok := c.resolvedEntries[name]; ok {
		v = existing
		return v, nil
	}
	if c.generation == gen {
		c.resolvedEntries[name] = v
	}
	return v, nil
}

// waitsFor reports whether from is, directly or through other resolutions,
// waiting for target. Waiting on such a builder would never return. The
// caller holds c.mu.
func (c *Container) waitsFor(from, target *resolution) bool {
	seen := make(map[*resolution]bool)
	pending := []*resolution{from}
	for len(pending) > 0 {
		r := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if r == target {
			return true
		}
		if r == nil || seen[r] {
			continue
		}
		seen[r] = true
		pending = append(pending, r.waitingOn)
		for child := range r.children {
			pending = append(pending, child)
		}
	}
	return false
}

func (c *Container) make(name string, params Parameters, res *resolution) (any, error) {
	def := c.lookup(name)
	if def == nil {
		return nil, NotFoundError{Name: name}
	}

	if err := res.enter(name); err != nil {
		c.log.WithField("name", name).Warn(err.Error())
		return nil, err
	}
	defer res.exit()

	start := time.Now()
	v, err := c.resolver.resolve(name, def, params, res)
	c.stats.Timer(stats.MakeLatency).UpdateSince(start)
	c.stats.Counter(stats.Make).Inc(1)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"name":  name,
		"kind":  def.Kind().String(),
		"depth": res.depth(),
	}).Debugf("container: constructed %T", v)
	return v, nil
}

func (c *Container) has(name string) bool {
	c.mu.RLock()
	_, ok := c.resolvedEntries[name]
	c.mu.RUnlock()
	if ok {
		return true
	}

	def := c.lookup(name)
	if def == nil {
		return false
	}
	if obj, ok := def.(*definition.ObjectDefinition); ok {
		return obj.Instantiable()
	}
	return true
}

// lookup returns the definition for name through the fetched-definition
// cache, or nil. Misses are filled under the write lock so a concurrent
// SetDefinition cannot be undone by a stale source read.
func (c *Container) lookup(name string) definition.Definition {
	c.mu.RLock()
	def, ok := c.fetchedDefinitions[name]
	c.mu.RUnlock()
	if ok {
		return def
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if def, ok := c.fetchedDefinitions[name]; ok {
		return def
	}
	def, found := c.source.GetDefinition(name)
	if !found {
		def = nil
	}
	c.fetchedDefinitions[name] = def
	return def
}

// ── Introspection ─────────────────────────────────────────────────────────────

// Entries returns the names currently in the resolved-entry cache, sorted.
func (c *Container) Entries() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.resolvedEntries))
	for name := range c.resolvedEntries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Source returns the definition source.
func (c *Container) Source() definition.Source { return c.source }

// ProxyFactory returns the factory used for lazy slots.
func (c *Container) ProxyFactory() *ProxyFactory { return c.proxies }

func validateName(name string) error {
	if name == "" {
		return InvalidArgumentError{Name: name, Reason: "name is empty"}
	}
	if !utf8.ValidString(name) {
		return InvalidArgumentError{Name: name, Reason: "name is not valid UTF-8"}
	}
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return InvalidArgumentError{Name: name, Reason: "name contains whitespace or control characters"}
		}
	}
	return nil
}

package container

import (
	"fmt"
	"sync"

	"github.com/km-arc/go-di/framework/stats"
)

// ProxyState is the lifecycle of a Proxy.
type ProxyState int32

const (
	Unresolved ProxyState = iota
	Resolving
	Resolved
	Failed
)

func (s ProxyState) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Adapter wraps a Proxy into a value implementing the target's capability
// interface, delegating each method through Proxy.Resolve.
//
//	type lazyMailer struct{ p *container.Proxy }
//
//	func (m lazyMailer) Send(to, body string) error {
//	    mailer, err := container.Unwrap[Mailer](m.p)
//	    if err != nil {
//	        return err
//	    }
//	    return mailer.Send(to, body)
//	}
//
//	c.ProxyFactory().RegisterAdapter("Mailer", func(p *container.Proxy) any { return lazyMailer{p} })
type Adapter func(p *Proxy) any

// ProxyFactory creates lazy stand-ins for container entries.
type ProxyFactory struct {
	container *Container

	mu       sync.RWMutex
	adapters map[string]Adapter
}

// RegisterAdapter makes CreateProxy(name) return adapter(proxy) instead of
// the bare *Proxy.
func (f *ProxyFactory) RegisterAdapter(name string, adapter Adapter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adapters[name] = adapter
}

// Adapter returns the adapter registered for name, or nil.
func (f *ProxyFactory) Adapter(name string) Adapter {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.adapters[name]
}

// CreateProxy returns a lazy value for name. Nothing is resolved until the
// proxy is first used.
func (f *ProxyFactory) CreateProxy(name string) any {
	return f.createProxy(name, nil)
}

// createProxy binds the proxy to the innermost frame of res, the
// construction that asked for it.
func (f *ProxyFactory) createProxy(name string, res *resolution) any {
	p := f.NewProxy(name)
	if res != nil {
		p.owner, p.ownerFrame = res, res.top()
	}
	if adapter := f.Adapter(name); adapter != nil {
		return adapter(p)
	}
	return p
}

// NewProxy returns a bare Proxy for name, ignoring adapters.
func (f *ProxyFactory) NewProxy(name string) *Proxy {
	f.container.stats.Counter(stats.ProxyCreated).Inc(1)
	f.container.log.WithField("name", name).Debug("container: proxy created")
	return &Proxy{name: name, container: f.container}
}

// Proxy defers Container.Get(name) until Resolve is first called. The outcome,
// value or error, is kept for good; a failed proxy never retries.
//
// The target is fetched with Get, so the resolved value is the one held in
// the container's resolved-entry cache. A proxy forced while the construction
// that created it is still running resolves within that construction's
// resolution, so reaching back into it is a CyclicDependencyError rather than
// unbounded recursion.
type Proxy struct {
	name      string
	container *Container

	// set when created during a resolution; the owner is live while
	// ownerFrame is on its stack
	owner      *resolution
	ownerFrame uint64

	mu      sync.Mutex
	state   ProxyState
	done    chan struct{}
	forcing *resolution // set while Resolving within a live owner
	value   any
	err     error
}

// Name returns the entry name the proxy stands for.
func (p *Proxy) Name() string { return p.name }

// State returns the current lifecycle state.
func (p *Proxy) State() ProxyState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Resolve returns the real value, resolving it on the first call. Callers
// arriving while another goroutine resolves wait for its outcome.
//
// While the owning construction is live, forcing the proxy again during its
// own resolution returns a CyclicDependencyError instead of waiting.
func (p *Proxy) Resolve() (any, error) {
	p.mu.Lock()
	switch p.state {
	case Resolved, Failed:
		defer p.mu.Unlock()
		return p.value, p.err
	case Resolving:
		if forcing := p.forcing; forcing != nil && p.ownerLive() {
			p.mu.Unlock()
			err := CyclicDependencyError{Path: forcing.cyclePath(p.name)}
			p.container.log.WithField("name", p.name).Warn(err.Error())
			return nil, err
		}
		done := p.done
		p.mu.Unlock()
		<-done
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.value, p.err
	}
	p.state = Resolving
	p.done = make(chan struct{})
	var res *resolution
	if p.ownerLive() {
		res = p.owner.fork()
		p.forcing = res
	}
	p.mu.Unlock()

	finished := false
	defer func() {
		if !finished {
			// Get panicked; waiters must not block forever.
			p.finish(nil, fmt.Errorf("container: proxy [%s]: resolution panicked", p.name))
		}
	}()

	var v any
	var err error
	if res != nil {
		v, err = p.resolveWithin(res)
	} else {
		v, err = p.container.Get(p.name)
	}
	finished = true
	p.finish(v, err)
	return v, err
}

// resolveWithin gets the target through res, a fork of the owner's
// resolution. The owner counts as waiting on res meanwhile.
func (p *Proxy) resolveWithin(res *resolution) (any, error) {
	c := p.container
	c.mu.Lock()
	if p.owner.children == nil {
		p.owner.children = make(map[*resolution]struct{})
	}
	p.owner.children[res] = struct{}{}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(p.owner.children, res)
		c.mu.Unlock()
	}()
	return c.get(p.name, res)
}

func (p *Proxy) ownerLive() bool {
	return p.owner != nil && p.owner.live(p.ownerFrame)
}

func (p *Proxy) finish(v any, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = Failed
		p.err = err
		p.container.stats.Counter(stats.ProxyFailed).Inc(1)
	} else {
		p.state = Resolved
		p.value = v
		p.container.stats.Counter(stats.ProxyResolved).Inc(1)
	}
	p.forcing = nil
	close(p.done)
	p.container.log.WithField("name", p.name).Debugf("container: proxy %s", p.state)
}

func (p *Proxy) String() string {
	return fmt.Sprintf("proxy(%s, %s)", p.name, p.State())
}

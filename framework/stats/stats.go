// Package stats is a small scoped facade over go-metrics.
//
// Hierarchical names use a '/' separator. A '/' inside a scope element is
// replaced by "_SLASH_" so a dynamic scope (an entry name) stays one level.
package stats

import (
	"io"
	"strings"

	"github.com/rcrowley/go-metrics"
)

// Well-known instrument names recorded by the container.
const (
	GetHit        = "get/hit"
	GetMiss       = "get/miss"
	Make          = "make"
	MakeLatency   = "make/latency"
	ProxyCreated  = "proxy/created"
	ProxyResolved = "proxy/resolved"
	ProxyFailed   = "proxy/failed"
	Errors        = "errors"
)

// Receiver hands out instruments, optionally scoped under a prefix.
type Receiver interface {
	Counter(name ...string) metrics.Counter
	Timer(name ...string) metrics.Timer

	// Scope returns a Receiver whose instruments are nested under scope.
	Scope(scope ...string) Receiver

	// WriteJSON renders a snapshot of every registered instrument.
	WriteJSON(w io.Writer)
}

// NewReceiver creates a Receiver backed by r. A nil r gets a fresh registry.
func NewReceiver(r metrics.Registry) Receiver {
	if r == nil {
		r = metrics.NewRegistry()
	}
	return &receiver{registry: r}
}

type receiver struct {
	registry metrics.Registry
	scope    []string
}

func (s *receiver) Counter(name ...string) metrics.Counter {
	return metrics.GetOrRegisterCounter(s.scoped(name), s.registry)
}

func (s *receiver) Timer(name ...string) metrics.Timer {
	return metrics.GetOrRegisterTimer(s.scoped(name), s.registry)
}

func (s *receiver) Scope(scope ...string) Receiver {
	nested := make([]string, 0, len(s.scope)+len(scope))
	nested = append(nested, s.scope...)
	nested = append(nested, scope...)
	return &receiver{registry: s.registry, scope: nested}
}

func (s *receiver) WriteJSON(w io.Writer) {
	metrics.WriteJSONOnce(s.registry, w)
}

func (s *receiver) scoped(name []string) string {
	parts := make([]string, 0, len(s.scope)+len(name))
	for _, p := range s.scope {
		parts = append(parts, clean(p))
	}
	// Instrument names are already hierarchical.
	parts = append(parts, name...)
	return strings.Join(parts, "/")
}

func clean(elem string) string {
	return strings.Replace(elem, "/", "_SLASH_", -1)
}

// NilReceiver discards everything.
func NilReceiver() Receiver { return nilReceiver{} }

type nilReceiver struct{}

func (nilReceiver) Counter(...string) metrics.Counter { return metrics.NilCounter{} }
func (nilReceiver) Timer(...string) metrics.Timer     { return metrics.NilTimer{} }
func (n nilReceiver) Scope(...string) Receiver        { return n }
func (nilReceiver) WriteJSON(w io.Writer)             { _, _ = io.WriteString(w, "{}\n") }

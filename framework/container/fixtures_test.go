package container_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/km-arc/go-di/framework/container"
	"github.com/km-arc/go-di/framework/definition"
)

// ── test types ────────────────────────────────────────────────────────────────

type Logger struct {
	id int64
}

type Service struct {
	Logger any
}

var errBoom = errors.New("boom")

// counter hands out sequence numbers and counts constructions.
type counter struct{ n int64 }

func (c *counter) next() int64  { return atomic.AddInt64(&c.n, 1) }
func (c *counter) count() int64 { return atomic.LoadInt64(&c.n) }

func loggerFactory(calls *counter) *definition.FactoryDefinition {
	return definition.Factory(func() *Logger { return &Logger{id: calls.next()} })
}

func newService(args []any) (any, error) {
	return &Service{Logger: args[0]}, nil
}

func serviceObject() *definition.ObjectDefinition {
	return definition.Object("Service", newService, definition.Dep("logger", "Logger"))
}

// A and B reference each other.
type A struct{ B any }
type B struct{ A any }

func newA(args []any) (any, error) { return &A{B: args[0]}, nil }
func newB(args []any) (any, error) { return &B{A: args[0]}, nil }

// ── helpers ───────────────────────────────────────────────────────────────────

func newContainer(t *testing.T, defs map[string]definition.Definition) *container.Container {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return container.New(definition.NewMapSource(defs), container.WithLogger(logger))
}

func newDebugContainer(t *testing.T, defs map[string]definition.Definition) (*container.Container, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return container.New(definition.NewMapSource(defs), container.WithLogger(logger)), hook
}

func mustGet(t *testing.T, c *container.Container, name string) any {
	t.Helper()
	v, err := c.Get(name)
	if err != nil {
		t.Fatalf("Get(%q): %v", name, err)
	}
	return v
}

func mustMake(t *testing.T, c *container.Container, name string, params container.Parameters) any {
	t.Helper()
	v, err := c.Make(name, params)
	if err != nil {
		t.Fatalf("Make(%q): %v", name, err)
	}
	return v
}

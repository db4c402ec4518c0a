package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-di/framework/app"
	"github.com/km-arc/go-di/framework/container"
	"github.com/km-arc/go-di/framework/definition"
	"github.com/km-arc/go-di/framework/providers"
)

// ── Example services ─────────────────────────────────────────────────────────

type Logger struct {
	log logrus.FieldLogger
}

func NewLogger(log logrus.FieldLogger) *Logger { return &Logger{log: log} }

func (l *Logger) Printf(format string, args ...any) { l.log.Infof(format, args...) }

type Service struct {
	Logger *Logger
}

// Parent and Child reference each other; the lazy slot on Parent breaks the cycle.
type Parent struct{ child *container.Proxy }

func (p *Parent) Child() (*Child, error) { return container.Unwrap[*Child](p.child) }

type Child struct{ Parent *Parent }

// ExampleServiceProvider binds the example services.
type ExampleServiceProvider struct {
	container.BaseProvider
}

func (p *ExampleServiceProvider) Register(a *container.Container) error {
	defs := map[string]definition.Definition{
		"Logger": definition.Factory(NewLogger, definition.Dep("log", providers.NameLogger)),
		"Service": definition.Object("Service", func(args []any) (any, error) {
			return &Service{Logger: args[0].(*Logger)}, nil
		}, definition.Dep("logger", "Logger")),
		"Parent": definition.Object("Parent", func(args []any) (any, error) {
			return &Parent{child: args[0].(*container.Proxy)}, nil
		}, definition.LazyDep("child", "Child")),
		"Child": definition.Factory(func(p *Parent) *Child { return &Child{Parent: p} },
			definition.Dep("parent", "Parent")),
	}
	for _, name := range []string{"Logger", "Service", "Parent", "Child"} {
		if err := a.SetDefinition(name, defs[name]); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	application, err := app.New() // loads .env automatically
	if err != nil {
		logrus.Fatal(err)
	}
	log := application.Logger()

	if err := application.Register(&ExampleServiceProvider{}); err != nil {
		log.Fatal(err)
	}
	if err := application.Boot(); err != nil {
		log.Fatal(err)
	}

	svc, err := container.Resolve[*Service](application.Container, "Service")
	if err != nil {
		log.Fatal(err)
	}
	logger := container.MustResolve[*Logger](application.Container, "Logger")
	svc.Logger.Printf("Service.Logger shared with Get(Logger): %v", svc.Logger == logger)

	parent := container.MustResolve[*Parent](application.Container, "Parent")
	child, err := parent.Child()
	if err != nil {
		log.Fatal(err)
	}
	logger.Printf("Child.Parent is the cached Parent: %v", child.Parent == parent)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := application.Run(ctx); err != nil {
		log.Fatal(err)
	}
}

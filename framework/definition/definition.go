package definition

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/pkg/errors"
)

// ── Kinds ─────────────────────────────────────────────────────────────────────

// Kind tells the resolver which recipe a Definition carries.
type Kind int

const (
	KindValue Kind = iota
	KindObject
	KindFactory
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindObject:
		return "object"
	case KindFactory:
		return "factory"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Definition describes how to produce the value bound to a name.
//
// Definitions are read-only once handed to a Source.
type Definition interface {
	Kind() Kind
	String() string
}

// ── Slots ─────────────────────────────────────────────────────────────────────

// Laziness controls whether a slot may be satisfied by a proxy.
type Laziness uint8

const (
	// Eager slots are always resolved before construction.
	Eager Laziness = iota
	// Lazy slots always receive a proxy; the target is resolved on first use.
	Lazy
	// LazyOnCycle slots are resolved eagerly unless the target is already being
	// resolved further up the same resolution, in which case they receive a proxy.
	LazyOnCycle
)

func (l Laziness) String() string {
	switch l {
	case Eager:
		return "eager"
	case Lazy:
		return "lazy"
	case LazyOnCycle:
		return "lazy-on-cycle"
	}
	return fmt.Sprintf("laziness(%d)", int(l))
}

// Slot is one dependency parameter of a constructor or factory.
type Slot struct {
	// Name is the parameter name; overrides passed to Make are keyed by it.
	Name string
	// Ref is the container name the slot depends on. Empty means none.
	Ref        string
	Default    any
	HasDefault bool
	Laziness   Laziness
}

// Dep declares a slot resolved from the container entry ref.
//
//	definition.Dep("logger", "Logger")
func Dep(name, ref string) Slot {
	return Slot{Name: name, Ref: ref}
}

// LazyDep declares a slot that always receives a proxy for ref.
func LazyDep(name, ref string) Slot {
	return Slot{Name: name, Ref: ref, Laziness: Lazy}
}

// LazyDepOnCycle declares a slot resolved eagerly, falling back to a proxy
// when ref is already in flight.
func LazyDepOnCycle(name, ref string) Slot {
	return Slot{Name: name, Ref: ref, Laziness: LazyOnCycle}
}

// DepOr declares a slot resolved from ref, or fallback when the container
// cannot provide ref.
func DepOr(name, ref string, fallback any) Slot {
	return Slot{Name: name, Ref: ref, Default: fallback, HasDefault: true}
}

// Param declares a slot with no container reference, only a default.
func Param(name string, fallback any) Slot {
	return Slot{Name: name, Default: fallback, HasDefault: true}
}

// ── ValueDefinition ───────────────────────────────────────────────────────────

// ValueDefinition wraps an already constructed value.
type ValueDefinition struct {
	Value any
}

// Value binds a pre-built value.
//
//	src.AddDefinition("config", definition.Value(cfg))
func Value(v any) *ValueDefinition {
	return &ValueDefinition{Value: v}
}

func (d *ValueDefinition) Kind() Kind { return KindValue }

func (d *ValueDefinition) String() string {
	return fmt.Sprintf("value(%T)", d.Value)
}

// ── ObjectDefinition ──────────────────────────────────────────────────────────

// Constructor builds an instance from arguments given in slot order.
type Constructor func(args []any) (any, error)

// ObjectDefinition names a concrete type and the slots its constructor needs.
type ObjectDefinition struct {
	Class       string
	Slots       []Slot
	Constructor Constructor
	// Abstract marks an interface-only entry that must be bound elsewhere.
	Abstract bool
}

// Object declares a constructible type.
//
//	definition.Object("Service", func(args []any) (any, error) {
//	    return &Service{Logger: args[0].(*Logger)}, nil
//	}, definition.Dep("logger", "Logger"))
func Object(class string, ctor Constructor, slots ...Slot) *ObjectDefinition {
	return &ObjectDefinition{Class: class, Slots: slots, Constructor: ctor}
}

// Abstract declares an unbound interface. It is never instantiable.
func Abstract(class string) *ObjectDefinition {
	return &ObjectDefinition{Class: class, Abstract: true}
}

func (d *ObjectDefinition) Kind() Kind { return KindObject }

// Instantiable reports whether the resolver may construct d.
func (d *ObjectDefinition) Instantiable() bool {
	return !d.Abstract && d.Constructor != nil
}

func (d *ObjectDefinition) String() string {
	return fmt.Sprintf("object(%s)", d.Class)
}

// ── FactoryDefinition ─────────────────────────────────────────────────────────

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// FactoryDefinition invokes a func whose parameters are resolved like slots.
//
// Factory must be a non-variadic func taking len(Parameters) arguments and
// returning either T or (T, error).
type FactoryDefinition struct {
	Factory    any
	Parameters []Slot
}

// Factory declares a factory func. It panics if fn does not satisfy the
// FactoryDefinition contract.
//
//	definition.Factory(newLogger)
//	definition.Factory(NewDB, definition.Dep("storage", "Storage"))
func Factory(fn any, params ...Slot) *FactoryDefinition {
	d := &FactoryDefinition{Factory: fn, Parameters: params}
	if err := d.Validate(); err != nil {
		panic(err)
	}
	return d
}

func (d *FactoryDefinition) Kind() Kind { return KindFactory }

func (d *FactoryDefinition) String() string {
	return fmt.Sprintf("factory(%s)", d.FuncName())
}

// Validate checks the shape of the factory func.
func (d *FactoryDefinition) Validate() error {
	if d.Factory == nil {
		return errors.New("factory func is nil")
	}
	t := reflect.TypeOf(d.Factory)
	if t.Kind() != reflect.Func {
		return errors.Errorf("factory must be a func; was %v", t)
	}
	if t.IsVariadic() {
		return errors.Errorf("factory must not be variadic; was %v", t)
	}
	if t.NumIn() != len(d.Parameters) {
		return errors.Errorf("factory %v takes %d arguments but %d parameters are declared",
			t, t.NumIn(), len(d.Parameters))
	}
	switch t.NumOut() {
	case 1:
	case 2:
		if !t.Out(1).Implements(errorType) {
			return errors.Errorf("factory returns two results so the second must implement error; was %v", t)
		}
	default:
		return errors.Errorf("factory must return T or (T, error); was %v with %d results", t, t.NumOut())
	}
	return nil
}

// FuncName returns the runtime name of the factory func, for diagnostics.
func (d *FactoryDefinition) FuncName() string {
	v := reflect.ValueOf(d.Factory)
	if v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Sprintf("%T", d.Factory)
	}
	if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
		return fn.Name()
	}
	return v.Type().String()
}

// Alias binds a name to whatever target resolves to.
//
//	src.AddDefinition("cache", definition.Alias("RedisCache"))
func Alias(target string) *FactoryDefinition {
	return &FactoryDefinition{
		Factory:    func(v any) any { return v },
		Parameters: []Slot{Dep("target", target)},
	}
}

package container

import (
	"fmt"
	"reflect"

	"github.com/km-arc/go-di/framework/definition"
)

// resolverDispatcher turns one definition plus per-call overrides into a value.
// It recurses into the container for referenced slots; cycle checks happen in
// Container.make.
type resolverDispatcher struct {
	container *Container
}

func (d *resolverDispatcher) resolve(name string, def definition.Definition, params Parameters, res *resolution) (any, error) {
	switch def := def.(type) {
	case *definition.ValueDefinition:
		return def.Value, nil
	case *definition.ObjectDefinition:
		return d.resolveObject(name, def, params, res)
	case *definition.FactoryDefinition:
		return d.resolveFactory(name, def, params, res)
	}
	return nil, InvalidDefinitionError{Name: name, Reason: fmt.Sprintf("unsupported definition %T", def)}
}

func (d *resolverDispatcher) resolveObject(name string, def *definition.ObjectDefinition, params Parameters, res *resolution) (any, error) {
	if !def.Instantiable() {
		return nil, NotInstantiableError{Name: name, Class: def.Class}
	}
	args, err := d.resolveSlots(def.Class, def.Slots, params, res)
	if err != nil {
		return nil, err
	}
	return def.Constructor(args)
}

func (d *resolverDispatcher) resolveFactory(name string, def *definition.FactoryDefinition, params Parameters, res *resolution) (any, error) {
	if err := def.Validate(); err != nil {
		return nil, InvalidDefinitionError{Name: name, Reason: err.Error()}
	}
	owner := def.FuncName()
	args, err := d.resolveSlots(owner, def.Parameters, params, res)
	if err != nil {
		return nil, err
	}

	fn := reflect.ValueOf(def.Factory)
	fnType := fn.Type()
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, ok := argumentValue(arg, fnType.In(i))
		if !ok {
			return nil, ArgumentTypeError{
				Owner:    owner,
				Slot:     def.Parameters[i].Name,
				Expected: fnType.In(i).String(),
				Actual:   fmt.Sprintf("%T", arg),
			}
		}
		in[i] = v
	}

	out := fn.Call(in)
	if len(out) == 2 && !isNil(out[1]) {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// resolveSlots assembles arguments in declaration order. For each slot:
// override, then the referenced entry if the container has it, then the
// default. Anything else is a MissingDependencyError.
func (d *resolverDispatcher) resolveSlots(owner string, slots []definition.Slot, params Parameters, res *resolution) ([]any, error) {
	c := d.container
	args := make([]any, len(slots))
	for i, slot := range slots {
		if v, ok := params[slot.Name]; ok {
			args[i] = v
			continue
		}

		if slot.Ref != "" && c.has(slot.Ref) {
			if slot.Laziness == definition.Lazy ||
				(slot.Laziness == definition.LazyOnCycle && res.inFlight(slot.Ref)) {
				args[i] = c.proxies.createProxy(slot.Ref, res)
				continue
			}
			v, err := c.get(slot.Ref, res)
			if err != nil {
				return nil, err
			}
			args[i] = v
			continue
		}

		if slot.HasDefault {
			args[i] = slot.Default
			continue
		}
		return nil, MissingDependencyError{Owner: owner, Slot: slot.Name, Ref: slot.Ref}
	}
	return args, nil
}

// argumentValue adapts arg for a parameter of type t. nil becomes the zero
// value of nillable types.
func argumentValue(arg any, t reflect.Type) (reflect.Value, bool) {
	if arg == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, false
	}
	return v, true
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

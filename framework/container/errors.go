package container

import (
	"fmt"
	"strings"
)

// InvalidArgumentError means a malformed name (or nil definition) was passed in.
type InvalidArgumentError struct {
	Name   string
	Reason string
}

func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("container: invalid name %q: %s", e.Name, e.Reason)
}

// NotFoundError means no definition exists for Name.
type NotFoundError struct {
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("container: no entry or class found for [%s]", e.Name)
}

// NotInstantiableError means the definition exists but cannot be constructed,
// typically an interface nobody bound.
type NotInstantiableError struct {
	Name  string
	Class string
}

func (e NotInstantiableError) Error() string {
	return fmt.Sprintf("container: entry [%s] is not instantiable (class %s)", e.Name, e.Class)
}

// MissingDependencyError means a slot had no override, no resolvable
// reference and no default.
type MissingDependencyError struct {
	Owner string // class or factory func name
	Slot  string
	Ref   string
}

func (e MissingDependencyError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("container: parameter [%s] of %s has no value and no default", e.Slot, e.Owner)
	}
	return fmt.Sprintf("container: parameter [%s] of %s: entry [%s] cannot be resolved and there is no default",
		e.Slot, e.Owner, e.Ref)
}

// CyclicDependencyError means a name re-entered its own resolution through
// eager slots only. Path starts and ends with the repeated name.
type CyclicDependencyError struct {
	Path []string
}

func (e CyclicDependencyError) Error() string {
	if len(e.Path) == 0 {
		return "container: circular dependency detected"
	}
	return "container: circular dependency detected: " + strings.Join(e.Path, " -> ")
}

// InvalidDefinitionError means a definition is unusable, e.g. a factory that
// is not a func.
type InvalidDefinitionError struct {
	Name   string
	Reason string
}

func (e InvalidDefinitionError) Error() string {
	return fmt.Sprintf("container: invalid definition for [%s]: %s", e.Name, e.Reason)
}

// ArgumentTypeError means a value could not be passed to a factory parameter.
type ArgumentTypeError struct {
	Owner    string
	Slot     string
	Expected string
	Actual   string
}

func (e ArgumentTypeError) Error() string {
	return fmt.Sprintf("container: parameter [%s] of %s expects %s, got %s",
		e.Slot, e.Owner, e.Expected, e.Actual)
}

// TypeMismatchError means a typed helper could not assert the resolved value.
type TypeMismatchError struct {
	Name     string
	Expected string
	Actual   string
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("container: [%s] resolved to %s, expected %s", e.Name, e.Actual, e.Expected)
}

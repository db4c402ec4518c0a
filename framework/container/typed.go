package container

import (
	"fmt"
	"reflect"
)

// TypeKey returns the package-qualified type name of v, useful as a stable
// entry name for interfaces and structs.
//
//	key := container.TypeKey((*UserRepository)(nil))  // "github.com/acme/app.UserRepository"
//	_ = c.SetDefinition(key, definition.Factory(NewUserRepository))
//	repo, err := container.Resolve[UserRepository](c, key)
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// Resolve is Get followed by a type assertion.
//
//	// Instead of: raw, err := c.Get("db"); db := raw.(*sql.DB)
//	db, err := container.Resolve[*sql.DB](c, "db")
func Resolve[T any](c *Container, name string) (T, error) {
	v, err := c.Get(name)
	if err != nil {
		var zero T
		return zero, err
	}
	return assertAs[T](name, v)
}

// MustResolve is like Resolve but panics on error. Meant for bootstrap code.
func MustResolve[T any](c *Container, name string) T {
	v, err := Resolve[T](c, name)
	if err != nil {
		panic(err)
	}
	return v
}

// Build is Make followed by a type assertion.
func Build[T any](c *Container, name string, params Parameters) (T, error) {
	v, err := c.Make(name, params)
	if err != nil {
		var zero T
		return zero, err
	}
	return assertAs[T](name, v)
}

// Unwrap returns v as T, resolving it first if it is a *Proxy. Constructors
// receiving lazy slots use it to reach the real dependency.
func Unwrap[T any](v any) (T, error) {
	name := fmt.Sprintf("%T", v)
	if p, ok := v.(*Proxy); ok {
		target, err := p.Resolve()
		if err != nil {
			var zero T
			return zero, err
		}
		v, name = target, p.Name()
	}
	return assertAs[T](name, v)
}

func assertAs[T any](name string, v any) (T, error) {
	if v == nil {
		var zero T
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return typed, TypeMismatchError{
			Name:     name,
			Expected: reflect.TypeOf((*T)(nil)).Elem().String(),
			Actual:   fmt.Sprintf("%T", v),
		}
	}
	return typed, nil
}

// Package host installs pgcursor's operations into a dynamically typed
// environment: named primitives called with untyped arguments, returning
// untyped values. nil is the absent value and true the truthy sentinel.
package host

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnbound     = errors.New("unbound name")
	ErrNotCallable = errors.New("not a primitive")
	ErrArity       = errors.New("wrong number of arguments")
)

// Symbol is a host symbol. Shapes are passed as symbols and hash rows are
// keyed by them.
type Symbol string

// Primitive is an operation callable from the host.
type Primitive func(ctx context.Context, args []any) (any, error)

// Env maps names to host values.
type Env struct {
	defs     map[string]any
	provided map[string]bool
}

func NewEnv() *Env {
	return &Env{defs: map[string]any{}, provided: map[string]bool{}}
}

func (e *Env) Define(name string, v any) { e.defs[name] = v }

func (e *Env) Lookup(name string) (any, bool) {
	v, ok := e.defs[name]
	return v, ok
}

// Provide records that a feature has been loaded into the environment.
func (e *Env) Provide(feature string) { e.provided[feature] = true }

func (e *Env) Provided(feature string) bool { return e.provided[feature] }

// Call invokes the primitive bound to name.
func (e *Env) Call(ctx context.Context, name string, args ...any) (any, error) {
	v, ok := e.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnbound, name)
	}
	p, ok := v.(Primitive)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotCallable, name)
	}
	return p(ctx, args)
}

// File: lixenwraith/chain/resolver.go
package chain

import (
	"fmt"
	"log/slog"
)

// Resolver maps a string plugin reference to the value it names
type Resolver interface {
	Resolve(path string) (any, error)
}

// ResolverFunc adapts a function to Resolver
type ResolverFunc func(path string) (any, error)

// Resolve calls f
func (f ResolverFunc) Resolve(path string) (any, error) {
	return f(path)
}

// Registry is a Resolver backed by registered path/value pairs
type Registry struct {
	entries map[string]any
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]any),
	}
}

// Register associates path with a constructor, module value or instance
func (r *Registry) Register(path string, value any) *Registry {
	r.entries[path] = value
	return r
}

// Resolve returns the value registered under path
func (r *Registry) Resolve(path string) (any, error) {
	value, ok := r.entries[path]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not registered", ErrUnresolvableReference, path)
	}
	return value, nil
}

// Paths returns the registered paths sorted
func (r *Registry) Paths() []string {
	return sortedKeys(r.entries)
}

// Defaulter is implemented by module values that expose a default export
type Defaulter interface {
	Default() any
}

// Option configures flattening
type Option func(*env)

// UseResolver sets the resolver used for string plugin references
func UseResolver(r Resolver) Option {
	return func(e *env) { e.resolver = r }
}

// UseLogger sets the logger receiving debug records during flattening
func UseLogger(l *slog.Logger) Option {
	return func(e *env) { e.logger = l }
}

// env carries flattening collaborators down the tree
type env struct {
	resolver Resolver
	logger   *slog.Logger
}

func newEnv(opts []Option) *env {
	e := &env{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

func (e *env) resolve(path string) (any, error) {
	if e.resolver == nil {
		return nil, fmt.Errorf("%w: no resolver configured for %q", ErrUnresolvableReference, path)
	}
	value, err := e.resolver.Resolve(path)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("Resolved plugin path", "path", path, "type", fmt.Sprintf("%T", value))
	return value, nil
}

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cuongbtq/job-gateway/internal/gateway/domain"
)

// Func is an executable operation owned by another subsystem. The gateway
// treats it as opaque: it returns a result or an error.
type Func func(ctx context.Context, params json.RawMessage) (any, error)

// Registry resolves operation names to callables. The table is fixed at
// construction time and never mutated afterwards, so lookups are lock-free.
type Registry struct {
	ops map[string]Func
}

// New creates a Registry from a static operation table
func New(ops map[string]Func) *Registry {
	table := make(map[string]Func, len(ops))
	for name, fn := range ops {
		table[name] = fn
	}
	return &Registry{ops: table}
}

// Has reports whether an operation name is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.ops[name]
	return ok
}

// Resolve returns the callable for an operation name
func (r *Registry) Resolve(name string) (Func, error) {
	fn, ok := r.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownOperation, name)
	}
	return fn, nil
}

// Names returns the registered operation names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

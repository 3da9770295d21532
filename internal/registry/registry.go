// Package registry holds the parameter specifications for one form session.
//
// The registry is a pure data holder: it stores each spec under its
// case-insensitive name and remembers registration order, which later becomes
// the tie-breaker for execution ordering. Registration-time invariants
// (unique names, no direct self-dependency) are the only validation it does;
// graph-level checks live in the graph package.
package registry

import (
	"strings"

	"github.com/vk/formgridgo/internal/model"
)

// Registry stores parameter specs for a single session. It is populated once,
// before the first resolution, and treated as immutable afterwards.
type Registry struct {
	specs map[string]*model.ParameterSpec
	order []string // lower-cased names in registration order
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		specs: make(map[string]*model.ParameterSpec),
	}
}

// Register adds a spec. Duplicate names (case-insensitive) and direct
// self-dependencies are configuration errors fatal to the batch.
func (r *Registry) Register(spec *model.ParameterSpec) error {
	if err := spec.Validate(); err != nil {
		return &ConfigError{Parameter: spec.Name, Reason: err.Error()}
	}
	key := strings.ToLower(spec.Name)
	if _, exists := r.specs[key]; exists {
		return &ConfigError{Parameter: spec.Name, Reason: "duplicate parameter name"}
	}
	r.specs[key] = spec
	r.order = append(r.order, key)
	return nil
}

// RegisterAll registers every spec in order, stopping at the first error.
func (r *Registry) RegisterAll(specs []*model.ParameterSpec) error {
	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the spec for a name, matched case-insensitively.
func (r *Registry) Lookup(name string) (*model.ParameterSpec, bool) {
	spec, ok := r.specs[strings.ToLower(name)]
	return spec, ok
}

// All returns every spec in registration order.
func (r *Registry) All() []*model.ParameterSpec {
	out := make([]*model.ParameterSpec, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.specs[key])
	}
	return out
}

// Len returns the number of registered parameters.
func (r *Registry) Len() int {
	return len(r.order)
}

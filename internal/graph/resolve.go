package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/formgridgo/internal/ctxlog"
	"github.com/vk/formgridgo/internal/model"
	"github.com/vk/formgridgo/internal/registry"
)

// color is the classic three-state marking for depth-first cycle detection.
type color int

const (
	white color = iota // unvisited
	grey               // in-progress, on the current traversal stack
	black              // done
)

// Resolution is the immutable product of resolving a registry: the execution
// order for data-source-backed parameters, the dependent edges used for
// cascading, and any advisory warnings gathered along the way.
type Resolution struct {
	order      []string            // canonical spec names, dependencies first
	position   map[string]int      // lower-cased name -> index in order
	dependents map[string][]string // lower-cased name -> lower-cased direct dependents
	names      map[string]string   // lower-cased name -> canonical spec name
	warnings   []string
}

// Resolve builds the dependency graph from the registry and produces a
// deterministic execution order, or a CycleError. When no ordering constraint
// applies between two parameters, their relative order equals registration
// order, keeping output stable across runs.
func Resolve(ctx context.Context, reg *registry.Registry) (*Resolution, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving dependency graph.", "parameters", reg.Len())

	res := &Resolution{
		position:   make(map[string]int),
		dependents: make(map[string][]string),
		names:      make(map[string]string),
	}

	colors := make(map[string]color)
	var stack []string

	var visit func(spec *model.ParameterSpec) error
	visit = func(spec *model.ParameterSpec) error {
		key := strings.ToLower(spec.Name)
		switch colors[key] {
		case black:
			return nil
		case grey:
			// The parameter is already on the traversal stack, so this
			// dependency closes a cycle.
			return &CycleError{Parameter: spec.Name, Stack: append([]string(nil), stack...)}
		}

		colors[key] = grey
		stack = append(stack, spec.Name)

		for _, depName := range spec.DependsOn {
			dep, known := reg.Lookup(depName)
			if !known {
				res.warnings = append(res.warnings,
					fmt.Sprintf("parameter %q depends on unknown parameter %q", spec.Name, depName))
				continue
			}
			if !dep.HasSource() {
				// Static parameters never execute; no ordering constraint.
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		colors[key] = black
		res.position[key] = len(res.order)
		res.order = append(res.order, spec.Name)
		return nil
	}

	for _, spec := range reg.All() {
		res.names[strings.ToLower(spec.Name)] = spec.Name

		// Record cascade edges for every declared dependency, including ones
		// on static parameters: editing a static field must still repopulate
		// its data-source-backed dependents.
		if spec.HasSource() {
			for _, depName := range spec.DependsOn {
				depKey := strings.ToLower(depName)
				res.dependents[depKey] = append(res.dependents[depKey], strings.ToLower(spec.Name))
			}
		}
	}

	for _, spec := range reg.All() {
		if !spec.HasSource() {
			continue
		}
		if err := visit(spec); err != nil {
			return nil, err
		}
	}

	for _, w := range res.warnings {
		logger.Warn("Dependency graph warning.", "warning", w)
	}
	logger.Debug("Dependency graph resolved.", "order", res.order)
	return res, nil
}

// Order returns the execution order: every data-source-backed dependency
// precedes its dependents. The slice is a copy.
func (r *Resolution) Order() []string {
	return append([]string(nil), r.order...)
}

// Warnings returns the advisory diagnostics gathered during resolution.
func (r *Resolution) Warnings() []string {
	return append([]string(nil), r.warnings...)
}

// TransitiveDependents returns every data-source-backed parameter that
// transitively depends on the given one, ordered by the execution order. The
// changed parameter itself is never included.
func (r *Resolution) TransitiveDependents(name string) []string {
	start := strings.ToLower(name)
	visited := make(map[string]bool)

	// Iterative traversal over the dependent edges.
	queue := append([]string(nil), r.dependents[start]...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] || current == start {
			continue
		}
		visited[current] = true
		queue = append(queue, r.dependents[current]...)
	}

	out := make([]string, 0, len(visited))
	for key := range visited {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool {
		return r.position[out[i]] < r.position[out[j]]
	})

	for i, key := range out {
		out[i] = r.names[key]
	}
	return out
}

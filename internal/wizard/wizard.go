// Package wizard is an in-process interactive host for the cascade engine,
// built on charmbracelet/huh. It walks the form one field at a time in
// execution order, so every parameter is asked only after the parameters it
// depends on, and each selection is reported back to the controller before
// the next field is presented.
package wizard

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/formgridgo/internal/cascade"
	"github.com/vk/formgridgo/internal/ctxlog"
	"github.com/vk/formgridgo/internal/graph"
	"github.com/vk/formgridgo/internal/model"
	"github.com/vk/formgridgo/internal/registry"
)

// Run presents each parameter in turn and returns the final selections keyed
// by parameter name. The controller must already be populated.
func Run(ctx context.Context, ctl *cascade.Controller, reg *registry.Registry, res *graph.Resolution) (map[string]string, error) {
	logger := ctxlog.FromContext(ctx)
	selections := make(map[string]string, reg.Len())

	for _, spec := range presentationOrder(reg, res) {
		choices := currentChoices(ctl, spec)

		selection := ""
		if v, ok := ctl.Snapshot().Get(spec.Name); ok {
			selection = model.ValueString(v)
		}

		field := buildField(spec, choices, &selection)
		form := huh.NewForm(huh.NewGroup(field))
		if err := form.Run(); err != nil {
			return nil, fmt.Errorf("form aborted at parameter %q: %w", spec.Name, err)
		}

		selections[spec.Name] = selection
		logger.Debug("Wizard selection made.", "parameter", spec.Name, "value", selection)

		// Feeding the selection back triggers the cascade for downstream
		// parameters before we present them.
		ctl.ValueChanged(ctx, spec.Name, cty.StringVal(selection))
	}

	return selections, nil
}

// presentationOrder interleaves static parameters into the resolved execution
// order. Data-source-backed parameters keep their resolved positions; a static
// parameter slots in right before its first dependent, so its value is settled
// by the time that dependent's choices are shown. Statics nothing depends on
// go last. Ties fall back to declaration order.
func presentationOrder(reg *registry.Registry, res *graph.Resolution) []*model.ParameterSpec {
	position := make(map[string]int)
	for i, name := range res.Order() {
		position[strings.ToLower(name)] = i
	}
	end := len(position)

	specs := reg.All()
	rank := make(map[string]int, len(specs))
	static := make(map[string]bool, len(specs))
	for _, spec := range specs {
		key := strings.ToLower(spec.Name)
		if spec.HasSource() {
			rank[key] = position[key]
			continue
		}
		static[key] = true
		if deps := res.TransitiveDependents(spec.Name); len(deps) > 0 {
			rank[key] = position[strings.ToLower(deps[0])]
		} else {
			rank[key] = end
		}
	}

	out := append([]*model.ParameterSpec(nil), specs...)
	sort.SliceStable(out, func(i, j int) bool {
		ki, kj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if rank[ki] != rank[kj] {
			return rank[ki] < rank[kj]
		}
		// A static sharing its slot with a dependent is asked first.
		return static[ki] && !static[kj]
	})
	return out
}

// currentChoices returns the choice list to present: the latest execution
// result for data-source-backed parameters, the declared static list
// otherwise.
func currentChoices(ctl *cascade.Controller, spec *model.ParameterSpec) []string {
	if spec.HasSource() {
		if res, ok := ctl.Result(spec.Name); ok {
			return res.Choices
		}
		return nil
	}
	return spec.StaticChoices
}

// buildField maps a parameter to a huh field: a select when choices exist, a
// free-text input otherwise.
func buildField(spec *model.ParameterSpec, choices []string, selection *string) huh.Field {
	if len(choices) > 0 {
		return huh.NewSelect[string]().
			Title(spec.Title()).
			Options(huh.NewOptions(choices...)...).
			Value(selection)
	}
	return huh.NewInput().
		Title(spec.Title()).
		Value(selection)
}

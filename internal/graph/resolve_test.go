package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/formgridgo/internal/model"
	"github.com/vk/formgridgo/internal/registry"
	"github.com/vk/formgridgo/internal/testutil"
)

func computedSpec(name string, deps ...string) *model.ParameterSpec {
	return &model.ParameterSpec{Name: name, Kind: model.SourceComputed, Script: "true", DependsOn: deps}
}

func staticSpec(name string, deps ...string) *model.ParameterSpec {
	return &model.ParameterSpec{Name: name, Kind: model.SourceNone, DependsOn: deps}
}

func buildRegistry(t *testing.T, specs ...*model.ParameterSpec) *registry.Registry {
	t.Helper()
	r := registry.New()
	require.NoError(t, r.RegisterAll(specs))
	return r
}

func TestResolveOrder(t *testing.T) {
	ctx := testutil.Context(t)

	t.Run("dependencies precede dependents", func(t *testing.T) {
		reg := buildRegistry(t,
			computedSpec("server", "region"),
			computedSpec("region", "environment"),
			computedSpec("environment"),
		)

		res, err := Resolve(ctx, reg)
		require.NoError(t, err)
		assert.Equal(t, []string{"environment", "region", "server"}, res.Order())
	})

	t.Run("unconstrained parameters keep registration order", func(t *testing.T) {
		reg := buildRegistry(t,
			computedSpec("zeta"),
			computedSpec("alpha"),
			computedSpec("mike"),
		)

		res, err := Resolve(ctx, reg)
		require.NoError(t, err)
		assert.Equal(t, []string{"zeta", "alpha", "mike"}, res.Order())
	})

	t.Run("resolving twice yields identical order", func(t *testing.T) {
		reg := buildRegistry(t,
			computedSpec("d", "b", "c"),
			computedSpec("c", "a"),
			computedSpec("b", "a"),
			computedSpec("a"),
		)

		first, err := Resolve(ctx, reg)
		require.NoError(t, err)
		second, err := Resolve(ctx, reg)
		require.NoError(t, err)
		assert.Equal(t, first.Order(), second.Order())
	})

	t.Run("static dependencies are ignored for ordering", func(t *testing.T) {
		reg := buildRegistry(t,
			computedSpec("region", "environment"),
			staticSpec("environment"),
		)

		res, err := Resolve(ctx, reg)
		require.NoError(t, err)
		assert.Equal(t, []string{"region"}, res.Order())
		assert.Empty(t, res.Warnings())
	})

	t.Run("dependency name matching is case-insensitive", func(t *testing.T) {
		reg := buildRegistry(t,
			computedSpec("Region", "ENVIRONMENT"),
			computedSpec("Environment"),
		)

		res, err := Resolve(ctx, reg)
		require.NoError(t, err)
		assert.Equal(t, []string{"Environment", "Region"}, res.Order())
	})
}

func TestResolveCycles(t *testing.T) {
	ctx := testutil.Context(t)

	t.Run("direct cycle is detected and named", func(t *testing.T) {
		reg := buildRegistry(t,
			computedSpec("a", "b"),
			computedSpec("b", "a"),
		)

		_, err := Resolve(ctx, reg)
		var cycleErr *CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.NotEmpty(t, cycleErr.Parameter)
		assert.Contains(t, err.Error(), "cyclic dependency")
	})

	t.Run("longer cycle is detected", func(t *testing.T) {
		reg := buildRegistry(t,
			computedSpec("a", "c"),
			computedSpec("b", "a"),
			computedSpec("c", "b"),
		)

		_, err := Resolve(ctx, reg)
		var cycleErr *CycleError
		require.ErrorAs(t, err, &cycleErr)
	})

	t.Run("acyclic graph resolves", func(t *testing.T) {
		reg := buildRegistry(t,
			computedSpec("a"),
			computedSpec("b", "a"),
			computedSpec("c", "a", "b"),
		)

		_, err := Resolve(ctx, reg)
		assert.NoError(t, err)
	})
}

func TestResolveUnknownDependencies(t *testing.T) {
	ctx := testutil.Context(t)

	reg := buildRegistry(t, computedSpec("region", "nonexistent"))
	res, err := Resolve(ctx, reg)
	require.NoError(t, err)

	warnings := res.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "nonexistent")
	assert.Equal(t, []string{"region"}, res.Order())
}

func TestTransitiveDependents(t *testing.T) {
	ctx := testutil.Context(t)

	reg := buildRegistry(t,
		computedSpec("a"),
		computedSpec("b", "a"),
		computedSpec("c", "b"),
		computedSpec("d"),
	)

	res, err := Resolve(ctx, reg)
	require.NoError(t, err)

	t.Run("chain is returned in execution order", func(t *testing.T) {
		assert.Equal(t, []string{"b", "c"}, res.TransitiveDependents("a"))
	})

	t.Run("leaf has no dependents", func(t *testing.T) {
		assert.Empty(t, res.TransitiveDependents("c"))
		assert.Empty(t, res.TransitiveDependents("d"))
	})

	t.Run("changed parameter never includes itself", func(t *testing.T) {
		deps := res.TransitiveDependents("a")
		assert.NotContains(t, deps, "a")
	})

	t.Run("static parameters still trigger dependents", func(t *testing.T) {
		reg := buildRegistry(t,
			staticSpec("env"),
			computedSpec("region", "env"),
		)
		res, err := Resolve(ctx, reg)
		require.NoError(t, err)
		assert.Equal(t, []string{"region"}, res.TransitiveDependents("env"))
	})
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParameterSpecValidate(t *testing.T) {
	t.Run("valid computed spec", func(t *testing.T) {
		spec := &ParameterSpec{Name: "region", Kind: SourceComputed, Script: "echo hi", DependsOn: []string{"environment"}}
		assert.NoError(t, spec.Validate())
	})

	t.Run("empty name rejected", func(t *testing.T) {
		spec := &ParameterSpec{Name: "  "}
		assert.ErrorContains(t, spec.Validate(), "must not be empty")
	})

	t.Run("direct self-dependency rejected", func(t *testing.T) {
		spec := &ParameterSpec{Name: "region", Kind: SourceComputed, Script: "x", DependsOn: []string{"Region"}}
		assert.ErrorContains(t, spec.Validate(), "depends on itself")
	})

	t.Run("computed without script rejected", func(t *testing.T) {
		spec := &ParameterSpec{Name: "region", Kind: SourceComputed}
		assert.ErrorContains(t, spec.Validate(), "no script")
	})

	t.Run("tabular without column rejected", func(t *testing.T) {
		spec := &ParameterSpec{Name: "server", Kind: SourceTabular, TablePath: "servers.csv"}
		assert.ErrorContains(t, spec.Validate(), "no column")
	})
}

func TestSnapshot(t *testing.T) {
	t.Run("keys are case-insensitive", func(t *testing.T) {
		snap := NewSnapshot()
		snap.Set("Environment", cty.StringVal("Development"))

		v, ok := snap.Get("environment")
		require.True(t, ok)
		assert.Equal(t, "Development", v.AsString())

		v, ok = snap.Get("ENVIRONMENT")
		require.True(t, ok)
		assert.Equal(t, "Development", v.AsString())
	})

	t.Run("view narrows to requested names", func(t *testing.T) {
		snap := NewSnapshot()
		snap.Set("a", cty.StringVal("1"))
		snap.Set("b", cty.StringVal("2"))
		snap.Set("c", cty.StringVal("3"))

		view := snap.View([]string{"A", "c", "missing"})
		assert.Len(t, view, 2)
		assert.Equal(t, "1", view["a"].AsString())
		assert.Equal(t, "3", view["c"].AsString())
	})

	t.Run("len counts distinct case-insensitive keys", func(t *testing.T) {
		snap := NewSnapshot()
		snap.Set("Environment", cty.StringVal("x"))
		snap.Set("environment", cty.StringVal("y"))
		snap.Set("region", cty.StringVal("z"))
		assert.Equal(t, 2, snap.Len())
	})

	t.Run("view omits unknown names instead of failing", func(t *testing.T) {
		snap := NewSnapshot()
		view := snap.View([]string{"never-set"})
		assert.Empty(t, view)
	})
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "hello", ValueString(cty.StringVal("hello")))
	assert.Equal(t, "true", ValueString(cty.True))
	assert.Equal(t, "false", ValueString(cty.False))
	assert.Equal(t, "42", ValueString(cty.NumberIntVal(42)))
	assert.Equal(t, "", ValueString(cty.NullVal(cty.String)))
	assert.Equal(t, "", ValueString(cty.NilVal))
	assert.Equal(t, "a,b", ValueString(cty.ListVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")})))
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())
	assert.Equal(t, 1000, opts.MaxResults)

	opts.MaxResults = 0
	assert.ErrorContains(t, opts.Validate(), "max results")

	opts = DefaultOptions()
	opts.Timeout = 0
	assert.ErrorContains(t, opts.Validate(), "timeout")
}

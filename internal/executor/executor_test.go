package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/formgridgo/internal/model"
	"github.com/vk/formgridgo/internal/testutil"
)

// fakeRunner adapts a function to the ScriptRunner interface.
type fakeRunner struct {
	fn func(ctx context.Context, script string, inputs map[string]cty.Value) ([]any, error)
}

func (f *fakeRunner) Run(ctx context.Context, script string, inputs map[string]cty.Value) ([]any, error) {
	return f.fn(ctx, script, inputs)
}

func computedSpec(name, script string, deps ...string) *model.ParameterSpec {
	return &model.ParameterSpec{Name: name, Kind: model.SourceComputed, Script: script, DependsOn: deps}
}

func testOptions() *model.Options {
	opts := model.DefaultOptions()
	opts.Timeout = 200 * time.Millisecond
	return opts
}

func TestComputedExecution(t *testing.T) {
	ctx := testutil.Context(t)

	t.Run("returns raw values on success", func(t *testing.T) {
		runner := &fakeRunner{fn: func(_ context.Context, _ string, _ map[string]cty.Value) ([]any, error) {
			return []any{"US-Dev", "EU-Dev"}, nil
		}}
		e := New(testOptions(), runner)

		raw, elapsed, err := e.Execute(ctx, computedSpec("region", "list-regions"), nil)
		require.NoError(t, err)
		assert.Equal(t, []any{"US-Dev", "EU-Dev"}, raw)
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
	})

	t.Run("binds only declared dependencies present in the snapshot", func(t *testing.T) {
		var got map[string]cty.Value
		runner := &fakeRunner{fn: func(_ context.Context, _ string, inputs map[string]cty.Value) ([]any, error) {
			got = inputs
			return nil, nil
		}}
		e := New(testOptions(), runner)

		snap := map[string]cty.Value{
			"environment": cty.StringVal("Development"),
			"unrelated":   cty.StringVal("nope"),
		}
		_, _, err := e.Execute(ctx, computedSpec("region", "x", "environment", "missing"), snap)
		require.NoError(t, err)

		require.Len(t, got, 1)
		assert.Equal(t, "Development", got["environment"].AsString())
	})

	t.Run("failure carries parameter name and supplied inputs", func(t *testing.T) {
		runner := &fakeRunner{fn: func(_ context.Context, _ string, _ map[string]cty.Value) ([]any, error) {
			return nil, errors.New("boom")
		}}
		e := New(testOptions(), runner)

		snap := map[string]cty.Value{"environment": cty.StringVal("Production")}
		_, _, err := e.Execute(ctx, computedSpec("region", "x", "environment"), snap)

		var execErr *ExecError
		require.ErrorAs(t, err, &execErr)
		assert.Equal(t, "region", execErr.Parameter)
		assert.Equal(t, "Production", execErr.Inputs["environment"])
		assert.Contains(t, err.Error(), `environment="Production"`)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("timeout abandons the worker and returns promptly", func(t *testing.T) {
		release := make(chan struct{})
		runner := &fakeRunner{fn: func(ctx context.Context, _ string, _ map[string]cty.Value) ([]any, error) {
			// Ignores cancellation until released, like an arbitrary
			// external computation would.
			<-release
			return []any{"late"}, nil
		}}
		opts := testOptions()
		opts.Timeout = 50 * time.Millisecond
		e := New(opts, runner)

		start := time.Now()
		_, _, err := e.Execute(ctx, computedSpec("slow", "sleep"), nil)
		waited := time.Since(start)
		close(release)

		var timeoutErr *TimeoutError
		require.ErrorAs(t, err, &timeoutErr)
		assert.Equal(t, "slow", timeoutErr.Parameter)
		assert.Equal(t, opts.Timeout, timeoutErr.Budget)
		assert.Less(t, waited, 2*time.Second)
	})

	t.Run("canceled context fails the call", func(t *testing.T) {
		runner := &fakeRunner{fn: func(ctx context.Context, _ string, _ map[string]cty.Value) ([]any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}}
		e := New(testOptions(), runner)

		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err := e.Execute(cancelCtx, computedSpec("p", "x"), nil)
		require.Error(t, err)
	})
}

func TestExecuteRejectsSourcelessSpec(t *testing.T) {
	ctx := testutil.Context(t)
	e := New(testOptions(), &fakeRunner{fn: func(context.Context, string, map[string]cty.Value) ([]any, error) {
		return nil, nil
	}})

	_, _, err := e.Execute(ctx, &model.ParameterSpec{Name: "static", Kind: model.SourceNone}, nil)
	assert.ErrorContains(t, err, "no data source")
}

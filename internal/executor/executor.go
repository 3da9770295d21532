// Package executor runs a single parameter's data source under the session's
// execution budget and returns the raw, not-yet-normalized values.
//
// The source kind is a closed tagged union: dispatch is a single switch, not
// polymorphism. Every source runs on a dedicated worker goroutine while the
// calling goroutine blocks on a deadline-bounded channel; on timeout the
// worker is abandoned with a best-effort context cancellation, since neither
// an arbitrary external computation nor a stalled filesystem read can be
// assumed to honor it.
package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/formgridgo/internal/ctxlog"
	"github.com/vk/formgridgo/internal/model"
)

// ScriptRunner executes the opaque script text of a computed source in the
// host's trusted, already-isolated execution context. The dependency values
// are bound as named inputs. Implementations should respect ctx cancellation
// where they can, but the executor does not rely on it.
type ScriptRunner interface {
	Run(ctx context.Context, script string, inputs map[string]cty.Value) ([]any, error)
}

// Executor executes data sources for one session. Options are read-only after
// construction.
type Executor struct {
	opts   *model.Options
	runner ScriptRunner
}

// New creates an Executor with the given options and computed-source runner.
func New(opts *model.Options, runner ScriptRunner) *Executor {
	return &Executor{opts: opts, runner: runner}
}

// outcome passes a worker's result through the done channel.
type outcome struct {
	values []any
	err    error
}

// Execute runs one parameter's data source with the narrowed value snapshot
// and returns the raw values and the elapsed time. Failures are typed:
// TimeoutError, ExecError, SourceNotFoundError or SchemaError.
func (e *Executor) Execute(ctx context.Context, spec *model.ParameterSpec, snap map[string]cty.Value) ([]any, time.Duration, error) {
	switch spec.Kind {
	case model.SourceComputed:
		return e.runComputed(ctx, spec, snap)
	case model.SourceTabular:
		return e.runTabular(ctx, spec, snap)
	default:
		return nil, 0, fmt.Errorf("parameter %q has no data source", spec.Name)
	}
}

// runComputed dispatches the script to the deadline-bounded worker.
func (e *Executor) runComputed(ctx context.Context, spec *model.ParameterSpec, snap map[string]cty.Value) ([]any, time.Duration, error) {
	logger := ctxlog.FromContext(ctx).With("parameter", spec.Name, "kind", "computed")

	inputs := e.bindInputs(ctx, spec, snap)
	diag := displayInputs(inputs)

	values, elapsed, err := e.bounded(ctx, spec, diag, func(runCtx context.Context) ([]any, error) {
		values, err := e.runner.Run(runCtx, spec.Script, inputs)
		if err != nil {
			return nil, &ExecError{Parameter: spec.Name, Inputs: diag, Cause: err}
		}
		return values, nil
	})
	if err != nil {
		return nil, elapsed, err
	}
	logger.Debug("Computed source finished.", "values", len(values), "elapsed", elapsed)
	return values, elapsed, nil
}

// bounded runs work on a worker goroutine and waits with a hard deadline.
// Typed errors from work pass through untouched; bounded only contributes the
// TimeoutError and the cancellation ExecError.
func (e *Executor) bounded(ctx context.Context, spec *model.ParameterSpec, diag map[string]string, work func(ctx context.Context) ([]any, error)) ([]any, time.Duration, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan outcome, 1)
	go func() {
		values, err := work(runCtx)
		done <- outcome{values: values, err: err}
	}()

	timer := time.NewTimer(e.opts.Timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		cancel()
		elapsed := time.Since(start)
		if out.err != nil {
			return nil, elapsed, out.err
		}
		return out.values, elapsed, nil

	case <-timer.C:
		// Abandon the worker: signal cancellation but do not wait for
		// cooperative shutdown.
		cancel()
		elapsed := time.Since(start)
		logger.Warn("Data source exceeded its budget, abandoning worker.",
			"parameter", spec.Name, "elapsed", elapsed, "budget", e.opts.Timeout)
		return nil, elapsed, &TimeoutError{Parameter: spec.Name, Elapsed: elapsed, Budget: e.opts.Timeout}

	case <-ctx.Done():
		cancel()
		return nil, time.Since(start), &ExecError{
			Parameter: spec.Name,
			Inputs:    diag,
			Cause:     ctx.Err(),
		}
	}
}

// bindInputs narrows the snapshot to the declared dependencies. A declared
// dependency missing from the snapshot is omitted rather than failing the
// call, but the omission is logged.
func (e *Executor) bindInputs(ctx context.Context, spec *model.ParameterSpec, snap map[string]cty.Value) map[string]cty.Value {
	logger := ctxlog.FromContext(ctx)
	inputs := make(map[string]cty.Value, len(spec.DependsOn))
	for _, dep := range spec.DependsOn {
		key := strings.ToLower(dep)
		if v, ok := snap[key]; ok {
			inputs[key] = v
			continue
		}
		logger.Info("Dependency has no value yet, omitting binding.", "parameter", spec.Name, "dependency", dep)
	}
	return inputs
}

// displayInputs renders the bound values for diagnostics.
func displayInputs(inputs map[string]cty.Value) map[string]string {
	out := make(map[string]string, len(inputs))
	for name, v := range inputs {
		out[name] = model.ValueString(v)
	}
	return out
}

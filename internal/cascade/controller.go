package cascade

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/formgridgo/internal/ctxlog"
	"github.com/vk/formgridgo/internal/executor"
	"github.com/vk/formgridgo/internal/graph"
	"github.com/vk/formgridgo/internal/model"
	"github.com/vk/formgridgo/internal/registry"
	"github.com/vk/formgridgo/internal/results"
)

// Controller owns the value snapshot and per-parameter execution state for
// one form session. It is torn down with the session; nothing persists.
type Controller struct {
	sessionID string
	reg       *registry.Registry
	res       *graph.Resolution
	exec      *executor.Executor
	opts      *model.Options
	publisher Publisher

	snap   *model.Snapshot
	states map[string]State
	last   map[string]*results.Result

	// cascading guards against re-entrant refreshes: a change arriving while
	// a cascade pass is in flight is queued and coalesced, not run inline.
	cascading bool
	queue     []change
}

// change is a queued value edit awaiting an outstanding cascade pass.
type change struct {
	name  string
	value cty.Value
}

// New creates a controller for one session. The publisher receives a
// choice-list update after every execution.
func New(reg *registry.Registry, res *graph.Resolution, exec *executor.Executor, opts *model.Options, publisher Publisher) *Controller {
	return &Controller{
		sessionID: uuid.NewString(),
		reg:       reg,
		res:       res,
		exec:      exec,
		opts:      opts,
		publisher: publisher,
		snap:      model.NewSnapshot(),
		states:    make(map[string]State),
		last:      make(map[string]*results.Result),
	}
}

// SessionID returns the unique identifier of this controller instance.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Snapshot exposes the live value snapshot. Only the controlling goroutine
// may touch it; the caller writes user edits here before signaling a change.
func (c *Controller) Snapshot() *model.Snapshot {
	return c.snap
}

// State returns a parameter's current lifecycle state.
func (c *Controller) State(name string) State {
	return c.states[strings.ToLower(name)]
}

// Result returns the last published result for a parameter, if any.
func (c *Controller) Result(name string) (*results.Result, bool) {
	r, ok := c.last[strings.ToLower(name)]
	return r, ok
}

// PopulateAll performs the initial population pass: static defaults are
// seeded first, then every data-source-backed parameter executes in resolved
// order, each seeing the values its ancestors just produced.
func (c *Controller) PopulateAll(ctx context.Context) {
	ctx = ctxlog.With(ctx, "session", c.sessionID)
	logger := ctxlog.FromContext(ctx)

	for _, spec := range c.reg.All() {
		if !spec.HasSource() && spec.Default != "" {
			c.snap.Set(spec.Name, cty.StringVal(spec.Default))
		}
	}
	logger.Info("Starting initial form population.",
		"parameters", len(c.res.Order()), "static_defaults", c.snap.Len())

	c.cascading = true
	for _, name := range c.res.Order() {
		c.runOne(ctx, name)
	}
	c.cascading = false
	c.drain(ctx)

	logger.Info("Initial form population finished.")
}

// ValueChanged reports that a parameter's value changed, by user edit or a
// prior cascade step, and re-executes the transitive dependents strictly
// sequentially. A change arriving mid-cascade is coalesced: only the most
// recent triggering value is honored once the outstanding pass completes.
func (c *Controller) ValueChanged(ctx context.Context, name string, value cty.Value) {
	ctx = ctxlog.With(ctx, "session", c.sessionID)
	if c.cascading {
		c.queue = append(c.queue, change{name: name, value: value})
		return
	}
	c.processChange(ctx, name, value)
	c.drain(ctx)
}

// processChange applies one value edit and runs its cascade pass.
func (c *Controller) processChange(ctx context.Context, name string, value cty.Value) {
	logger := ctxlog.FromContext(ctx)
	c.snap.Set(name, value)

	dependents := c.res.TransitiveDependents(name)
	if len(dependents) == 0 {
		logger.Debug("Value changed with no dependents, nothing to do.", "parameter", name)
		return
	}
	logger.Info("Value changed, cascading.", "parameter", name, "dependents", dependents)

	c.cascading = true
	for _, dep := range dependents {
		// Each member executes against the snapshot as it exists right now,
		// so a parameter two hops downstream sees the freshly recomputed
		// value of the one in between.
		c.runOne(ctx, dep)
	}
	c.cascading = false
}

// drain works through changes queued during a cascade pass, coalescing
// repeated edits of the same parameter down to the latest value.
func (c *Controller) drain(ctx context.Context) {
	for len(c.queue) > 0 {
		pending := coalesce(c.queue)
		c.queue = nil
		for _, ch := range pending {
			c.processChange(ctx, ch.name, ch.value)
		}
	}
}

// coalesce keeps one entry per parameter, the latest value, at the position
// of its last arrival.
func coalesce(queue []change) []change {
	index := make(map[string]int)
	var out []change
	for _, ch := range queue {
		key := strings.ToLower(ch.name)
		if i, seen := index[key]; seen {
			out = append(out[:i], out[i+1:]...)
			for k, j := range index {
				if j > i {
					index[k] = j - 1
				}
			}
		}
		index[key] = len(out)
		out = append(out, ch)
	}
	return out
}

// runOne executes a single parameter's data source, processes the result,
// records the effective value for downstream dependents, and publishes the
// choice list. A failure never halts the cascade: the parameter publishes a
// single error entry and later members still run with whatever snapshot
// entries exist.
func (c *Controller) runOne(ctx context.Context, name string) {
	logger := ctxlog.FromContext(ctx)

	spec, ok := c.reg.Lookup(name)
	if !ok || !spec.HasSource() {
		return
	}
	key := strings.ToLower(spec.Name)
	c.states[key] = Resolving

	view := c.snap.View(spec.DependsOn)
	raw, elapsed, err := c.exec.Execute(ctx, spec, view)
	if err != nil {
		c.states[key] = Failed
		logger.Error("Data source failed.",
			"parameter", spec.Name, "elapsed", elapsed, "error", err)
		res := &results.Result{
			Choices: []string{"Error: " + err.Error()},
			Elapsed: elapsed,
		}
		c.last[key] = res
		c.publish(ctx, Update{Parameter: spec.Name, Choices: res.Choices, Failed: true})
		return
	}

	res := results.Process(raw, elapsed, c.opts)
	c.states[key] = Resolved
	c.last[key] = res
	for _, w := range res.Warnings {
		logger.Warn("Data source advisory.", "parameter", spec.Name, "warning", w)
	}

	if chosen, ok := c.effectiveValue(spec, res.Choices); ok {
		c.snap.Set(spec.Name, cty.StringVal(chosen))
	}

	c.publish(ctx, Update{Parameter: spec.Name, Choices: res.Choices, Warnings: res.Warnings})
}

// effectiveValue picks the value seeded for downstream dependents: the
// current selection when it survived the refresh, otherwise the declared
// default when present in the result set, otherwise the first result.
func (c *Controller) effectiveValue(spec *model.ParameterSpec, choices []string) (string, bool) {
	if len(choices) == 0 {
		return "", false
	}
	if current, ok := c.snap.Get(spec.Name); ok {
		if s := model.ValueString(current); containsString(choices, s) {
			return s, true
		}
	}
	if spec.Default != "" && containsString(choices, spec.Default) {
		return spec.Default, true
	}
	return choices[0], true
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// publish hands the update to the host. Publisher panics or slowness are the
// host's concern; the controller only requires that Publish returns.
func (c *Controller) publish(ctx context.Context, update Update) {
	if c.publisher == nil {
		return
	}
	c.publisher.Publish(ctx, update)
}

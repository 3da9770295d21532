package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vk/formgridgo/internal/cascade"
	"github.com/vk/formgridgo/internal/ctxlog"
	"github.com/vk/formgridgo/internal/executor"
	"github.com/vk/formgridgo/internal/model"
	"github.com/vk/formgridgo/internal/wizard"
	"github.com/vk/formgridgo/modules/choicefeed"
	"github.com/vk/formgridgo/modules/shellscript"
)

// feedConnectTimeout bounds the initial choice-feed handshake; it is not the
// per-parameter execution budget.
const feedConnectTimeout = 10 * time.Second

// Run executes the main application logic based on the loaded configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	runner := shellscript.New(a.config.Shell)
	exec := executor.New(a.opts, runner)

	publisher, closeFeed, err := a.buildPublisher(ctx)
	if err != nil {
		return err
	}
	defer closeFeed()

	ctl := cascade.New(a.registry, a.res, exec, a.opts, publisher)
	a.logger.Info("Starting form session.", "session", ctl.SessionID())

	ctl.PopulateAll(ctx)

	if a.config.Interactive {
		selections, err := wizard.Run(ctx, ctl, a.registry, a.res)
		if err != nil {
			return err
		}
		a.printSelections(selections)
		return nil
	}

	a.printChoices(ctl)
	a.logger.Debug("App.Run method finished.")
	return nil
}

// buildPublisher composes the logging publisher with the optional socket.io
// choice feed. The returned closer is a no-op when no feed is configured.
func (a *App) buildPublisher(ctx context.Context) (cascade.Publisher, func(), error) {
	logPublisher := cascade.PublisherFunc(func(ctx context.Context, update cascade.Update) {
		ctxlog.FromContext(ctx).Info("Choice list updated.",
			"parameter", update.Parameter,
			"choices", len(update.Choices),
			"failed", update.Failed)
	})

	if a.config.FeedURL == "" {
		return logPublisher, func() {}, nil
	}

	feed, err := choicefeed.Dial(ctx, a.config.FeedURL, feedConnectTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect choice feed: %w", err)
	}
	combined := cascade.PublisherFunc(func(ctx context.Context, update cascade.Update) {
		logPublisher.Publish(ctx, update)
		feed.Publish(ctx, update)
	})
	return combined, feed.Close, nil
}

// printChoices writes every parameter's resolved choice list to the output
// writer, in declaration order.
func (a *App) printChoices(ctl *cascade.Controller) {
	for _, spec := range a.registry.All() {
		var choices []string
		var warnings []string
		if spec.HasSource() {
			if res, ok := ctl.Result(spec.Name); ok {
				choices = res.Choices
				warnings = res.Warnings
			}
		} else {
			choices = spec.StaticChoices
		}

		fmt.Fprintf(a.outW, "%s: [%s]\n", spec.Name, strings.Join(choices, ", "))
		for _, w := range warnings {
			fmt.Fprintf(a.outW, "  warning: %s\n", w)
		}
		if v, ok := ctl.Snapshot().Get(spec.Name); ok {
			fmt.Fprintf(a.outW, "  value: %s\n", model.ValueString(v))
		}
	}
}

// printSelections writes the wizard's final selections in declaration order.
func (a *App) printSelections(selections map[string]string) {
	for _, spec := range a.registry.All() {
		if v, ok := selections[spec.Name]; ok {
			fmt.Fprintf(a.outW, "%s = %s\n", spec.Name, v)
		}
	}
}

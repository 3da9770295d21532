// Package choicefeed publishes choice-list updates to a remote form host over
// socket.io, for deployments where the interactive surface runs out of
// process. The engine core stays transport-agnostic; this module is the one
// place that knows about the wire.
package choicefeed

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/formgridgo/internal/cascade"
	"github.com/vk/formgridgo/internal/ctxlog"
)

// EventName is the socket.io event carrying a choice-list update.
const EventName = "choices"

// Feed is a cascade.Publisher that emits every update to a socket.io server.
type Feed struct {
	io             *socket.Socket
	connectTimeout time.Duration
}

// payload is the wire shape of one update.
type payload struct {
	Parameter string   `json:"parameter"`
	Choices   []string `json:"choices"`
	Warnings  []string `json:"warnings,omitempty"`
	Failed    bool     `json:"failed,omitempty"`
}

// Dial connects to the feed endpoint over WebSocket and waits for the initial
// connection up to the given timeout.
func Dial(ctx context.Context, rawURL string, connectTimeout time.Duration) (*Feed, error) {
	logger := ctxlog.FromContext(ctx).With("feed_url", rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed URL: %w", err)
	}
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)

	opts := socket.DefaultOptions()
	opts.SetTransports(types.NewSet(transports.WebSocket))
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)

	// Once, not On: the handshake events may fire again on reconnect attempts,
	// and a second send would block the handler goroutine on the filled channel.
	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Choice feed connected.", "sid", io.Id())
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				connected <- err
				return
			}
		}
		connected <- fmt.Errorf("choice feed connection failed")
	})

	io.Connect()

	timer := time.NewTimer(connectTimeout)
	defer timer.Stop()
	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("choice feed connect error: %w", err)
		}
	case <-timer.C:
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for choice feed connection", connectTimeout)
	case <-ctx.Done():
		io.Disconnect()
		return nil, ctx.Err()
	}

	return &Feed{io: io, connectTimeout: connectTimeout}, nil
}

// Publish implements cascade.Publisher. Emission is fire-and-forget: a lost
// update is repaired by the next one, and the cascade must not block on the
// transport.
func (f *Feed) Publish(ctx context.Context, update cascade.Update) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Publishing choice update to feed.", "parameter", update.Parameter, "choices", len(update.Choices))
	f.io.Emit(EventName, payload{
		Parameter: update.Parameter,
		Choices:   update.Choices,
		Warnings:  update.Warnings,
		Failed:    update.Failed,
	})
}

// Close disconnects from the feed endpoint.
func (f *Feed) Close() {
	f.io.Disconnect()
}

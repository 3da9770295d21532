// Package testutil holds small helpers shared by package tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/vk/formgridgo/internal/ctxlog"
)

// Context returns a context carrying a discard logger, so code paths that
// require ctxlog do not panic in tests.
func Context(t *testing.T) context.Context {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

package model

import (
	"fmt"
	"time"
)

// Options is the per-engine execution configuration. It is created once,
// shared read-only by all executions of a session, and only ever swapped
// wholesale, never partially mutated mid-execution.
type Options struct {
	// Timeout is the hard execution budget for a single data source.
	Timeout time.Duration
	// MaxResults is the truncation ceiling applied by the result processor.
	MaxResults int
	// ProgressThreshold is the elapsed time past which a successful run
	// still earns a performance warning.
	ProgressThreshold time.Duration
}

// DefaultOptions returns the stock profile: 30s budget, 1000 results,
// 500ms slow-run threshold.
func DefaultOptions() *Options {
	return &Options{
		Timeout:           30 * time.Second,
		MaxResults:        1000,
		ProgressThreshold: 500 * time.Millisecond,
	}
}

// Validate rejects profiles that would make the engine spin or starve.
func (o *Options) Validate() error {
	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", o.Timeout)
	}
	if o.MaxResults <= 0 {
		return fmt.Errorf("max results must be positive, got %d", o.MaxResults)
	}
	if o.ProgressThreshold < 0 {
		return fmt.Errorf("progress threshold must not be negative, got %s", o.ProgressThreshold)
	}
	return nil
}

package executor

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TimeoutError reports that a computed source exceeded its execution budget.
// The worker is abandoned; only the wait stops.
type TimeoutError struct {
	Parameter string
	Elapsed   time.Duration
	Budget    time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("data source for parameter %q timed out after %s (budget %s)",
		e.Parameter, e.Elapsed.Round(time.Millisecond), e.Budget)
}

// ExecError reports a failed computation. It carries the dependency values
// that were supplied so a human can reproduce the failure outside the form.
type ExecError struct {
	Parameter string
	Inputs    map[string]string
	Cause     error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("data source for parameter %q failed with inputs [%s]: %v",
		e.Parameter, renderInputs(e.Inputs), e.Cause)
}

func (e *ExecError) Unwrap() error { return e.Cause }

// SourceNotFoundError reports a tabular source whose table file could not be
// located. Candidates lists every path that was tried.
type SourceNotFoundError struct {
	Parameter  string
	Candidates []string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("table for parameter %q not found, tried: %s",
		e.Parameter, strings.Join(e.Candidates, ", "))
}

// SchemaError reports a tabular source whose target column does not exist.
// Available enumerates the columns that were found, to speed diagnosis.
type SchemaError struct {
	Parameter string
	Column    string
	Available []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table for parameter %q has no column %q (found: %s)",
		e.Parameter, e.Column, strings.Join(e.Available, ", "))
}

// renderInputs formats supplied dependency values as a stable name="value" list.
func renderInputs(inputs map[string]string) string {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%q", name, inputs[name]))
	}
	return strings.Join(parts, " ")
}

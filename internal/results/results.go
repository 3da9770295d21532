// Package results normalizes raw data-source output into the final choice
// list: one level of flattening, display-string conversion, empty filtering,
// truncation to the configured ceiling, and advisory warnings.
package results

import (
	"fmt"
	"strings"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/formgridgo/internal/model"
)

// Result is the processed outcome of one data-source execution. It is a value
// type: produced fresh on every execution and never mutated after return.
type Result struct {
	// Choices is the ordered, possibly truncated list of display strings.
	Choices []string
	// Elapsed is the wall-clock execution time of the data source.
	Elapsed time.Duration
	// Warnings carries advisory diagnostics: filtered empties, truncation,
	// slow execution, no results.
	Warnings []string
}

// Process converts raw candidate values into a Result under the given options.
func Process(raw []any, elapsed time.Duration, opts *model.Options) *Result {
	res := &Result{Elapsed: elapsed}

	flat := flatten(raw)

	dropped := 0
	for _, v := range flat {
		s := displayString(v)
		if strings.TrimSpace(s) == "" {
			dropped++
			continue
		}
		res.Choices = append(res.Choices, s)
	}

	if dropped > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("filtered %d empty values", dropped))
	}

	if len(res.Choices) > opts.MaxResults {
		total := len(res.Choices)
		res.Choices = res.Choices[:opts.MaxResults]
		res.Warnings = append(res.Warnings, fmt.Sprintf("truncated from %d to %d results", total, opts.MaxResults))
	}

	if len(res.Choices) == 0 {
		res.Warnings = append(res.Warnings, "no results")
	}

	if elapsed > opts.ProgressThreshold {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("slow data source: took %s (threshold %s)",
				elapsed.Round(time.Millisecond), opts.ProgressThreshold))
	}

	return res
}

// flatten expands one level of nested sequences. Ad hoc scripts commonly emit
// a sequence of sequences; deeper nesting stays as-is and stringifies.
func flatten(raw []any) []any {
	out := make([]any, 0, len(raw))
	for _, v := range raw {
		switch vv := v.(type) {
		case []any:
			out = append(out, vv...)
		case []string:
			for _, s := range vv {
				out = append(out, s)
			}
		default:
			out = append(out, v)
		}
	}
	return out
}

// displayString converts one raw element to its display form.
func displayString(v any) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case cty.Value:
		return model.ValueString(vv)
	case fmt.Stringer:
		return vv.String()
	default:
		return fmt.Sprintf("%v", vv)
	}
}

package graph

import (
	"fmt"
	"strings"
)

// CycleError reports a cyclic dependency between data-source-backed
// parameters. Parameter names the node that closed the cycle; Stack holds the
// traversal path at the moment of detection, for an actionable diagnostic.
type CycleError struct {
	Parameter string
	Stack     []string
}

func (e *CycleError) Error() string {
	if len(e.Stack) == 0 {
		return fmt.Sprintf("cyclic dependency detected involving parameter %q", e.Parameter)
	}
	return fmt.Sprintf("cyclic dependency detected involving parameter %q (path: %s)",
		e.Parameter, strings.Join(append(e.Stack, e.Parameter), " -> "))
}

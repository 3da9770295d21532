// Package shellscript is the default computed-source runner: it executes the
// opaque script text with the system shell, dependency values exported as
// FORM_<NAME> environment variables, and turns stdout lines into raw result
// values. It is assumed to run in a trusted, already-isolated context
// supplied by the host; the engine provides no sandbox of its own.
package shellscript

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/formgridgo/internal/ctxlog"
	"github.com/vk/formgridgo/internal/model"
)

// Runner executes computed sources via `<shell> -c <script>`.
type Runner struct {
	// Shell is the interpreter binary, /bin/sh when empty.
	Shell string
}

// New creates a Runner using the given shell, or /bin/sh when empty.
func New(shell string) *Runner {
	if shell == "" {
		shell = "/bin/sh"
	}
	return &Runner{Shell: shell}
}

// Run implements executor.ScriptRunner. The command inherits the process
// environment plus one FORM_<NAME> variable per bound dependency. Stdout is
// split into lines; stderr is folded into the error on failure.
func (r *Runner) Run(ctx context.Context, script string, inputs map[string]cty.Value) ([]any, error) {
	logger := ctxlog.FromContext(ctx)

	cmd := exec.CommandContext(ctx, r.Shell, "-c", script)
	cmd.Env = append(os.Environ(), bindEnv(inputs)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Running computed source script.", "shell", r.Shell, "bindings", len(inputs))
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}

	// The trailing newline is line termination, not an empty value; interior
	// blank lines are left for the result processor to count and drop.
	out := strings.TrimRight(stdout.String(), "\n")
	if out == "" {
		return nil, nil
	}
	var values []any
	for _, line := range strings.Split(out, "\n") {
		values = append(values, line)
	}
	return values, nil
}

// bindEnv renders dependency values as FORM_<NAME>=<value> entries. Names are
// upper-cased with non-alphanumerics mapped to underscores so they stay valid
// environment identifiers.
func bindEnv(inputs map[string]cty.Value) []string {
	env := make([]string, 0, len(inputs))
	for name, v := range inputs {
		env = append(env, fmt.Sprintf("FORM_%s=%s", envName(name), model.ValueString(v)))
	}
	return env
}

func envName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - ('a' - 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	return mapped
}

// Package schema defines the HCL-facing structures of a form definition
// file. The loader decodes into these and translates them into the
// format-agnostic model.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// ScriptSource represents the `script` block of a computed parameter.
type ScriptSource struct {
	// Command is the opaque script text handed to the host's runner.
	Command string `hcl:"command"`
}

// TableSource represents the `table` block of a tabular parameter.
type TableSource struct {
	// Path locates the CSV table, absolute or relative to the declaring file.
	Path string `hcl:"path"`
	// Column names the projected column.
	Column string `hcl:"column"`
	// Filter is an optional per-row predicate. It is captured raw and
	// evaluated by the executor against `row.*` and `param.*` variables.
	Filter hcl.Expression `hcl:"filter,optional"`
}

// Param represents a `param` block from a user's form file.
type Param struct {
	Name      string        `hcl:"name,label"`
	Label     string        `hcl:"label,optional"`
	Default   string        `hcl:"default,optional"`
	Choices   []string      `hcl:"choices,optional"`
	DependsOn []string      `hcl:"depends_on,optional"`
	Script    *ScriptSource `hcl:"script,block"`
	Table     *TableSource  `hcl:"table,block"`
}

// FormConfig is the top-level structure of a form definition file.
type FormConfig struct {
	Params []*Param `hcl:"param,block"`
	Body   hcl.Body `hcl:",remain"`
}

package model

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// SourceKind identifies how a parameter's candidate choices are produced.
// The set is closed: the executor dispatches on it with a single switch.
type SourceKind int

const (
	// SourceNone marks a static parameter with caller-declared choices.
	SourceNone SourceKind = iota
	// SourceComputed marks a parameter backed by an opaque script.
	SourceComputed
	// SourceTabular marks a parameter backed by a CSV table lookup.
	SourceTabular
)

// String implements fmt.Stringer for log lines.
func (k SourceKind) String() string {
	switch k {
	case SourceComputed:
		return "computed"
	case SourceTabular:
		return "tabular"
	default:
		return "none"
	}
}

// ParameterSpec is the immutable declaration of a single form parameter.
// It is created once when the form is loaded and never mutated afterwards.
type ParameterSpec struct {
	// Name is the unique, case-insensitive identity of the parameter.
	Name string
	// Label is the human-facing title; defaults to Name when empty.
	Label string
	// DependsOn lists, in declaration order, the parameters whose values
	// this parameter's data source reads.
	DependsOn []string
	// Default is the caller-declared preferred value, if any.
	Default string
	// StaticChoices holds the fixed choice list for SourceNone parameters.
	StaticChoices []string

	Kind SourceKind

	// Script is the opaque computation text for SourceComputed.
	Script string

	// TablePath, TableColumn and RowFilter describe a SourceTabular lookup.
	// RowFilter is kept as a raw expression and evaluated per row.
	TablePath   string
	TableColumn string
	RowFilter   hcl.Expression

	// BaseDir is the directory of the declaring form file. Relative table
	// paths resolve against it.
	BaseDir string
}

// HasSource reports whether the parameter is data-source-backed and therefore
// participates in execution ordering and cascading.
func (s *ParameterSpec) HasSource() bool {
	return s.Kind != SourceNone
}

// Title returns the display label, falling back to the parameter name.
func (s *ParameterSpec) Title() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

// Validate checks the declaration-time invariants that do not require the
// rest of the registry: a non-empty name and no direct self-dependency.
func (s *ParameterSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("parameter name must not be empty")
	}
	for _, dep := range s.DependsOn {
		if strings.EqualFold(dep, s.Name) {
			return fmt.Errorf("parameter %q depends on itself", s.Name)
		}
	}
	switch s.Kind {
	case SourceComputed:
		if strings.TrimSpace(s.Script) == "" {
			return fmt.Errorf("parameter %q declares a computed source with no script", s.Name)
		}
	case SourceTabular:
		if s.TablePath == "" {
			return fmt.Errorf("parameter %q declares a tabular source with no path", s.Name)
		}
		if s.TableColumn == "" {
			return fmt.Errorf("parameter %q declares a tabular source with no column", s.Name)
		}
	}
	return nil
}

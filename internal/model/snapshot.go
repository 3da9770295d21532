package model

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Snapshot is the current best-known value for every parameter, keyed
// case-insensitively. It is owned by the cascade controller: workers never
// touch it directly and only ever receive the narrowed copy from View, so no
// locking is needed around it.
type Snapshot struct {
	values map[string]cty.Value
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{values: make(map[string]cty.Value)}
}

// Set records the value for a parameter, replacing any previous entry.
func (s *Snapshot) Set(name string, v cty.Value) {
	s.values[strings.ToLower(name)] = v
}

// Get returns the value for a parameter and whether one is known.
func (s *Snapshot) Get(name string) (cty.Value, bool) {
	v, ok := s.values[strings.ToLower(name)]
	return v, ok
}

// Len returns the number of known values.
func (s *Snapshot) Len() int {
	return len(s.values)
}

// View copies out the entries for the given names. Names with no known value
// are simply absent from the result; the executor logs the omission but must
// not fail because an upstream parameter has not been evaluated yet.
func (s *Snapshot) View(names []string) map[string]cty.Value {
	view := make(map[string]cty.Value, len(names))
	for _, name := range names {
		if v, ok := s.values[strings.ToLower(name)]; ok {
			view[strings.ToLower(name)] = v
		}
	}
	return view
}

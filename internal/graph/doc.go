// Package graph resolves the dependency graph of a registered form into a
// deterministic execution order, detects cycles, and answers transitive
// dependent queries for the cascade controller.
//
// Only data-source-backed parameters are ordered: a dependency on a static
// parameter never needs (re)execution and is ignored for ordering, though it
// still produces a cascade edge so static edits repopulate their dependents.
// Dependencies on names that were never registered are tolerated and reported
// as warnings, since the referencing script may simply find that variable
// undefined at runtime.
package graph

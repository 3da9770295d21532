// Package cascade orchestrates the end-to-end flow of a form session: the
// initial population of every data-source-backed parameter in resolved order,
// and the strictly sequential re-execution of transitive dependents whenever
// an upstream value changes.
//
// A single controlling goroutine drives the controller. Individual data
// sources run on their own workers, but never concurrently with each other
// within one cascade pass: downstream parameters require the exact dependency
// values their ancestors just produced, and serializing even independent
// siblings keeps the ordering guarantees trivially auditable.
package cascade

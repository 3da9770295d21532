// Package model holds the format-agnostic representation of an interactive
// form: parameter specifications, their data-source descriptors, the shared
// execution options, and the value snapshot that seeds dependent computations.
//
// The model deliberately knows nothing about HCL beyond the captured, raw
// filter expressions. Loaders translate their concrete syntax into these
// structures, and everything downstream (graph, executor, cascade) consumes
// only this package.
package model

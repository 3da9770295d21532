// Package app wires the engine together: configuration, logger, form
// loading, registry population, graph resolution, and the run loop (one-shot
// population or the interactive wizard).
package app

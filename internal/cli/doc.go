// Package cli parses command-line arguments into an app.Config. It owns the
// usage text and the ExitError convention used by the entrypoint.
package cli

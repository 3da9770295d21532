package registry

import "fmt"

// ConfigError reports a registration-time problem with a parameter spec.
// It is the one error class surfaced synchronously to the caller: an invalid
// batch cannot be partially resolved, so execution never starts.
type ConfigError struct {
	Parameter string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Parameter, e.Reason)
}

package recipe

import "errors"

// ErrInvalidConfiguration is matched by every *ConfigurationError
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ConfigurationError reports settings or options a recipe cannot build.
// It is raised before any build action runs.
type ConfigurationError struct {
	Recipe string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return e.Recipe + ": invalid configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidConfiguration) hold
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

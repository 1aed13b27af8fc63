package plan

import (
	"errors"
	"fmt"
)

// ConfigError is a structural configuration problem detected while a plan is
// being constructed: malformed pipeline preconditions, a publish source
// escaping the plan root, and the like. It always aborts construction at the
// point of detection — there is no partial plan to salvage and nothing to
// retry.
type ConfigError struct {
	msg string
}

// NewConfigError builds a ConfigError from a format string.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *ConfigError) Error() string { return e.msg }

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

package payment

import "fmt"

// ConfigError reports missing or unusable gateway configuration.
// It is an operator-level failure, never shown to the end user.
type ConfigError struct {
	message string
}

func (e *ConfigError) Error() string {
	return e.message
}

func errConfig(format string, a ...interface{}) error {
	return &ConfigError{message: fmt.Sprintf(format, a...)}
}

// ValidationError reports a rejected payment request from the caller side.
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func errValidation(format string, a ...interface{}) error {
	return &ValidationError{message: fmt.Sprintf(format, a...)}
}

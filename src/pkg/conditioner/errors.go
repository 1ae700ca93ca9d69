package conditioner

import "fmt"

// InvalidImageError is returned for nil, zero-area, or undecodable input.
type InvalidImageError struct {
	Reason string
	Err    error
}

func (e *InvalidImageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid image: %s: %v", e.Reason, e.Err)
	}
	return "invalid image: " + e.Reason
}

func (e *InvalidImageError) Unwrap() error { return e.Err }

// ConfigError names a conditioning parameter that is out of range.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("conditioner config: %s %s", e.Field, e.Reason)
}

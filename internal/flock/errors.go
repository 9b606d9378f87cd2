package flock

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a world or parameter value that cannot
	// produce meaningful motion.
	ErrInvalidConfig = errors.New("flock: invalid configuration")

	// ErrTargetsFull indicates the target set already holds one point per agent.
	ErrTargetsFull = errors.New("flock: target set is full")
)

// ConfigError names the offending field. It unwraps to ErrInvalidConfig.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("flock: invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func invalid(field string, value any, reason string) error {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}

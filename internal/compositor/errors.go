package compositor

import (
	"errors"
	"fmt"

	"github.com/san-kum/ledsim/internal/display"
)

var (
	// ErrInvalidConfig indicates a configuration rejected by New.
	ErrInvalidConfig = errors.New("compositor: invalid configuration")

	// ErrTerminated indicates an operation on a compositor that has stopped.
	ErrTerminated = errors.New("compositor: terminated")
)

// ConfigError names the offending configuration field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("compositor: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// SinkError wraps a display failure with the frame it happened on.
// The animation has already advanced when it is returned.
type SinkError struct {
	Op    display.Op
	Frame int
	Err   error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("compositor: frame %d: sink %s: %v", e.Frame, e.Op, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

type LifecycleError struct {
	Op    string
	State State
	Err   error
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("compositor: %s in state %s: %v", e.Op, e.State, e.Err)
}

func (e *LifecycleError) Unwrap() error {
	return e.Err
}

package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrEmptyBatch = errors.New("batch has no examples")
)

// ConfigError reports structurally invalid construction or training
// parameters: a shape with fewer than two layers, a non-positive neuron
// count, a dropout probability outside (0, 1], a bad batch size, and so
// on. The failing constraint is described in Detail.
type ConfigError struct {
	Detail string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Detail)
}

// UnknownActivationError reports an activation name with no registered
// implementation.
type UnknownActivationError struct {
	Name string // The name that failed to resolve
}

// Error implements the error interface.
func (e *UnknownActivationError) Error() string {
	return fmt.Sprintf("unknown activation %q", e.Name)
}

// ShapeMismatchError reports matrix dimensions inconsistent with the
// network's layer shape: a batch with the wrong row count, a persisted
// weight matrix that disagrees with the declared shape, or a gradient
// whose dimensions drifted from the parameter it updates.
type ShapeMismatchError struct {
	Context  string // What was being checked (e.g. "input batch", "weights[1]")
	WantRows int
	WantCols int
	GotRows  int
	GotCols  int
}

// Error implements the error interface.
func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: %s: want %dx%d, got %dx%d",
		e.Context, e.WantRows, e.WantCols, e.GotRows, e.GotCols)
}

// AllocationError reports a parameter storage request beyond the
// engine's resource limits. It is returned before any allocation is
// attempted, so an oversized shape or persisted document fails cleanly
// instead of exhausting memory.
type AllocationError struct {
	Elements int64 // Total elements requested
	Limit    int64 // The limit that was exceeded
}

// Error implements the error interface.
func (e *AllocationError) Error() string {
	return fmt.Sprintf("allocation of %d parameter elements exceeds limit %d", e.Elements, e.Limit)
}

package hessian

import "errors"

// Sentinel errors for the curvature analysis layer. Callers match with
// errors.Is; every returned error wraps one of these with the offending
// dimension or name.
var (
	// ErrConfiguration indicates an invalid setup detected at construction
	// time, such as a model with no trainable parameters.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInvalidArgument indicates a malformed runtime argument, such as a
	// preconditioner with non-positive entries.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDimensionMismatch indicates a vector whose length does not match
	// the model's flat parameter count.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNotConverged indicates the eigensolver exhausted its iteration
	// budget without meeting the residual tolerance.
	ErrNotConverged = errors.New("eigensolver did not converge")
)

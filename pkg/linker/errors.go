package linker

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrConnectionAlreadyExists is returned when a finalize lands on a pair
	// that already has a finalized edge. The in-progress edge is cancelled
	// and the caller recovers locally.
	ErrConnectionAlreadyExists = errors.New("connection already exists")

	// ErrMissingEndpoint is returned when a removal names an empty endpoint
	ErrMissingEndpoint = errors.New("missing endpoint")

	// ErrUnknownConnection is returned when a removal names a pair with no
	// finalized edge
	ErrUnknownConnection = errors.New("unknown connection")

	// ErrIncompatibleFamilies is returned by direct connects between nodes
	// whose families cannot link (and no bridge side is free)
	ErrIncompatibleFamilies = errors.New("node families are not compatible")
)

// ConnectionExistsError names the pair whose duplicate finalize was refused
type ConnectionExistsError struct {
	From, To string
}

// Error implements the error interface
func (e *ConnectionExistsError) Error() string {
	return fmt.Sprintf("connection between %q and %q already exists", e.From, e.To)
}

// Unwrap links the error to ErrConnectionAlreadyExists for errors.Is
func (e *ConnectionExistsError) Unwrap() error {
	return ErrConnectionAlreadyExists
}

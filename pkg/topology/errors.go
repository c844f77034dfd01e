package topology

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrIncompatibleMembership is returned when a non-classical node would
	// join a network whose classical flag is already fixed to true
	ErrIncompatibleMembership = errors.New("incompatible network membership")

	// ErrUnknownNode is returned when an operation names a node the provider
	// cannot resolve
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownNetwork is returned when an operation names a network that is
	// not registered
	ErrUnknownNetwork = errors.New("unknown network")
)

// IncompatibleMembershipError carries which node was rejected by which network
type IncompatibleMembershipError struct {
	Node      string
	NetworkID string
}

// Error implements the error interface
func (e *IncompatibleMembershipError) Error() string {
	return fmt.Sprintf("node %q is not classical and cannot join classical network %s", e.Node, e.NetworkID)
}

// Unwrap links the error to ErrIncompatibleMembership for errors.Is
func (e *IncompatibleMembershipError) Unwrap() error {
	return ErrIncompatibleMembership
}

package model

import (
	"errors"
	"fmt"
)

// ErrSelfConnection is returned when both endpoints of a connection would be
// the same node. It is rejected at construction and never enters any state.
var ErrSelfConnection = errors.New("connection endpoints must differ")

// PairKey identifies a connection by its unordered endpoint pair. Two keys
// built from the same two names in either order compare equal.
type PairKey struct {
	A, B string
}

// NewPairKey builds the canonical key for the unordered pair {from, to}
func NewPairKey(from, to string) PairKey {
	if to < from {
		from, to = to, from
	}
	return PairKey{A: from, B: to}
}

// String renders the key for logs and document output
func (k PairKey) String() string {
	return k.A + "<->" + k.B
}

// Contains reports whether name is one of the key's endpoints
func (k PairKey) Contains(name string) bool {
	return k.A == name || k.B == name
}

// Other returns the opposite endpoint of name, and false when name is not
// part of the pair
func (k PairKey) Other(name string) (string, bool) {
	switch name {
	case k.A:
		return k.B, true
	case k.B:
		return k.A, true
	default:
		return "", false
	}
}

// LinkParams are the medium parameters carried by a connection. They are
// mutable after the connection is finalized. Classical fields apply to
// classical links, quantum fields to quantum links; a bridge link uses the
// side that matches its non-bridge endpoint.
type LinkParams struct {
	// Classical medium
	BandwidthMbps  float64 `json:"bandwidthMbps" yaml:"bandwidthMbps"`
	LatencyMS      float64 `json:"latencyMs" yaml:"latencyMs"`
	MTU            int     `json:"mtu" yaml:"mtu"`
	PacketLossRate float64 `json:"packetLossRate" yaml:"packetLossRate"`
	ErrorRate      float64 `json:"errorRate" yaml:"errorRate"`

	// Quantum medium
	LossPerKM          float64 `json:"lossPerKm" yaml:"lossPerKm"`
	NoiseModel         string  `json:"noiseModel" yaml:"noiseModel"`
	ErrorRateThreshold float64 `json:"errorRateThreshold" yaml:"errorRateThreshold"`
	QubitCapacity      int     `json:"qubitCapacity" yaml:"qubitCapacity"`
}

// DefaultLinkParams returns the parameters a freshly drawn connection starts
// with before the user edits them
func DefaultLinkParams() LinkParams {
	return LinkParams{
		BandwidthMbps:      1000,
		LatencyMS:          1,
		MTU:                1500,
		PacketLossRate:     0,
		ErrorRate:          0,
		LossPerKM:          0.2,
		NoiseModel:         "none",
		ErrorRateThreshold: 0.11,
		QubitCapacity:      1,
	}
}

// Connection is a finalized link between two nodes. From/To preserve the
// drawing direction; topology treats the pair as unordered via Key.
type Connection struct {
	From   string
	To     string
	Key    PairKey
	Params LinkParams
}

// NewConnection builds a finalized connection between two distinct nodes
func NewConnection(from, to string, params LinkParams) (*Connection, error) {
	if from == to {
		return nil, fmt.Errorf("connect %q to itself: %w", from, ErrSelfConnection)
	}
	return &Connection{
		From:   from,
		To:     to,
		Key:    NewPairKey(from, to),
		Params: params,
	}, nil
}

// Other returns the endpoint opposite to name, and false when name is not an
// endpoint of this connection
func (c *Connection) Other(name string) (string, bool) {
	return c.Key.Other(name)
}

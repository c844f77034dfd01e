package model

import (
	"fmt"

	"github.com/qnetlab/topoforge/pkg/geometry"
)

// Kind classifies a node for connection compatibility
type Kind uint8

const (
	// KindClassical nodes carry classical traffic and can receive addresses
	KindClassical Kind = iota
	// KindQuantum nodes carry qubits; they never join classical addressing
	KindQuantum
	// KindBridge nodes adapt between one classical and one quantum neighbor
	KindBridge
)

// String returns the kind name used in documents and logs
func (k Kind) String() string {
	switch k {
	case KindClassical:
		return "classical"
	case KindQuantum:
		return "quantum"
	case KindBridge:
		return "bridge"
	default:
		return "unknown"
	}
}

// ParseKind converts a document/request string to a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "classical":
		return KindClassical, nil
	case "quantum":
		return KindQuantum, nil
	case "bridge":
		return KindBridge, nil
	default:
		return 0, fmt.Errorf("unknown node kind %q", s)
	}
}

// IsBridge reports whether the kind is the bridging adapter kind
func (k Kind) IsBridge() bool {
	return k == KindBridge
}

// Family returns the compatibility family a non-bridge node connects within.
// Bridge nodes have no family of their own; acceptability recurses through
// their two sides instead.
func (k Kind) Family() Kind {
	return k
}

// Node is a placed vertex on the canvas. Name is the lookup key and must be
// unique. Address is assigned only by a fully classical network and stays nil
// otherwise.
type Node struct {
	Name     string
	Kind     Kind
	Position geometry.Point
	Address  *int
}

// HasAddress reports whether a classical address has been assigned
func (n *Node) HasAddress() bool {
	return n != nil && n.Address != nil
}

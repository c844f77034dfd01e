package topology

import (
	"github.com/google/uuid"

	"github.com/qnetlab/topoforge/pkg/geometry"
)

// Network is one connected component of the finalized edge graph. Its
// classical flag is computed once from the initial member set and never
// changes for the lifetime of the instance; merges and splits always produce
// fresh Network objects. Addresses come from a private counter that starts at
// 1 and never reuses a value.
type Network struct {
	id        string
	members   []string // join order
	memberSet map[string]bool
	classical bool
	nextAddr  int
	bounds    geometry.Rect
}

func newNetwork() *Network {
	return &Network{
		id:        uuid.NewString(),
		memberSet: make(map[string]bool),
		nextAddr:  1,
	}
}

// ID returns the network's stable identifier
func (n *Network) ID() string {
	return n.id
}

// Members returns the member names in join order
func (n *Network) Members() []string {
	out := make([]string, len(n.members))
	copy(out, n.members)
	return out
}

// Size returns the number of members
func (n *Network) Size() int {
	return len(n.members)
}

// Contains reports whether name is a member
func (n *Network) Contains(name string) bool {
	return n.memberSet[name]
}

// Classical reports whether every member is a classical node. The value is
// fixed at first population.
func (n *Network) Classical() bool {
	return n.classical
}

// Bounds returns the bounding region covering all member node extents
func (n *Network) Bounds() geometry.Rect {
	return n.bounds
}

// allocAddress advances the private counter. Allocated values are never
// handed out twice, even after members leave.
func (n *Network) allocAddress() int {
	addr := n.nextAddr
	n.nextAddr++
	return addr
}

func (n *Network) addMember(name string) {
	if n.memberSet[name] {
		return
	}
	n.members = append(n.members, name)
	n.memberSet[name] = true
}

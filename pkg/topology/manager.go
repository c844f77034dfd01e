// Package topology maintains the partition of placed nodes into networks
// (connected components of the finalized edge graph), the classical flag and
// address assignment of each network, and the bounding region used for visual
// regrouping. It is driven by connection lifecycle notifications and performs
// no hit testing or edge bookkeeping of its own.
package topology

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/qnetlab/topoforge/pkg/events"
	"github.com/qnetlab/topoforge/pkg/geometry"
	"github.com/qnetlab/topoforge/pkg/logging"
	"github.com/qnetlab/topoforge/pkg/metrics"
	"github.com/qnetlab/topoforge/pkg/model"
)

// NodeProvider resolves node identities and hit regions. The canvas package
// implements it.
type NodeProvider interface {
	Node(name string) (*model.Node, bool)
	NodeBounds(name string) (geometry.Rect, bool)
}

// Manager owns the node partition and the adjacency index of finalized edges
type Manager struct {
	nodes NodeProvider

	networks  map[string]*Network
	order     []string // network IDs in creation order
	byNode    map[string]*Network
	adjacency map[string]map[string]bool

	log     logging.Logger
	metrics *metrics.Registry
	bus     *events.Bus
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the manager logger
func WithLogger(log logging.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithMetrics sets the metrics registry
func WithMetrics(reg *metrics.Registry) Option {
	return func(m *Manager) { m.metrics = reg }
}

// WithBus sets the event bus for network lifecycle notifications
func WithBus(bus *events.Bus) Option {
	return func(m *Manager) { m.bus = bus }
}

// NewManager creates a Manager over the given node provider
func NewManager(nodes NodeProvider, opts ...Option) *Manager {
	m := &Manager{
		nodes:     nodes,
		networks:  make(map[string]*Network),
		byNode:    make(map[string]*Network),
		adjacency: make(map[string]map[string]bool),
		log:       logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ValidateConnection checks whether finalizing an edge between n1 and n2
// would violate membership rules. It mutates nothing, so callers can reject
// the edge before committing it.
func (m *Manager) ValidateConnection(n1, n2 string) error {
	node1, ok := m.nodes.Node(n1)
	if !ok {
		return fmt.Errorf("validate connection: %q: %w", n1, ErrUnknownNode)
	}
	node2, ok := m.nodes.Node(n2)
	if !ok {
		return fmt.Errorf("validate connection: %q: %w", n2, ErrUnknownNode)
	}

	net1 := m.byNode[n1]
	net2 := m.byNode[n2]

	switch {
	case net1 == nil && net2 == nil:
		return nil
	case net1 != nil && net2 == nil:
		return m.canAbsorb(net1, node2)
	case net1 == nil && net2 != nil:
		return m.canAbsorb(net2, node1)
	case net1 != net2:
		// A merged network is rebuilt from the union, so both sides must
		// agree on the classical flag
		if net1.classical != net2.classical {
			return &IncompatibleMembershipError{Node: n2, NetworkID: net1.id}
		}
	}
	return nil
}

// canAbsorb rejects a non-classical node joining a fixed-classical network
func (m *Manager) canAbsorb(net *Network, node *model.Node) error {
	if net.classical && node.Kind != model.KindClassical {
		return &IncompatibleMembershipError{Node: node.Name, NetworkID: net.id}
	}
	return nil
}

// OnConnectionCreated updates the partition for a newly finalized edge.
// Callers are expected to have run ValidateConnection first; the same checks
// are applied again here and a failure leaves all state untouched.
func (m *Manager) OnConnectionCreated(n1, n2 string) error {
	if err := m.ValidateConnection(n1, n2); err != nil {
		return err
	}

	net1 := m.byNode[n1]
	net2 := m.byNode[n2]

	switch {
	case net1 == nil && net2 == nil:
		net := m.buildNetwork([]string{n1, n2})
		m.log.Info("network created",
			logging.NetworkID(net.id),
			logging.Bool("classical", net.classical))
		m.publishNetwork("created", net)

	case net1 != nil && net2 == nil:
		m.absorb(net1, n2)

	case net1 == nil && net2 != nil:
		m.absorb(net2, n1)

	case net1 != net2:
		merged := m.merge(net1, net2)
		m.log.Info("networks merged",
			logging.NetworkID(merged.id),
			logging.Int("members", merged.Size()))
		m.publishNetwork("merged", merged)
		m.metrics.RecordMerge()

	default:
		// Both endpoints already share a network; the edge is interior
	}

	m.addAdjacency(n1, n2)
	if net := m.byNode[n1]; net != nil {
		m.recomputeBounds(net)
	}
	m.metrics.SetActiveNetworks(len(m.networks))
	return nil
}

// OnConnectionRemoved updates the partition after an edge was removed. When
// the removal disconnects the network, the former members are repartitioned
// into fresh networks; components reduced to a single node leave network
// membership entirely.
func (m *Manager) OnConnectionRemoved(n1, n2 string) error {
	net := m.byNode[n1]
	if net == nil || m.byNode[n2] != net {
		m.log.Warn("connection removed outside any network",
			logging.NodeName(n1),
			logging.NodeName(n2))
		return nil
	}

	m.removeAdjacency(n1, n2)

	components := m.components(net.members)
	if len(components) == 1 && len(components[0]) == net.Size() {
		// Still connected; only the region can have changed
		m.recomputeBounds(net)
		return nil
	}

	m.unregister(net)

	created := 0
	for _, comp := range components {
		if len(comp) < 2 {
			continue
		}
		fresh := m.buildNetwork(comp)
		m.publishNetwork("split", fresh)
		created++
	}

	if created == 0 {
		m.log.Info("network deleted", logging.NetworkID(net.id))
		m.publishNetwork("deleted", net)
	} else {
		m.log.Info("network split",
			logging.NetworkID(net.id),
			logging.Int("components", len(components)))
		m.metrics.RecordSplit()
	}

	m.metrics.SetActiveNetworks(len(m.networks))
	return nil
}

// OnNodeMoved recomputes the bounding region of the node's network, if any.
// Membership never changes on a move.
func (m *Manager) OnNodeMoved(name string) {
	if net := m.byNode[name]; net != nil {
		m.recomputeBounds(net)
	}
}

// DeleteNetwork removes the aggregate from the managed set. Member nodes and
// their finalized edges are untouched; members simply lose their membership
// and any assigned address.
func (m *Manager) DeleteNetwork(id string) error {
	net, ok := m.networks[id]
	if !ok {
		return fmt.Errorf("delete network %s: %w", id, ErrUnknownNetwork)
	}
	m.unregister(net)
	m.publishNetwork("deleted", net)
	m.metrics.SetActiveNetworks(len(m.networks))
	return nil
}

// NetworkOf returns the network a node currently belongs to
func (m *Manager) NetworkOf(name string) (*Network, bool) {
	net := m.byNode[name]
	return net, net != nil
}

// Network returns a registered network by ID
func (m *Manager) Network(id string) (*Network, bool) {
	net, ok := m.networks[id]
	return net, ok
}

// Networks returns all live networks in creation order
func (m *Manager) Networks() []*Network {
	out := make([]*Network, 0, len(m.order))
	for _, id := range m.order {
		if net, ok := m.networks[id]; ok {
			out = append(out, net)
		}
	}
	return out
}

// Neighbors returns the names adjacent to a node in the finalized edge
// graph, sorted for deterministic output
func (m *Manager) Neighbors(name string) []string {
	adj := m.adjacency[name]
	if len(adj) == 0 {
		return nil
	}
	out := maps.Keys(adj)
	sort.Strings(out)
	return out
}

// buildNetwork registers a fresh network over the given members (join
// order preserved), fixing the classical flag and assigning addresses when
// every member is classical
func (m *Manager) buildNetwork(members []string) *Network {
	net := newNetwork()

	classical := true
	for _, name := range members {
		node, ok := m.nodes.Node(name)
		if !ok || node.Kind != model.KindClassical {
			classical = false
			break
		}
	}
	net.classical = classical

	for _, name := range members {
		net.addMember(name)
		m.byNode[name] = net
		m.assignAddress(net, name)
	}

	m.networks[net.id] = net
	m.order = append(m.order, net.id)
	m.recomputeBounds(net)
	return net
}

// absorb adds one node to an existing network
func (m *Manager) absorb(net *Network, name string) {
	net.addMember(name)
	m.byNode[name] = net
	m.assignAddress(net, name)
	m.log.Debug("node absorbed",
		logging.NetworkID(net.id),
		logging.NodeName(name))
}

// merge discards both originals and registers a fresh network over the union
// of their members. Join order is first network then second, so addresses
// stay deterministic.
func (m *Manager) merge(net1, net2 *Network) *Network {
	members := make([]string, 0, net1.Size()+net2.Size())
	members = append(members, net1.members...)
	members = append(members, net2.members...)

	m.unregister(net1)
	m.unregister(net2)
	return m.buildNetwork(members)
}

// assignAddress allocates the next address for a member of a classical
// network. Non-classical networks never assign addresses.
func (m *Manager) assignAddress(net *Network, name string) {
	node, ok := m.nodes.Node(name)
	if !ok {
		return
	}
	if !net.classical {
		node.Address = nil
		return
	}
	addr := net.allocAddress()
	node.Address = &addr
	m.metrics.RecordAddressAssigned()
}

// unregister forgets a network and strips membership and addresses from its
// members. Adjacency is untouched; edges outlive aggregates.
func (m *Manager) unregister(net *Network) {
	delete(m.networks, net.id)
	for i, id := range m.order {
		if id == net.id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	for _, name := range net.members {
		if m.byNode[name] == net {
			delete(m.byNode, name)
		}
		if node, ok := m.nodes.Node(name); ok {
			node.Address = nil
		}
	}
}

// components runs BFS over the adjacency index restricted to the given
// member set and returns the connected components, each preserving the
// original member order
func (m *Manager) components(members []string) [][]string {
	inSet := make(map[string]bool, len(members))
	for _, name := range members {
		inSet[name] = true
	}

	visited := make(map[string]bool, len(members))
	assignment := make(map[string]int, len(members))
	count := 0

	for _, start := range members {
		if visited[start] {
			continue
		}
		visited[start] = true
		assignment[start] = count
		queue := []string{start}

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			for neighbor := range m.adjacency[current] {
				if !inSet[neighbor] || visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				assignment[neighbor] = count
				queue = append(queue, neighbor)
			}
		}
		count++
	}

	components := make([][]string, count)
	for _, name := range members {
		id := assignment[name]
		components[id] = append(components[id], name)
	}
	return components
}

func (m *Manager) addAdjacency(n1, n2 string) {
	if m.adjacency[n1] == nil {
		m.adjacency[n1] = make(map[string]bool)
	}
	if m.adjacency[n2] == nil {
		m.adjacency[n2] = make(map[string]bool)
	}
	m.adjacency[n1][n2] = true
	m.adjacency[n2][n1] = true
}

func (m *Manager) removeAdjacency(n1, n2 string) {
	delete(m.adjacency[n1], n2)
	delete(m.adjacency[n2], n1)
	if len(m.adjacency[n1]) == 0 {
		delete(m.adjacency, n1)
	}
	if len(m.adjacency[n2]) == 0 {
		delete(m.adjacency, n2)
	}
}

// recomputeBounds unions the hit regions of all resolvable members
func (m *Manager) recomputeBounds(net *Network) {
	var bounds geometry.Rect
	first := true
	for _, name := range net.members {
		r, ok := m.nodes.NodeBounds(name)
		if !ok {
			continue
		}
		if first {
			bounds = r
			first = false
			continue
		}
		bounds = bounds.Union(r)
	}
	net.bounds = bounds
}

func (m *Manager) publishNetwork(kind string, net *Network) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(events.TopicNetworks, events.NetworkEvent{
		Kind:      kind,
		NetworkID: net.id,
		Members:   net.Members(),
	})
}

// Package export reads node, connection, and network state and builds the
// serializable topology document consumed by the simulation backend. The
// document shape is stable; the storage format behind it is owned elsewhere.
package export

import (
	"github.com/qnetlab/topoforge/pkg/geometry"
	"github.com/qnetlab/topoforge/pkg/linker"
	"github.com/qnetlab/topoforge/pkg/model"
	"github.com/qnetlab/topoforge/pkg/topology"
)

// Document is the full serializable topology
type Document struct {
	Version     int             `json:"version" yaml:"version"`
	Nodes       []NodeDoc       `json:"nodes" yaml:"nodes"`
	Connections []ConnectionDoc `json:"connections" yaml:"connections"`
	Networks    []NetworkDoc    `json:"networks" yaml:"networks"`
	Bridges     []BridgeDoc     `json:"bridges,omitempty" yaml:"bridges,omitempty"`
}

// NodeDoc is one placed node
type NodeDoc struct {
	Name     string         `json:"name" yaml:"name"`
	Kind     string         `json:"kind" yaml:"kind"`
	Position geometry.Point `json:"position" yaml:"position"`
	Address  *int           `json:"address,omitempty" yaml:"address,omitempty"`
}

// ConnectionDoc is one finalized edge with its medium parameters
type ConnectionDoc struct {
	From   string           `json:"from" yaml:"from"`
	To     string           `json:"to" yaml:"to"`
	Params model.LinkParams `json:"params" yaml:"params"`
}

// NetworkDoc is one connected component with its addressing state
type NetworkDoc struct {
	ID        string         `json:"id" yaml:"id"`
	Members   []string       `json:"members" yaml:"members"`
	Classical bool           `json:"classical" yaml:"classical"`
	Addresses map[string]int `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	Bounds    geometry.Rect  `json:"bounds" yaml:"bounds"`
}

// BridgeDoc records the paired sides of a bridge node
type BridgeDoc struct {
	Name      string `json:"name" yaml:"name"`
	Classical string `json:"classical,omitempty" yaml:"classical,omitempty"`
	Quantum   string `json:"quantum,omitempty" yaml:"quantum,omitempty"`
}

// NodeSource lists placed nodes; the canvas implements it
type NodeSource interface {
	Nodes() []*model.Node
}

// Build assembles the document from live editor state. Ordering is
// deterministic: nodes in placement order, connections by pair key,
// networks in creation order.
func Build(nodes NodeSource, links *linker.Linker, topo *topology.Manager) *Document {
	doc := &Document{Version: 1}

	byName := make(map[string]*model.Node)
	for _, n := range nodes.Nodes() {
		byName[n.Name] = n
	}

	for _, n := range nodes.Nodes() {
		nd := NodeDoc{
			Name:     n.Name,
			Kind:     n.Kind.String(),
			Position: n.Position,
			Address:  n.Address,
		}
		doc.Nodes = append(doc.Nodes, nd)

		if n.Kind.IsBridge() {
			b := BridgeDoc{Name: n.Name}
			if p, ok := links.BridgePairing(n.Name); ok {
				b.Classical = p.Classical
				b.Quantum = p.Quantum
			}
			doc.Bridges = append(doc.Bridges, b)
		}
	}

	for _, c := range links.Connections() {
		doc.Connections = append(doc.Connections, ConnectionDoc{
			From:   c.From,
			To:     c.To,
			Params: c.Params,
		})
	}

	for _, net := range topo.Networks() {
		nd := NetworkDoc{
			ID:        net.ID(),
			Members:   net.Members(),
			Classical: net.Classical(),
			Bounds:    net.Bounds(),
		}
		if net.Classical() {
			nd.Addresses = make(map[string]int, net.Size())
			for _, member := range net.Members() {
				if n, ok := byName[member]; ok && n.Address != nil {
					nd.Addresses[member] = *n.Address
				}
			}
		}
		doc.Networks = append(doc.Networks, nd)
	}

	return doc
}

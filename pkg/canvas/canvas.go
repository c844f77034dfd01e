// Package canvas owns the arena of placed nodes and answers position and
// bounds queries for the interactive layers. It performs no connectivity
// logic; edges and networks live in the linker and topology packages.
package canvas

import (
	"errors"
	"fmt"

	"github.com/qnetlab/topoforge/pkg/geometry"
	"github.com/qnetlab/topoforge/pkg/logging"
	"github.com/qnetlab/topoforge/pkg/model"
)

// Sentinel errors
var (
	ErrUnknownNode   = errors.New("unknown node")
	ErrDuplicateNode = errors.New("node name already in use")
)

// DefaultHalfExtent is the default half-width of the square region a node
// occupies on the canvas, used for hit testing and bounding regions.
const DefaultHalfExtent = 25.0

// Canvas is the arena of placed nodes, keyed by unique name
type Canvas struct {
	nodes      map[string]*model.Node
	order      []string
	halfExtent float64
	log        logging.Logger
}

// Option configures a Canvas
type Option func(*Canvas)

// WithLogger sets the canvas logger
func WithLogger(log logging.Logger) Option {
	return func(c *Canvas) { c.log = log }
}

// WithNodeHalfExtent sets the half-width of the node hit region
func WithNodeHalfExtent(h float64) Option {
	return func(c *Canvas) { c.halfExtent = h }
}

// New creates an empty canvas
func New(opts ...Option) *Canvas {
	c := &Canvas{
		nodes:      make(map[string]*model.Node),
		halfExtent: DefaultHalfExtent,
		log:        logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddNode places a new node. The name must be unique on the canvas.
func (c *Canvas) AddNode(name string, kind model.Kind, pos geometry.Point) (*model.Node, error) {
	if name == "" {
		return nil, fmt.Errorf("add node: empty name: %w", ErrUnknownNode)
	}
	if _, exists := c.nodes[name]; exists {
		return nil, fmt.Errorf("add node %q: %w", name, ErrDuplicateNode)
	}

	node := &model.Node{Name: name, Kind: kind, Position: pos}
	c.nodes[name] = node
	c.order = append(c.order, name)

	c.log.Debug("node placed",
		logging.NodeName(name),
		logging.String("kind", kind.String()),
		logging.Float64("x", pos.X),
		logging.Float64("y", pos.Y))
	return node, nil
}

// Node looks up a node by name
func (c *Canvas) Node(name string) (*model.Node, bool) {
	n, ok := c.nodes[name]
	return n, ok
}

// MoveNode updates a node's position
func (c *Canvas) MoveNode(name string, pos geometry.Point) error {
	node, ok := c.nodes[name]
	if !ok {
		return fmt.Errorf("move node %q: %w", name, ErrUnknownNode)
	}
	node.Position = pos
	return nil
}

// RemoveNode deletes a node from the arena. Cascading edge removal is the
// caller's job; the canvas only forgets the vertex.
func (c *Canvas) RemoveNode(name string) error {
	if _, ok := c.nodes[name]; !ok {
		return fmt.Errorf("remove node %q: %w", name, ErrUnknownNode)
	}
	delete(c.nodes, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.log.Debug("node removed", logging.NodeName(name))
	return nil
}

// Nodes returns all nodes in placement order
func (c *Canvas) Nodes() []*model.Node {
	out := make([]*model.Node, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.nodes[name])
	}
	return out
}

// Len returns the number of placed nodes
func (c *Canvas) Len() int {
	return len(c.nodes)
}

// NodeBounds returns the hit region of a node
func (c *Canvas) NodeBounds(name string) (geometry.Rect, bool) {
	node, ok := c.nodes[name]
	if !ok {
		return geometry.Rect{}, false
	}
	return geometry.RectAround(node.Position, c.halfExtent), true
}

// HalfExtent returns the configured node half-extent
func (c *Canvas) HalfExtent() float64 {
	return c.halfExtent
}

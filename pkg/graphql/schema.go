// Package graphql exposes a read-only query surface over the live topology
// for external consumers such as lab-progress evaluators.
package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/qnetlab/topoforge/pkg/export"
	"github.com/qnetlab/topoforge/pkg/linker"
	"github.com/qnetlab/topoforge/pkg/topology"
)

// Editor bundles the state the schema reads from
type Editor struct {
	Nodes export.NodeSource
	Links *linker.Linker
	Topo  *topology.Manager
}

var paramsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "LinkParams",
	Fields: graphql.Fields{
		"bandwidthMbps":      &graphql.Field{Type: graphql.Float},
		"latencyMs":          &graphql.Field{Type: graphql.Float},
		"mtu":                &graphql.Field{Type: graphql.Int},
		"packetLossRate":     &graphql.Field{Type: graphql.Float},
		"errorRate":          &graphql.Field{Type: graphql.Float},
		"lossPerKm":          &graphql.Field{Type: graphql.Float},
		"noiseModel":         &graphql.Field{Type: graphql.String},
		"errorRateThreshold": &graphql.Field{Type: graphql.Float},
		"qubitCapacity":      &graphql.Field{Type: graphql.Int},
	},
})

var nodeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Node",
	Fields: graphql.Fields{
		"name":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"kind":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"x":       &graphql.Field{Type: graphql.Float},
		"y":       &graphql.Field{Type: graphql.Float},
		"address": &graphql.Field{Type: graphql.Int},
	},
})

var connectionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Connection",
	Fields: graphql.Fields{
		"from":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"to":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"params": &graphql.Field{Type: paramsType},
	},
})

var addressType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Address",
	Fields: graphql.Fields{
		"node":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"address": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

type addressEntry struct {
	Node    string `json:"node"`
	Address int    `json:"address"`
}

var networkType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Network",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"members":   &graphql.Field{Type: graphql.NewList(graphql.String)},
		"classical": &graphql.Field{Type: graphql.Boolean},
		"addresses": &graphql.Field{
			Type: graphql.NewList(addressType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				doc, ok := p.Source.(export.NetworkDoc)
				if !ok {
					return nil, nil
				}
				out := make([]addressEntry, 0, len(doc.Addresses))
				for _, member := range doc.Members {
					if addr, ok := doc.Addresses[member]; ok {
						out = append(out, addressEntry{Node: member, Address: addr})
					}
				}
				return out, nil
			},
		},
	},
})

var bridgeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Bridge",
	Fields: graphql.Fields{
		"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"classical": &graphql.Field{Type: graphql.String},
		"quantum":   &graphql.Field{Type: graphql.String},
	},
})

// NewSchema builds the query schema over the editor state. Every resolver
// reads a freshly built document, so results always reflect the current
// topology.
func NewSchema(ed Editor) (graphql.Schema, error) {
	snapshot := func() *export.Document {
		return export.Build(ed.Nodes, ed.Links, ed.Topo)
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return "ok", nil
				},
			},
			"node": &graphql.Field{
				Type: nodeType,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name, _ := p.Args["name"].(string)
					for _, n := range snapshot().Nodes {
						if n.Name == name {
							return flattenNode(n), nil
						}
					}
					return nil, nil
				},
			},
			"nodes": &graphql.Field{
				Type: graphql.NewList(nodeType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					doc := snapshot()
					out := make([]map[string]interface{}, 0, len(doc.Nodes))
					for _, n := range doc.Nodes {
						out = append(out, flattenNode(n))
					}
					return out, nil
				},
			},
			"connections": &graphql.Field{
				Type: graphql.NewList(connectionType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return snapshot().Connections, nil
				},
			},
			"networks": &graphql.Field{
				Type: graphql.NewList(networkType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return snapshot().Networks, nil
				},
			},
			"network": &graphql.Field{
				Type: networkType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := fmt.Sprintf("%v", p.Args["id"])
					for _, n := range snapshot().Networks {
						if n.ID == id {
							return n, nil
						}
					}
					return nil, nil
				},
			},
			"bridges": &graphql.Field{
				Type: graphql.NewList(bridgeType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return snapshot().Bridges, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

// flattenNode exposes the document node with position fields at the top
// level, which reads better in queries than a nested position object
func flattenNode(n export.NodeDoc) map[string]interface{} {
	out := map[string]interface{}{
		"name": n.Name,
		"kind": n.Kind,
		"x":    n.Position.X,
		"y":    n.Position.Y,
	}
	if n.Address != nil {
		out["address"] = *n.Address
	}
	return out
}

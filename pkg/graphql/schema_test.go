package graphql

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/graphql-go/graphql"

	"github.com/qnetlab/topoforge/pkg/canvas"
	"github.com/qnetlab/topoforge/pkg/geometry"
	"github.com/qnetlab/topoforge/pkg/linker"
	"github.com/qnetlab/topoforge/pkg/model"
	"github.com/qnetlab/topoforge/pkg/topology"
)

func newTestSchema(t *testing.T) graphql.Schema {
	t.Helper()

	c := canvas.New()
	topo := topology.NewManager(c)
	l := linker.New(c, topo)

	for _, n := range []string{"A", "B"} {
		if _, err := c.AddNode(n, model.KindClassical, geometry.Point{}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	if _, err := l.Connect("A", "B", model.DefaultLinkParams()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	schema, err := NewSchema(Editor{Nodes: c, Links: l, Topo: topo})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return schema
}

func runQuery(t *testing.T, schema graphql.Schema, query string) map[string]interface{} {
	t.Helper()
	result := graphql.Do(graphql.Params{Schema: schema, RequestString: query})
	if len(result.Errors) > 0 {
		t.Fatalf("query failed: %v", result.Errors)
	}
	data, ok := result.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data shape: %T", result.Data)
	}
	return data
}

func TestQueryNodes(t *testing.T) {
	schema := newTestSchema(t)
	data := runQuery(t, schema, `{ nodes { name kind address } }`)

	nodes, ok := data["nodes"].([]interface{})
	if !ok || len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %v", data["nodes"])
	}
	first := nodes[0].(map[string]interface{})
	if first["name"] != "A" || first["kind"] != "classical" {
		t.Errorf("unexpected node: %v", first)
	}
}

func TestQueryNetworks(t *testing.T) {
	schema := newTestSchema(t)
	data := runQuery(t, schema, `{ networks { id classical members addresses { node address } } }`)

	networks, ok := data["networks"].([]interface{})
	if !ok || len(networks) != 1 {
		t.Fatalf("expected 1 network, got %v", data["networks"])
	}
	net := networks[0].(map[string]interface{})
	if net["classical"] != true {
		t.Errorf("expected classical network: %v", net)
	}
	addrs := net["addresses"].([]interface{})
	if len(addrs) != 2 {
		t.Errorf("expected 2 addresses, got %v", addrs)
	}
}

func TestQuerySingleNode(t *testing.T) {
	schema := newTestSchema(t)
	data := runQuery(t, schema, `{ node(name: "B") { name address } }`)

	node, ok := data["node"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected node, got %v", data["node"])
	}
	if node["name"] != "B" {
		t.Errorf("unexpected node: %v", node)
	}
}

func TestHTTPHandler(t *testing.T) {
	schema := newTestSchema(t)
	handler := NewHandler(schema)

	body, _ := json.Marshal(Request{Query: `{ health }`})
	req := httptest.NewRequest("POST", "/graphql", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if len(resp.Errors) > 0 {
		t.Errorf("unexpected errors: %v", resp.Errors)
	}
}

func TestHTTPHandlerRejectsGet(t *testing.T) {
	schema := newTestSchema(t)
	handler := NewHandler(schema)

	req := httptest.NewRequest("GET", "/graphql", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != 405 {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

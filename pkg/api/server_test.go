package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qnetlab/topoforge/pkg/canvas"
	"github.com/qnetlab/topoforge/pkg/export"
	"github.com/qnetlab/topoforge/pkg/linker"
	"github.com/qnetlab/topoforge/pkg/topology"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	c := canvas.New()
	topo := topology.NewManager(c)
	links := linker.New(c, topo)

	s, err := NewServer(c, links, topo)
	require.NoError(t, err)
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func placeNode(t *testing.T, s *Server, name, kind string, x, y float64) {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/nodes", map[string]any{
		"name": name, "kind": kind, "x": x, "y": y,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "create node %s: %s", name, rec.Body.String())
}

func connect(t *testing.T, s *Server, from, to string) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, s, http.MethodPost, "/connections", map[string]any{
		"from": from, "to": to,
	})
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateAndGetNode(t *testing.T) {
	s := newTestServer(t)
	placeNode(t, s, "router-1", "classical", 100, 200)

	rec := doJSON(t, s, http.MethodGet, "/nodes/router-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc export.NodeDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "router-1", doc.Name)
	assert.Equal(t, "classical", doc.Kind)
	assert.Equal(t, 100.0, doc.Position.X)
	assert.Nil(t, doc.Address, "unconnected node should have no address")
}

func TestCreateNodeRejectsBadKind(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/nodes", map[string]any{
		"name": "n1", "kind": "optical",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateNodeRejectsDuplicate(t *testing.T) {
	s := newTestServer(t)
	placeNode(t, s, "a", "classical", 0, 0)

	rec := doJSON(t, s, http.MethodPost, "/nodes", map[string]any{
		"name": "a", "kind": "classical",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestConnectionLifecycle(t *testing.T) {
	s := newTestServer(t)
	placeNode(t, s, "a", "classical", 0, 0)
	placeNode(t, s, "b", "classical", 100, 0)

	rec := connect(t, s, "a", "b")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// A second identical edge is a conflict
	rec = connect(t, s, "a", "b")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/connections", nil)
	var conns []export.ConnectionDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conns))
	require.Len(t, conns, 1)

	rec = doJSON(t, s, http.MethodDelete, "/connections/a/b", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/connections/a/b", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConnectionCrossFamilyRejected(t *testing.T) {
	s := newTestServer(t)
	placeNode(t, s, "c", "classical", 0, 0)
	placeNode(t, s, "q", "quantum", 100, 0)

	rec := connect(t, s, "c", "q")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestConnectionSelfRejected(t *testing.T) {
	s := newTestServer(t)
	placeNode(t, s, "a", "classical", 0, 0)

	rec := connect(t, s, "a", "a")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNetworksReflectAddresses(t *testing.T) {
	s := newTestServer(t)
	placeNode(t, s, "a", "classical", 0, 0)
	placeNode(t, s, "b", "classical", 100, 0)
	connect(t, s, "a", "b")

	rec := doJSON(t, s, http.MethodGet, "/networks", nil)
	var nets []export.NetworkDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nets))
	require.Len(t, nets, 1)

	net := nets[0]
	assert.True(t, net.Classical)
	assert.Equal(t, 1, net.Addresses["a"])
	assert.Equal(t, 2, net.Addresses["b"])

	rec = doJSON(t, s, http.MethodGet, "/networks/"+net.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/networks/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteNetworkKeepsNodes(t *testing.T) {
	s := newTestServer(t)
	placeNode(t, s, "a", "quantum", 0, 0)
	placeNode(t, s, "b", "quantum", 100, 0)
	connect(t, s, "a", "b")

	rec := doJSON(t, s, http.MethodGet, "/networks", nil)
	var nets []export.NetworkDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nets))
	require.Len(t, nets, 1)

	rec = doJSON(t, s, http.MethodDelete, "/networks/"+nets[0].ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/nodes/a", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "node should survive network deletion")
}

func TestMoveNode(t *testing.T) {
	s := newTestServer(t)
	placeNode(t, s, "a", "classical", 0, 0)

	rec := doJSON(t, s, http.MethodPost, "/nodes/a/position", PositionRequest{X: 300, Y: 400})
	require.Equal(t, http.StatusOK, rec.Code)

	var doc export.NodeDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, 300.0, doc.Position.X)
	assert.Equal(t, 400.0, doc.Position.Y)
}

func TestDeleteNodeCascades(t *testing.T) {
	s := newTestServer(t)
	placeNode(t, s, "a", "classical", 0, 0)
	placeNode(t, s, "b", "classical", 100, 0)
	connect(t, s, "a", "b")

	rec := doJSON(t, s, http.MethodDelete, "/nodes/a", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/connections", nil)
	var conns []export.ConnectionDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conns))
	assert.Empty(t, conns, "expected cascading removal")
}

func TestTopologyDocument(t *testing.T) {
	s := newTestServer(t)
	placeNode(t, s, "a", "classical", 0, 0)
	placeNode(t, s, "br", "bridge", 50, 0)
	connect(t, s, "a", "br")

	rec := doJSON(t, s, http.MethodGet, "/topology", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc export.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Len(t, doc.Nodes, 2)
	assert.Len(t, doc.Connections, 1)
	require.Len(t, doc.Bridges, 1)
	assert.Equal(t, "a", doc.Bridges[0].Classical)
	// a bridge edge never forms a network
	assert.Empty(t, doc.Networks)
}

func TestGraphQLMount(t *testing.T) {
	s := newTestServer(t)

	body, err := json.Marshal(map[string]string{"query": "{ health }"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRequestIDHeaderPresent(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

package export

import (
	"path/filepath"
	"testing"

	"github.com/qnetlab/topoforge/pkg/canvas"
	"github.com/qnetlab/topoforge/pkg/geometry"
	"github.com/qnetlab/topoforge/pkg/linker"
	"github.com/qnetlab/topoforge/pkg/model"
	"github.com/qnetlab/topoforge/pkg/topology"
)

func buildEditor(t *testing.T) (*canvas.Canvas, *linker.Linker, *topology.Manager) {
	t.Helper()
	c := canvas.New()
	topo := topology.NewManager(c)
	l := linker.New(c, topo)

	for _, spec := range []struct {
		name string
		kind model.Kind
		x    float64
	}{
		{"A", model.KindClassical, 0},
		{"B", model.KindClassical, 100},
		{"Q1", model.KindQuantum, 200},
		{"Q2", model.KindQuantum, 300},
		{"BR", model.KindBridge, 400},
	} {
		if _, err := c.AddNode(spec.name, spec.kind, geometry.Point{X: spec.x}); err != nil {
			t.Fatalf("AddNode(%s): %v", spec.name, err)
		}
	}

	for _, pair := range [][2]string{{"A", "B"}, {"Q1", "Q2"}, {"B", "BR"}, {"BR", "Q1"}} {
		if _, err := l.Connect(pair[0], pair[1], model.DefaultLinkParams()); err != nil {
			t.Fatalf("Connect(%v): %v", pair, err)
		}
	}
	return c, l, topo
}

func TestBuildDocument(t *testing.T) {
	c, l, topo := buildEditor(t)

	doc := Build(c, l, topo)

	if len(doc.Nodes) != 5 {
		t.Errorf("expected 5 nodes, got %d", len(doc.Nodes))
	}
	if len(doc.Connections) != 4 {
		t.Errorf("expected 4 connections, got %d", len(doc.Connections))
	}
	if len(doc.Networks) != 2 {
		t.Fatalf("expected 2 networks, got %d", len(doc.Networks))
	}

	var classicalNet *NetworkDoc
	for i := range doc.Networks {
		if doc.Networks[i].Classical {
			classicalNet = &doc.Networks[i]
		}
	}
	if classicalNet == nil {
		t.Fatal("expected a classical network in the document")
	}
	if classicalNet.Addresses["A"] != 1 || classicalNet.Addresses["B"] != 2 {
		t.Errorf("unexpected addresses: %v", classicalNet.Addresses)
	}

	if len(doc.Bridges) != 1 {
		t.Fatalf("expected 1 bridge entry, got %d", len(doc.Bridges))
	}
	if doc.Bridges[0].Classical != "B" || doc.Bridges[0].Quantum != "Q1" {
		t.Errorf("unexpected bridge pairing: %+v", doc.Bridges[0])
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	c, l, topo := buildEditor(t)
	doc := Build(c, l, topo)

	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	parsed, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(parsed.Nodes) != len(doc.Nodes) || len(parsed.Networks) != len(doc.Networks) {
		t.Errorf("round trip lost entries: %+v", parsed)
	}
	if parsed.Version != 1 {
		t.Errorf("version = %d, want 1", parsed.Version)
	}
}

func TestWriteAndReadFile(t *testing.T) {
	c, l, topo := buildEditor(t)
	doc := Build(c, l, topo)

	for _, compress := range []bool{false, true} {
		path := filepath.Join(t.TempDir(), "topology.yaml")
		if err := WriteFile(path, doc, compress); err != nil {
			t.Fatalf("WriteFile(compress=%v): %v", compress, err)
		}
		parsed, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(compress=%v): %v", compress, err)
		}
		if len(parsed.Connections) != 4 {
			t.Errorf("compress=%v: expected 4 connections, got %d", compress, len(parsed.Connections))
		}
	}
}

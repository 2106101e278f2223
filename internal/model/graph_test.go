package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

// TestGraphAddEdge tests edge insertion and implicit node creation.
func TestGraphAddEdge(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	g.AddEdge("https://ex.com", "https://ex.com/a")

	if !g.HasNode("https://ex.com") || !g.HasNode("https://ex.com/a") {
		t.Error("AddEdge should insert both endpoints as nodes")
	}
	if !g.HasEdge("https://ex.com", "https://ex.com/a") {
		t.Error("expected edge to exist")
	}
	if g.HasEdge("https://ex.com/a", "https://ex.com") {
		t.Error("edges are directed; reverse edge should not exist")
	}
}

// TestGraphParallelEdges verifies parallel edges collapse.
func TestGraphParallelEdges(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")

	if got := g.EdgeCount(); got != 1 {
		t.Errorf("expected 1 edge after duplicate inserts, got %d", got)
	}
	if got := g.NodeCount(); got != 2 {
		t.Errorf("expected 2 nodes, got %d", got)
	}
}

// TestGraphSortedOutput verifies deterministic node and edge ordering.
func TestGraphSortedOutput(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	g.AddEdge("c", "a")
	g.AddEdge("a", "b")
	g.AddEdge("a", "a")

	wantNodes := []URL{"a", "b", "c"}
	if got := g.Nodes(); !reflect.DeepEqual(got, wantNodes) {
		t.Errorf("Nodes() = %v, want %v", got, wantNodes)
	}

	wantEdges := []Edge{
		{Source: "a", Target: "a"},
		{Source: "a", Target: "b"},
		{Source: "c", Target: "a"},
	}
	if got := g.Edges(); !reflect.DeepEqual(got, wantEdges) {
		t.Errorf("Edges() = %v, want %v", got, wantEdges)
	}
}

// TestGraphJSONRoundTrip verifies node and edge sets survive serialization,
// including isolated nodes that have no edges.
func TestGraphJSONRoundTrip(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	g.AddEdge("https://ex.com", "https://ex.com/a")
	g.AddEdge("https://ex.com", "https://ex.com/b")
	g.AddNode("https://ex.com/isolated")

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	restored := NewGraph()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(g.Nodes(), restored.Nodes()) {
		t.Errorf("nodes differ: %v vs %v", g.Nodes(), restored.Nodes())
	}
	if !reflect.DeepEqual(g.Edges(), restored.Edges()) {
		t.Errorf("edges differ: %v vs %v", g.Edges(), restored.Edges())
	}
}

// TestNotFoundRecordPathString tests the arrow-joined path rendering.
func TestNotFoundRecordPathString(t *testing.T) {
	t.Parallel()

	rec := NotFoundRecord{
		URL:  "https://ex.com/a",
		Path: []URL{"https://ex.com", "https://ex.com/a"},
	}

	want := "https://ex.com -> https://ex.com/a"
	if got := rec.PathString(); got != want {
		t.Errorf("PathString() = %q, want %q", got, want)
	}
}

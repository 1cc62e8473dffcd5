package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddEdgeSymmetric(t *testing.T) {
	g := New(5, 2.5)
	if !g.AddEdge(1, 2, 1.0) {
		t.Fatal("expected edge to be added")
	}
	ns := g.Neighbours(2)
	if len(ns) != 1 || ns[0].Vertex != 1 || ns[0].Weight != 1.0 {
		t.Errorf("expected symmetric edge 2->1, got %v", ns)
	}
}

func TestAddEdgeRejectsSelfLoop(t *testing.T) {
	g := New(5, 2.5)
	if g.AddEdge(1, 1, 1.0) {
		t.Error("self-loop must be rejected")
	}
}

func TestAddEdgeRejectsNonPositiveWeight(t *testing.T) {
	g := New(5, 2.5)
	if g.AddEdge(1, 2, 0) {
		t.Error("zero weight must be rejected")
	}
	if g.AddEdge(1, 2, -1) {
		t.Error("negative weight must be rejected")
	}
}

func TestAddEdgeRejectsTooLong(t *testing.T) {
	g := New(5, 2.5)
	if g.AddEdge(1, 2, 2.51) {
		t.Error("edge exceeding MaxEdgeLen must be rejected")
	}
	if !g.AddEdge(1, 2, 2.5) {
		t.Error("edge at exactly MaxEdgeLen should be accepted")
	}
}

func TestAddEdgeRejectsDuplicate(t *testing.T) {
	g := New(5, 2.5)
	g.AddEdge(1, 2, 1.0)
	if g.AddEdge(1, 2, 1.5) {
		t.Error("duplicate edge must be rejected")
	}
}

func TestAddEdgeRespectsDegreeCap(t *testing.T) {
	g := New(2, 2.5)
	g.AddEdge(0, 1, 1.0)
	g.AddEdge(0, 2, 1.0)
	// Vertex 0 is now at capacity (degree 2).
	if g.AddEdge(0, 3, 1.0) {
		t.Error("edge should be refused once an endpoint is at capacity")
	}
	if g.Degree(0) != 2 {
		t.Errorf("expected degree 2, got %d", g.Degree(0))
	}
}

func TestDegreeCapStabilisesWithManyCandidates(t *testing.T) {
	// S4: insert 10 coincidentally-connectable vertices around a hub.
	g := New(5, 2.5)
	hub := VertexID(0)
	g.AddVertex(hub)
	for i := 1; i <= 10; i++ {
		g.AddEdge(hub, VertexID(i), 1.0)
	}
	if g.Degree(hub) != 5 {
		t.Errorf("hub degree should stabilise at MaxDegree=5, got %d", g.Degree(hub))
	}
}

func TestShortestPathSameVertex(t *testing.T) {
	g := New(5, 2.5)
	g.AddVertex(7)
	path := g.ShortestPath(7, 7)
	if len(path) != 1 || path[0] != 7 {
		t.Errorf("expected [7], got %v", path)
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	g := New(5, 2.5)
	g.AddVertex(1)
	g.AddVertex(2)
	path := g.ShortestPath(1, 2)
	if len(path) != 0 {
		t.Errorf("expected empty path for unreachable vertices, got %v", path)
	}
}

func TestShortestPathPrefersCheaperRoute(t *testing.T) {
	g := New(5, 2.5)
	// 0 -> 1 -> 2 direct costs 2.0 total; 0 -> 2 direct costs 2.5.
	g.AddEdge(0, 1, 1.0)
	g.AddEdge(1, 2, 1.0)
	g.AddEdge(0, 2, 2.5)

	path := g.ShortestPath(0, 2)
	want := []VertexID{0, 1, 2}
	if diff := cmp.Diff(want, path); diff != "" {
		t.Errorf("shortest path mismatch (-want +got):\n%s", diff)
	}
}

func TestShortestPathDeterministicTieBreak(t *testing.T) {
	// Two equal-cost routes from 0 to 3: via 1 and via 2. The
	// smaller intermediate vertex id must win.
	g := New(5, 2.5)
	g.AddEdge(0, 2, 1.0)
	g.AddEdge(2, 3, 1.0)
	g.AddEdge(0, 1, 1.0)
	g.AddEdge(1, 3, 1.0)

	path := g.ShortestPath(0, 3)
	want := []VertexID{0, 1, 3}
	if diff := cmp.Diff(want, path); diff != "" {
		t.Errorf("expected tie-break toward smaller id (-want +got):\n%s", diff)
	}
}

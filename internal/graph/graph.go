// Package graph implements an undirected weighted graph keyed by
// opaque vertex ids, with a degree cap on edge insertion and a
// deterministic Dijkstra shortest-path search.
package graph

import (
	"container/heap"
)

// VertexID is an opaque, non-reusable, monotonically increasing
// integer identifying a roadmap node.
type VertexID int64

// MaxDegree is the default cap on a vertex's neighbour set size.
const MaxDegree = 5

// MaxEdgeLen is the default cap on an edge's weight (metres).
const MaxEdgeLen = 2.5

// Neighbour is one entry of a vertex's adjacency list.
type Neighbour struct {
	Vertex VertexID
	Weight float64
}

// Edge is a (from, to, weight) triple yielded by Container, used for
// overlay composition without exposing the internal adjacency map.
type Edge struct {
	From, To VertexID
	Weight   float64
}

// Graph is an undirected weighted graph. The zero value is not
// usable; construct with New.
type Graph struct {
	maxDegree  int
	maxEdgeLen float64
	adj        map[VertexID]map[VertexID]float64
	order      []VertexID // insertion order, for deterministic Container output
}

// New creates an empty Graph with the given degree cap and maximum
// edge length. A maxDegree or maxEdgeLen <= 0 falls back to the
// package defaults.
func New(maxDegree int, maxEdgeLen float64) *Graph {
	if maxDegree <= 0 {
		maxDegree = MaxDegree
	}
	if maxEdgeLen <= 0 {
		maxEdgeLen = MaxEdgeLen
	}
	return &Graph{
		maxDegree:  maxDegree,
		maxEdgeLen: maxEdgeLen,
		adj:        make(map[VertexID]map[VertexID]float64),
	}
}

// AddVertex inserts v with an empty neighbour set. Idempotent if v is
// already present.
func (g *Graph) AddVertex(v VertexID) {
	if _, ok := g.adj[v]; ok {
		return
	}
	g.adj[v] = make(map[VertexID]float64)
	g.order = append(g.order, v)
}

// HasVertex reports whether v has been added to the graph.
func (g *Graph) HasVertex(v VertexID) bool {
	_, ok := g.adj[v]
	return ok
}

// Degree returns the current neighbour-set size of v.
func (g *Graph) Degree(v VertexID) int {
	return len(g.adj[v])
}

// AddEdge attempts to add a symmetric edge u<->v with the given
// weight. It refuses and returns false if u==v, w<=0, w>MaxEdgeLen,
// either endpoint is at the degree cap, or the edge already exists.
// Otherwise it inserts the edge symmetrically and returns true.
func (g *Graph) AddEdge(u, v VertexID, w float64) bool {
	if u == v {
		return false
	}
	if w <= 0 || w > g.maxEdgeLen {
		return false
	}
	g.AddVertex(u)
	g.AddVertex(v)

	if _, exists := g.adj[u][v]; exists {
		return false
	}
	if len(g.adj[u]) >= g.maxDegree || len(g.adj[v]) >= g.maxDegree {
		return false
	}

	g.adj[u][v] = w
	g.adj[v][u] = w
	return true
}

// Neighbours returns v's adjacency list. The order is unspecified.
func (g *Graph) Neighbours(v VertexID) []Neighbour {
	m := g.adj[v]
	out := make([]Neighbour, 0, len(m))
	for n, w := range m {
		out = append(out, Neighbour{Vertex: n, Weight: w})
	}
	return out
}

// Container returns a snapshot of every vertex and edge, each edge
// reported once (u < v), in deterministic order (vertices by insertion,
// each vertex's edges by ascending neighbour id) — intended for overlay
// composition without copying the internal adjacency map wholesale.
func (g *Graph) Container() (vertices []VertexID, edges []Edge) {
	vertices = append(vertices, g.order...)
	for _, u := range g.order {
		neighbours := g.Neighbours(u)
		sortNeighbours(neighbours)
		for _, n := range neighbours {
			if u < n.Vertex {
				edges = append(edges, Edge{From: u, To: n.Vertex, Weight: n.Weight})
			}
		}
	}
	return vertices, edges
}

// dijkstraItem is one entry of the shortest-path priority queue.
type dijkstraItem struct {
	vertex VertexID
	dist   float64
	index  int
}

type dijkstraHeap []*dijkstraItem

func (h dijkstraHeap) Len() int { return len(h) }
func (h dijkstraHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	// Deterministic tie-break: smaller VertexId first.
	return h[i].vertex < h[j].vertex
}
func (h dijkstraHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *dijkstraHeap) Push(x any) {
	it := x.(*dijkstraItem)
	it.index = len(*h)
	*h = append(*h, it)
}
func (h *dijkstraHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// ShortestPath runs Dijkstra from src to dst and returns the ordered
// sequence of VertexIds on a shortest path, inclusive of both
// endpoints. Returns an empty slice if dst is unreachable (or either
// endpoint is unknown). Ties in the priority queue are broken by
// smaller VertexId, so the result is deterministic for a fixed graph.
// ShortestPath(v, v) returns []VertexID{v} without visiting any edge.
func (g *Graph) ShortestPath(src, dst VertexID) []VertexID {
	if !g.HasVertex(src) || !g.HasVertex(dst) {
		return nil
	}
	if src == dst {
		return []VertexID{src}
	}

	dist := map[VertexID]float64{src: 0}
	prev := map[VertexID]VertexID{}
	visited := map[VertexID]bool{}

	pq := &dijkstraHeap{{vertex: src, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*dijkstraItem)
		if visited[cur.vertex] {
			continue
		}
		visited[cur.vertex] = true

		if cur.vertex == dst {
			break
		}

		// Iterate neighbours in a fixed order so that the relaxation
		// order itself never introduces nondeterminism beyond the
		// documented tie-break.
		neighbours := g.Neighbours(cur.vertex)
		sortNeighbours(neighbours)

		for _, n := range neighbours {
			if visited[n.Vertex] {
				continue
			}
			nd := cur.dist + n.Weight
			if existing, ok := dist[n.Vertex]; !ok || nd < existing {
				dist[n.Vertex] = nd
				prev[n.Vertex] = cur.vertex
				heap.Push(pq, &dijkstraItem{vertex: n.Vertex, dist: nd})
			}
		}
	}

	if !visited[dst] {
		return nil
	}

	var path []VertexID
	for at := dst; ; {
		path = append([]VertexID{at}, path...)
		if at == src {
			break
		}
		at = prev[at]
	}
	return path
}

func sortNeighbours(ns []Neighbour) {
	for i := 1; i < len(ns); i++ {
		for j := i; j > 0 && ns[j].Vertex < ns[j-1].Vertex; j-- {
			ns[j], ns[j-1] = ns[j-1], ns[j]
		}
	}
}

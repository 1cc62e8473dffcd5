// Package roadmap implements the Low-Dispersion Probabilistic Roadmap
// (LD-PRM): vertex<->world-ordinate bijection, dispersion-based sample
// rejection, incremental build/query, and path shortcutting.
package roadmap

import (
	"errors"
	"math/rand"

	"github.com/elektrokombinacija/ldprm-planner/internal/graph"
	"github.com/elektrokombinacija/ldprm-planner/internal/grid"
)

// ErrGoalInaccessible is returned when the start or goal ordinate maps
// to a cell that is not in known free space.
var ErrGoalInaccessible = errors.New("roadmap: start or goal is not in free space")

// ErrPathNotFound is returned when the sampling loop exhausts
// MaxSamples without connecting start to goal.
var ErrPathNotFound = errors.New("roadmap: exhausted sample budget without finding a path")

// Config configures a Roadmap's geometry and growth parameters.
type Config struct {
	MapSizeM         float64 // side length of the square sampling region, metres
	RobotDiameterM   float64 // dilation diameter, metres
	MaxDegree        int     // Graph.MaxDegree
	MaxEdgeLen       float64 // Graph.MaxEdgeLen, metres
	DispersionRadius float64 // minimum allowed spacing between sampled vertices, metres
	MaxSamples       int     // sampling loop bound per build

	// Rand is the source of random samples. Tests substitute a
	// deterministic rand.Rand here; if nil, a default seeded source
	// is used.
	Rand *rand.Rand
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		MapSizeM:         20.0,
		RobotDiameterM:   0.2,
		MaxDegree:        graph.MaxDegree,
		MaxEdgeLen:       graph.MaxEdgeLen,
		DispersionRadius: 0.2, // 2 * default resolution (0.1m)
		MaxSamples:       1000,
	}
}

// Roadmap holds a Graph plus the bijective vertex<->world-ordinate
// table. Vertices and edges accumulate across build cycles within one
// process; a Grid snapshot is only valid for a single Build call.
type Roadmap struct {
	cfg   Config
	graph *graph.Graph

	toOrd    map[graph.VertexID]grid.WorldOrd
	toVertex map[grid.WorldOrd]graph.VertexID
	nextID   graph.VertexID

	reference grid.WorldOrd
	rng       *rand.Rand
}

// New creates an empty Roadmap.
func New(cfg Config) *Roadmap {
	if cfg.MaxSamples <= 0 {
		cfg.MaxSamples = 1000
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Roadmap{
		cfg:      cfg,
		graph:    graph.New(cfg.MaxDegree, cfg.MaxEdgeLen),
		toOrd:    make(map[graph.VertexID]grid.WorldOrd),
		toVertex: make(map[grid.WorldOrd]graph.VertexID),
		rng:      rng,
	}
}

// Graph exposes the underlying graph, e.g. for overlay composition.
func (r *Roadmap) Graph() *graph.Graph { return r.graph }

// Size returns the number of vertices currently in the roadmap.
func (r *Roadmap) Size() int { return len(r.toOrd) }

// SetReference sets the world-frame origin used for sampling bounds.
// PlannerLoop sets this to the robot's current pose before each build.
func (r *Roadmap) SetReference(ref grid.WorldOrd) {
	r.reference = ref
}

// findOrAdd returns the existing vertex for ordinate p, or allocates
// a fresh one. Bypasses the dispersion rule — used for start/goal.
func (r *Roadmap) findOrAdd(p grid.WorldOrd) graph.VertexID {
	if v, ok := r.toVertex[p]; ok {
		return v
	}
	v := r.nextID
	r.nextID++
	r.graph.AddVertex(v)
	r.toOrd[v] = p
	r.toVertex[p] = v
	return v
}

// violatesDispersion reports whether any existing vertex lies closer
// than r to p.
func (r *Roadmap) violatesDispersion(p grid.WorldOrd, radius float64) bool {
	for _, existing := range r.toOrd {
		if grid.Distance(existing, p) < radius {
			return true
		}
	}
	return false
}

func (r *Roadmap) cell(c *grid.Grid, v graph.VertexID) grid.Cell {
	return c.WorldToCell(r.toOrd[v])
}

// connectToExisting tries to link v to every other vertex currently in
// the roadmap, subject to the degree cap, MaxEdgeLen, and collision
// checking against m (already dilated to C-space). O(N) in roadmap
// size, acceptable since MaxSamples caps growth.
func (r *Roadmap) connectToExisting(v graph.VertexID, m *grid.Grid) {
	vOrd := r.toOrd[v]
	vCell := m.WorldToCell(vOrd)

	for u := range r.toOrd {
		if u == v {
			continue
		}
		if r.graph.Degree(v) >= r.cfg.MaxDegree {
			return
		}
		uOrd := r.toOrd[u]
		dist := grid.Distance(vOrd, uOrd)
		if dist > r.cfg.MaxEdgeLen {
			continue
		}
		if _, already := indexOf(r.graph.Neighbours(v), u); already {
			continue
		}
		uCell := m.WorldToCell(uOrd)
		if m.CanConnect(vCell, uCell) {
			r.graph.AddEdge(v, u, dist)
		}
	}
}

func indexOf(ns []graph.Neighbour, v graph.VertexID) (int, bool) {
	for i, n := range ns {
		if n.Vertex == v {
			return i, true
		}
	}
	return -1, false
}

// Build runs the LD-PRM construction/query algorithm: it dilates m to
// C-space, admits start and goal, attempts a direct query, falls back
// to re-attaching start/goal to the existing roadmap, then samples up
// to MaxSamples new vertices, returning the first connecting path
// found, shortcut-optimised. Returns ErrGoalInaccessible if either
// endpoint is not in free space, or ErrPathNotFound if the sample
// budget is exhausted.
func (r *Roadmap) Build(m *grid.Grid, start, goal grid.WorldOrd) ([]grid.WorldOrd, error) {
	cspace := m.ExpandCSpace(r.cfg.RobotDiameterM)

	startCell := cspace.WorldToCell(start)
	goalCell := cspace.WorldToCell(goal)
	if !cspace.IsFree(startCell) || !cspace.IsFree(goalCell) {
		return nil, ErrGoalInaccessible
	}

	vs := r.findOrAdd(start)
	vg := r.findOrAdd(goal)

	if path := r.graph.ShortestPath(vs, vg); len(path) > 0 {
		return r.finish(path, cspace), nil
	}

	r.connectToExisting(vs, cspace)
	r.connectToExisting(vg, cspace)
	if path := r.graph.ShortestPath(vs, vg); len(path) > 0 {
		return r.finish(path, cspace), nil
	}

	half := r.cfg.MapSizeM / 2
	for i := 0; i < r.cfg.MaxSamples; i++ {
		x := r.reference.X + (r.rng.Float64()*2-1)*half
		y := r.reference.Y + (r.rng.Float64()*2-1)*half
		p := grid.RoundedWorldOrd(x, y)

		if !cspace.IsFree(cspace.WorldToCell(p)) {
			continue
		}
		if r.violatesDispersion(p, r.cfg.DispersionRadius) {
			continue
		}

		v := r.findOrAdd(p)
		r.connectToExisting(v, cspace)

		if path := r.graph.ShortestPath(vs, vg); len(path) > 0 {
			return r.finish(path, cspace), nil
		}
	}

	return nil, ErrPathNotFound
}

func (r *Roadmap) finish(vertexPath []graph.VertexID, cspace *grid.Grid) []grid.WorldOrd {
	ords := make([]grid.WorldOrd, len(vertexPath))
	for i, v := range vertexPath {
		ords[i] = r.toOrd[v]
	}
	return OptimisePath(ords, cspace)
}

// OptimisePath greedily shortcuts a path of collision-free segments:
// from the current point, it jumps to the farthest-ahead point still
// in direct line-of-sight, repeating until the goal is reached. The
// result's first and last ordinates equal the input's, every
// consecutive pair is directly collision-free in m, and its segment
// count is <= the input's.
func OptimisePath(path []grid.WorldOrd, m *grid.Grid) []grid.WorldOrd {
	if len(path) == 0 {
		return nil
	}
	result := []grid.WorldOrd{path[0]}
	i := 0
	n := len(path) - 1
	for i < n {
		j := n
		for j > i {
			if m.CanConnect(m.WorldToCell(path[i]), m.WorldToCell(path[j])) {
				break
			}
			j--
		}
		if j == i {
			// Should not happen for a path whose consecutive pairs
			// are already collision-free, but guard against it to
			// avoid an infinite loop.
			j = i + 1
		}
		result = append(result, path[j])
		i = j
	}
	return result
}

package roadmap

import (
	"github.com/elektrokombinacija/ldprm-planner/internal/graph"
	"github.com/elektrokombinacija/ldprm-planner/internal/grid"
	"github.com/elektrokombinacija/ldprm-planner/internal/viewer"
)

// ViewerSnapshot copies the roadmap's current vertices/edges (and an
// optional path) into a viewer.Snapshot, decoupling the UI goroutine
// from the live planner state.
func (r *Roadmap) ViewerSnapshot(path []grid.WorldOrd) viewer.Snapshot {
	vertices, edges := r.graph.Container()

	ords := make(map[graph.VertexID]grid.WorldOrd, len(vertices))
	for _, v := range vertices {
		ords[v] = r.toOrd[v]
	}

	return viewer.Snapshot{
		Vertices: ords,
		Edges:    edges,
		Path:     path,
	}
}

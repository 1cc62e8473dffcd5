// Package worldbuffer provides the single-consumer/multiple-producer
// handoff between world-sensing producers (grid updates, pose updates)
// and the planner consumer: a mutex-guarded, coalescing latest-value
// buffer. A producer that pushes twice before the consumer pops only
// ever hands the consumer the most recent value.
package worldbuffer

import (
	"sync"

	"github.com/elektrokombinacija/ldprm-planner/internal/grid"
)

// Snapshot is one coalesced (grid, pose) pair ready for planning.
type Snapshot struct {
	Grid *grid.Grid
	Pose grid.WorldOrd
}

// WorldBuffer holds the latest grid and the latest pose pushed by
// (possibly distinct) producer goroutines, coalescing repeated pushes
// between consumer pops.
type WorldBuffer struct {
	mu   sync.Mutex
	grid *grid.Grid
	pose grid.WorldOrd
	have struct {
		grid bool
		pose bool
	}
}

// New creates an empty WorldBuffer.
func New() *WorldBuffer {
	return &WorldBuffer{}
}

// PushGrid overwrites the latest grid snapshot, discarding any prior
// un-consumed grid.
func (b *WorldBuffer) PushGrid(g *grid.Grid) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.grid = g
	b.have.grid = true
}

// PushPose overwrites the latest pose, discarding any prior
// un-consumed pose.
func (b *WorldBuffer) PushPose(p grid.WorldOrd) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pose = p
	b.have.pose = true
}

// HasBoth reports whether both a grid and a pose are currently
// available to pop.
func (b *WorldBuffer) HasBoth() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.have.grid && b.have.pose
}

// TryPopLatest takes the latest grid and pose under one critical
// section. Either side independently reports ok=false if nothing has
// been pushed for it since the last pop; the other side is still
// returned if available.
func (b *WorldBuffer) TryPopLatest() (g *grid.Grid, gridOK bool, p grid.WorldOrd, poseOK bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.have.grid {
		g = b.grid
		gridOK = true
		b.have.grid = false
	}
	if b.have.pose {
		p = b.pose
		poseOK = true
		b.have.pose = false
	}
	return g, gridOK, p, poseOK
}

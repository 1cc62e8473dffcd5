// Package grid implements the rasterised occupancy grid: world<->cell
// mapping, free-space tests, line-of-sight raster traversal, and
// morphological dilation for configuration-space expansion.
package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// WorldOrd is a point in the robot's global frame, in metres.
type WorldOrd struct {
	X, Y float64
}

// RoundedWorldOrd rounds both coordinates to one decimal place, the
// resolution the sampler is required to emit ordinates at.
func RoundedWorldOrd(x, y float64) WorldOrd {
	return WorldOrd{X: roundTo(x, 1), Y: roundTo(y, 1)}
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// Distance returns the Euclidean distance between two ordinates, via
// gonum's Minkowski distance (p=2, i.e. the L2/Euclidean norm) so edge
// weighting, dispersion checks, and MaxEdgeLen admission all share one
// implementation with the rest of the domain stack.
func Distance(a, b WorldOrd) float64 {
	return floats.Distance([]float64{a.X, a.Y}, []float64{b.X, b.Y}, 2)
}

// Cell is an integer pixel coordinate in a grid image.
type Cell struct {
	Col, Row int
}

// FreeThreshold is the occupancy byte value above which a cell is
// considered free. Values <= FreeThreshold are occupied or unknown.
const FreeThreshold = 127

// Grid is a greyscale raster occupancy map. Cells near 255 are known
// free, cells near 0 are occupied, intermediate values are unknown.
// A Grid is immutable once handed to the planner for one build cycle;
// ExpandCSpace returns a new Grid rather than mutating in place.
type Grid struct {
	WidthCells  int
	HeightCells int
	Resolution  float64 // metres per cell
	Reference   WorldOrd
	Cells       []byte // row-major, length WidthCells*HeightCells

	dilatedDiameter float64 // robot diameter this grid was last dilated by, 0 if none
}

// New creates a Grid of the given size, initialised to the given fill
// value (use 255 for all-free, 0 for all-occupied).
func New(widthCells, heightCells int, resolution float64, reference WorldOrd, fill byte) *Grid {
	cells := make([]byte, widthCells*heightCells)
	if fill != 0 {
		for i := range cells {
			cells[i] = fill
		}
	}
	return &Grid{
		WidthCells:  widthCells,
		HeightCells: heightCells,
		Resolution:  resolution,
		Reference:   reference,
		Cells:       cells,
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cp := *g
	cp.Cells = make([]byte, len(g.Cells))
	copy(cp.Cells, g.Cells)
	return &cp
}

func (g *Grid) inBounds(c Cell) bool {
	return c.Col >= 0 && c.Col < g.WidthCells && c.Row >= 0 && c.Row < g.HeightCells
}

func (g *Grid) index(c Cell) int {
	return c.Row*g.WidthCells + c.Col
}

// At returns the raw occupancy byte at a cell, or 0 (occupied) if the
// cell is out of bounds.
func (g *Grid) At(c Cell) byte {
	if !g.inBounds(c) {
		return 0
	}
	return g.Cells[g.index(c)]
}

// Set writes the occupancy byte at a cell. No-op if out of bounds.
func (g *Grid) Set(c Cell, v byte) {
	if !g.inBounds(c) {
		return
	}
	g.Cells[g.index(c)] = v
}

// WorldToCell maps a world ordinate to the cell containing it. The
// y-axis is inverted: positive world-y maps to smaller row indices.
func WorldToCell(ref WorldOrd, resolution float64, width, height int, p WorldOrd) Cell {
	col := int(math.Round((p.X-ref.X)/resolution + float64(width)/2))
	row := int(math.Round(float64(height)/2 - (p.Y-ref.Y)/resolution))
	return Cell{Col: col, Row: row}
}

// CellToWorld maps a cell's centre back to world coordinates. It is
// the inverse of WorldToCell.
func CellToWorld(ref WorldOrd, resolution float64, width, height int, c Cell) WorldOrd {
	x := ref.X + (float64(c.Col)-float64(width)/2)*resolution
	y := ref.Y - (float64(c.Row)-float64(height)/2)*resolution
	return WorldOrd{X: x, Y: y}
}

// WorldToCell maps a world ordinate into this grid's cell space.
func (g *Grid) WorldToCell(p WorldOrd) Cell {
	return WorldToCell(g.Reference, g.Resolution, g.WidthCells, g.HeightCells, p)
}

// CellToWorld maps a cell in this grid back to world coordinates.
func (g *Grid) CellToWorld(c Cell) WorldOrd {
	return CellToWorld(g.Reference, g.Resolution, g.WidthCells, g.HeightCells, c)
}

// IsFree reports whether a cell is inside bounds and its occupancy
// byte strictly exceeds FreeThreshold. Out-of-bounds cells are never
// free.
func (g *Grid) IsFree(c Cell) bool {
	if !g.inBounds(c) {
		return false
	}
	return g.Cells[g.index(c)] > FreeThreshold
}

// ExpandCSpace dilates occupied (non-free) regions outward by
// ceil(robotDiameterM / (2*resolution)) cells using a square
// structuring element, so the robot can be treated as a point.
// Idempotent: calling it again with the same diameter on the result
// returns an equivalent grid.
func (g *Grid) ExpandCSpace(robotDiameterM float64) *Grid {
	if g.dilatedDiameter == robotDiameterM {
		return g.Clone()
	}

	radiusCells := int(math.Ceil(robotDiameterM / (2 * g.Resolution)))
	out := g.Clone()
	out.dilatedDiameter = robotDiameterM
	if radiusCells <= 0 {
		return out
	}

	for row := 0; row < g.HeightCells; row++ {
		for col := 0; col < g.WidthCells; col++ {
			c := Cell{Col: col, Row: row}
			if g.IsFree(c) {
				continue
			}
			// Stamp occupied onto every cell within the square
			// structuring element centred on this occupied cell.
			for dr := -radiusCells; dr <= radiusCells; dr++ {
				for dc := -radiusCells; dc <= radiusCells; dc++ {
					n := Cell{Col: col + dc, Row: row + dr}
					if out.inBounds(n) {
						out.Set(n, 0)
					}
				}
			}
		}
	}
	return out
}

// CanConnect rasterises the segment a->b using Bresenham's algorithm
// and returns true iff every visited cell is free. Cost is linear in
// segment length.
func (g *Grid) CanConnect(a, b Cell) bool {
	for _, c := range bresenham(a, b) {
		if !g.IsFree(c) {
			return false
		}
	}
	return true
}

// bresenham returns every cell visited by the integer line from a to
// b, inclusive of both endpoints.
func bresenham(a, b Cell) []Cell {
	x0, y0 := a.Col, a.Row
	x1, y1 := b.Col, b.Row

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 >= x1 {
		sx = -1
	}
	sy := 1
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	var cells []Cell
	x, y := x0, y0
	for {
		cells = append(cells, Cell{Col: x, Row: y})
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return cells
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

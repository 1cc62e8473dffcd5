// Command genscenario generates deterministic single-robot planning
// scenarios: an occupancy grid with randomly scattered rectangular
// obstacles, plus a start/goal pair guaranteed to land in free space.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/elektrokombinacija/ldprm-planner/internal/grid"
	"github.com/elektrokombinacija/ldprm-planner/internal/scenario"
)

// genParams holds every knob needed to reproduce a scenario
// deterministically from its seed.
type genParams struct {
	Seed            int64
	Width           int
	Height          int
	Resolution      float64
	ObstacleDensity float64 // fraction of cells covered by obstacle rectangles
	MaxObstacleSize int     // max obstacle side length, in cells
}

// generateScenario builds a grid with scattered square obstacles and a
// free start/goal pair near opposite corners.
func generateScenario(name string, p genParams, generatedAt time.Time) scenario.Scenario {
	rng := rand.New(rand.NewSource(p.Seed))

	m := grid.New(p.Width, p.Height, p.Resolution, grid.WorldOrd{}, 255)

	targetOccupied := int(float64(p.Width*p.Height) * p.ObstacleDensity)
	occupied := 0
	for occupied < targetOccupied {
		size := 1 + rng.Intn(p.MaxObstacleSize)
		col := rng.Intn(p.Width)
		row := rng.Intn(p.Height)
		for dr := 0; dr < size; dr++ {
			for dc := 0; dc < size; dc++ {
				c := grid.Cell{Col: col + dc, Row: row + dr}
				if c.Col < 0 || c.Col >= p.Width || c.Row < 0 || c.Row >= p.Height {
					continue
				}
				if m.IsFree(c) {
					m.Set(c, 0)
					occupied++
				}
			}
		}
	}

	start := freeCellNear(m, 1, 1)
	goal := freeCellNear(m, p.Width-2, p.Height-2)
	clearAround(m, start, 1)
	clearAround(m, goal, 1)

	startOrd := m.CellToWorld(start)
	goalOrd := m.CellToWorld(goal)

	name = fmt.Sprintf("%s_%dx%d_%d", name, p.Width, p.Height, p.Seed)
	return scenario.FromGrid(name, p.Seed, m, startOrd, goalOrd, generatedAt)
}

// clearAround forces a small free patch around c, so start/goal cells
// (and the line-of-sight immediately around them) never land inside an
// obstacle laid down by the random scatter.
func clearAround(m *grid.Grid, c grid.Cell, radius int) {
	for dr := -radius; dr <= radius; dr++ {
		for dc := -radius; dc <= radius; dc++ {
			cell := grid.Cell{Col: c.Col + dc, Row: c.Row + dr}
			if cell.Col < 0 || cell.Col >= m.WidthCells || cell.Row < 0 || cell.Row >= m.HeightCells {
				continue
			}
			m.Set(cell, 255)
		}
	}
}

// freeCellNear clamps (col, row) into bounds; obstacle clearing around
// it happens in the caller, so this only needs to stay in bounds.
func freeCellNear(m *grid.Grid, col, row int) grid.Cell {
	if col < 0 {
		col = 0
	}
	if col >= m.WidthCells {
		col = m.WidthCells - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= m.HeightCells {
		row = m.HeightCells - 1
	}
	return grid.Cell{Col: col, Row: row}
}

func main() {
	seed := flag.Int64("seed", 42, "random seed for deterministic generation")
	width := flag.Int("width", 40, "grid width, cells")
	height := flag.Int("height", 40, "grid height, cells")
	resolution := flag.Float64("resolution", 0.1, "cell size, metres")
	density := flag.Float64("density", 0.15, "fraction of the grid covered by obstacles")
	maxObstacle := flag.Int("max-obstacle", 6, "maximum obstacle side length, cells")
	outputDir := flag.String("output", "testdata", "output directory")
	scalingMode := flag.Bool("scaling", false, "generate a suite of scenarios at increasing grid sizes (20, 40, 80, 160)")

	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}

	generatedAt := time.Now().UTC()

	var scenarios []scenario.Scenario
	if *scalingMode {
		for _, size := range []int{20, 40, 80, 160} {
			p := genParams{
				Seed:            *seed,
				Width:           size,
				Height:          size,
				Resolution:      *resolution,
				ObstacleDensity: *density,
				MaxObstacleSize: *maxObstacle,
			}
			scenarios = append(scenarios, generateScenario("scaling", p, generatedAt))
		}
	} else {
		p := genParams{
			Seed:            *seed,
			Width:           *width,
			Height:          *height,
			Resolution:      *resolution,
			ObstacleDensity: *density,
			MaxObstacleSize: *maxObstacle,
		}
		scenarios = append(scenarios, generateScenario("scenario", p, generatedAt))
	}

	for i := range scenarios {
		sc := &scenarios[i]
		path := filepath.Join(*outputDir, sc.Name+".json")
		if err := sc.Save(path); err != nil {
			fmt.Fprintf(os.Stderr, "error writing %s: %v\n", path, err)
			continue
		}
		fmt.Printf("generated: %s (%dx%d, seed=%d)\n", path, sc.Width, sc.Height, sc.Seed)
	}
}

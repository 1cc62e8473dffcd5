// Package scenario defines the on-disk JSON format for a single-robot
// planning scenario — a grid plus a start/goal pair — shared by
// tools/genscenario (producer), tools/bench, and cmd/planviewer
// (consumers).
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/elektrokombinacija/ldprm-planner/internal/grid"
)

// Scenario is a complete planning problem: an occupancy grid plus a
// start/goal pair.
type Scenario struct {
	Name       string  `json:"name"`
	Seed       int64   `json:"seed"`
	Width      int     `json:"width_cells"`
	Height     int     `json:"height_cells"`
	Resolution float64 `json:"resolution"`
	// Cells is the row-major occupancy raster, one byte per cell.
	Cells     []byte        `json:"cells"`
	Start     grid.WorldOrd `json:"start"`
	Goal      grid.WorldOrd `json:"goal"`
	Generated string        `json:"generated"`
}

// Grid rebuilds a *grid.Grid from the scenario's stored raster.
func (s *Scenario) Grid() *grid.Grid {
	g := grid.New(s.Width, s.Height, s.Resolution, grid.WorldOrd{}, 0)
	copy(g.Cells, s.Cells)
	return g
}

// FromGrid captures a grid's raster into a Scenario alongside a
// start/goal pair, stamping Generated with the given timestamp. The
// caller supplies it rather than this function calling time.Now()
// itself, so a whole batch of scenarios generated in one run shares a
// single consistent timestamp.
func FromGrid(name string, seed int64, g *grid.Grid, start, goal grid.WorldOrd, generatedAt time.Time) Scenario {
	cells := make([]byte, len(g.Cells))
	copy(cells, g.Cells)
	return Scenario{
		Name:       name,
		Seed:       seed,
		Width:      g.WidthCells,
		Height:     g.HeightCells,
		Resolution: g.Resolution,
		Cells:      cells,
		Start:      start,
		Goal:       goal,
		Generated:  generatedAt.UTC().Format(time.RFC3339),
	}
}

// Save writes the scenario as indented JSON.
func (s *Scenario) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a scenario from a JSON file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal scenario: %w", err)
	}
	return &s, nil
}

// Command planviewer opens a pan/zoom inspector window over a roadmap
// built from a scenario file (see tools/genscenario), or a small built
// in demo scenario if none is given.
package main

import (
	"flag"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/unit"

	"github.com/elektrokombinacija/ldprm-planner/internal/config"
	"github.com/elektrokombinacija/ldprm-planner/internal/grid"
	"github.com/elektrokombinacija/ldprm-planner/internal/roadmap"
	"github.com/elektrokombinacija/ldprm-planner/internal/scenario"
	"github.com/elektrokombinacija/ldprm-planner/internal/viewer"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a genscenario JSON file; a built-in demo is used if empty")
	flag.Parse()

	cfg := config.Default()

	var m *grid.Grid
	var start, goal grid.WorldOrd

	if *scenarioPath != "" {
		sc, err := scenario.Load(*scenarioPath)
		if err != nil {
			log.Fatalf("load scenario: %v", err)
		}
		m = sc.Grid()
		start, goal = sc.Start, sc.Goal
		cfg.MapSize = float64(sc.Width) * sc.Resolution
	} else {
		m, start, goal = demoScenario()
	}

	rm := roadmap.New(roadmap.Config{
		MapSizeM:         cfg.MapSize,
		RobotDiameterM:   cfg.RobotDiameter,
		MaxDegree:        cfg.Density,
		MaxEdgeLen:       cfg.MaxEdgeLen,
		DispersionRadius: cfg.DispersionRadius,
		MaxSamples:       cfg.MaxSamples,
	})
	rm.SetReference(start)

	path, err := rm.Build(m, start, goal)
	if err != nil {
		log.Printf("build did not find a path: %v", err)
	}
	snap := rm.ViewerSnapshot(path)

	go func() {
		window := new(app.Window)
		window.Option(
			app.Title("LD-PRM Planviewer"),
			app.Size(unit.Dp(1200), unit.Dp(800)),
		)

		application := viewer.NewApp(snap)
		if err := application.Run(window); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func demoScenario() (*grid.Grid, grid.WorldOrd, grid.WorldOrd) {
	m := grid.New(40, 40, 0.1, grid.WorldOrd{}, 255)
	for row := 5; row <= 34; row++ {
		m.Set(grid.Cell{Col: 20, Row: row}, 0)
	}
	return m, grid.WorldOrd{X: -1.0, Y: 0}, grid.WorldOrd{X: 1.0, Y: 0}
}

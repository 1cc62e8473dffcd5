// Command plannerd runs the planner loop as a long-lived process: a
// urfave/cli front end decodes configuration, a world-producer
// goroutine feeds grids and poses into the WorldBuffer, and every
// planning cycle logs its outcome (waypoint count or error) and writes
// an overlay PNG.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/disintegration/imaging"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/elektrokombinacija/ldprm-planner/internal/config"
	"github.com/elektrokombinacija/ldprm-planner/internal/grid"
	"github.com/elektrokombinacija/ldprm-planner/internal/logging"
	"github.com/elektrokombinacija/ldprm-planner/internal/plannerloop"
	"github.com/elektrokombinacija/ldprm-planner/internal/roadmap"
	"github.com/elektrokombinacija/ldprm-planner/internal/worldbuffer"
)

func main() {
	app := &cli.App{
		Name:  "plannerd",
		Usage: "run the LD-PRM planner loop against a demo world feed",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "map-size", Usage: "side length of the sampling region, metres"},
			&cli.Float64Flag{Name: "resolution", Usage: "grid resolution, metres per cell"},
			&cli.Float64Flag{Name: "robot-diameter", Usage: "robot diameter, metres"},
			&cli.IntFlag{Name: "density", Usage: "max graph degree per vertex"},
			&cli.Float64Flag{Name: "max-edge-len", Usage: "max edge length, metres"},
			&cli.IntFlag{Name: "max-samples", Usage: "sampling budget per build cycle"},
			&cli.IntFlag{Name: "max-retries", Usage: "max build attempts per goal"},
			&cli.Float64Flag{Name: "dispersion-radius", Usage: "minimum spacing between sampled vertices, metres"},
			&cli.StringFlag{Name: "log-level", Usage: "zap log level (debug, info, warn, error)"},
			&cli.StringFlag{Name: "log-file", Usage: "path to a rotated log file; empty disables file logging"},
			&cli.StringFlag{Name: "overlay-dir", Value: "overlay_out", Usage: "directory to write per-cycle overlay PNGs"},
			&cli.Float64Flag{Name: "goal-x", Value: 1.0, Usage: "demo goal X, metres"},
			&cli.Float64Flag{Name: "goal-y", Value: 1.0, Usage: "demo goal Y, metres"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	raw := map[string]any{}
	if c.IsSet("map-size") {
		raw["map_size"] = c.Float64("map-size")
	}
	if c.IsSet("resolution") {
		raw["resolution"] = c.Float64("resolution")
	}
	if c.IsSet("robot-diameter") {
		raw["robot_diameter"] = c.Float64("robot-diameter")
	}
	if c.IsSet("density") {
		raw["density"] = c.Int("density")
	}
	if c.IsSet("max-edge-len") {
		raw["max_edge_len"] = c.Float64("max-edge-len")
	}
	if c.IsSet("max-samples") {
		raw["max_samples"] = c.Int("max-samples")
	}
	if c.IsSet("max-retries") {
		raw["max_retries"] = c.Int("max-retries")
	}
	if c.IsSet("dispersion-radius") {
		raw["dispersion_radius"] = c.Float64("dispersion-radius")
	}
	if c.IsSet("log-level") {
		raw["log_level"] = c.String("log-level")
	}
	if c.IsSet("log-file") {
		raw["log_file"] = c.String("log-file")
	}

	cfg, err := config.FromMap(raw)
	if err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	overlayDir := c.String("overlay-dir")
	if err := os.MkdirAll(overlayDir, 0o755); err != nil {
		return fmt.Errorf("create overlay dir: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wb := worldbuffer.New()
	rm := roadmap.New(roadmap.Config{
		MapSizeM:         cfg.MapSize,
		RobotDiameterM:   cfg.RobotDiameter,
		MaxDegree:        cfg.Density,
		MaxEdgeLen:       cfg.MaxEdgeLen,
		DispersionRadius: cfg.DispersionRadius,
		MaxSamples:       cfg.MaxSamples,
	})

	cycle := 0
	publish := func(res plannerloop.Result) {
		cycle++
		if res.Err != nil {
			log.Warnw("planning cycle failed", "cycle", cycle, "error", res.Err)
		} else {
			log.Infow("planning cycle succeeded", "cycle", cycle, "waypoints", len(res.Path))
		}
		if res.Overlay == nil {
			return
		}
		path := fmt.Sprintf("%s/cycle_%04d.png", overlayDir, cycle)
		if err := imaging.Save(res.Overlay, path); err != nil {
			log.Warnw("failed to save overlay", "path", path, "error", err)
		}
	}

	loop := plannerloop.New(wb, rm, cfg, log, clock.New(), publish)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		loop.Run(gctx)
		return nil
	})
	group.Go(func() error {
		return feedDemoWorld(gctx, wb, cfg)
	})

	goal := grid.WorldOrd{X: c.Float64("goal-x"), Y: c.Float64("goal-y")}
	loop.SubmitGoal(goal)

	if err := group.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// feedDemoWorld produces an all-free demo grid and a stationary pose
// at startup, then pushes them again every five seconds until
// shutdown. A real deployment would
// replace this with a sensor-driven occupancy-grid producer.
func feedDemoWorld(ctx context.Context, wb *worldbuffer.WorldBuffer, cfg config.Config) error {
	widthCells := int(cfg.MapSize / cfg.Resolution)
	m := grid.New(widthCells, widthCells, cfg.Resolution, grid.WorldOrd{}, 255)
	wb.PushGrid(m)
	wb.PushPose(grid.WorldOrd{})

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			wb.PushGrid(m)
			wb.PushPose(grid.WorldOrd{})
		}
	}
}


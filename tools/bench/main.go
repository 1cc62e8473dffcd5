// Command bench runs the LD-PRM builder repeatedly over a directory of
// scenario files and reports timing, success, and path-length metrics
// across multiple scenarios and repetitions.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/elektrokombinacija/ldprm-planner/internal/config"
	"github.com/elektrokombinacija/ldprm-planner/internal/grid"
	"github.com/elektrokombinacija/ldprm-planner/internal/roadmap"
	"github.com/elektrokombinacija/ldprm-planner/internal/scenario"
)

// result records one (scenario, repetition) run.
type result struct {
	Timestamp  string
	CommitHash string
	GoVersion  string
	OS         string
	Arch       string
	Scenario   string
	GridSize   string
	Rep        int
	RuntimeMs  float64
	Success    bool
	PathLen    int
	PathCostM  float64
	RoadmapLen int
}

// scenarioMetrics aggregates results across repetitions of one scenario.
type scenarioMetrics struct {
	Name           string
	TotalRuns      int
	Successes      int
	TotalRuntimeMs float64
	TotalCostM     float64
}

func getGitCommit() string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

func runOnce(sc *scenario.Scenario, cfg config.Config, rep int, generatedAt time.Time) result {
	m := sc.Grid()

	rm := roadmap.New(roadmap.Config{
		MapSizeM:         float64(sc.Width) * sc.Resolution,
		RobotDiameterM:   cfg.RobotDiameter,
		MaxDegree:        cfg.Density,
		MaxEdgeLen:       cfg.MaxEdgeLen,
		DispersionRadius: cfg.DispersionRadius,
		MaxSamples:       cfg.MaxSamples,
		Rand:             rand.New(rand.NewSource(sc.Seed + int64(rep))),
	})
	rm.SetReference(sc.Start)

	start := time.Now()
	path, err := rm.Build(m, sc.Start, sc.Goal)
	elapsed := time.Since(start)

	r := result{
		Timestamp:  generatedAt.UTC().Format(time.RFC3339),
		CommitHash: getGitCommit(),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Scenario:   sc.Name,
		GridSize:   fmt.Sprintf("%dx%d", sc.Width, sc.Height),
		Rep:        rep,
		RuntimeMs:  float64(elapsed.Microseconds()) / 1000.0,
		Success:    err == nil,
		PathLen:    len(path),
		RoadmapLen: rm.Size(),
	}
	for i := 0; i+1 < len(path); i++ {
		r.PathCostM += grid.Distance(path[i], path[i+1])
	}
	return r
}

func writeCSV(results []result, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{
		"timestamp", "commit_hash", "go_version", "os", "arch",
		"scenario", "grid_size", "rep", "runtime_ms", "success",
		"path_len", "path_cost_m", "roadmap_size",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.Timestamp, r.CommitHash, r.GoVersion, r.OS, r.Arch,
			r.Scenario, r.GridSize, fmt.Sprintf("%d", r.Rep),
			fmt.Sprintf("%.3f", r.RuntimeMs), fmt.Sprintf("%t", r.Success),
			fmt.Sprintf("%d", r.PathLen), fmt.Sprintf("%.3f", r.PathCostM),
			fmt.Sprintf("%d", r.RoadmapLen),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(results []result) {
	metrics := make(map[string]*scenarioMetrics)
	for _, r := range results {
		m, ok := metrics[r.Scenario]
		if !ok {
			m = &scenarioMetrics{Name: r.Scenario}
			metrics[r.Scenario] = m
		}
		m.TotalRuns++
		if r.Success {
			m.Successes++
			m.TotalRuntimeMs += r.RuntimeMs
			m.TotalCostM += r.PathCostM
		}
	}

	fmt.Println("\n=== BENCHMARK SUMMARY ===")
	fmt.Printf("%-28s %6s %8s %12s %10s\n", "Scenario", "Runs", "Success", "AvgTime(ms)", "AvgCost(m)")
	fmt.Println(strings.Repeat("-", 70))

	var names []string
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := metrics[name]
		avgTime, avgCost := 0.0, 0.0
		if m.Successes > 0 {
			avgTime = m.TotalRuntimeMs / float64(m.Successes)
			avgCost = m.TotalCostM / float64(m.Successes)
		}
		fmt.Printf("%-28s %6d %8d %12.2f %10.2f\n", m.Name, m.TotalRuns, m.Successes, avgTime, avgCost)
	}
}

func main() {
	inputDir := flag.String("input", "testdata", "directory containing scenario JSON files")
	outputFile := flag.String("output", "evidence/bench_results.csv", "output CSV file")
	reps := flag.Int("reps", 3, "repetitions per scenario (each with a different sampler seed offset)")
	verbose := flag.Bool("verbose", false, "verbose per-run output")

	flag.Parse()

	outputDir := filepath.Dir(*outputFile)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}

	pattern := filepath.Join(*inputDir, "*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error finding scenario files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "no scenario files found in %s\n", *inputDir)
		fmt.Fprintf(os.Stderr, "run genscenario first: go run ./tools/genscenario -scaling -output %s\n", *inputDir)
		os.Exit(1)
	}

	cfg := config.Default()
	generatedAt := time.Now().UTC()

	var results []result
	totalRuns := len(files) * (*reps)
	currentRun := 0

	fmt.Printf("running benchmarks: %d scenarios x %d reps = %d runs\n", len(files), *reps, totalRuns)

	for _, file := range files {
		sc, err := scenario.Load(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading %s: %v\n", file, err)
			continue
		}
		for rep := 0; rep < *reps; rep++ {
			currentRun++
			if *verbose {
				fmt.Printf("[%d/%d] %s rep=%d ... ", currentRun, totalRuns, sc.Name, rep)
			} else {
				fmt.Printf("\r[%d/%d] running...", currentRun, totalRuns)
			}

			r := runOnce(sc, cfg, rep, generatedAt)
			results = append(results, r)

			if *verbose {
				if r.Success {
					fmt.Printf("ok (%.2fms, cost=%.2fm, path=%d pts)\n", r.RuntimeMs, r.PathCostM, r.PathLen)
				} else {
					fmt.Printf("failed\n")
				}
			}
		}
	}
	fmt.Println()

	if err := writeCSV(results, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "error writing results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("results written to: %s\n", *outputFile)

	printSummary(results)
}

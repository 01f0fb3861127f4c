// Command ecs-stress populates a headless world with random entities and reports frame
// timings, per-system statistics and memory usage.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/arepy/arepy/config"
	"github.com/arepy/arepy/engine"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	maxComponents := flag.Int("max-components", 5, "The maximum number of components per entity.")
	parallel := flag.Bool("parallel", false, "Run ASYNC_UPDATE systems concurrently.")
	seed := flag.Int64("seed", 1, "Random seed for entity generation.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := flag.String("profile", "", "Write a cpu, mem, block, mutex or trace profile.")
	profileDir := flag.String("profile-dir", ".", "Directory for profile output.")
	configPath := flag.String("config", "arepy.toml", "Engine configuration file.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Engine.ParallelAsync = cfg.Engine.ParallelAsync || *parallel
	if *maxComponents < 1 || *maxComponents > len(prototypes) {
		*maxComponents = len(prototypes)
	}

	log, err := engine.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if stop := startProfile(*profileMode, *profileDir); stop != nil {
		defer stop()
	}

	report, err := run(log, cfg, options{
		duration:       *duration,
		entities:       *entityCount,
		maxComponents:  *maxComponents,
		seed:           *seed,
		gcPauseMetrics: *gcPauseMetrics,
	})
	if err != nil {
		log.Fatal("stress test failed", zap.Error(err))
	}

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatal("failed to generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")
}

type options struct {
	duration       time.Duration
	entities       int
	maxComponents  int
	seed           int64
	gcPauseMetrics bool
}

func startProfile(mode, dir string) func() {
	var kind func(*profile.Profile)
	switch mode {
	case "cpu":
		kind = profile.CPUProfile
	case "mem":
		kind = profile.MemProfile
	case "block":
		kind = profile.BlockProfile
	case "mutex":
		kind = profile.MutexProfile
	case "trace":
		kind = profile.TraceProfile
	default:
		return nil
	}
	return profile.Start(kind, profile.ProfilePath(dir), profile.NoShutdownHook).Stop
}

func run(log *zap.Logger, cfg *config.Config, opts options) (*Report, error) {
	log.Info("starting ECS stress test", zap.Bool("parallel", cfg.Engine.ParallelAsync))

	e, err := engine.New(cfg, engine.WithLogger(log))
	if err != nil {
		return nil, err
	}
	w, err := e.CreateWorld("stress")
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.seed))
	churn, totals, err := setupWorld(w, rng, opts.maxComponents)
	if err != nil {
		return nil, err
	}

	log.Info("populating world", zap.Int("entities", opts.entities))
	r := w.Registry()
	for i := 0; i < opts.entities; i++ {
		if _, err := spawnRandom(r, rng, opts.maxComponents); err != nil {
			return nil, err
		}
	}
	r.Update()

	report := &Report{
		Duration:       opts.duration,
		Entities:       opts.entities,
		Components:     len(prototypes),
		MaxComponents:  opts.maxComponents,
		Parallel:       cfg.Engine.ParallelAsync,
		GCPauseMetrics: opts.gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Info("running simulation", zap.Duration("duration", opts.duration))
	ctx, cancel := context.WithTimeout(context.Background(), opts.duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := startTime

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := e.Frame(deltaTime.Seconds()); err != nil {
				return nil, err
			}
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.Registry = r.Stats()
	report.Scheduler = r.SchedulerStats()
	report.Killed = churn.killed
	report.Totals = *totals

	log.Info("simulation finished", zap.Int64("updates", report.TotalUpdates), zap.Int("killed", churn.killed))
	return report, nil
}

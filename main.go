package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/copycat/config"
	"github.com/pthm-cable/copycat/game"
	"github.com/pthm-cable/copycat/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Uint64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	autopilot := flag.Bool("autopilot", false, "Let a scripted player play (implied by -headless)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	level, err := game.ParseLevel(*logLevel)
	if err != nil {
		slog.Error("invalid flag", "error", err)
		return 2
	}
	logger := game.SetupLogger(os.Stdout, level, *headless)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Config:         cfg,
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Autopilot:      *autopilot || *headless,
		Logger:         logger,
	}

	if *headless {
		return runHeadless(opts, *maxTicks, logger)
	}
	return runWindowed(opts, *maxTicks, logger)
}

// runHeadless steps the game until it ends or max ticks is reached.
func runHeadless(opts game.Options, maxTicks uint64, logger *slog.Logger) int {
	g, err := game.New(opts)
	if err != nil {
		logger.Error("failed to start game", "error", err)
		return 1
	}

	logger.Info("starting headless session",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"output_dir", opts.OutputDir,
	)

	dt := opts.Config.Derived.DT32
	for g.State().InProgress() {
		g.Step(dt)
		if maxTicks > 0 && g.Tick() >= maxTicks {
			logger.Info("max ticks reached", "tick", g.Tick())
			break
		}
	}

	snap := g.State().Snapshot()
	logger.Info("session finished",
		"session", snap.ID.String(),
		"outcome", snap.Outcome.String(),
		"reason", snap.Reason,
		"meals", snap.MealsEarned,
		"ticks", g.Tick(),
		"sim_time", g.Session().Clock.Now(),
	)

	if err := g.Close(); err != nil {
		logger.Error("failed to close output", "error", err)
		return 1
	}
	return 0
}

// runWindowed opens a raylib window and runs the interactive front-end.
func runWindowed(opts game.Options, maxTicks uint64, logger *slog.Logger) int {
	cfg := opts.Config
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Copycat")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.New(opts)
	if err != nil {
		logger.Error("failed to start game", "error", err)
		return 1
	}

	app := ui.NewApp(g, logger)
	for !rl.WindowShouldClose() {
		app.Update()
		app.Draw()

		if maxTicks > 0 && g.Tick() >= maxTicks {
			break
		}
	}
	app.Close()

	if err := g.Close(); err != nil {
		logger.Error("failed to close output", "error", err)
		return 1
	}
	return 0
}

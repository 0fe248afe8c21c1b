// Package game wires the session, the ECS world, and the systems into one
// steppable game. It has no rendering dependencies; the ui package drives it.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/copycat/components"
	"github.com/pthm-cable/copycat/config"
	"github.com/pthm-cable/copycat/session"
	"github.com/pthm-cable/copycat/systems"
	"github.com/pthm-cable/copycat/telemetry"
)

// Options configures a new game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // empty = no CSV output
	Autopilot      bool
	Logger         *slog.Logger // nil = slog.Default()
}

// Game holds the complete game state.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64
	log  *slog.Logger

	world *ecs.World
	sess  *session.Session

	// Entity mappers
	catMapper *ecs.Map7[
		components.Position,
		components.Facing,
		components.Cat,
		components.Behavior,
		components.Personality,
		components.Sprites,
		components.Hunger,
	]
	playerMapper *ecs.Map4[
		components.Position,
		components.Facing,
		components.Player,
		components.Hunger,
	]

	// Individual component mappers for lookups
	posMap      *ecs.Map[components.Position]
	facingMap   *ecs.Map[components.Facing]
	catMap      *ecs.Map[components.Cat]
	behaviorMap *ecs.Map[components.Behavior]
	persMap     *ecs.Map[components.Personality]
	spriteMap   *ecs.Map[components.Sprites]
	hungerMap   *ecs.Map[components.Hunger]
	playerMap   *ecs.Map[components.Player]

	player   ecs.Entity
	cats     map[session.Identity]ecs.Entity
	catOrder []session.Identity

	// Systems
	phases    *systems.SystemRegistry
	hunger    *systems.HungerSystem
	caretaker *systems.CaretakerSystem
	behavior  *systems.BehaviorSystem
	speech    *systems.SpeechSystem
	autopilot *Autopilot

	// Telemetry
	collector   *telemetry.Collector
	catTracker  *telemetry.CatTracker
	perf        *telemetry.PerfCollector
	output      *telemetry.OutputManager
	events      []telemetry.Event
	catsWritten bool
	logStats    bool
	onStats     func(telemetry.WindowStats)

	tick uint64
}

// New creates a game with the player and every configured yard cat spawned.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		seed:     opts.Seed,
		log:      logger,
		world:    world,
		logStats: opts.LogStats,
		cats:     make(map[session.Identity]ecs.Entity, len(cfg.Cats)),
		catMapper: ecs.NewMap7[
			components.Position,
			components.Facing,
			components.Cat,
			components.Behavior,
			components.Personality,
			components.Sprites,
			components.Hunger,
		](world),
		playerMapper: ecs.NewMap4[
			components.Position,
			components.Facing,
			components.Player,
			components.Hunger,
		](world),
		posMap:      ecs.NewMap[components.Position](world),
		facingMap:   ecs.NewMap[components.Facing](world),
		catMap:      ecs.NewMap[components.Cat](world),
		behaviorMap: ecs.NewMap[components.Behavior](world),
		persMap:     ecs.NewMap[components.Personality](world),
		spriteMap:   ecs.NewMap[components.Sprites](world),
		hungerMap:   ecs.NewMap[components.Hunger](world),
		playerMap:   ecs.NewMap[components.Player](world),
		phases:      systems.NewSystemRegistry(),
	}

	g.sess = session.New(session.Params{
		MealsToWin:  cfg.Session.MealsToWin,
		HungryAgain: cfg.Session.HungryAgain,
		EatingDuration: func(id session.Identity) float64 {
			return cfg.EatingDuration(string(id))
		},
		CaretakerX: float32(cfg.Caretaker.X),
		CaretakerY: float32(cfg.Caretaker.Y),
	})
	g.sess.Bus.Subscribe(&session.ObserverFuncs{
		GameOver: g.onGameOver,
		GameWon:  g.onGameWon,
	})

	g.hunger = systems.NewHungerSystem(world, g.sess.State, cfg.Hunger.NPCEnabled)
	g.caretaker = systems.NewCaretakerSystem(g.sess.Caretaker, g.sess.State, systems.CaretakerParamsFromConfig(cfg), g.rng)
	g.behavior = systems.NewBehaviorSystem(world, caretakerPort{g}, g.sess.Registry, g.sess.State, systems.BehaviorParamsFromConfig(cfg), g.rng)
	g.behavior.OnEvent = g.onBehaviorEvent
	g.speech = systems.NewSpeechSystem(cfg.Speech, g.sess.Registry, g.sess.State, g.sess.Caretaker, g.rng)

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Derived.DT32)
	g.catTracker = telemetry.NewCatTracker()
	g.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	g.output = output
	if err := g.output.WriteConfig(cfg); err != nil {
		return nil, errors.Join(fmt.Errorf("output: %w", err), g.output.Close())
	}

	g.spawnPlayer()
	g.spawnCats()

	if opts.Autopilot {
		g.autopilot = NewAutopilot()
	}

	g.log.Info("session started",
		"session", g.sess.State.ID().String(),
		"seed", opts.Seed,
		"cats", len(g.catOrder),
		"meals_to_win", g.sess.State.MealsToWin(),
	)
	return g, nil
}

// Config returns the game's configuration.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Session returns the session objects.
func (g *Game) Session() *session.Session {
	return g.sess
}

// State returns the authoritative session state.
func (g *Game) State() *session.State {
	return g.sess.State
}

// Subscribe registers a UI observer for session notices.
func (g *Game) Subscribe(o session.Observer) {
	g.sess.Bus.Subscribe(o)
}

// Unsubscribe removes a UI observer.
func (g *Game) Unsubscribe(o session.Observer) {
	g.sess.Bus.Unsubscribe(o)
}

// OnStats sets a callback that receives every flushed stats window.
func (g *Game) OnStats(fn func(telemetry.WindowStats)) {
	g.onStats = fn
}

// Tick returns the number of steps taken since the game was created.
func (g *Game) Tick() uint64 {
	return g.tick
}

// Seed returns the RNG seed.
func (g *Game) Seed() int64 {
	return g.seed
}

// Phases returns the step phase metadata.
func (g *Game) Phases() *systems.SystemRegistry {
	return g.phases
}

// PerfStats returns timing over the recent steps.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perf.Stats()
}

// RecordFrame marks a rendered frame for FPS tracking.
func (g *Game) RecordFrame() {
	g.perf.RecordFrame()
}

// Autopilot reports whether the scripted player is driving.
func (g *Game) Autopilot() bool {
	return g.autopilot != nil
}

// Close flushes pending telemetry and closes output files.
func (g *Game) Close() error {
	g.writeCats()
	g.flushEvents()
	return g.output.Close()
}

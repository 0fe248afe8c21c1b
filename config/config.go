// Package config provides configuration loading and access for the game session.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// RestoreFull as hunger.restore_amount means a feed refills hunger to max.
const RestoreFull = 0

// Config holds all session configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	World       WorldConfig       `yaml:"world"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Session     SessionConfig     `yaml:"session"`
	Hunger      HungerConfig      `yaml:"hunger"`
	Caretaker   CaretakerConfig   `yaml:"caretaker"`
	Behavior    BehaviorConfig    `yaml:"behavior"`
	Personality PersonalityConfig `yaml:"personality"`
	Player      PlayerConfig      `yaml:"player"`
	Cats        []CatConfig       `yaml:"cats"`
	Speech      SpeechConfig      `yaml:"speech"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	TargetFPS     int     `yaml:"target_fps"`
	PixelsPerUnit float64 `yaml:"pixels_per_unit"`
}

// WorldConfig holds the yard bounds in world units.
type WorldConfig struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`
}

// PhysicsConfig holds the fixed tick length.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// SessionConfig holds win and recognition parameters.
type SessionConfig struct {
	MealsToWin  int     `yaml:"meals_to_win"`
	HungryAgain float64 `yaml:"hungry_again"` // seconds an identity stays fed
}

// HungerConfig holds per-actor hunger parameters.
type HungerConfig struct {
	Max           float64 `yaml:"max"`
	DepletionRate float64 `yaml:"depletion_rate"` // units per second
	RestoreAmount float64 `yaml:"restore_amount"` // RestoreFull = refill to max
	NPCEnabled    bool    `yaml:"npc_enabled"`    // yard cats get hungry too
}

// CaretakerConfig holds Grandma's feeding and wander parameters.
type CaretakerConfig struct {
	X               float64            `yaml:"x"`
	Y               float64            `yaml:"y"`
	EatingDuration  float64            `yaml:"eating_duration"`  // busy window after a feed
	EatingDurations map[string]float64 `yaml:"eating_durations"` // per-identity overrides
	WanderSpeed     float64            `yaml:"wander_speed"`
	WanderTime      float64            `yaml:"wander_time"`
	IdleTime        float64            `yaml:"idle_time"`
	WanderChance    float64            `yaml:"wander_chance"`
	OffsetMin       float64            `yaml:"offset_min"`
	OffsetMax       float64            `yaml:"offset_max"`
	ArriveEpsilon   float64            `yaml:"arrive_epsilon"`
}

// BehaviorConfig holds the yard cat scheduler base values.
// Personality multipliers are applied on top of these.
type BehaviorConfig struct {
	FrameRate       float64 `yaml:"frame_rate"`
	IdleMin         float64 `yaml:"idle_min"`
	IdleMax         float64 `yaml:"idle_max"`
	RestMin         float64 `yaml:"rest_min"`
	RestMax         float64 `yaml:"rest_max"`
	WanderChance    float64 `yaml:"wander_chance"`
	ApproachChance  float64 `yaml:"approach_chance"`
	LayingWeight    float64 `yaml:"laying_weight"`
	TransitionPause float64 `yaml:"transition_pause"`
	WanderRadius    float64 `yaml:"wander_radius"`
	WanderMin       float64 `yaml:"wander_min"`
	WanderMax       float64 `yaml:"wander_max"`
	WanderSpeed     float64 `yaml:"wander_speed"`
	ApproachTimeout float64 `yaml:"approach_timeout"`
	ArriveEpsilon   float64 `yaml:"arrive_epsilon"`
	FeedDistance    float64 `yaml:"feed_distance"`
}

// PersonalityConfig holds profile weights and multiplier ranges.
type PersonalityConfig struct {
	LazyWeight     float64       `yaml:"lazy_weight"`
	ActiveWeight   float64       `yaml:"active_weight"`
	BalancedWeight float64       `yaml:"balanced_weight"`
	BalancedJitter float64       `yaml:"balanced_jitter"` // 0.1 = uniform [0.9, 1.1]
	Lazy           ProfileConfig `yaml:"lazy"`
	Active         ProfileConfig `yaml:"active"`
}

// ProfileConfig holds the multipliers for one personality profile.
type ProfileConfig struct {
	DwellMin       float64 `yaml:"dwell_min"` // idle/rest duration scale range
	DwellMax       float64 `yaml:"dwell_max"`
	WanderSpeed    float64 `yaml:"wander_speed"`
	WanderDuration float64 `yaml:"wander_duration"`
	WanderChance   float64 `yaml:"wander_chance"`
	ApproachChance float64 `yaml:"approach_chance"`
	HungerRate     float64 `yaml:"hunger_rate"`
}

// PlayerConfig holds the player cat parameters.
type PlayerConfig struct {
	X              float64 `yaml:"x"`
	Y              float64 `yaml:"y"`
	Speed          float64 `yaml:"speed"`
	InteractRadius float64 `yaml:"interact_radius"`
	Tint           string  `yaml:"tint"`
}

// CatConfig describes one yard cat. Frame counts of 0 mean the sprite set is missing.
type CatConfig struct {
	ID             string  `yaml:"id"`
	Tint           string  `yaml:"tint"`
	X              float64 `yaml:"x"`
	Y              float64 `yaml:"y"`
	IdleFrames     int     `yaml:"idle_frames"`
	LayingFrames   int     `yaml:"laying_frames"`
	SleepingFrames int     `yaml:"sleeping_frames"`
	WalkFrames     int     `yaml:"walk_frames"`
}

// SpeechConfig holds speech bubble timing and message pools.
type SpeechConfig struct {
	DisplayTime    float64  `yaml:"display_time"`
	FadeTime       float64  `yaml:"fade_time"`
	IdleThoughtMin float64  `yaml:"idle_thought_min"`
	IdleThoughtMax float64  `yaml:"idle_thought_max"`
	MentionChance  float64  `yaml:"mention_chance"`
	Feeding        []string `yaml:"feeding"`
	AlreadyFed     []string `yaml:"already_fed"`
	NoDisguise     []string `yaml:"no_disguise"`
	IdleThoughts   []string `yaml:"idle_thoughts"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32        float32        // Physics.DT as float32
	MinX32      float32        // World bounds as float32
	MaxX32      float32
	MinY32      float32
	MaxY32      float32
	PlayerTint  color.RGBA     // Player.Tint parsed
	CatTints    []color.RGBA   // Cats[i].Tint parsed
	CatIndex    map[string]int // cat id -> index into Cats
	StatsTicks  int32          // Telemetry.StatsWindow in ticks
	ScreenW32   float32
	ScreenH32   float32
	PixelsPer32 float32
}

// envOverrides lists the values that can be overridden from the environment.
// Zero values mean "not set".
type envOverrides struct {
	MealsToWin     int     `env:"COPYCAT_MEALS_TO_WIN"`
	HungryAgain    float64 `env:"COPYCAT_HUNGRY_AGAIN"`
	DepletionRate  float64 `env:"COPYCAT_HUNGER_RATE"`
	EatingDuration float64 `env:"COPYCAT_EATING_DURATION"`
	StatsWindow    float64 `env:"COPYCAT_STATS_WINDOW"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults,
// then applies environment overrides. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.computeDerived()
	return cfg, nil
}

// Defaults returns the embedded default configuration with derived values computed.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// applyEnv overlays COPYCAT_* environment variables.
func (c *Config) applyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if o.MealsToWin > 0 {
		c.Session.MealsToWin = o.MealsToWin
	}
	if o.HungryAgain > 0 {
		c.Session.HungryAgain = o.HungryAgain
	}
	if o.DepletionRate > 0 {
		c.Hunger.DepletionRate = o.DepletionRate
	}
	if o.EatingDuration > 0 {
		c.Caretaker.EatingDuration = o.EatingDuration
	}
	if o.StatsWindow > 0 {
		c.Telemetry.StatsWindow = o.StatsWindow
	}
	return nil
}

// Recompute refreshes derived values after fields were changed in code.
func (c *Config) Recompute() {
	c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Physics.DT <= 0 {
		c.Physics.DT = 1.0 / 60.0
	}
	if c.Session.MealsToWin < 1 {
		c.Session.MealsToWin = 1
	}

	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.MinX32 = float32(c.World.MinX)
	c.Derived.MaxX32 = float32(c.World.MaxX)
	c.Derived.MinY32 = float32(c.World.MinY)
	c.Derived.MaxY32 = float32(c.World.MaxY)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.PixelsPer32 = float32(c.Screen.PixelsPerUnit)

	c.Derived.PlayerTint = ParseTint(c.Player.Tint)

	// Cats without an id fall back to a positional name
	c.Derived.CatIndex = make(map[string]int, len(c.Cats))
	c.Derived.CatTints = make([]color.RGBA, len(c.Cats))
	for i := range c.Cats {
		cat := &c.Cats[i]
		if cat.ID == "" {
			cat.ID = fmt.Sprintf("cat-%d", i)
		}
		c.Derived.CatIndex[cat.ID] = i
		c.Derived.CatTints[i] = ParseTint(cat.Tint)
	}

	ticks := int32(c.Telemetry.StatsWindow / c.Physics.DT)
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.StatsTicks = ticks
}

// EatingDuration returns the caretaker busy window for an identity.
func (c *Config) EatingDuration(id string) float64 {
	if d, ok := c.Caretaker.EatingDurations[id]; ok && d > 0 {
		return d
	}
	return c.Caretaker.EatingDuration
}

// ParseTint parses "#rrggbb" or "rrggbb" into an opaque color.
// Unparsable values fall back to white.
func ParseTint(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

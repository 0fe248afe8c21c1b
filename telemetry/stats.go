package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	Session         string  `csv:"session"`
	WindowStartTick uint64  `csv:"-"`
	WindowEndTick   uint64  `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Session state at window end
	Meals      int    `csv:"meals"`
	MealsToWin int    `csv:"meals_to_win"`
	Outcome    string `csv:"outcome"`
	Disguise   string `csv:"disguise"`
	FedCount   int    `csv:"fed_count"`

	// Feed attempts during window
	FeedAttempts  int     `csv:"feed_attempts"`
	PlayerFeeds   int     `csv:"player_feeds"`
	NPCFeeds      int     `csv:"npc_feeds"`
	Caught        int     `csv:"caught"`
	NoIdentity    int     `csv:"no_identity"`
	Busy          int     `csv:"busy"`
	FeedRate      float64 `csv:"feed_rate"`
	BusyShare     float64 `csv:"busy_share"`
	Approaches    int     `csv:"approaches"`
	Timeouts      int     `csv:"timeouts"`
	HungryAgain   int     `csv:"hungry_again"`
	Disguises     int     `csv:"disguises"`
	CatsStarved   int     `csv:"cats_starved"`
	PlayerStarved bool    `csv:"player_starved"`

	// Hunger distribution (sampled at window end)
	PlayerHunger   float64 `csv:"player_hunger"`
	CatHungerMean  float64 `csv:"cat_hunger_mean"`
	CatHungerStd   float64 `csv:"cat_hunger_std"`
	CatHungerMin   float64 `csv:"cat_hunger_min"`
	CatHungerP10   float64 `csv:"cat_hunger_p10"`
	CatHungerP50   float64 `csv:"cat_hunger_p50"`
	CatHungerP90   float64 `csv:"cat_hunger_p90"`
	CatsWalking    int     `csv:"cats_walking"`
	CatsResting    int     `csv:"cats_resting"`
	CaretakerBusy  bool    `csv:"caretaker_busy"`
	CaretakerMoved float64 `csv:"caretaker_moved"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// HungerStats summarizes a set of hunger ratios.
type HungerStats struct {
	Mean, Std, Min float64
	P10, P50, P90  float64
}

// ComputeHungerStats calculates mean, sample std, min, and percentiles.
// The std is 0 for fewer than two values.
func ComputeHungerStats(values []float64) HungerStats {
	n := len(values)
	if n == 0 {
		return HungerStats{}
	}

	var hs HungerStats
	if n == 1 {
		hs.Mean = values[0]
	} else {
		hs.Mean, hs.Std = stat.MeanStdDev(values, nil)
	}
	hs.Min = floats.Min(values)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	hs.P10 = Percentile(sorted, 0.10)
	hs.P50 = Percentile(sorted, 0.50)
	hs.P90 = Percentile(sorted, 0.90)
	return hs
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("session", s.Session),
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("meals", s.Meals),
		slog.Int("meals_to_win", s.MealsToWin),
		slog.String("outcome", s.Outcome),
		slog.String("disguise", s.Disguise),
		slog.Int("fed_count", s.FedCount),
		slog.Int("feed_attempts", s.FeedAttempts),
		slog.Int("player_feeds", s.PlayerFeeds),
		slog.Int("npc_feeds", s.NPCFeeds),
		slog.Int("caught", s.Caught),
		slog.Int("no_identity", s.NoIdentity),
		slog.Int("busy", s.Busy),
		slog.Float64("feed_rate", s.FeedRate),
		slog.Float64("busy_share", s.BusyShare),
		slog.Int("approaches", s.Approaches),
		slog.Int("timeouts", s.Timeouts),
		slog.Int("hungry_again", s.HungryAgain),
		slog.Int("disguises", s.Disguises),
		slog.Int("cats_starved", s.CatsStarved),
		slog.Bool("player_starved", s.PlayerStarved),
		slog.Float64("player_hunger", s.PlayerHunger),
		slog.Float64("cat_hunger_mean", s.CatHungerMean),
		slog.Float64("cat_hunger_std", s.CatHungerStd),
		slog.Float64("cat_hunger_min", s.CatHungerMin),
		slog.Float64("cat_hunger_p10", s.CatHungerP10),
		slog.Float64("cat_hunger_p50", s.CatHungerP50),
		slog.Float64("cat_hunger_p90", s.CatHungerP90),
		slog.Int("cats_walking", s.CatsWalking),
		slog.Int("cats_resting", s.CatsResting),
		slog.Bool("caretaker_busy", s.CaretakerBusy),
		slog.Float64("caretaker_moved", s.CaretakerMoved),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"meals", s.Meals,
		"meals_to_win", s.MealsToWin,
		"outcome", s.Outcome,
		"disguise", s.Disguise,
		"fed_count", s.FedCount,
		"feed_attempts", s.FeedAttempts,
		"player_feeds", s.PlayerFeeds,
		"npc_feeds", s.NPCFeeds,
		"caught", s.Caught,
		"no_identity", s.NoIdentity,
		"busy", s.Busy,
		"approaches", s.Approaches,
		"timeouts", s.Timeouts,
		"hungry_again", s.HungryAgain,
		"cats_starved", s.CatsStarved,
		"player_hunger", s.PlayerHunger,
		"cat_hunger_mean", s.CatHungerMean,
		"cat_hunger_p50", s.CatHungerP50,
		"cats_walking", s.CatsWalking,
		"cats_resting", s.CatsResting,
	)
}

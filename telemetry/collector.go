package telemetry

import "github.com/pthm-cable/copycat/session"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks uint64
	dt                  float32

	// Current window tracking
	windowStartTick uint64

	// Event counters for current window
	feedAttempts  int
	playerFeeds   int
	npcFeeds      int
	caught        int
	noIdentity    int
	busy          int
	approaches    int
	timeouts      int
	hungryAgain   int
	disguises     int
	catsStarved   int
	playerStarved bool
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := uint64(1)
	if dt > 0 && windowDurationSec > float64(dt) {
		ticksPerWindow = uint64(windowDurationSec / float64(dt))
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record counts an event toward the current window.
func (c *Collector) Record(e Event) {
	switch e.Kind() {
	case EventFeedAttempt:
		c.RecordFeedAttempt(e.FeedOutcome(), e.Player)
	case EventApproach:
		c.approaches++
	case EventApproachTimeout:
		c.timeouts++
	case EventHungryAgain:
		c.hungryAgain++
	case EventDisguise:
		if e.Identity != "" {
			c.disguises++
		}
	case EventStarved:
		if e.Player {
			c.playerStarved = true
		} else {
			c.catsStarved++
		}
	}
}

// RecordFeedAttempt records one TryFeed outcome.
func (c *Collector) RecordFeedAttempt(outcome session.FeedOutcome, player bool) {
	c.feedAttempts++
	switch outcome {
	case session.Fed:
		if player {
			c.playerFeeds++
		} else {
			c.npcFeeds++
		}
	case session.RejectedCaught:
		c.caught++
	case session.RejectedNoIdentity:
		c.noIdentity++
	case session.RejectedBusy:
		c.busy++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Sample is the session state observed at the end of a window.
type Sample struct {
	Snapshot       session.Snapshot
	FedCount       int
	PlayerHunger   float64   // ratio in [0, 1]
	CatHungers     []float64 // ratios in [0, 1]
	CatsWalking    int
	CatsResting    int
	CaretakerBusy  bool
	CaretakerMoved float64 // distance from her start
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick uint64, s Sample) WindowStats {
	var feedRate, busyShare float64
	if c.feedAttempts > 0 {
		feedRate = float64(c.playerFeeds+c.npcFeeds) / float64(c.feedAttempts)
		busyShare = float64(c.busy) / float64(c.feedAttempts)
	}

	hunger := ComputeHungerStats(s.CatHungers)

	stats := WindowStats{
		Session:         s.Snapshot.ID.String(),
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Meals:      s.Snapshot.MealsEarned,
		MealsToWin: s.Snapshot.MealsToWin,
		Outcome:    s.Snapshot.Outcome.String(),
		Disguise:   string(s.Snapshot.Disguise.ID),
		FedCount:   s.FedCount,

		FeedAttempts:  c.feedAttempts,
		PlayerFeeds:   c.playerFeeds,
		NPCFeeds:      c.npcFeeds,
		Caught:        c.caught,
		NoIdentity:    c.noIdentity,
		Busy:          c.busy,
		FeedRate:      feedRate,
		BusyShare:     busyShare,
		Approaches:    c.approaches,
		Timeouts:      c.timeouts,
		HungryAgain:   c.hungryAgain,
		Disguises:     c.disguises,
		CatsStarved:   c.catsStarved,
		PlayerStarved: c.playerStarved,

		PlayerHunger:   s.PlayerHunger,
		CatHungerMean:  hunger.Mean,
		CatHungerStd:   hunger.Std,
		CatHungerMin:   hunger.Min,
		CatHungerP10:   hunger.P10,
		CatHungerP50:   hunger.P50,
		CatHungerP90:   hunger.P90,
		CatsWalking:    s.CatsWalking,
		CatsResting:    s.CatsResting,
		CaretakerBusy:  s.CaretakerBusy,
		CaretakerMoved: s.CaretakerMoved,
	}

	c.reset(currentTick)
	return stats
}

// Reset drops the current window's counters and restarts it at tick.
func (c *Collector) Reset(tick uint64) {
	c.reset(tick)
}

func (c *Collector) reset(tick uint64) {
	c.windowStartTick = tick
	c.feedAttempts = 0
	c.playerFeeds = 0
	c.npcFeeds = 0
	c.caught = 0
	c.noIdentity = 0
	c.busy = 0
	c.approaches = 0
	c.timeouts = 0
	c.hungryAgain = 0
	c.disguises = 0
	c.catsStarved = 0
	c.playerStarved = false
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() uint64 {
	return c.windowDurationTicks
}

package telemetry

import (
	"sort"

	"github.com/pthm-cable/copycat/session"
)

// CatStats tracks per-cat statistics over one session.
type CatStats struct {
	Profile string

	// Feeding
	Approaches int
	Feeds      int
	Caught     int
	BusyLosses int
	Timeouts   int

	HungryAgain int
	Starved     int
	Copied      int // times the player took this cat's identity

	Walked float32
}

// CatRecord is one cats.csv row.
type CatRecord struct {
	Session     string  `csv:"session"`
	ID          string  `csv:"id"`
	Profile     string  `csv:"profile"`
	Approaches  int     `csv:"approaches"`
	Feeds       int     `csv:"feeds"`
	Caught      int     `csv:"caught"`
	BusyLosses  int     `csv:"busy_losses"`
	Timeouts    int     `csv:"timeouts"`
	HungryAgain int     `csv:"hungry_again"`
	Starved     int     `csv:"starved"`
	Copied      int     `csv:"copied"`
	Walked      float64 `csv:"walked"`
}

// CatTracker manages per-cat statistics keyed by identity.
type CatTracker struct {
	stats map[session.Identity]*CatStats
}

// NewCatTracker creates a new cat tracker.
func NewCatTracker() *CatTracker {
	return &CatTracker{
		stats: make(map[session.Identity]*CatStats),
	}
}

// Register creates stats for a yard cat.
func (ct *CatTracker) Register(id session.Identity, profile string) {
	ct.stats[id] = &CatStats{Profile: profile}
}

// Get returns the stats for a cat, or nil if not found.
func (ct *CatTracker) Get(id session.Identity) *CatStats {
	return ct.stats[id]
}

// Record attributes an event to the cat it names. Player feed attempts count
// only toward Copied via disguise events, not toward the cat's own feeds.
func (ct *CatTracker) Record(e Event) {
	s := ct.stats[session.Identity(e.Identity)]
	if s == nil {
		return
	}
	switch e.Kind() {
	case EventFeedAttempt:
		if e.Player {
			return
		}
		switch e.FeedOutcome() {
		case session.Fed:
			s.Feeds++
		case session.RejectedCaught:
			s.Caught++
		case session.RejectedBusy:
			s.BusyLosses++
		}
	case EventApproach:
		s.Approaches++
	case EventApproachTimeout:
		s.Timeouts++
	case EventHungryAgain:
		s.HungryAgain++
	case EventStarved:
		if !e.Player {
			s.Starved++
		}
	case EventDisguise:
		s.Copied++
	}
}

// UpdateWalked stores the cat's cumulative walk distance.
func (ct *CatTracker) UpdateWalked(id session.Identity, walked float32) {
	if s := ct.stats[id]; s != nil {
		s.Walked = walked
	}
}

// Reset zeroes every counter but keeps the registered cats and profiles.
func (ct *CatTracker) Reset() {
	for id, s := range ct.stats {
		ct.stats[id] = &CatStats{Profile: s.Profile}
	}
}

// Count returns the number of tracked cats.
func (ct *CatTracker) Count() int {
	return len(ct.stats)
}

// Records returns one row per cat, sorted by id.
func (ct *CatTracker) Records(sessionID string) []CatRecord {
	ids := make([]string, 0, len(ct.stats))
	for id := range ct.stats {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	records := make([]CatRecord, 0, len(ids))
	for _, id := range ids {
		s := ct.stats[session.Identity(id)]
		records = append(records, CatRecord{
			Session:     sessionID,
			ID:          id,
			Profile:     s.Profile,
			Approaches:  s.Approaches,
			Feeds:       s.Feeds,
			Caught:      s.Caught,
			BusyLosses:  s.BusyLosses,
			Timeouts:    s.Timeouts,
			HungryAgain: s.HungryAgain,
			Starved:     s.Starved,
			Copied:      s.Copied,
			Walked:      float64(s.Walked),
		})
	}
	return records
}

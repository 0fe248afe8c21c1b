package game

import (
	"github.com/pthm-cable/copycat/components"
	"github.com/pthm-cable/copycat/telemetry"
)

// record feeds an event to the window collector and the cat tracker, and
// buffers it for events.csv.
func (g *Game) record(e telemetry.Event) {
	e.Session = g.sessionID()
	g.collector.Record(e)
	g.catTracker.Record(e)
	if g.output != nil {
		g.events = append(g.events, e)
	}
	g.log.Debug("event", "event", e)
}

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sample())
	perfStats := g.perf.Stats()

	if g.onStats != nil {
		g.onStats(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.output != nil {
		if err := g.output.WriteTelemetry(stats); err != nil {
			g.log.Error("failed to write telemetry", "error", err)
		}
		if err := g.output.WritePerf(perfStats, stats.Session, stats.WindowEndTick); err != nil {
			g.log.Error("failed to write perf", "error", err)
		}
		g.flushEvents()
	}
}

// sample collects the end-of-window state.
func (g *Game) sample() telemetry.Sample {
	s := telemetry.Sample{
		Snapshot:      g.sess.State.Snapshot(),
		FedCount:      g.sess.Registry.Len(),
		PlayerHunger:  float64(g.hungerMap.Get(g.player).Ratio()),
		CatHungers:    make([]float64, 0, len(g.catOrder)),
		CaretakerBusy: g.sess.Caretaker.IsBusy(),
	}

	m := g.sess.Caretaker.Motion
	s.CaretakerMoved = float64(dist(m.X, m.Y, m.StartX, m.StartY))

	for _, id := range g.catOrder {
		e := g.cats[id]
		s.CatHungers = append(s.CatHungers, float64(g.hungerMap.Get(e).Ratio()))
		switch g.behaviorMap.Get(e).State {
		case components.StateWalking:
			s.CatsWalking++
		case components.StateLaying, components.StateSleeping, components.StateGettingUp:
			s.CatsResting++
		}
		g.catTracker.UpdateWalked(id, g.catMap.Get(e).Walked)
	}
	return s
}

// flushEvents writes buffered events to events.csv.
func (g *Game) flushEvents() {
	if len(g.events) == 0 {
		return
	}
	if err := g.output.WriteEvents(g.sessionID(), g.events); err != nil {
		g.log.Error("failed to write events", "error", err)
	}
	g.events = g.events[:0]
}

// writeCats writes the per-cat rows for the current session once.
func (g *Game) writeCats() {
	if g.catsWritten {
		return
	}
	g.catsWritten = true
	for _, id := range g.catOrder {
		g.catTracker.UpdateWalked(id, g.catMap.Get(g.cats[id]).Walked)
	}
	if err := g.output.WriteCats(g.catTracker.Records(g.sessionID())); err != nil {
		g.log.Error("failed to write cats", "error", err)
	}
}

func (g *Game) onGameOver(reason string) {
	clk := g.sess.Clock
	meals := g.sess.State.MealsEarned()
	g.record(telemetry.NewGameOverEvent(clk.Tick(), clk.Now(), reason, meals))
	g.log.Info("game over",
		"session", g.sessionID(),
		"reason", reason,
		"meals", meals,
		"time", clk.Now(),
	)
	g.writeCats()
}

func (g *Game) onGameWon() {
	clk := g.sess.Clock
	meals := g.sess.State.MealsEarned()
	g.record(telemetry.NewGameWonEvent(clk.Tick(), clk.Now(), meals))
	g.log.Info("game won",
		"session", g.sessionID(),
		"meals", meals,
		"time", clk.Now(),
	)
	g.writeCats()
}

package game

import (
	"github.com/pthm-cable/copycat/session"
	"github.com/pthm-cable/copycat/systems"
	"github.com/pthm-cable/copycat/telemetry"
)

// Step advances the game by dt seconds. Phases run in registry order; once
// the session has ended only telemetry and notice delivery still run.
func (g *Game) Step(dt float32) {
	g.perf.StartTick()
	active := g.sess.State.InProgress()
	clk := g.sess.Clock

	g.perf.StartPhase(telemetry.PhaseClock)
	if active {
		clk.Advance(float64(dt))
	}

	g.perf.StartPhase(telemetry.PhaseSweep)
	if active {
		for _, id := range g.sess.Registry.Sweep() {
			g.record(telemetry.NewHungryAgainEvent(clk.Tick(), clk.Now(), id))
		}
	}

	g.perf.StartPhase(telemetry.PhaseHunger)
	report := g.hunger.Update(dt)
	for _, id := range report.CatsStarved {
		g.record(telemetry.NewStarvedEvent(clk.Tick(), clk.Now(), id, false))
		g.log.Warn("yard cat starved", "session", g.sessionID(), "identity", string(id))
	}
	if report.PlayerStarved {
		g.record(telemetry.NewStarvedEvent(clk.Tick(), clk.Now(), "", true))
	}

	g.perf.StartPhase(telemetry.PhaseCaretaker)
	g.caretaker.Update(dt)

	g.perf.StartPhase(telemetry.PhaseBehavior)
	g.behavior.Update(dt)
	if g.autopilot != nil && g.sess.State.InProgress() {
		g.autopilot.Update(g, dt)
	}

	g.perf.StartPhase(telemetry.PhaseSpeech)
	g.speech.Update(dt)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.tick++
	g.flushTelemetry()

	g.perf.StartPhase(telemetry.PhaseNotices)
	g.sess.Bus.Drain()

	g.perf.EndTick()
}

// caretakerPort is the caretaker as the yard cats see her.
type caretakerPort struct {
	g *Game
}

var _ systems.CaretakerPort = caretakerPort{}

func (p caretakerPort) Position() (float32, float32) {
	return p.g.sess.Caretaker.Position()
}

func (p caretakerPort) IsBusy() bool {
	return p.g.sess.Caretaker.IsBusy()
}

func (p caretakerPort) TryFeed(id session.Identity) session.FeedOutcome {
	return p.g.feed(session.Presenter{Identity: id})
}

// feed runs one feed attempt and its side effects. The caretaker has already
// applied the outcome to the session state when TryFeed returns.
func (g *Game) feed(p session.Presenter) session.FeedOutcome {
	outcome := g.sess.Caretaker.TryFeed(p)
	clk := g.sess.Clock
	state := g.sess.State

	g.record(telemetry.NewFeedAttemptEvent(clk.Tick(), clk.Now(), p, outcome, state.MealsEarned()))
	g.speech.OnFeedAttempt(p, outcome)

	g.log.Debug("feed attempt",
		"session", g.sessionID(),
		"identity", string(p.Identity),
		"player", p.Player,
		"outcome", outcome.String(),
		"meals", state.MealsEarned(),
	)

	if outcome == session.Fed && p.Player {
		g.hungerMap.Get(g.player).Feed(float32(g.cfg.Hunger.RestoreAmount))
		// The real owner of the identity counts as fed too.
		if e, ok := g.catEntity(p.Identity); ok {
			g.behavior.MarkFed(g.catMap.Get(e))
		}
		g.log.Info("player fed",
			"session", g.sessionID(),
			"identity", string(p.Identity),
			"meals", state.MealsEarned(),
			"meals_to_win", state.MealsToWin(),
		)
	}
	return outcome
}

// onBehaviorEvent forwards scheduler events to telemetry.
func (g *Game) onBehaviorEvent(e systems.BehaviorEvent) {
	clk := g.sess.Clock
	switch e.Kind {
	case systems.EventApproachStarted:
		g.record(telemetry.NewApproachEvent(clk.Tick(), clk.Now(), e.Cat))
	case systems.EventApproachTimeout:
		g.record(telemetry.NewApproachTimeoutEvent(clk.Tick(), clk.Now(), e.Cat))
	case systems.EventStateChanged:
		g.log.Debug("cat state",
			"identity", string(e.Cat),
			"state", e.State.String(),
			"walk", e.Walk.String(),
		)
	}
}

func (g *Game) sessionID() string {
	return g.sess.State.ID().String()
}

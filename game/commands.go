package game

import (
	"image/color"
	"math"

	"github.com/pthm-cable/copycat/components"
	"github.com/pthm-cable/copycat/session"
	"github.com/pthm-cable/copycat/telemetry"
)

// InteractKind says what an Interact call did.
type InteractKind uint8

const (
	InteractNone InteractKind = iota
	InteractFeed
	InteractCopy
)

// InteractResult reports the effect of Interact.
type InteractResult struct {
	Kind     InteractKind
	Identity session.Identity
	Outcome  session.FeedOutcome // set for InteractFeed
}

// RequestCopyDisguise puts on the given identity. An empty id drops the
// disguise. Returns false if nothing changed.
func (g *Game) RequestCopyDisguise(id session.Identity, tint color.RGBA) bool {
	changed := g.sess.State.SetDisguise(id, tint)
	if changed {
		clk := g.sess.Clock
		g.record(telemetry.NewDisguiseEvent(clk.Tick(), clk.Now(), id))
		g.log.Debug("disguise", "session", g.sessionID(), "identity", string(id))
	}
	g.sess.Bus.Drain()
	return changed
}

// RequestFeedInteraction presents the player's current disguise to the caretaker.
func (g *Game) RequestFeedInteraction() session.FeedOutcome {
	outcome := g.feed(session.Presenter{Identity: g.sess.State.Current(), Player: true})
	g.sess.Bus.Drain()
	return outcome
}

// RequestRestart starts a new session. Cat personalities survive; everything
// else goes back to its initial value.
func (g *Game) RequestRestart() {
	g.writeCats()
	old := g.sessionID()

	g.sess.Restart()
	g.resetActors()
	g.speech.Reset()
	g.catTracker.Reset()
	g.catsWritten = false
	if g.autopilot != nil {
		g.autopilot.Reset()
	}

	clk := g.sess.Clock
	g.record(telemetry.NewRestartEvent(clk.Tick(), clk.Now()))
	g.log.Info("session restarted", "previous", old, "session", g.sessionID())
	g.sess.Bus.Drain()
}

// MovePlayer moves the player along (dx, dy) at its speed for dt seconds.
// The direction is normalized; the result is clamped to the yard.
func (g *Game) MovePlayer(dx, dy, dt float32) {
	if g.sess.State.IsTerminal() {
		return
	}
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	player := g.playerMap.Get(g.player)
	pos := g.posMap.Get(g.player)
	step := player.Speed * dt / l

	oldX := pos.X
	pos.X, pos.Y = g.behavior.Params().Bounds.Clamp(pos.X+dx*step, pos.Y+dy*step)
	g.facingMap.Get(g.player).Face(pos.X - oldX)
}

// Interact acts on whatever is within reach: the caretaker first, otherwise
// the nearest yard cat, whose identity is copied. Copying a cat that is
// already fed is allowed.
func (g *Game) Interact() InteractResult {
	if g.sess.State.IsTerminal() {
		return InteractResult{}
	}
	pos := g.posMap.Get(g.player)
	radius := g.playerMap.Get(g.player).InteractRadius

	cx, cy := g.sess.Caretaker.Position()
	if dist(pos.X, pos.Y, cx, cy) <= radius {
		id := g.sess.State.Current()
		return InteractResult{Kind: InteractFeed, Identity: id, Outcome: g.RequestFeedInteraction()}
	}

	id, ok := g.nearestCat(pos.X, pos.Y, radius)
	if !ok {
		return InteractResult{}
	}
	cat := g.catMap.Get(g.cats[id])
	g.RequestCopyDisguise(id, cat.Tint)
	return InteractResult{Kind: InteractCopy, Identity: id}
}

// nearestCat returns the closest yard cat within radius. Ties go to the
// earlier configured cat.
func (g *Game) nearestCat(x, y, radius float32) (session.Identity, bool) {
	var best session.Identity
	bestD := float32(math.MaxFloat32)
	for _, id := range g.catOrder {
		p := g.posMap.Get(g.cats[id])
		if d := dist(x, y, p.X, p.Y); d <= radius && d < bestD {
			best, bestD = id, d
		}
	}
	return best, best != ""
}

// PlayerPosition returns the player's position.
func (g *Game) PlayerPosition() components.Position {
	return *g.posMap.Get(g.player)
}

func dist(x1, y1, x2, y2 float32) float32 {
	return float32(math.Hypot(float64(x1-x2), float64(y1-y2)))
}

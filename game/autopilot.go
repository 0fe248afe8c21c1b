package game

import (
	"image/color"
	"math"

	"github.com/pthm-cable/copycat/session"
)

// reach is the share of the interact radius the autopilot closes to before acting.
const reach = 0.8

// Autopilot plays the game for headless runs: copy an identity Grandma has
// not fed, walk to her, wait out her busy window, and ask for food.
type Autopilot struct {
	target session.Identity
}

// NewAutopilot creates an autopilot.
func NewAutopilot() *Autopilot {
	return &Autopilot{}
}

// Reset forgets the current target.
func (a *Autopilot) Reset() {
	a.target = ""
}

// Target returns the identity the autopilot is after, if any.
func (a *Autopilot) Target() session.Identity {
	return a.target
}

// Update drives the player for one step.
func (a *Autopilot) Update(g *Game, dt float32) {
	state := g.sess.State
	registry := g.sess.Registry
	radius := g.playerMap.Get(g.player).InteractRadius * reach

	// A disguise Grandma now remembers would get us caught.
	if state.Disguised() && registry.IsFed(state.Current()) {
		g.RequestCopyDisguise("", color.RGBA{})
	}

	if !state.Disguised() {
		if a.target == "" || registry.IsFed(a.target) {
			a.target = a.pickTarget(g)
		}
		if a.target == "" {
			return
		}
		e := g.cats[a.target]
		p := g.posMap.Get(e)
		if a.moveTo(g, p.X, p.Y, radius, dt) {
			g.RequestCopyDisguise(a.target, g.catMap.Get(e).Tint)
		}
		return
	}

	cx, cy := g.sess.Caretaker.Position()
	if a.moveTo(g, cx, cy, radius, dt) && !g.sess.Caretaker.IsBusy() {
		if g.RequestFeedInteraction() == session.Fed {
			a.target = ""
		}
	}
}

// pickTarget returns the nearest cat whose identity is not in the registry.
func (a *Autopilot) pickTarget(g *Game) session.Identity {
	pos := g.posMap.Get(g.player)
	var best session.Identity
	bestD := float32(math.MaxFloat32)
	for _, id := range g.catOrder {
		if g.sess.Registry.IsFed(id) {
			continue
		}
		p := g.posMap.Get(g.cats[id])
		if d := dist(pos.X, pos.Y, p.X, p.Y); d < bestD {
			best, bestD = id, d
		}
	}
	return best
}

// moveTo walks toward (x, y) and reports whether the player is within radius.
func (a *Autopilot) moveTo(g *Game, x, y, radius, dt float32) bool {
	pos := g.posMap.Get(g.player)
	if dist(pos.X, pos.Y, x, y) <= radius {
		return true
	}
	g.MovePlayer(x-pos.X, y-pos.Y, dt)
	pos = g.posMap.Get(g.player)
	return dist(pos.X, pos.Y, x, y) <= radius
}

package game

import (
	"image/color"

	"github.com/pthm-cable/copycat/components"
	"github.com/pthm-cable/copycat/session"
	"github.com/pthm-cable/copycat/systems"
	"github.com/pthm-cable/copycat/traits"
)

// PlayerView is the player as the front-end draws it.
type PlayerView struct {
	X, Y       float32
	FacingLeft bool
	Tint       color.RGBA // disguise tint while disguised
	Hunger     float32    // ratio in [0, 1]
	HungerCur  float32
	HungerMax  float32
	Disguise   session.Disguise
	Disguised  bool
	Radius     float32
}

// CatView is a yard cat as the front-end draws it.
type CatView struct {
	ID         session.Identity
	X, Y       float32
	FacingLeft bool
	Tint       color.RGBA
	Profile    traits.Profile
	Label      string
	Visual     components.Visual
	Timer      float32 // seconds in the current state
	Deadline   float32
	Walking    bool
	TargetX    float32
	TargetY    float32
	Fed        bool
	FedTimer   float32 // seconds until hungry again
	Hunger     float32
	HungerCur  float32
	HungerMax  float32
}

// CaretakerView is Grandma as the front-end draws her.
type CaretakerView struct {
	X, Y       float32
	FacingLeft bool
	Mode       session.CaretakerMode
	Busy       bool
	LastFed    session.Identity
}

// Player returns the player view.
func (g *Game) Player() PlayerView {
	pos := g.posMap.Get(g.player)
	player := g.playerMap.Get(g.player)
	d, disguised := g.sess.State.Disguise()
	h := g.hungerMap.Get(g.player)
	tint := player.Tint
	if disguised {
		tint = d.Tint
	}
	return PlayerView{
		X:          pos.X,
		Y:          pos.Y,
		FacingLeft: g.facingMap.Get(g.player).Left,
		Tint:       tint,
		Hunger:     h.Ratio(),
		HungerCur:  h.Current,
		HungerMax:  h.Max,
		Disguise:   d,
		Disguised:  disguised,
		Radius:     player.InteractRadius,
	}
}

// Cats returns every yard cat in configured order.
func (g *Game) Cats() []CatView {
	frameRate := g.behavior.Params().FrameRate
	out := make([]CatView, 0, len(g.catOrder))
	for _, id := range g.catOrder {
		e := g.cats[id]
		pos := g.posMap.Get(e)
		cat := g.catMap.Get(e)
		b := g.behaviorMap.Get(e)
		h := g.hungerMap.Get(e)
		out = append(out, CatView{
			ID:         id,
			X:          pos.X,
			Y:          pos.Y,
			FacingLeft: g.facingMap.Get(e).Left,
			Tint:       cat.Tint,
			Profile:    g.persMap.Get(e).Profile,
			Label:      b.Label(),
			Visual:     components.VisualFor(b, *g.spriteMap.Get(e), frameRate),
			Timer:      b.StateTimer,
			Deadline:   b.Deadline,
			Walking:    b.State == components.StateWalking,
			TargetX:    b.TargetX,
			TargetY:    b.TargetY,
			Fed:        cat.Fed,
			FedTimer:   cat.FedTimer,
			Hunger:     h.Ratio(),
			HungerCur:  h.Current,
			HungerMax:  h.Max,
		})
	}
	return out
}

// Caretaker returns the caretaker view.
func (g *Game) Caretaker() CaretakerView {
	c := g.sess.Caretaker
	return CaretakerView{
		X:          c.Motion.X,
		Y:          c.Motion.Y,
		FacingLeft: c.Motion.FacingLeft,
		Mode:       c.Motion.Mode,
		Busy:       c.IsBusy(),
		LastFed:    c.LastFed(),
	}
}

// Bubble returns Grandma's speech bubble.
func (g *Game) Bubble() systems.Bubble {
	return g.speech.Bubble()
}

// CatComponents returns copies of a yard cat's components for inspection.
func (g *Game) CatComponents(id session.Identity) (components.Cat, components.Behavior, components.Hunger, bool) {
	e, ok := g.catEntity(id)
	if !ok {
		return components.Cat{}, components.Behavior{}, components.Hunger{}, false
	}
	return *g.catMap.Get(e), *g.behaviorMap.Get(e), *g.hungerMap.Get(e), true
}

// Package components defines ECS components for the player and the yard cats.
package components

import (
	"image/color"

	"github.com/pthm-cable/copycat/session"
	"github.com/pthm-cable/copycat/traits"
)

// starveEpsilon absorbs float32 drift so a depleting bar lands on exactly zero.
const starveEpsilon = 1e-4

// Hunger is a depleting food bar. Current stays within [0, Max].
type Hunger struct {
	Current float32 `inspect:"bar,max:Max"`
	Max     float32 `inspect:"label,fmt:%.0f"`
	Rate    float32 `inspect:"label,fmt:%.2f/s"` // depletion per second before personality
	Starved bool    `inspect:"bool"`
}

// NewHunger returns a full bar.
func NewHunger(max, rate float32) Hunger {
	return Hunger{Current: max, Max: max, Rate: rate}
}

// Deplete subtracts Rate*mult*dt. Returns true exactly once, on the tick the
// bar reaches zero.
func (h *Hunger) Deplete(dt, mult float32) bool {
	if h.Starved {
		return false
	}
	h.Current -= h.Rate * mult * dt
	if h.Current <= starveEpsilon {
		h.Current = 0
		h.Starved = true
		return true
	}
	if h.Current > h.Max {
		h.Current = h.Max
	}
	return false
}

// Feed adds amount clamped to Max. An amount of zero or less refills the bar.
func (h *Hunger) Feed(amount float32) {
	if amount <= 0 {
		h.Current = h.Max
	} else {
		h.Current += amount
		if h.Current > h.Max {
			h.Current = h.Max
		}
	}
	if h.Current > 0 {
		h.Starved = false
	}
}

// Ratio returns Current/Max in [0, 1].
func (h *Hunger) Ratio() float32 {
	if h.Max <= 0 {
		return 0
	}
	return h.Current / h.Max
}

// Reset refills the bar and clears the starved flag.
func (h *Hunger) Reset() {
	h.Current = h.Max
	h.Starved = false
}

// Player marks the player-controlled cat.
type Player struct {
	Speed          float32
	InteractRadius float32
	Tint           color.RGBA
}

// Cat holds a yard cat's identity and fed bookkeeping.
type Cat struct {
	ID       session.Identity `inspect:"label"`
	Index    int              `inspect:"skip"`
	Tint     color.RGBA       `inspect:"skip"`
	StartX   float32          `inspect:"skip"`
	StartY   float32          `inspect:"skip"`
	Fed      bool             `inspect:"bool"`
	FedTimer float32          `inspect:"label,fmt:%.1fs"` // seconds until hungry again
	Walked   float32          `inspect:"label,fmt:%.1f"`  // total distance walked this session
}

// Personality is the cat's fixed profile and its multipliers.
type Personality struct {
	Profile traits.Profile
	traits.Multipliers
}

// BehaviorState is the top-level scheduler state of a yard cat.
type BehaviorState uint8

const (
	StateIdle BehaviorState = iota
	StateLaying
	StateSleeping
	StateGettingUp
	StateWalking
)

// WalkMode qualifies StateWalking.
type WalkMode uint8

const (
	WalkNone WalkMode = iota
	WalkWander
	WalkApproach
	WalkRetreat
)

// Behavior is the per-cat scheduler state. Only the behavior system writes it.
type Behavior struct {
	State      BehaviorState `inspect:"label"`
	Walk       WalkMode      `inspect:"label"`
	StateTimer float32       `inspect:"label,fmt:%.1fs"` // seconds in the current state
	Deadline   float32       `inspect:"label,fmt:%.1fs"` // state length, or walk timeout
	TargetX    float32       `inspect:"skip"`
	TargetY    float32       `inspect:"skip"`
	Pausing    bool          `inspect:"bool"`            // holding the last frame before leaving a rest
	PauseTimer float32       `inspect:"label,fmt:%.2fs"` // seconds left in the transition pause
}

// Enter switches to a new state and clears the timers.
func (b *Behavior) Enter(s BehaviorState, deadline float32) {
	b.State = s
	b.Walk = WalkNone
	b.StateTimer = 0
	b.Deadline = deadline
	b.Pausing = false
	b.PauseTimer = 0
}

// StartWalk switches to StateWalking toward a target.
func (b *Behavior) StartWalk(mode WalkMode, x, y, timeout float32) {
	b.Enter(StateWalking, timeout)
	b.Walk = mode
	b.TargetX = x
	b.TargetY = y
}

// Sprites holds the frame count of each sprite set. Zero means the set is missing.
type Sprites struct {
	Idle     int
	Laying   int
	Sleeping int
	Walk     int
}

// SpriteSet names one sprite sheet.
type SpriteSet uint8

const (
	SpriteIdle SpriteSet = iota
	SpriteLaying
	SpriteSleeping
	SpriteWalk
)

// Visual is what the renderer should draw for a cat this frame.
type Visual struct {
	Set   SpriteSet
	Frame int
}

// SequenceLength returns how long a one-shot sequence of frames lasts.
func SequenceLength(frames int, frameRate float32) float32 {
	if frames <= 0 || frameRate <= 0 {
		return 0
	}
	return float32(frames) / frameRate
}

// VisualFor maps a behavior onto the configured sprite sets. Missing walk or
// rest sets degrade to idle visuals; the behavior itself is unaffected.
func VisualFor(b *Behavior, s Sprites, frameRate float32) Visual {
	looping := func(set SpriteSet, frames int) Visual {
		if frames <= 0 {
			return Visual{Set: SpriteIdle}
		}
		return Visual{Set: set, Frame: int(b.StateTimer*frameRate) % frames}
	}
	once := func(set SpriteSet, frames int, reverse bool) Visual {
		if frames <= 0 {
			return looping(SpriteIdle, s.Idle)
		}
		f := int(b.StateTimer * frameRate)
		if f >= frames {
			f = frames - 1
		}
		if reverse {
			f = frames - 1 - f
		}
		return Visual{Set: set, Frame: f}
	}

	switch b.State {
	case StateLaying:
		return once(SpriteLaying, s.Laying, false)
	case StateSleeping:
		return once(SpriteSleeping, s.Sleeping, false)
	case StateGettingUp:
		return once(SpriteLaying, s.Laying, true)
	case StateWalking:
		if s.Walk > 0 {
			return looping(SpriteWalk, s.Walk)
		}
		return looping(SpriteIdle, s.Idle)
	default:
		return looping(SpriteIdle, s.Idle)
	}
}

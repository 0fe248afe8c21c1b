package session

// FeedOutcome is the caretaker's answer to a feed attempt.
// Rejections are ordinary values, not errors.
type FeedOutcome uint8

const (
	Fed FeedOutcome = iota
	RejectedNoIdentity
	RejectedCaught
	RejectedBusy
	RejectedGameOver
)

// String returns the outcome name.
func (o FeedOutcome) String() string {
	switch o {
	case Fed:
		return "fed"
	case RejectedNoIdentity:
		return "no_identity"
	case RejectedCaught:
		return "caught"
	case RejectedBusy:
		return "busy"
	case RejectedGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Presenter is whoever stands in front of the caretaker asking for food.
type Presenter struct {
	Identity Identity
	Player   bool
}

// CaretakerMode is what the caretaker is visibly doing.
type CaretakerMode uint8

const (
	CaretakerIdle CaretakerMode = iota
	CaretakerWandering
	CaretakerFeeding
)

// String returns the mode name.
func (m CaretakerMode) String() string {
	switch m {
	case CaretakerIdle:
		return "idle"
	case CaretakerWandering:
		return "wandering"
	case CaretakerFeeding:
		return "feeding"
	default:
		return "unknown"
	}
}

// CaretakerMotion is the caretaker's position and wander state.
// It is advanced by systems.CaretakerSystem.
type CaretakerMotion struct {
	Mode       CaretakerMode
	X, Y       float32
	StartX     float32
	StartY     float32
	TargetX    float32
	TargetY    float32
	Timer      float32
	FacingLeft bool
}

// Caretaker arbitrates every feed attempt. It owns the busy window and is the
// only writer of the registry's fed entries.
type Caretaker struct {
	clock    *Clock
	registry *Registry
	state    *State
	eating   func(Identity) float64

	busyUntil   float64
	claimed     bool
	claimedTick uint64
	lastFed     Identity

	Motion CaretakerMotion
}

// NewCaretaker creates a caretaker standing at (x, y). eating returns the busy
// window for an identity; nil means no busy window beyond the current tick.
func NewCaretaker(clock *Clock, registry *Registry, state *State, eating func(Identity) float64, x, y float32) *Caretaker {
	c := &Caretaker{
		clock:    clock,
		registry: registry,
		state:    state,
		eating:   eating,
	}
	c.Motion.StartX, c.Motion.StartY = x, y
	c.Reset()
	return c
}

// TryFeed checks the presenter against the game outcome, the busy window, and
// the registry, in that order. On Fed the identity is marked in the registry,
// the busy window starts, and the state applies the result. A caught player
// ends the session; a caught NPC is just refused.
//
// At most one call per clock tick can return Fed, even with a zero eating duration.
func (c *Caretaker) TryFeed(p Presenter) FeedOutcome {
	if c.state.IsTerminal() {
		return RejectedGameOver
	}
	if c.IsBusy() {
		return RejectedBusy
	}
	if p.Identity == "" {
		return RejectedNoIdentity
	}
	if c.registry.IsFed(p.Identity) {
		c.state.ApplyFeedOutcome(RejectedCaught, p.Player)
		return RejectedCaught
	}

	d := c.EatingDuration(p.Identity)
	c.registry.MarkFed(p.Identity, d)
	c.busyUntil = c.clock.Now() + d
	c.claimed = true
	c.claimedTick = c.clock.Tick()
	c.lastFed = p.Identity
	c.Motion.Mode = CaretakerFeeding
	c.state.ApplyFeedOutcome(Fed, p.Player)
	return Fed
}

// EatingDuration returns the busy window for an identity.
func (c *Caretaker) EatingDuration(id Identity) float64 {
	if c.eating == nil {
		return 0
	}
	d := c.eating(id)
	if d < 0 {
		return 0
	}
	return d
}

// IsBusy reports whether the caretaker is refusing feeds right now.
func (c *Caretaker) IsBusy() bool {
	if c.claimed && c.claimedTick == c.clock.Tick() {
		return true
	}
	return c.clock.Now() < c.busyUntil
}

// BusyUntil returns when the current busy window ends.
func (c *Caretaker) BusyUntil() float64 {
	return c.busyUntil
}

// LastFed returns the most recently fed identity, if any.
func (c *Caretaker) LastFed() Identity {
	return c.lastFed
}

// Position returns the caretaker's current position.
func (c *Caretaker) Position() (float32, float32) {
	return c.Motion.X, c.Motion.Y
}

// Reset puts the caretaker back at her start position, idle and free.
func (c *Caretaker) Reset() {
	c.busyUntil = 0
	c.claimed = false
	c.claimedTick = 0
	c.lastFed = ""
	c.Motion = CaretakerMotion{
		Mode:    CaretakerIdle,
		X:       c.Motion.StartX,
		Y:       c.Motion.StartY,
		StartX:  c.Motion.StartX,
		StartY:  c.Motion.StartY,
		TargetX: c.Motion.StartX,
		TargetY: c.Motion.StartY,
	}
}

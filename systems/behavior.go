package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/copycat/components"
	"github.com/pthm-cable/copycat/config"
	"github.com/pthm-cable/copycat/session"
)

// CaretakerPort is what a yard cat can see of, and ask from, the caretaker.
type CaretakerPort interface {
	Position() (float32, float32)
	IsBusy() bool
	TryFeed(id session.Identity) session.FeedOutcome
}

// BehaviorEventKind identifies a scheduler event.
type BehaviorEventKind uint8

const (
	EventStateChanged BehaviorEventKind = iota
	EventApproachStarted
	EventFeedAttempt
	EventApproachTimeout
	EventHungryAgain
)

// BehaviorEvent is emitted for telemetry and logging.
type BehaviorEvent struct {
	Kind    BehaviorEventKind
	Cat     session.Identity
	State   components.BehaviorState
	Walk    components.WalkMode
	Outcome session.FeedOutcome
}

// BehaviorParams are the base scheduler values before personality scaling.
type BehaviorParams struct {
	FrameRate       float32
	IdleMin         float32
	IdleMax         float32
	RestMin         float32
	RestMax         float32
	WanderChance    float32
	ApproachChance  float32
	LayingWeight    float32
	TransitionPause float32
	WanderRadius    float32
	WanderMin       float32
	WanderMax       float32
	WanderSpeed     float32
	ApproachTimeout float32
	ArriveEpsilon   float32
	FeedDistance    float32
	HungryAgain     float32
	RestoreAmount   float32
	Bounds          Bounds
}

// BehaviorParamsFromConfig converts the loaded config into scheduler params.
func BehaviorParamsFromConfig(cfg *config.Config) BehaviorParams {
	b := cfg.Behavior
	return BehaviorParams{
		FrameRate:       float32(b.FrameRate),
		IdleMin:         float32(b.IdleMin),
		IdleMax:         float32(b.IdleMax),
		RestMin:         float32(b.RestMin),
		RestMax:         float32(b.RestMax),
		WanderChance:    float32(b.WanderChance),
		ApproachChance:  float32(b.ApproachChance),
		LayingWeight:    float32(b.LayingWeight),
		TransitionPause: float32(b.TransitionPause),
		WanderRadius:    float32(b.WanderRadius),
		WanderMin:       float32(b.WanderMin),
		WanderMax:       float32(b.WanderMax),
		WanderSpeed:     float32(b.WanderSpeed),
		ApproachTimeout: float32(b.ApproachTimeout),
		ArriveEpsilon:   float32(b.ArriveEpsilon),
		FeedDistance:    float32(b.FeedDistance),
		HungryAgain:     float32(cfg.Session.HungryAgain),
		RestoreAmount:   float32(cfg.Hunger.RestoreAmount),
		Bounds: Bounds{
			MinX: cfg.Derived.MinX32, MaxX: cfg.Derived.MaxX32,
			MinY: cfg.Derived.MinY32, MaxY: cfg.Derived.MaxY32,
		},
	}
}

// BehaviorSystem runs one scheduler per yard cat:
//
//	Idle -> Walking(Wander | Approach) | Laying | Sleeping
//	Laying -> GettingUp -> Idle
//	Sleeping -> Idle
//	Walking(Approach) -> TryFeed -> Walking(Retreat) | Idle
//
// Timers are scaled by each cat's personality. Nothing runs once the session has ended.
type BehaviorSystem struct {
	filter    *ecs.Filter5[components.Position, components.Facing, components.Cat, components.Behavior, components.Personality]
	spriteMap *ecs.Map[components.Sprites]
	hungerMap *ecs.Map[components.Hunger]

	port     CaretakerPort
	registry *session.Registry
	state    *session.State
	rng      *rand.Rand
	params   BehaviorParams

	// OnEvent, if set, receives scheduler events.
	OnEvent func(BehaviorEvent)
}

// NewBehaviorSystem creates a behavior system.
func NewBehaviorSystem(w *ecs.World, port CaretakerPort, registry *session.Registry, state *session.State, params BehaviorParams, rng *rand.Rand) *BehaviorSystem {
	return &BehaviorSystem{
		filter:    ecs.NewFilter5[components.Position, components.Facing, components.Cat, components.Behavior, components.Personality](w),
		spriteMap: ecs.NewMap[components.Sprites](w),
		hungerMap: ecs.NewMap[components.Hunger](w),
		port:      port,
		registry:  registry,
		state:     state,
		rng:       rng,
		params:    params,
	}
}

// Params returns the base scheduler values.
func (s *BehaviorSystem) Params() BehaviorParams {
	return s.params
}

// EnterIdle puts a cat into Idle with a freshly drawn deadline.
func (s *BehaviorSystem) EnterIdle(b *components.Behavior, pers *components.Personality) {
	b.Enter(components.StateIdle, uniform(s.rng, s.params.IdleMin, s.params.IdleMax)*pers.IdleDwell)
}

// Update advances every cat by dt.
func (s *BehaviorSystem) Update(dt float32) {
	if s.state.IsTerminal() {
		return
	}

	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, facing, cat, b, pers := query.Get()

		var sprites components.Sprites
		if s.spriteMap.Has(entity) {
			sprites = *s.spriteMap.Get(entity)
		}
		var hunger *components.Hunger
		if s.hungerMap.Has(entity) {
			hunger = s.hungerMap.Get(entity)
		}

		s.updateFed(cat)
		b.StateTimer += dt
		before, walk := b.State, b.Walk

		switch b.State {
		case components.StateIdle:
			if b.StateTimer >= b.Deadline {
				s.decide(cat, b, pers, sprites)
			}
		case components.StateLaying, components.StateSleeping:
			s.updateRest(b, pers, sprites, dt)
		case components.StateGettingUp:
			if b.StateTimer >= b.Deadline {
				s.EnterIdle(b, pers)
			}
		case components.StateWalking:
			s.updateWalk(pos, facing, cat, b, pers, hunger, dt)
		}

		if b.State != before || b.Walk != walk {
			s.emit(BehaviorEvent{Kind: EventStateChanged, Cat: cat.ID, State: b.State, Walk: b.Walk})
		}
	}
}

// updateFed keeps the cat's fed timer in step with the registry. When the
// timer runs out the cat tells the registry it is hungry again, so the cat
// never becomes hungry before the caretaker forgets its identity.
func (s *BehaviorSystem) updateFed(cat *components.Cat) {
	if !cat.Fed {
		return
	}
	if left, ok := s.registry.Remaining(cat.ID); ok {
		cat.FedTimer = float32(left)
		return
	}
	s.registry.MarkHungryAgain(cat.ID)
	cat.Fed = false
	cat.FedTimer = 0
	s.emit(BehaviorEvent{Kind: EventHungryAgain, Cat: cat.ID})
}

// MarkFed flags a cat as fed and starts its hungry-again timer.
func (s *BehaviorSystem) MarkFed(cat *components.Cat) {
	cat.Fed = true
	cat.FedTimer = s.params.HungryAgain
}

// decide leaves Idle for a walk or a rest.
func (s *BehaviorSystem) decide(cat *components.Cat, b *components.Behavior, pers *components.Personality, sprites components.Sprites) {
	p := s.params
	if s.rng.Float32() < p.WanderChance*pers.WanderChance {
		if !cat.Fed && !s.port.IsBusy() && s.rng.Float32() < p.ApproachChance*pers.ApproachChance {
			tx, ty := s.port.Position()
			b.StartWalk(components.WalkApproach, tx, ty, p.ApproachTimeout)
			s.emit(BehaviorEvent{Kind: EventApproachStarted, Cat: cat.ID})
			return
		}
		angle := s.rng.Float64() * 2 * math.Pi
		r := s.rng.Float32() * p.WanderRadius
		tx, ty := p.Bounds.Clamp(
			cat.StartX+r*float32(math.Cos(angle)),
			cat.StartY+r*float32(math.Sin(angle)),
		)
		b.StartWalk(components.WalkWander, tx, ty, uniform(s.rng, p.WanderMin, p.WanderMax)*pers.WanderDuration)
		return
	}

	state := components.StateSleeping
	if s.rng.Float32() < p.LayingWeight {
		state = components.StateLaying
	}
	// Fall back to whichever rest set exists
	if state == components.StateLaying && sprites.Laying <= 0 && sprites.Sleeping > 0 {
		state = components.StateSleeping
	} else if state == components.StateSleeping && sprites.Sleeping <= 0 && sprites.Laying > 0 {
		state = components.StateLaying
	}
	b.Enter(state, uniform(s.rng, p.RestMin, p.RestMax)*pers.RestDwell)
}

// updateRest holds the rest pose until the deadline and the sequence are both
// done, waits the transition pause, then gets up.
func (s *BehaviorSystem) updateRest(b *components.Behavior, pers *components.Personality, sprites components.Sprites, dt float32) {
	frames := sprites.Sleeping
	if b.State == components.StateLaying {
		frames = sprites.Laying
	}
	seq := components.SequenceLength(frames, s.params.FrameRate)

	if b.Pausing {
		b.PauseTimer -= dt
	} else if b.StateTimer >= b.Deadline && b.StateTimer >= seq {
		b.Pausing = true
		b.PauseTimer = s.params.TransitionPause
	}
	if !b.Pausing || b.PauseTimer > 0 {
		return
	}

	if b.State == components.StateLaying {
		b.Enter(components.StateGettingUp, components.SequenceLength(sprites.Laying, s.params.FrameRate))
		return
	}
	s.EnterIdle(b, pers)
}

// updateWalk moves toward the target and resolves arrival or timeout.
// Walking does not depend on a walk sprite set being configured.
func (s *BehaviorSystem) updateWalk(pos *components.Position, facing *components.Facing, cat *components.Cat, b *components.Behavior, pers *components.Personality, hunger *components.Hunger, dt float32) {
	p := s.params
	if b.Walk == components.WalkApproach {
		b.TargetX, b.TargetY = s.port.Position()
	}

	eps := p.ArriveEpsilon
	if b.Walk == components.WalkApproach {
		eps = p.FeedDistance
	}

	arrived := distance(pos.X, pos.Y, b.TargetX, b.TargetY) <= eps
	if !arrived {
		oldX := pos.X
		var moved float32
		pos.X, pos.Y, moved = moveToward(pos.X, pos.Y, b.TargetX, b.TargetY, p.WanderSpeed*pers.WanderSpeed*dt)
		cat.Walked += moved
		facing.Face(pos.X - oldX)
		arrived = distance(pos.X, pos.Y, b.TargetX, b.TargetY) <= eps
	}

	if arrived {
		if b.Walk != components.WalkApproach {
			s.EnterIdle(b, pers)
			return
		}
		outcome := s.port.TryFeed(cat.ID)
		s.emit(BehaviorEvent{Kind: EventFeedAttempt, Cat: cat.ID, Outcome: outcome})
		if outcome != session.Fed {
			s.EnterIdle(b, pers)
			return
		}
		if hunger != nil {
			hunger.Feed(p.RestoreAmount)
		}
		s.MarkFed(cat)
		b.StartWalk(components.WalkRetreat, cat.StartX, cat.StartY, p.ApproachTimeout)
		return
	}

	if b.StateTimer >= b.Deadline {
		if b.Walk == components.WalkApproach {
			s.emit(BehaviorEvent{Kind: EventApproachTimeout, Cat: cat.ID})
		}
		s.EnterIdle(b, pers)
	}
}

func (s *BehaviorSystem) emit(e BehaviorEvent) {
	if s.OnEvent != nil {
		s.OnEvent(e)
	}
}

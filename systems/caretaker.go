package systems

import (
	"math/rand"

	"github.com/pthm-cable/copycat/config"
	"github.com/pthm-cable/copycat/session"
)

// CaretakerParams are Grandma's wander values.
type CaretakerParams struct {
	WanderSpeed   float32
	WanderTime    float32
	IdleTime      float32
	WanderChance  float32
	OffsetMin     float32
	OffsetMax     float32
	ArriveEpsilon float32
	Bounds        Bounds
}

// CaretakerParamsFromConfig converts the loaded config into wander params.
func CaretakerParamsFromConfig(cfg *config.Config) CaretakerParams {
	c := cfg.Caretaker
	return CaretakerParams{
		WanderSpeed:   float32(c.WanderSpeed),
		WanderTime:    float32(c.WanderTime),
		IdleTime:      float32(c.IdleTime),
		WanderChance:  float32(c.WanderChance),
		OffsetMin:     float32(c.OffsetMin),
		OffsetMax:     float32(c.OffsetMax),
		ArriveEpsilon: float32(c.ArriveEpsilon),
		Bounds: Bounds{
			MinX: cfg.Derived.MinX32, MaxX: cfg.Derived.MaxX32,
			MinY: cfg.Derived.MinY32, MaxY: cfg.Derived.MaxY32,
		},
	}
}

// CaretakerSystem walks Grandma around her start position. She stands still
// while busy feeding.
type CaretakerSystem struct {
	caretaker *session.Caretaker
	state     *session.State
	params    CaretakerParams
	rng       *rand.Rand
}

// NewCaretakerSystem creates a caretaker wander system.
func NewCaretakerSystem(caretaker *session.Caretaker, state *session.State, params CaretakerParams, rng *rand.Rand) *CaretakerSystem {
	return &CaretakerSystem{
		caretaker: caretaker,
		state:     state,
		params:    params,
		rng:       rng,
	}
}

// Update advances the wander state by dt.
func (s *CaretakerSystem) Update(dt float32) {
	if s.state.IsTerminal() {
		return
	}
	m := &s.caretaker.Motion
	p := s.params

	if s.caretaker.IsBusy() {
		m.Mode = session.CaretakerFeeding
		return
	}
	if m.Mode == session.CaretakerFeeding {
		m.Mode = session.CaretakerIdle
		m.Timer = p.IdleTime
	}

	switch m.Mode {
	case session.CaretakerIdle:
		m.Timer -= dt
		if m.Timer > 0 {
			return
		}
		if s.rng.Float32() < p.WanderChance {
			m.TargetX, m.TargetY = p.Bounds.Clamp(m.StartX+s.offset(), m.StartY+s.offset())
			m.Mode = session.CaretakerWandering
			m.Timer = p.WanderTime
		} else {
			m.Timer = p.IdleTime
		}

	case session.CaretakerWandering:
		oldX := m.X
		m.X, m.Y, _ = moveToward(m.X, m.Y, m.TargetX, m.TargetY, p.WanderSpeed*dt)
		if dx := m.X - oldX; dx < -0.001 {
			m.FacingLeft = true
		} else if dx > 0.001 {
			m.FacingLeft = false
		}
		m.Timer -= dt
		if m.Timer <= 0 || distance(m.X, m.Y, m.TargetX, m.TargetY) <= p.ArriveEpsilon {
			m.Mode = session.CaretakerIdle
			m.Timer = p.IdleTime
		}
	}
}

// offset draws a signed wander offset with magnitude in [OffsetMin, OffsetMax).
func (s *CaretakerSystem) offset() float32 {
	v := uniform(s.rng, s.params.OffsetMin, s.params.OffsetMax)
	if s.rng.Intn(2) == 0 {
		return -v
	}
	return v
}

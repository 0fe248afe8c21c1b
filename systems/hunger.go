package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/copycat/components"
	"github.com/pthm-cable/copycat/session"
)

// HungerReport lists what happened during one hunger update.
type HungerReport struct {
	PlayerStarved bool
	CatsStarved   []session.Identity
}

// HungerSystem depletes hunger for the player and, optionally, the yard cats.
// Player starvation ends the session; a starving yard cat is only reported.
type HungerSystem struct {
	playerFilter *ecs.Filter2[components.Player, components.Hunger]
	catFilter    *ecs.Filter3[components.Cat, components.Hunger, components.Personality]
	state        *session.State
	npcEnabled   bool
}

// NewHungerSystem creates a hunger system.
func NewHungerSystem(w *ecs.World, state *session.State, npcEnabled bool) *HungerSystem {
	return &HungerSystem{
		playerFilter: ecs.NewFilter2[components.Player, components.Hunger](w),
		catFilter:    ecs.NewFilter3[components.Cat, components.Hunger, components.Personality](w),
		state:        state,
		npcEnabled:   npcEnabled,
	}
}

// Update depletes every bar by dt. Does nothing once the session has ended.
func (s *HungerSystem) Update(dt float32) HungerReport {
	var report HungerReport
	if s.state.IsTerminal() {
		return report
	}

	query := s.playerFilter.Query()
	for query.Next() {
		_, hunger := query.Get()
		if hunger.Deplete(dt, 1) {
			report.PlayerStarved = true
		}
	}

	if s.npcEnabled {
		cats := s.catFilter.Query()
		for cats.Next() {
			cat, hunger, pers := cats.Get()
			if hunger.Deplete(dt, pers.HungerRate) {
				report.CatsStarved = append(report.CatsStarved, cat.ID)
			}
		}
	}

	if report.PlayerStarved {
		s.state.Lose(session.ReasonStarved)
	}
	return report
}

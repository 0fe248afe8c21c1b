package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/copycat/components"
	"github.com/pthm-cable/copycat/session"
	"github.com/pthm-cable/copycat/traits"
)

// spawnPlayer creates the player cat at its configured start.
func (g *Game) spawnPlayer() {
	cfg := g.cfg

	pos := components.Position{X: float32(cfg.Player.X), Y: float32(cfg.Player.Y)}
	facing := components.Facing{}
	player := components.Player{
		Speed:          float32(cfg.Player.Speed),
		InteractRadius: float32(cfg.Player.InteractRadius),
		Tint:           cfg.Derived.PlayerTint,
	}
	hunger := components.NewHunger(float32(cfg.Hunger.Max), float32(cfg.Hunger.DepletionRate))

	g.player = g.playerMapper.NewEntity(&pos, &facing, &player, &hunger)
}

// spawnCats creates one entity per configured yard cat. Personalities are
// drawn here and kept for the life of the game.
func (g *Game) spawnCats() {
	cfg := g.cfg
	n := len(cfg.Cats)

	for i := range cfg.Cats {
		cc := &cfg.Cats[i]
		id := session.Identity(cc.ID)

		profile := traits.Assign(i, n, cfg.Personality, g.rng)
		pers := components.Personality{
			Profile:     profile,
			Multipliers: traits.For(profile, cfg.Personality, g.rng),
		}

		x, y := float32(cc.X), float32(cc.Y)
		pos := components.Position{X: x, Y: y}
		facing := components.Facing{Left: x > 0}
		cat := components.Cat{
			ID:     id,
			Index:  i,
			Tint:   cfg.Derived.CatTints[i],
			StartX: x,
			StartY: y,
		}
		var b components.Behavior
		g.behavior.EnterIdle(&b, &pers)
		sprites := components.Sprites{
			Idle:     cc.IdleFrames,
			Laying:   cc.LayingFrames,
			Sleeping: cc.SleepingFrames,
			Walk:     cc.WalkFrames,
		}
		hunger := components.NewHunger(float32(cfg.Hunger.Max), float32(cfg.Hunger.DepletionRate))

		e := g.catMapper.NewEntity(&pos, &facing, &cat, &b, &pers, &sprites, &hunger)
		g.cats[id] = e
		g.catOrder = append(g.catOrder, id)
		g.catTracker.Register(id, profile.String())

		g.log.Debug("spawned cat",
			"identity", cc.ID,
			"profile", profile.String(),
			"x", x, "y", y,
			"walk_frames", cc.WalkFrames,
		)
	}
}

// resetActors puts the player and every cat back at their starts with full
// hunger and fresh timers. Personalities are kept.
func (g *Game) resetActors() {
	cfg := g.cfg

	*g.posMap.Get(g.player) = components.Position{X: float32(cfg.Player.X), Y: float32(cfg.Player.Y)}
	*g.facingMap.Get(g.player) = components.Facing{}
	g.hungerMap.Get(g.player).Reset()

	for _, id := range g.catOrder {
		e := g.cats[id]
		cat := g.catMap.Get(e)
		cat.Fed = false
		cat.FedTimer = 0
		cat.Walked = 0

		*g.posMap.Get(e) = components.Position{X: cat.StartX, Y: cat.StartY}
		*g.facingMap.Get(e) = components.Facing{Left: cat.StartX > 0}
		g.hungerMap.Get(e).Reset()
		g.behavior.EnterIdle(g.behaviorMap.Get(e), g.persMap.Get(e))
	}
}

// catEntity returns the entity of the yard cat with the given identity.
func (g *Game) catEntity(id session.Identity) (ecs.Entity, bool) {
	e, ok := g.cats[id]
	return e, ok
}

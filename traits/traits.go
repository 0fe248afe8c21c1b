// Package traits defines yard cat personalities and the multipliers they apply.
package traits

import (
	"math/rand"

	"github.com/pthm-cable/copycat/config"
)

// Profile is a yard cat personality, chosen once at spawn.
type Profile uint8

const (
	Lazy Profile = iota
	Active
	Balanced
)

// String returns the profile name.
func (p Profile) String() string {
	return ProfileName(p)
}

// ProfileName returns a human-readable profile name.
func ProfileName(p Profile) string {
	switch p {
	case Lazy:
		return "Lazy"
	case Active:
		return "Active"
	case Balanced:
		return "Balanced"
	default:
		return ""
	}
}

// Multipliers scale the base behavior and hunger values for one cat.
// A value of 1 leaves the base untouched.
type Multipliers struct {
	IdleDwell      float32
	RestDwell      float32
	WanderSpeed    float32
	WanderDuration float32
	WanderChance   float32
	ApproachChance float32
	HungerRate     float32
}

// Neutral returns multipliers that change nothing.
func Neutral() Multipliers {
	return Multipliers{1, 1, 1, 1, 1, 1, 1}
}

// Weights returns the spawn weights for weighted assignment.
func Weights(pc config.PersonalityConfig) map[Profile]float64 {
	return map[Profile]float64{
		Lazy:     pc.LazyWeight,
		Active:   pc.ActiveWeight,
		Balanced: pc.BalancedWeight,
	}
}

// Assign picks the profile for cat index out of count cats. With two cats or
// fewer the first is Lazy and the second Active; otherwise the profile is drawn
// from the configured weights.
func Assign(index, count int, pc config.PersonalityConfig, rng *rand.Rand) Profile {
	if count <= 2 {
		if index == 0 {
			return Lazy
		}
		return Active
	}

	total := pc.LazyWeight + pc.ActiveWeight + pc.BalancedWeight
	if total <= 0 {
		return Balanced
	}
	r := rng.Float64() * total
	if r < pc.LazyWeight {
		return Lazy
	}
	r -= pc.LazyWeight
	if r < pc.ActiveWeight {
		return Active
	}
	return Balanced
}

// For draws the multipliers of a profile. Dwell scales are drawn from the
// profile's range; Balanced jitters every multiplier around 1.
func For(p Profile, pc config.PersonalityConfig, rng *rand.Rand) Multipliers {
	switch p {
	case Lazy:
		return fromProfile(pc.Lazy, rng)
	case Active:
		return fromProfile(pc.Active, rng)
	}

	j := pc.BalancedJitter
	jitter := func() float32 {
		return float32(1 - j + rng.Float64()*2*j)
	}
	return Multipliers{
		IdleDwell:      jitter(),
		RestDwell:      jitter(),
		WanderSpeed:    jitter(),
		WanderDuration: jitter(),
		WanderChance:   jitter(),
		ApproachChance: jitter(),
		HungerRate:     jitter(),
	}
}

func fromProfile(pc config.ProfileConfig, rng *rand.Rand) Multipliers {
	dwell := func() float32 {
		return float32(pc.DwellMin + rng.Float64()*(pc.DwellMax-pc.DwellMin))
	}
	return Multipliers{
		IdleDwell:      dwell(),
		RestDwell:      dwell(),
		WanderSpeed:    orOne(pc.WanderSpeed),
		WanderDuration: orOne(pc.WanderDuration),
		WanderChance:   orOne(pc.WanderChance),
		ApproachChance: orOne(pc.ApproachChance),
		HungerRate:     orOne(pc.HungerRate),
	}
}

func orOne(v float64) float32 {
	if v <= 0 {
		return 1
	}
	return float32(v)
}

// ProfileColor returns an RGB badge color for a profile.
func ProfileColor(p Profile) (r, g, b uint8) {
	switch p {
	case Lazy:
		return 120, 140, 200 // Blue
	case Active:
		return 220, 120, 60 // Orange
	default:
		return 150, 150, 150 // Gray
	}
}

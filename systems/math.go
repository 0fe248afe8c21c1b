package systems

import (
	"math"
	"math/rand"
)

// Bounds is the walkable yard rectangle in world units.
type Bounds struct {
	MinX, MaxX float32
	MinY, MaxY float32
}

// Clamp keeps a point inside the bounds.
func (b Bounds) Clamp(x, y float32) (float32, float32) {
	return clampFloat(x, b.MinX, b.MaxX), clampFloat(y, b.MinY, b.MaxY)
}

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// distance returns the Euclidean distance between two points.
func distance(x1, y1, x2, y2 float32) float32 {
	return float32(math.Sqrt(float64(distanceSq(x1, y1, x2, y2))))
}

// moveToward steps from (x, y) toward (tx, ty) by at most step without
// overshooting. Returns the new point and the distance covered.
func moveToward(x, y, tx, ty, step float32) (float32, float32, float32) {
	d := distance(x, y, tx, ty)
	if d <= step || d == 0 {
		return tx, ty, d
	}
	k := step / d
	return x + (tx-x)*k, y + (ty-y)*k, step
}

// uniform draws from [lo, hi). A reversed range is swapped.
func uniform(rng *rand.Rand, lo, hi float32) float32 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + rng.Float32()*(hi-lo)
}

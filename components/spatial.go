package components

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Facing records which way a sprite is flipped.
type Facing struct {
	Left bool
}

// Face updates the facing from a horizontal movement. Small moves keep the
// current facing.
func (f *Facing) Face(dx float32) {
	if dx < -0.001 {
		f.Left = true
	} else if dx > 0.001 {
		f.Left = false
	}
}

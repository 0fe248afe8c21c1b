package components

// FieldDescriptor describes a component field for UI display.
type FieldDescriptor struct {
	ID           string  // Unique identifier
	Label        string  // Display name
	Format       string  // Printf format (e.g., "%.2f")
	Min          float32 // Minimum value (for bars)
	Max          float32 // Maximum value (for bars)
	IsBar        bool    // True to render as progress bar
	ShowWhenZero bool    // Show even when value is zero
	Group        string  // Logical grouping
}

// String returns the display name for a BehaviorState.
func (s BehaviorState) String() string {
	names := BehaviorStateNames()
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}

// BehaviorStateNames returns the display names for all behavior states.
// The order matches the BehaviorState constants.
func BehaviorStateNames() []string {
	return []string{"Idle", "Laying", "Sleeping", "GettingUp", "Walking"}
}

// String returns the display name for a WalkMode.
func (m WalkMode) String() string {
	names := WalkModeNames()
	if int(m) < len(names) {
		return names[m]
	}
	return "Unknown"
}

// WalkModeNames returns the display names for all walk modes.
func WalkModeNames() []string {
	return []string{"", "Wander", "Approach", "Retreat"}
}

// Label returns a combined state label such as "Walking (Approach)".
func (b *Behavior) Label() string {
	if b.State == StateWalking && b.Walk != WalkNone {
		return b.State.String() + " (" + b.Walk.String() + ")"
	}
	return b.State.String()
}

// CatFieldDescriptors returns metadata for the cat inspector rows.
func CatFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "identity", Label: "Cat", Group: "identity"},
		{ID: "profile", Label: "Personality", Group: "identity"},
		{ID: "state", Label: "State", Group: "behavior"},
		{ID: "timer", Label: "Timer", Format: "%.1f/%.1fs", Group: "behavior"},
		{ID: "hunger", Label: "Hunger", Format: "%.0f/%.0f", Min: 0, Max: 1, IsBar: true, ShowWhenZero: true, Group: "stats"},
		{ID: "fed", Label: "Fed", Format: "%.0fs", Group: "stats"},
	}
}

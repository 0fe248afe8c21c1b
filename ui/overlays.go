package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayCatLabels      OverlayID = "cat_labels"
	OverlayInteractRadius OverlayID = "interact_radius"
	OverlayFedMarkers     OverlayID = "fed_markers"
	OverlayWalkTargets    OverlayID = "walk_targets"
	OverlayInspector      OverlayID = "inspector"
	OverlayPerf           OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "L")
	Category    string      // Grouping (e.g., "yard", "debug")
	Default     bool        // Enabled at startup
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	byID    map[OverlayID]OverlayDescriptor
	enabled map[OverlayID]bool
	order   []OverlayID // Maintains insertion order for display
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayCatLabels,
		Name:        "Cat Labels",
		Description: "Name and scheduler state above each cat",
		Key:         rl.KeyL,
		KeyLabel:    "L",
		Category:    "yard",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayFedMarkers,
		Name:        "Fed Markers",
		Description: "Mark cats Grandma remembers feeding",
		Key:         rl.KeyF,
		KeyLabel:    "F",
		Category:    "yard",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayInteractRadius,
		Name:        "Interact Radius",
		Description: "Circle around the player showing reach",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "yard",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayWalkTargets,
		Name:        "Walk Targets",
		Description: "Lines from walking cats to their targets",
		Key:         rl.KeyT,
		KeyLabel:    "T",
		Category:    "debug",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayInspector,
		Name:        "Cat Inspector",
		Description: "Details of the selected cat",
		Key:         rl.KeyI,
		KeyLabel:    "I",
		Category:    "debug",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Performance",
		Description: "Per-phase step timing",
		Key:         rl.KeyP,
		KeyLabel:    "P",
		Category:    "debug",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	if _, ok := r.byID[desc.ID]; !ok {
		r.order = append(r.order, desc.ID)
	}
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// IsEnabled reports whether an overlay is on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// Toggle flips an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	r.Set(id, !r.enabled[id])
	return r.enabled[id]
}

// Set turns an overlay on or off, disabling its exclusive partners.
func (r *OverlayRegistry) Set(id OverlayID, on bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = on
	if on {
		for _, other := range desc.Exclusive {
			r.enabled[other] = false
		}
	}
}

// All returns every overlay in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	out := make([]OverlayDescriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Categories returns the categories in first-seen order.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	seen := make(map[string]bool)
	for _, id := range r.order {
		c := r.byID[id].Category
		if !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	return cats
}

// ByCategory returns overlays in the given category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, id := range r.order {
		if d := r.byID[id]; d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, id := range r.order {
		if d := r.byID[id]; d.Key != 0 && rl.IsKeyPressed(d.Key) {
			r.Toggle(id)
		}
	}
}

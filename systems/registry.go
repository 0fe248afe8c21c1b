package systems

// SystemInfo describes a simulation phase for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this phase does
	Category    string // Grouping (e.g., "core", "ai")
}

// Phase IDs, in tick order.
const (
	PhaseClock     = "clock"
	PhaseSweep     = "sweep"
	PhaseHunger    = "hunger"
	PhaseCaretaker = "caretaker"
	PhaseBehavior  = "behavior"
	PhaseSpeech    = "speech"
	PhaseTelemetry = "telemetry"
	PhaseNotices   = "notices"
)

// SystemRegistry holds metadata about all phases.
// This centralizes naming so the UI and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known phases in tick order.
// Update this when adding new systems.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: PhaseClock, Name: "Clock", Description: "Advances simulated time", Category: "core"})
	r.Register(SystemInfo{ID: PhaseSweep, Name: "Registry Sweep", Description: "Forgets identities that are hungry again", Category: "core"})
	r.Register(SystemInfo{ID: PhaseHunger, Name: "Hunger", Description: "Depletes hunger and checks starvation", Category: "lifecycle"})
	r.Register(SystemInfo{ID: PhaseCaretaker, Name: "Caretaker", Description: "Moves Grandma around the yard", Category: "ai"})
	r.Register(SystemInfo{ID: PhaseBehavior, Name: "Cat Behavior", Description: "Runs the yard cat schedulers", Category: "ai"})
	r.Register(SystemInfo{ID: PhaseSpeech, Name: "Speech", Description: "Advances speech bubble timers", Category: "visual"})
	r.Register(SystemInfo{ID: PhaseTelemetry, Name: "Telemetry", Description: "Samples stats and flushes windows", Category: "internal"})
	r.Register(SystemInfo{ID: PhaseNotices, Name: "Notices", Description: "Delivers queued session notices", Category: "internal"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// ByCategory returns phases filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// IDs returns all phase IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}

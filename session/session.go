package session

// Params configures a new session.
type Params struct {
	MealsToWin     int
	HungryAgain    float64
	EatingDuration func(Identity) float64
	CaretakerX     float32
	CaretakerY     float32
}

// Session bundles the shared per-session objects. It is built once and its
// pieces are handed to whoever needs them.
type Session struct {
	Clock     *Clock
	Registry  *Registry
	State     *State
	Caretaker *Caretaker
	Bus       *Bus
}

// New wires a fresh session.
func New(p Params) *Session {
	clock := NewClock()
	bus := NewBus()
	registry := NewRegistry(clock, p.HungryAgain)
	registry.bus = bus
	state := NewState(p.MealsToWin, bus)
	caretaker := NewCaretaker(clock, registry, state, p.EatingDuration, p.CaretakerX, p.CaretakerY)
	return &Session{
		Clock:     clock,
		Registry:  registry,
		State:     state,
		Caretaker: caretaker,
		Bus:       bus,
	}
}

// Advance moves the clock forward unless the session has ended.
// Returns the identities whose fed entries expired.
func (s *Session) Advance(dt float64) []Identity {
	if s.State.IsTerminal() {
		return nil
	}
	s.Clock.Advance(dt)
	return s.Registry.Sweep()
}

// Restart resets every session component together.
func (s *Session) Restart() {
	s.Clock.Reset()
	s.Registry.Reset()
	s.Caretaker.Reset()
	s.State.Restart()
}

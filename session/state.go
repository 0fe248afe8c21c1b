package session

import (
	"image/color"

	"github.com/google/uuid"
)

// Outcome is the session result.
type Outcome uint8

const (
	InProgress Outcome = iota
	Won
	Lost
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// Loss reasons.
const (
	ReasonCaught  = "caught"
	ReasonStarved = "starved"
)

// Disguise is the identity the player currently presents.
type Disguise struct {
	ID   Identity
	Tint color.RGBA
}

// Snapshot is a read-only copy of the session state for presentation.
type Snapshot struct {
	ID          uuid.UUID
	MealsEarned int
	MealsToWin  int
	Outcome     Outcome
	Reason      string
	Disguise    Disguise
	Disguised   bool
}

// State tracks meal progress, the player's disguise, and the outcome.
// Once the outcome is Won or Lost every mutation except Restart is a no-op.
type State struct {
	id          uuid.UUID
	mealsEarned int
	mealsToWin  int
	outcome     Outcome
	reason      string
	disguise    Disguise
	disguised   bool
	bus         *Bus
}

// NewState creates a state in progress with a fresh session id.
func NewState(mealsToWin int, bus *Bus) *State {
	if mealsToWin < 1 {
		mealsToWin = 1
	}
	return &State{
		id:         uuid.New(),
		mealsToWin: mealsToWin,
		bus:        bus,
	}
}

// ID returns the session id. It changes on every restart.
func (s *State) ID() uuid.UUID { return s.id }

// MealsEarned returns the number of meals the player has been served.
func (s *State) MealsEarned() int { return s.mealsEarned }

// MealsToWin returns the meal count that wins the session.
func (s *State) MealsToWin() int { return s.mealsToWin }

// Outcome returns whether the session is in progress, won, or lost.
func (s *State) Outcome() Outcome { return s.outcome }

// Reason returns why the session was lost, or "" otherwise.
func (s *State) Reason() string { return s.reason }

// InProgress reports whether the session is still being played.
func (s *State) InProgress() bool { return s.outcome == InProgress }

// IsTerminal reports whether the session has been won or lost.
func (s *State) IsTerminal() bool { return s.outcome != InProgress }

// Disguised reports whether the player wears a disguise.
func (s *State) Disguised() bool { return s.disguised }

// Current returns the identity the player presents as, or "" without a disguise.
func (s *State) Current() Identity { return s.disguise.ID }

// Disguise returns the current disguise and whether one is worn.
func (s *State) Disguise() (Disguise, bool) {
	return s.disguise, s.disguised
}

// SetDisguise makes the player present as id. An empty id clears the disguise.
func (s *State) SetDisguise(id Identity, tint color.RGBA) bool {
	if s.IsTerminal() {
		return false
	}
	if id == "" {
		return s.ClearDisguise()
	}
	if s.disguised && s.disguise.ID == id && s.disguise.Tint == tint {
		return false
	}
	s.disguise = Disguise{ID: id, Tint: tint}
	s.disguised = true
	s.publish(Notice{Kind: NoticeStateChanged})
	return true
}

// ClearDisguise removes the player's disguise.
func (s *State) ClearDisguise() bool {
	if s.IsTerminal() || !s.disguised {
		return false
	}
	s.disguise = Disguise{}
	s.disguised = false
	s.publish(Notice{Kind: NoticeStateChanged})
	return true
}

// ApplyFeedOutcome folds a caretaker decision into the session.
// Only player presenters affect meals, the disguise, and the outcome.
func (s *State) ApplyFeedOutcome(o FeedOutcome, player bool) {
	if !player || s.IsTerminal() {
		return
	}
	switch o {
	case Fed:
		s.mealsEarned++
		s.disguise = Disguise{}
		s.disguised = false
		s.publish(Notice{Kind: NoticeStateChanged})
		if s.mealsEarned >= s.mealsToWin {
			s.Win()
		}
	case RejectedCaught:
		s.Lose(ReasonCaught)
	}
}

// Lose ends the session with a reason. Returns false if already terminal.
func (s *State) Lose(reason string) bool {
	if s.IsTerminal() {
		return false
	}
	s.outcome = Lost
	s.reason = reason
	s.publish(Notice{Kind: NoticeGameOver, Reason: reason})
	s.publish(Notice{Kind: NoticeStateChanged})
	return true
}

// Win ends the session as won. Returns false if already terminal.
func (s *State) Win() bool {
	if s.IsTerminal() {
		return false
	}
	s.outcome = Won
	s.publish(Notice{Kind: NoticeGameWon})
	s.publish(Notice{Kind: NoticeStateChanged})
	return true
}

// Restart resets progress and assigns a new session id.
func (s *State) Restart() {
	s.id = uuid.New()
	s.mealsEarned = 0
	s.outcome = InProgress
	s.reason = ""
	s.disguise = Disguise{}
	s.disguised = false
	s.publish(Notice{Kind: NoticeStateChanged})
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		ID:          s.id,
		MealsEarned: s.mealsEarned,
		MealsToWin:  s.mealsToWin,
		Outcome:     s.outcome,
		Reason:      s.reason,
		Disguise:    s.disguise,
		Disguised:   s.disguised,
	}
}

func (s *State) publish(n Notice) {
	if s.bus != nil {
		s.bus.Publish(n)
	}
}

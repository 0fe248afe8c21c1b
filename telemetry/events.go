// Package telemetry provides session tracking: feed events, windowed stats,
// per-cat counters, performance timing, and CSV output.
package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/copycat/session"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventFeedAttempt EventType = iota
	EventApproach
	EventApproachTimeout
	EventHungryAgain
	EventDisguise
	EventStarved
	EventGameOver
	EventGameWon
	EventRestart
)

var eventTypeNames = [...]string{
	EventFeedAttempt:     "feed_attempt",
	EventApproach:        "approach",
	EventApproachTimeout: "approach_timeout",
	EventHungryAgain:     "hungry_again",
	EventDisguise:        "disguise",
	EventStarved:         "starved",
	EventGameOver:        "game_over",
	EventGameWon:         "game_won",
	EventRestart:         "restart",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// Event represents a single telemetry event. It doubles as an events.csv row.
type Event struct {
	Session  string  `csv:"session"`
	Tick     uint64  `csv:"tick"`
	Time     float64 `csv:"time"`
	Type     string  `csv:"type"`
	Identity string  `csv:"identity"`
	Player   bool    `csv:"player"`
	Outcome  string  `csv:"outcome"`
	Meals    int     `csv:"meals"`
	Detail   string  `csv:"detail"`

	kind    EventType           `csv:"-"`
	outcome session.FeedOutcome `csv:"-"`
}

// Kind returns the event type.
func (e Event) Kind() EventType {
	return e.kind
}

// FeedOutcome returns the outcome of a feed attempt event.
func (e Event) FeedOutcome() session.FeedOutcome {
	return e.outcome
}

func newEvent(kind EventType, tick uint64, now float64, id session.Identity) Event {
	return Event{
		Tick:     tick,
		Time:     now,
		Type:     kind.String(),
		Identity: string(id),
		kind:     kind,
	}
}

// NewFeedAttemptEvent creates an event for a TryFeed call.
func NewFeedAttemptEvent(tick uint64, now float64, p session.Presenter, outcome session.FeedOutcome, meals int) Event {
	e := newEvent(EventFeedAttempt, tick, now, p.Identity)
	e.Player = p.Player
	e.Outcome = outcome.String()
	e.outcome = outcome
	e.Meals = meals
	return e
}

// NewApproachEvent creates an event for a yard cat starting toward the caretaker.
func NewApproachEvent(tick uint64, now float64, id session.Identity) Event {
	return newEvent(EventApproach, tick, now, id)
}

// NewApproachTimeoutEvent creates an event for an approach that never arrived.
func NewApproachTimeoutEvent(tick uint64, now float64, id session.Identity) Event {
	return newEvent(EventApproachTimeout, tick, now, id)
}

// NewHungryAgainEvent creates an event for an identity leaving the fed registry.
func NewHungryAgainEvent(tick uint64, now float64, id session.Identity) Event {
	return newEvent(EventHungryAgain, tick, now, id)
}

// NewDisguiseEvent creates an event for the player copying an identity.
// An empty id records the disguise being dropped.
func NewDisguiseEvent(tick uint64, now float64, id session.Identity) Event {
	e := newEvent(EventDisguise, tick, now, id)
	e.Player = true
	return e
}

// NewStarvedEvent creates an event for a hunger bar reaching zero.
func NewStarvedEvent(tick uint64, now float64, id session.Identity, player bool) Event {
	e := newEvent(EventStarved, tick, now, id)
	e.Player = player
	return e
}

// NewGameOverEvent creates an event for a lost session.
func NewGameOverEvent(tick uint64, now float64, reason string, meals int) Event {
	e := newEvent(EventGameOver, tick, now, "")
	e.Detail = reason
	e.Meals = meals
	return e
}

// NewGameWonEvent creates an event for a won session.
func NewGameWonEvent(tick uint64, now float64, meals int) Event {
	e := newEvent(EventGameWon, tick, now, "")
	e.Meals = meals
	return e
}

// NewRestartEvent creates an event for a session restart.
func NewRestartEvent(tick uint64, now float64) Event {
	return newEvent(EventRestart, tick, now, "")
}

// LogValue implements slog.LogValuer for structured logging.
func (e Event) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", e.Type),
		slog.Uint64("tick", e.Tick),
	}
	if e.Identity != "" {
		attrs = append(attrs, slog.String("identity", e.Identity))
	}
	if e.Player {
		attrs = append(attrs, slog.Bool("player", true))
	}
	if e.Outcome != "" {
		attrs = append(attrs, slog.String("outcome", e.Outcome))
	}
	if e.Detail != "" {
		attrs = append(attrs, slog.String("detail", e.Detail))
	}
	return slog.GroupValue(attrs...)
}

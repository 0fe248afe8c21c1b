package systems

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/pthm-cable/copycat/config"
	"github.com/pthm-cable/copycat/session"
)

type speechPhase uint8

const (
	speechHidden speechPhase = iota
	speechFadeIn
	speechHold
	speechFadeOut
)

// Bubble is the speech bubble as the renderer should draw it.
type Bubble struct {
	Text    string
	Alpha   float32
	Visible bool
}

// SpeechSystem drives Grandma's speech bubble: a FIFO of messages, each faded
// in, held, and faded out, plus occasional idle thoughts.
type SpeechSystem struct {
	cfg       config.SpeechConfig
	registry  *session.Registry
	state     *session.State
	caretaker *session.Caretaker
	rng       *rand.Rand

	queue     []string
	text      string
	phase     speechPhase
	timer     float32
	idleTimer float32
}

// NewSpeechSystem creates a speech system.
func NewSpeechSystem(cfg config.SpeechConfig, registry *session.Registry, state *session.State, caretaker *session.Caretaker, rng *rand.Rand) *SpeechSystem {
	s := &SpeechSystem{
		cfg:       cfg,
		registry:  registry,
		state:     state,
		caretaker: caretaker,
		rng:       rng,
	}
	s.Reset()
	return s
}

// Say queues a message.
func (s *SpeechSystem) Say(text string) {
	if text == "" {
		return
	}
	if s.phase == speechHidden {
		s.show(text)
		return
	}
	s.queue = append(s.queue, text)
}

// SayImmediately drops the queue and shows text now.
func (s *SpeechSystem) SayImmediately(text string) {
	s.queue = s.queue[:0]
	s.show(text)
}

// OnFeedAttempt picks a line for a feed outcome. Busy rejections stay silent.
func (s *SpeechSystem) OnFeedAttempt(p session.Presenter, outcome session.FeedOutcome) {
	switch outcome {
	case session.Fed:
		s.Say(s.pick(s.cfg.Feeding, p.Identity))
	case session.RejectedCaught:
		if p.Player {
			s.SayImmediately(s.pick(s.cfg.AlreadyFed, p.Identity))
		}
	case session.RejectedNoIdentity:
		s.Say(s.pick(s.cfg.NoDisguise, ""))
	}
}

// Update advances fades and idle thoughts by dt.
func (s *SpeechSystem) Update(dt float32) {
	fade := float32(s.cfg.FadeTime)
	switch s.phase {
	case speechFadeIn:
		s.timer += dt
		if s.timer >= fade {
			s.phase, s.timer = speechHold, 0
		}
	case speechHold:
		s.timer += dt
		if s.timer >= float32(s.cfg.DisplayTime) {
			s.phase, s.timer = speechFadeOut, 0
		}
	case speechFadeOut:
		s.timer += dt
		if s.timer >= fade {
			s.phase, s.timer, s.text = speechHidden, 0, ""
			if len(s.queue) > 0 {
				next := s.queue[0]
				s.queue = s.queue[1:]
				s.show(next)
			}
		}
	}

	if s.state.IsTerminal() || s.caretaker.IsBusy() || s.phase != speechHidden {
		return
	}
	s.idleTimer -= dt
	if s.idleTimer > 0 {
		return
	}
	s.idleTimer = s.nextIdle()
	s.Say(s.idleThought())
}

// Bubble returns the current bubble.
func (s *SpeechSystem) Bubble() Bubble {
	if s.phase == speechHidden {
		return Bubble{}
	}
	alpha := float32(1)
	fade := float32(s.cfg.FadeTime)
	if fade > 0 {
		switch s.phase {
		case speechFadeIn:
			alpha = s.timer / fade
		case speechFadeOut:
			alpha = 1 - s.timer/fade
		}
	}
	return Bubble{Text: s.text, Alpha: clampFloat(alpha, 0, 1), Visible: true}
}

// Pending returns the number of queued messages.
func (s *SpeechSystem) Pending() int {
	return len(s.queue)
}

// Reset hides the bubble and restarts the idle thought timer.
func (s *SpeechSystem) Reset() {
	s.queue = s.queue[:0]
	s.text = ""
	s.phase = speechHidden
	s.timer = 0
	s.idleTimer = s.nextIdle()
}

func (s *SpeechSystem) show(text string) {
	s.text = text
	s.phase = speechFadeIn
	s.timer = 0
}

func (s *SpeechSystem) idleThought() string {
	if fed := s.registry.Fed(); len(fed) > 0 && s.rng.Float64() < s.cfg.MentionChance {
		return fmt.Sprintf("I fed %s earlier...", fed[s.rng.Intn(len(fed))])
	}
	return s.pick(s.cfg.IdleThoughts, "")
}

func (s *SpeechSystem) nextIdle() float32 {
	return uniform(s.rng, float32(s.cfg.IdleThoughtMin), float32(s.cfg.IdleThoughtMax))
}

// pick returns a random line from pool with {cat} replaced by id.
func (s *SpeechSystem) pick(pool []string, id session.Identity) string {
	if len(pool) == 0 {
		return ""
	}
	line := pool[s.rng.Intn(len(pool))]
	name := string(id)
	if name == "" {
		name = "kitty"
	}
	return strings.ReplaceAll(line, "{cat}", name)
}

package session

import (
	"image/color"
	"testing"
)

// recorder counts observer callbacks.
type recorder struct {
	changed int
	over    []string
	won     int
}

func (r *recorder) OnGameStateChanged()      { r.changed++ }
func (r *recorder) OnGameOver(reason string) { r.over = append(r.over, reason) }
func (r *recorder) OnGameWon()               { r.won++ }

func newTestSession(mealsToWin int, eating float64) *Session {
	return New(Params{
		MealsToWin:     mealsToWin,
		HungryAgain:    180,
		EatingDuration: func(Identity) float64 { return eating },
	})
}

var player = func(id Identity) Presenter { return Presenter{Identity: id, Player: true} }
var npc = func(id Identity) Presenter { return Presenter{Identity: id} }

// TestClockAdvance verifies time and tick accounting.
func TestClockAdvance(t *testing.T) {
	c := NewClock()
	c.Advance(0.5)
	c.Advance(0.25)
	c.Advance(-1)
	if c.Now() != 0.75 {
		t.Errorf("Now() = %v, want 0.75", c.Now())
	}
	if c.Tick() != 3 {
		t.Errorf("Tick() = %d, want 3", c.Tick())
	}
	c.Reset()
	if c.Now() != 0 || c.Tick() != 0 {
		t.Errorf("after Reset got now=%v tick=%d, want zero", c.Now(), c.Tick())
	}
}

// TestRegistryHungryAgainCycle verifies an identity is fed for [0, 180) seconds.
func TestRegistryHungryAgainCycle(t *testing.T) {
	c := NewClock()
	r := NewRegistry(c, 180)
	r.MarkFed("Orange", 3)

	if !r.IsFed("Orange") {
		t.Fatal("Orange should be fed right after MarkFed")
	}
	c.Advance(179.5)
	if !r.IsFed("Orange") {
		t.Error("Orange should still be fed at 179.5s")
	}
	if got := r.Sweep(); len(got) != 0 {
		t.Errorf("Sweep at 179.5s evicted %v, want none", got)
	}
	c.Advance(0.5)
	if r.IsFed("Orange") {
		t.Error("Orange should be hungry again at 180s")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after expiry", r.Len())
	}
	got := r.Sweep()
	if len(got) != 1 || got[0] != "Orange" {
		t.Errorf("Sweep() = %v, want [Orange]", got)
	}
	if got := r.Sweep(); len(got) != 0 {
		t.Errorf("second Sweep() = %v, want none", got)
	}
}

// TestRegistryMarkFedRefreshes verifies re-marking extends the expiry.
func TestRegistryMarkFedRefreshes(t *testing.T) {
	c := NewClock()
	r := NewRegistry(c, 10)
	r.MarkFed("Black", 0)
	c.Advance(8)
	r.MarkFed("Black", 0)
	c.Advance(8)
	if !r.IsFed("Black") {
		t.Error("refreshed entry expired early")
	}
	at, ok := r.FedAt("Black")
	if !ok || at != 8 {
		t.Errorf("FedAt = %v, %v, want 8, true", at, ok)
	}
}

// TestRegistryMarkHungryAgain verifies explicit early removal.
func TestRegistryMarkHungryAgain(t *testing.T) {
	c := NewClock()
	r := NewRegistry(c, 180)
	r.MarkFed("Gray", 0)
	r.MarkFed("Calico", 0)

	if !r.MarkHungryAgain("Gray") {
		t.Error("MarkHungryAgain(Gray) = false, want true")
	}
	if r.MarkHungryAgain("Gray") {
		t.Error("second MarkHungryAgain(Gray) = true, want false")
	}
	if r.IsFed("Gray") {
		t.Error("Gray still fed after MarkHungryAgain")
	}
	fed := r.Fed()
	if len(fed) != 1 || fed[0] != "Calico" {
		t.Errorf("Fed() = %v, want [Calico]", fed)
	}
	r.Reset()
	if r.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", r.Len())
	}
}

// TestTryFeedNoIdentityIsIdempotent verifies a missing identity never mutates anything.
func TestTryFeedNoIdentityIsIdempotent(t *testing.T) {
	s := newTestSession(5, 3)
	rec := &recorder{}
	s.Bus.Subscribe(rec)
	before := s.State.Snapshot()

	for i := 0; i < 3; i++ {
		if got := s.Caretaker.TryFeed(player("")); got != RejectedNoIdentity {
			t.Fatalf("TryFeed(empty) = %v, want %v", got, RejectedNoIdentity)
		}
		s.Advance(1)
	}

	if s.Registry.Len() != 0 {
		t.Errorf("registry has %d entries, want 0", s.Registry.Len())
	}
	if s.Caretaker.IsBusy() || s.Caretaker.BusyUntil() != 0 {
		t.Error("busy window was set by a rejected attempt")
	}
	if after := s.State.Snapshot(); after != before {
		t.Errorf("state changed: got %+v, want %+v", after, before)
	}
	if s.Bus.Drain() != 0 || rec.changed != 0 {
		t.Error("rejected attempt published notices")
	}
}

// TestTryFeedBusyExclusion verifies only one of two feeds inside a busy window succeeds.
func TestTryFeedBusyExclusion(t *testing.T) {
	tests := []struct {
		name    string
		eating  float64
		advance float64
	}{
		{"same tick", 3, 0},
		{"same tick zero duration", 0, 0},
		{"inside window", 3, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(5, tt.eating)
			s.Advance(1.0 / 60.0)

			first := s.Caretaker.TryFeed(npc("Orange"))
			if tt.advance > 0 {
				s.Advance(tt.advance)
			}
			second := s.Caretaker.TryFeed(player("Black"))

			if first != Fed {
				t.Errorf("first = %v, want %v", first, Fed)
			}
			if second != RejectedBusy {
				t.Errorf("second = %v, want %v", second, RejectedBusy)
			}
			if s.Registry.IsFed("Black") {
				t.Error("busy rejection marked Black fed")
			}
			if s.State.MealsEarned() != 0 {
				t.Errorf("meals = %d, want 0", s.State.MealsEarned())
			}
		})
	}
}

// TestTryFeedBusyWindowEnds verifies feeds resume once the window passes.
func TestTryFeedBusyWindowEnds(t *testing.T) {
	s := newTestSession(5, 3)
	s.Caretaker.TryFeed(npc("Orange"))
	s.Advance(3)
	if s.Caretaker.IsBusy() {
		t.Fatal("caretaker still busy at busyUntil")
	}
	if got := s.Caretaker.TryFeed(player("Black")); got != Fed {
		t.Errorf("TryFeed after window = %v, want %v", got, Fed)
	}
}

// TestTryFeedCatchRule verifies players are caught and NPCs are only refused.
func TestTryFeedCatchRule(t *testing.T) {
	t.Run("player", func(t *testing.T) {
		s := newTestSession(5, 0)
		rec := &recorder{}
		s.Bus.Subscribe(rec)

		if got := s.Caretaker.TryFeed(player("Orange")); got != Fed {
			t.Fatalf("first feed = %v, want %v", got, Fed)
		}
		s.Advance(1)
		if got := s.Caretaker.TryFeed(player("Orange")); got != RejectedCaught {
			t.Fatalf("repeat feed = %v, want %v", got, RejectedCaught)
		}
		if s.State.Outcome() != Lost || s.State.Reason() != ReasonCaught {
			t.Errorf("outcome = %v(%q), want lost(%q)", s.State.Outcome(), s.State.Reason(), ReasonCaught)
		}
		s.Bus.Drain()
		if len(rec.over) != 1 || rec.over[0] != ReasonCaught {
			t.Errorf("OnGameOver calls = %v, want [%s]", rec.over, ReasonCaught)
		}
	})

	t.Run("npc", func(t *testing.T) {
		s := newTestSession(5, 0)
		s.Caretaker.TryFeed(npc("Orange"))
		s.Advance(1)
		if got := s.Caretaker.TryFeed(npc("Orange")); got != RejectedCaught {
			t.Fatalf("repeat feed = %v, want %v", got, RejectedCaught)
		}
		if s.State.Outcome() != InProgress {
			t.Errorf("outcome = %v, want %v", s.State.Outcome(), InProgress)
		}
	})

	t.Run("player wearing npc identity", func(t *testing.T) {
		s := newTestSession(5, 0)
		s.Caretaker.TryFeed(npc("Black"))
		s.Advance(1)
		if got := s.Caretaker.TryFeed(player("Black")); got != RejectedCaught {
			t.Fatalf("feed = %v, want %v", got, RejectedCaught)
		}
		if s.State.Outcome() != Lost {
			t.Errorf("outcome = %v, want %v", s.State.Outcome(), Lost)
		}
	})

	t.Run("after expiry", func(t *testing.T) {
		s := newTestSession(5, 0)
		s.Caretaker.TryFeed(player("Orange"))
		s.Advance(180)
		if got := s.Caretaker.TryFeed(player("Orange")); got != Fed {
			t.Errorf("feed after hungry-again = %v, want %v", got, Fed)
		}
	})
}

// TestWinThreshold verifies NPC feeds never count toward the player's meals.
func TestWinThreshold(t *testing.T) {
	s := newTestSession(2, 0)
	rec := &recorder{}
	s.Bus.Subscribe(rec)

	ids := []Identity{"A", "B", "C", "D"}
	for _, id := range ids {
		s.Advance(1)
		if got := s.Caretaker.TryFeed(npc(id)); got != Fed {
			t.Fatalf("npc feed %s = %v, want %v", id, got, Fed)
		}
	}
	if s.State.MealsEarned() != 0 || s.State.Outcome() != InProgress {
		t.Fatalf("after npc feeds meals=%d outcome=%v, want 0 in_progress", s.State.MealsEarned(), s.State.Outcome())
	}

	s.Advance(1)
	s.Caretaker.TryFeed(player("E"))
	if s.State.MealsEarned() != 1 || s.State.Outcome() != InProgress {
		t.Fatalf("meals=%d outcome=%v, want 1 in_progress", s.State.MealsEarned(), s.State.Outcome())
	}
	s.Advance(1)
	s.Caretaker.TryFeed(player("F"))
	if s.State.MealsEarned() != 2 || s.State.Outcome() != Won {
		t.Fatalf("meals=%d outcome=%v, want 2 won", s.State.MealsEarned(), s.State.Outcome())
	}

	s.Advance(1)
	if got := s.Caretaker.TryFeed(player("G")); got != RejectedGameOver {
		t.Errorf("feed after win = %v, want %v", got, RejectedGameOver)
	}
	s.Bus.Drain()
	if rec.won != 1 {
		t.Errorf("OnGameWon calls = %d, want 1", rec.won)
	}
}

// TestPostTerminalNoOps verifies nothing but Restart mutates an ended session.
func TestPostTerminalNoOps(t *testing.T) {
	s := newTestSession(5, 0)
	s.Caretaker.TryFeed(player("Orange"))
	s.State.Lose(ReasonStarved)
	s.Bus.Discard()

	before := s.State.Snapshot()
	fed := s.Registry.Fed()
	now := s.Clock.Now()

	if s.State.SetDisguise("Black", color.RGBA{A: 255}) {
		t.Error("SetDisguise succeeded after loss")
	}
	if s.State.Win() || s.State.Lose(ReasonCaught) {
		t.Error("second terminal transition succeeded")
	}
	if got := s.Caretaker.TryFeed(player("Black")); got != RejectedGameOver {
		t.Errorf("TryFeed = %v, want %v", got, RejectedGameOver)
	}
	s.State.ApplyFeedOutcome(Fed, true)
	if expired := s.Advance(500); expired != nil {
		t.Errorf("Advance evicted %v after loss", expired)
	}

	if after := s.State.Snapshot(); after != before {
		t.Errorf("state changed: got %+v, want %+v", after, before)
	}
	if got := s.Registry.Fed(); len(got) != len(fed) {
		t.Errorf("registry changed: got %v, want %v", got, fed)
	}
	if s.Clock.Now() != now {
		t.Errorf("clock moved to %v after loss", s.Clock.Now())
	}
	if s.Bus.Pending() != 0 {
		t.Errorf("%d notices published after loss", s.Bus.Pending())
	}
}

// TestScenarioCaughtThenRestartAndWin walks the Orange/Black scenario.
func TestScenarioCaughtThenRestartAndWin(t *testing.T) {
	s := newTestSession(2, 3)
	rec := &recorder{}
	s.Bus.Subscribe(rec)

	if got := s.Caretaker.TryFeed(player("Orange")); got != Fed {
		t.Fatalf("feed Orange = %v, want %v", got, Fed)
	}
	if s.State.MealsEarned() != 1 {
		t.Fatalf("meals = %d, want 1", s.State.MealsEarned())
	}
	s.Advance(5)
	if got := s.Caretaker.TryFeed(player("Orange")); got != RejectedCaught {
		t.Fatalf("feed Orange again = %v, want %v", got, RejectedCaught)
	}
	if s.State.Outcome() != Lost || s.State.Reason() != "caught" {
		t.Fatalf("outcome = %v(%q), want lost(caught)", s.State.Outcome(), s.State.Reason())
	}

	oldID := s.State.ID()
	s.Restart()
	if s.State.ID() == oldID {
		t.Error("restart kept the session id")
	}
	if s.Registry.Len() != 0 || s.Caretaker.IsBusy() || s.Clock.Now() != 0 {
		t.Error("restart did not reset registry, busy window, and clock")
	}

	if got := s.Caretaker.TryFeed(player("Orange")); got != Fed {
		t.Fatalf("feed Orange after restart = %v, want %v", got, Fed)
	}
	s.Advance(3)
	if got := s.Caretaker.TryFeed(player("Black")); got != Fed {
		t.Fatalf("feed Black = %v, want %v", got, Fed)
	}
	if s.State.MealsEarned() != 2 || s.State.Outcome() != Won {
		t.Errorf("meals=%d outcome=%v, want 2 won", s.State.MealsEarned(), s.State.Outcome())
	}

	s.Bus.Drain()
	if len(rec.over) != 1 || rec.won != 1 {
		t.Errorf("game over calls %v, won calls %d, want 1 each", rec.over, rec.won)
	}
	if rec.changed != 1 {
		t.Errorf("state changed calls = %d, want 1 after coalescing", rec.changed)
	}
}

// TestDisguiseLifecycle verifies set, replace, and clear-on-feed.
func TestDisguiseLifecycle(t *testing.T) {
	s := newTestSession(5, 0)
	orange := color.RGBA{R: 245, G: 161, B: 66, A: 255}

	if !s.State.SetDisguise("Orange", orange) {
		t.Fatal("SetDisguise returned false")
	}
	if s.State.SetDisguise("Orange", orange) {
		t.Error("identical SetDisguise reported a change")
	}
	if !s.State.SetDisguise("Black", color.RGBA{A: 255}) {
		t.Error("replacing disguise returned false")
	}
	if d, ok := s.State.Disguise(); !ok || d.ID != "Black" {
		t.Errorf("Disguise() = %v, %v, want Black, true", d, ok)
	}

	s.Caretaker.TryFeed(player(s.State.Current()))
	if s.State.Disguised() {
		t.Error("disguise kept after a successful feed")
	}
	if s.State.ClearDisguise() {
		t.Error("ClearDisguise without a disguise returned true")
	}
}

// TestBusDrain verifies ordering, coalescing, and deferred re-entrant notices.
func TestBusDrain(t *testing.T) {
	b := NewBus()
	var order []NoticeKind
	obs := &ObserverFuncs{
		StateChanged: func() {
			order = append(order, NoticeStateChanged)
			b.Publish(Notice{Kind: NoticeStateChanged})
		},
		GameOver: func(string) { order = append(order, NoticeGameOver) },
	}
	b.Subscribe(obs)
	b.Subscribe(obs)

	b.Publish(Notice{Kind: NoticeStateChanged})
	b.Publish(Notice{Kind: NoticeGameOver, Reason: "caught"})
	b.Publish(Notice{Kind: NoticeStateChanged})
	b.Publish(Notice{Kind: NoticeGameWon})

	if got := b.Drain(); got != 3 {
		t.Errorf("Drain() = %d, want 3", got)
	}
	want := []NoticeKind{NoticeStateChanged, NoticeGameOver}
	if len(order) != len(want) || order[0] != want[0] || order[1] != want[1] {
		t.Errorf("delivery order = %v, want %v", order, want)
	}
	if b.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1 re-entrant notice", b.Pending())
	}

	b.Unsubscribe(obs)
	b.Drain()
	if b.Pending() != 0 {
		t.Errorf("Pending() after drain = %d, want 0", b.Pending())
	}
}

// TestFedSetChangesNotify verifies every fed-set mutation raises one state
// change per drain, not only the player's meals.
func TestFedSetChangesNotify(t *testing.T) {
	s := newTestSession(5, 3)
	rec := &recorder{}
	s.Bus.Subscribe(rec)

	if got := s.Caretaker.TryFeed(npc("Orange")); got != Fed {
		t.Fatalf("npc feed = %v, want %v", got, Fed)
	}
	s.Bus.Drain()
	if rec.changed != 1 {
		t.Errorf("state changed after npc feed = %d, want 1", rec.changed)
	}
	if s.State.MealsEarned() != 0 {
		t.Errorf("meals = %d after npc feed, want 0", s.State.MealsEarned())
	}

	// Nothing expires yet.
	s.Advance(100)
	if s.Bus.Drain() != 0 {
		t.Error("advance without expiry notified observers")
	}

	if expired := s.Advance(80); len(expired) != 1 {
		t.Fatalf("expired = %v, want [Orange]", expired)
	}
	s.Bus.Drain()
	if rec.changed != 2 {
		t.Errorf("state changed after expiry = %d, want 2", rec.changed)
	}

	s.Caretaker.TryFeed(npc("Black"))
	s.Bus.Drain()
	if !s.Registry.MarkHungryAgain("Black") {
		t.Fatal("MarkHungryAgain(Black) = false, want true")
	}
	s.Registry.MarkHungryAgain("Black")
	s.Bus.Drain()
	if rec.changed != 4 {
		t.Errorf("state changed after MarkHungryAgain = %d, want 4", rec.changed)
	}
}

// TestRegistryRemaining verifies the time left on a fed identity.
func TestRegistryRemaining(t *testing.T) {
	s := newTestSession(5, 0)
	s.Registry.MarkFed("Gray", 0)
	s.Advance(30)
	if left, ok := s.Registry.Remaining("Gray"); !ok || left != 150 {
		t.Errorf("Remaining(Gray) = %v, %v; want 150, true", left, ok)
	}
	s.Advance(150)
	if left, ok := s.Registry.Remaining("Gray"); ok || left != 0 {
		t.Errorf("Remaining(Gray) after expiry = %v, %v; want 0, false", left, ok)
	}
}

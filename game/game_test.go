package game

import (
	"bufio"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/copycat/components"
	"github.com/pthm-cable/copycat/config"
	"github.com/pthm-cable/copycat/session"
	"github.com/pthm-cable/copycat/systems"
	"github.com/pthm-cable/copycat/telemetry"
	"github.com/pthm-cable/copycat/traits"
)

// quietConfig returns defaults with every random wander and approach turned
// off, so cats and Grandma stay where they spawned.
func quietConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	cfg.Behavior.WanderChance = 0
	cfg.Behavior.ApproachChance = 0
	cfg.Caretaker.WanderChance = 0
	cfg.Hunger.DepletionRate = 1
	cfg.Recompute()
	return cfg
}

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Config == nil {
		opts.Config = quietConfig(t)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	g, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if err := g.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return g
}

// stepFor advances the game by roughly the given number of seconds.
func stepFor(g *Game, seconds float64) {
	dt := g.cfg.Derived.DT32
	n := int(seconds/float64(dt)) + 1
	for i := 0; i < n; i++ {
		g.Step(dt)
	}
}

func TestNewSpawnsConfiguredCats(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1})

	cats := g.Cats()
	if len(cats) != len(g.cfg.Cats) {
		t.Fatalf("cats = %d, want %d", len(cats), len(g.cfg.Cats))
	}
	for i, c := range cats {
		want := g.cfg.Cats[i]
		if string(c.ID) != want.ID {
			t.Errorf("cat %d id = %s, want %s", i, c.ID, want.ID)
		}
		if c.X != float32(want.X) || c.Y != float32(want.Y) {
			t.Errorf("cat %s at (%v,%v), want (%v,%v)", c.ID, c.X, c.Y, want.X, want.Y)
		}
		if c.Fed {
			t.Errorf("cat %s starts fed", c.ID)
		}
		if c.Hunger != 1 {
			t.Errorf("cat %s hunger = %v, want 1", c.ID, c.Hunger)
		}
	}

	p := g.Player()
	if p.Disguised {
		t.Error("player starts disguised")
	}
	if p.Tint != g.cfg.Derived.PlayerTint {
		t.Errorf("player tint = %v, want %v", p.Tint, g.cfg.Derived.PlayerTint)
	}
	if !g.State().InProgress() {
		t.Error("session not in progress")
	}
}

func TestFeedCommands(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1})

	overs := 0
	g.Subscribe(&session.ObserverFuncs{GameOver: func(string) { overs++ }})

	orange := g.cfg.Derived.CatTints[0]
	if !g.RequestCopyDisguise("Orange", orange) {
		t.Fatal("copying Orange changed nothing")
	}
	if p := g.Player(); !p.Disguised || p.Tint != orange {
		t.Fatalf("player view = %+v, want Orange disguise", p)
	}

	if got := g.RequestFeedInteraction(); got != session.Fed {
		t.Fatalf("first feed = %v, want Fed", got)
	}
	if got := g.State().MealsEarned(); got != 1 {
		t.Errorf("meals = %d, want 1", got)
	}
	if g.State().Disguised() {
		t.Error("disguise survived a meal")
	}
	if !g.catMap.Get(g.cats["Orange"]).Fed {
		t.Error("Orange cat not marked fed")
	}

	// Same tick: Grandma is busy with the meal she just served.
	if got := g.RequestFeedInteraction(); got != session.RejectedBusy {
		t.Errorf("same-tick feed = %v, want RejectedBusy", got)
	}

	stepFor(g, g.cfg.Caretaker.EatingDuration+0.5)

	if got := g.RequestFeedInteraction(); got != session.RejectedNoIdentity {
		t.Errorf("feed without disguise = %v, want RejectedNoIdentity", got)
	}
	if !g.State().InProgress() {
		t.Fatal("no-identity rejection ended the session")
	}

	g.RequestCopyDisguise("Orange", orange)
	if got := g.RequestFeedInteraction(); got != session.RejectedCaught {
		t.Fatalf("repeat identity = %v, want RejectedCaught", got)
	}
	if g.State().Outcome() != session.Lost {
		t.Errorf("outcome = %v, want Lost", g.State().Outcome())
	}
	if got := g.RequestFeedInteraction(); got != session.RejectedGameOver {
		t.Errorf("feed after loss = %v, want RejectedGameOver", got)
	}
	if overs != 1 {
		t.Errorf("game over notices = %d, want 1", overs)
	}

	// Commands are no-ops once the session has ended.
	if g.RequestCopyDisguise("Black", g.cfg.Derived.CatTints[1]) {
		t.Error("copy succeeded after loss")
	}
}

func TestRestart(t *testing.T) {
	g := newTestGame(t, Options{Seed: 2})
	oldID := g.State().ID()
	profiles := make(map[session.Identity]string)
	for _, c := range g.Cats() {
		profiles[c.ID] = c.Profile.String()
	}

	g.MovePlayer(1, 0, 1)
	g.RequestCopyDisguise("Black", g.cfg.Derived.CatTints[1])
	g.RequestFeedInteraction()
	stepFor(g, 1)
	g.RequestCopyDisguise("Black", g.cfg.Derived.CatTints[1])
	stepFor(g, g.cfg.Caretaker.EatingDuration)
	g.RequestFeedInteraction()
	if g.State().InProgress() {
		t.Fatal("expected the session to be lost before restart")
	}

	g.RequestRestart()

	st := g.State()
	if !st.InProgress() || st.MealsEarned() != 0 || st.Disguised() {
		t.Errorf("state after restart = %+v", st.Snapshot())
	}
	if st.ID() == oldID {
		t.Error("restart kept the session id")
	}
	if n := g.Session().Registry.Len(); n != 0 {
		t.Errorf("registry len = %d, want 0", n)
	}
	if g.Session().Caretaker.IsBusy() {
		t.Error("caretaker still busy after restart")
	}
	p := g.PlayerPosition()
	if p.X != float32(g.cfg.Player.X) || p.Y != float32(g.cfg.Player.Y) {
		t.Errorf("player at (%v,%v) after restart", p.X, p.Y)
	}
	for _, c := range g.Cats() {
		if c.Fed {
			t.Errorf("cat %s still fed", c.ID)
		}
		if c.Profile.String() != profiles[c.ID] {
			t.Errorf("cat %s profile changed to %s", c.ID, c.Profile)
		}
	}

	// The fresh session plays normally.
	g.RequestCopyDisguise("Black", g.cfg.Derived.CatTints[1])
	if got := g.RequestFeedInteraction(); got != session.Fed {
		t.Errorf("feed after restart = %v, want Fed", got)
	}
}

func TestMovePlayer(t *testing.T) {
	g := newTestGame(t, Options{Seed: 3})
	start := g.PlayerPosition()
	speed := float32(g.cfg.Player.Speed)

	// Direction is normalized: a long vector moves the same distance.
	g.MovePlayer(10, 0, 0.5)
	p := g.PlayerPosition()
	if p.X != start.X+speed*0.5 || p.Y != start.Y {
		t.Errorf("moved to (%v,%v), want (%v,%v)", p.X, p.Y, start.X+speed*0.5, start.Y)
	}
	if g.Player().FacingLeft {
		t.Error("facing left after moving right")
	}

	g.MovePlayer(-1, 0, 100)
	p = g.PlayerPosition()
	if p.X != g.cfg.Derived.MinX32 {
		t.Errorf("x = %v, want clamped to %v", p.X, g.cfg.Derived.MinX32)
	}
	if !g.Player().FacingLeft {
		t.Error("not facing left after moving left")
	}

	g.MovePlayer(0, 0, 1)
	if g.PlayerPosition() != p {
		t.Error("zero vector moved the player")
	}
}

func TestInteract(t *testing.T) {
	g := newTestGame(t, Options{Seed: 4})

	// Spawn point is out of reach of everything.
	if res := g.Interact(); res.Kind != InteractNone {
		t.Fatalf("interact at spawn = %+v, want none", res)
	}

	orange := g.cfg.Cats[0]
	pos := g.posMap.Get(g.player)
	pos.X, pos.Y = float32(orange.X)+0.5, float32(orange.Y)

	res := g.Interact()
	if res.Kind != InteractCopy || res.Identity != "Orange" {
		t.Fatalf("interact near Orange = %+v", res)
	}
	if g.State().Current() != "Orange" {
		t.Errorf("disguise = %q, want Orange", g.State().Current())
	}

	cx, cy := g.Session().Caretaker.Position()
	pos.X, pos.Y = cx, cy-1
	res = g.Interact()
	if res.Kind != InteractFeed || res.Identity != "Orange" || res.Outcome != session.Fed {
		t.Errorf("interact near Grandma = %+v, want Orange fed", res)
	}
}

func TestAutopilotWins(t *testing.T) {
	cfg := quietConfig(t)
	cfg.Session.MealsToWin = 3
	cfg.Recompute()

	g := newTestGame(t, Options{Config: cfg, Seed: 42, Autopilot: true})
	won := 0
	g.Subscribe(&session.ObserverFuncs{GameWon: func() { won++ }})

	dt := cfg.Derived.DT32
	limit := int(120 / dt)
	for i := 0; i < limit && g.State().InProgress(); i++ {
		g.Step(dt)
	}

	if g.State().Outcome() != session.Won {
		t.Fatalf("outcome = %v (%s) after %d steps, meals %d", g.State().Outcome(), g.State().Reason(), g.Tick(), g.State().MealsEarned())
	}
	if won != 1 {
		t.Errorf("game won notices = %d, want 1", won)
	}
	if got := g.Session().Registry.Len(); got != 3 {
		t.Errorf("fed identities = %d, want 3", got)
	}
}

func TestStepStopsClockWhenTerminal(t *testing.T) {
	g := newTestGame(t, Options{Seed: 5})
	g.State().Lose(session.ReasonCaught)
	g.Session().Bus.Drain()

	now := g.Session().Clock.Now()
	stepFor(g, 1)
	if g.Session().Clock.Now() != now {
		t.Errorf("clock advanced after loss: %v -> %v", now, g.Session().Clock.Now())
	}
	if g.Tick() == 0 {
		t.Error("step counter did not advance")
	}
}

func TestStatsCallback(t *testing.T) {
	var windows []telemetry.WindowStats
	g := newTestGame(t, Options{Seed: 6, StatsWindowSec: 1})
	g.OnStats(func(s telemetry.WindowStats) { windows = append(windows, s) })

	g.RequestCopyDisguise("Gray", g.cfg.Derived.CatTints[2])
	g.RequestFeedInteraction()
	stepFor(g, 2.1)

	if len(windows) < 2 {
		t.Fatalf("windows = %d, want at least 2", len(windows))
	}
	first := windows[0]
	if first.Meals != 1 || first.PlayerFeeds != 1 || first.FedCount != 1 {
		t.Errorf("first window = meals %d player_feeds %d fed_count %d", first.Meals, first.PlayerFeeds, first.FedCount)
	}
	if windows[1].PlayerFeeds != 0 {
		t.Errorf("second window player_feeds = %d, want 0", windows[1].PlayerFeeds)
	}
}

func TestOutputFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := quietConfig(t)
	g, err := New(Options{
		Config:         cfg,
		Seed:           7,
		StatsWindowSec: 0.5,
		OutputDir:      dir,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	g.RequestCopyDisguise("Calico", cfg.Derived.CatTints[3])
	g.RequestFeedInteraction()
	stepFor(g, 1)
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for _, name := range []string{"config.yaml", "telemetry.csv", "events.csv", "cats.csv", "perf.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	lines := readLines(t, filepath.Join(dir, "cats.csv"))
	if len(lines) != 1+len(cfg.Cats) {
		t.Fatalf("cats.csv lines = %d, want %d", len(lines), 1+len(cfg.Cats))
	}

	var feedRow string
	for _, l := range readLines(t, filepath.Join(dir, "events.csv")) {
		if strings.Contains(l, ",feed_attempt,Calico,") {
			feedRow = l
		}
	}
	if feedRow == "" {
		t.Fatal("no Calico feed_attempt row in events.csv")
	}
	if !strings.HasPrefix(feedRow, g.sessionID()) {
		t.Errorf("feed row %q not stamped with session %s", feedRow, g.sessionID())
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) succeeded")
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan %s: %v", path, err)
	}
	return lines
}

func TestPhasesMatchPerfCollector(t *testing.T) {
	g := newTestGame(t, Options{Seed: 8})

	all := g.Phases().All()
	if len(all) != len(telemetry.Phases) {
		t.Fatalf("registry has %d phases, perf collector %d", len(all), len(telemetry.Phases))
	}
	for i, id := range telemetry.Phases {
		if all[i].ID != id {
			t.Errorf("phase %d = %s, want %s", i, all[i].ID, id)
		}
	}

	g.Step(g.cfg.Derived.DT32)
	stats := g.PerfStats()
	for _, id := range telemetry.Phases {
		if _, ok := stats.PhaseAvg[id]; !ok {
			t.Errorf("no timing for phase %s", id)
		}
	}
}

// TestCatchRuleOutlastsOwnerTimer verifies a copied identity stays fed for the
// whole hungry-again duration even when its owner is an Active cat.
func TestCatchRuleOutlastsOwnerTimer(t *testing.T) {
	cfg := quietConfig(t)
	cfg.Hunger.DepletionRate = 0
	cfg.Recompute()
	g := newTestGame(t, Options{Config: cfg, Seed: 1})

	gray := g.cats["Gray"]
	pers := g.persMap.Get(gray)
	pers.Profile = traits.Active
	pers.Multipliers = traits.For(traits.Active, cfg.Personality, rand.New(rand.NewSource(1)))

	tint := g.catMap.Get(gray).Tint
	g.RequestCopyDisguise("Gray", tint)
	if got := g.RequestFeedInteraction(); got != session.Fed {
		t.Fatalf("first feed = %v, want Fed", got)
	}

	stepFor(g, cfg.Session.HungryAgain-1)
	if !g.Session().Registry.IsFed("Gray") {
		t.Fatalf("Gray forgotten at t=%.1f", g.Session().Clock.Now())
	}
	if !g.catMap.Get(gray).Fed {
		t.Error("Gray cat hungry before the registry expiry")
	}

	g.RequestCopyDisguise("Gray", tint)
	if got := g.RequestFeedInteraction(); got != session.RejectedCaught {
		t.Fatalf("second feed = %v, want RejectedCaught", got)
	}
	if g.State().Outcome() != session.Lost || g.State().Reason() != session.ReasonCaught {
		t.Errorf("outcome = %v(%q), want lost(caught)", g.State().Outcome(), g.State().Reason())
	}
}

// TestFedSetNotifiesObservers verifies yard cat meals and expiries reach
// observers as one state change per step.
func TestFedSetNotifiesObservers(t *testing.T) {
	cfg := quietConfig(t)
	cfg.Hunger.DepletionRate = 0
	cfg.Session.HungryAgain = 2
	cfg.Recompute()
	g := newTestGame(t, Options{Config: cfg, Seed: 2})

	changed := 0
	g.Subscribe(&session.ObserverFuncs{StateChanged: func() { changed++ }})

	if got := (caretakerPort{g}).TryFeed("Orange"); got != session.Fed {
		t.Fatalf("yard cat feed = %v, want Fed", got)
	}
	g.Step(cfg.Derived.DT32)
	if changed != 1 {
		t.Errorf("state changes after yard cat meal = %d, want 1", changed)
	}
	if g.State().MealsEarned() != 0 {
		t.Errorf("meals = %d, want 0", g.State().MealsEarned())
	}

	stepFor(g, 1)
	if changed != 1 {
		t.Errorf("state changes while nothing happened = %d, want 1", changed)
	}

	stepFor(g, 1.1)
	if g.Session().Registry.IsFed("Orange") {
		t.Fatal("Orange still fed after expiry")
	}
	if changed != 2 {
		t.Errorf("state changes after expiry = %d, want 2", changed)
	}
}

// TestYardCatsLoseRaceToPlayer drives every yard cat at Grandma while she is
// busy with the player, then lets them eat once she is free.
func TestYardCatsLoseRaceToPlayer(t *testing.T) {
	cfg := quietConfig(t)
	cfg.Hunger.DepletionRate = 0
	cfg.Behavior.IdleMin = 0
	cfg.Behavior.IdleMax = 0
	cfg.Behavior.WanderChance = 1
	cfg.Behavior.ApproachChance = 1
	cfg.Behavior.WanderSpeed = 20
	cfg.Caretaker.EatingDuration = 20
	cfg.Recompute()
	g := newTestGame(t, Options{Config: cfg, Seed: 3})

	for _, e := range g.cats {
		g.persMap.Get(e).Multipliers = traits.Neutral()
	}
	var events []systems.BehaviorEvent
	forward := g.behavior.OnEvent
	g.behavior.OnEvent = func(e systems.BehaviorEvent) {
		events = append(events, e)
		forward(e)
	}

	// Every cat sets off towards Grandma on the first step.
	g.Step(cfg.Derived.DT32)
	approaches := 0
	for _, e := range events {
		if e.Kind == systems.EventApproachStarted {
			approaches++
		}
	}
	if approaches != len(g.cats) {
		t.Fatalf("approaches = %d, want %d", approaches, len(g.cats))
	}

	g.RequestCopyDisguise("Orange", g.cfg.Derived.CatTints[0])
	if got := g.RequestFeedInteraction(); got != session.Fed {
		t.Fatalf("player feed = %v, want Fed", got)
	}

	stepFor(g, 10)
	busy := 0
	for i, e := range events {
		if e.Kind != systems.EventFeedAttempt {
			continue
		}
		if e.Outcome != session.RejectedBusy {
			t.Errorf("%s attempt while Grandma is busy = %v, want RejectedBusy", e.Cat, e.Outcome)
			continue
		}
		busy++
		next := events[i+1]
		if next.Kind != systems.EventStateChanged || next.Cat != e.Cat || next.State != components.StateIdle {
			t.Errorf("%s after losing the race: %+v, want Idle", e.Cat, next)
		}
	}
	if busy != len(g.cats) {
		t.Errorf("busy rejections = %d, want %d", busy, len(g.cats))
	}
	for id, e := range g.cats {
		if id != "Orange" && g.catMap.Get(e).Fed {
			t.Errorf("%s fed after losing the race", id)
		}
	}

	// Grandma frees up and the hungry cats get their turn.
	cfg.Caretaker.EatingDuration = 0.5
	events = events[:0]
	stepFor(g, 40)

	fed := 0
	for _, e := range events {
		if e.Kind != systems.EventFeedAttempt {
			continue
		}
		if e.Outcome == session.RejectedCaught {
			t.Errorf("%s was caught", e.Cat)
		}
		if e.Outcome != session.Fed {
			continue
		}
		fed++
		if e.Cat == "Orange" {
			t.Error("Orange approached while fed")
		}
		if !g.catMap.Get(g.cats[e.Cat]).Fed || !g.Session().Registry.IsFed(e.Cat) {
			t.Errorf("%s fed but not marked fed", e.Cat)
		}
	}
	if fed == 0 {
		t.Error("no yard cat was fed once Grandma was free")
	}
	if g.State().MealsEarned() != 1 || !g.State().InProgress() {
		t.Errorf("meals = %d outcome = %v, want 1 in progress", g.State().MealsEarned(), g.State().Outcome())
	}
}

package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

// TestDefaults verifies the embedded defaults and their derived values.
func TestDefaults(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	if cfg.Session.MealsToWin != 5 || cfg.Session.HungryAgain != 180 {
		t.Errorf("session = %+v, want 5 meals and 180s", cfg.Session)
	}
	if cfg.Hunger.RestoreAmount != RestoreFull {
		t.Errorf("restore = %v, want full", cfg.Hunger.RestoreAmount)
	}
	if len(cfg.Cats) != 4 {
		t.Fatalf("got %d cats, want 4", len(cfg.Cats))
	}
	if i, ok := cfg.Derived.CatIndex["Gray"]; !ok || cfg.Cats[i].WalkFrames != 0 {
		t.Errorf("Gray lookup = %d, %v; want a cat without walk frames", i, ok)
	}
	if got := cfg.Derived.CatTints[0]; got != (color.RGBA{R: 0xf5, G: 0xa1, B: 0x42, A: 255}) {
		t.Errorf("Orange tint = %v", got)
	}
	if want := int32(10 / cfg.Physics.DT); cfg.Derived.StatsTicks != want {
		t.Errorf("StatsTicks = %d, want %d", cfg.Derived.StatsTicks, want)
	}
}

// TestLoadOverlay verifies a user file only overrides the fields it names.
func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "session:\n  meals_to_win: 2\ncaretaker:\n  eating_durations:\n    Black: 6\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.MealsToWin != 2 {
		t.Errorf("meals_to_win = %d, want 2", cfg.Session.MealsToWin)
	}
	if cfg.Session.HungryAgain != 180 {
		t.Errorf("hungry_again = %v, want default 180", cfg.Session.HungryAgain)
	}
	if got := cfg.EatingDuration("Black"); got != 6 {
		t.Errorf("EatingDuration(Black) = %v, want 6", got)
	}
	if got := cfg.EatingDuration("Orange"); got != 3 {
		t.Errorf("EatingDuration(Orange) = %v, want 3", got)
	}
}

// TestLoadMissingFile verifies a bad path is reported.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of a missing file returned nil error")
	}
}

// TestEnvOverrides verifies COPYCAT_* variables win over files.
func TestEnvOverrides(t *testing.T) {
	t.Setenv("COPYCAT_MEALS_TO_WIN", "3")
	t.Setenv("COPYCAT_HUNGRY_AGAIN", "0.5")
	t.Setenv("COPYCAT_EATING_DURATION", "1.5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.MealsToWin != 3 || cfg.Session.HungryAgain != 0.5 {
		t.Errorf("session = %+v, want 3 meals and 0.5s", cfg.Session)
	}
	if got := cfg.EatingDuration("Gray"); got != 1.5 {
		t.Errorf("EatingDuration = %v, want 1.5", got)
	}
}

// TestEnvOverridesInvalid verifies unparsable values surface as errors.
func TestEnvOverridesInvalid(t *testing.T) {
	t.Setenv("COPYCAT_MEALS_TO_WIN", "lots")
	if _, err := Load(""); err == nil {
		t.Error("Load with a bad env value returned nil error")
	}
}

// TestComputeDerivedClamps verifies bad values are repaired.
func TestComputeDerivedClamps(t *testing.T) {
	cfg := &Config{Cats: []CatConfig{{Tint: "zzz"}}}
	cfg.Recompute()
	if cfg.Session.MealsToWin != 1 {
		t.Errorf("meals_to_win = %d, want 1", cfg.Session.MealsToWin)
	}
	if cfg.Physics.DT <= 0 {
		t.Errorf("dt = %v, want positive", cfg.Physics.DT)
	}
	if cfg.Cats[0].ID != "cat-0" {
		t.Errorf("id = %q, want cat-0", cfg.Cats[0].ID)
	}
	if cfg.Derived.CatTints[0] != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("tint = %v, want white fallback", cfg.Derived.CatTints[0])
	}
}

func TestParseTint(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#303030", color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 255}},
		{"e0c9a6", color.RGBA{R: 0xe0, G: 0xc9, B: 0xa6, A: 255}},
		{" #FFFFFF ", color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#12", color.RGBA{R: 255, G: 255, B: 255, A: 255}},
	}
	for _, tt := range tests {
		if got := ParseTint(tt.in); got != tt.want {
			t.Errorf("ParseTint(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestWriteYAMLRoundTrip verifies the snapshot loads back as the same session values.
func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Session.MealsToWin = 7
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Session.MealsToWin != 7 || len(back.Cats) != len(cfg.Cats) {
		t.Errorf("round trip = %+v / %d cats", back.Session, len(back.Cats))
	}
}

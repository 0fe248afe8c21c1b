package ui

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/copycat/camera"
	"github.com/pthm-cable/copycat/game"
	"github.com/pthm-cable/copycat/session"
)

// maxCatchUp bounds how many fixed steps one frame may run after a stall.
const maxCatchUp = 5

// pickRadius is how close, in world units, a click must land to select a cat.
const pickRadius = 0.8

const controlsText = "WASD/Arrows: move | E/Space: copy or ask for food | R: restart | Tab: overlays | Wheel: zoom | Click: inspect"

type ending uint8

const (
	endNone ending = iota
	endLost
	endWon
)

// App is the graphical front-end. It observes the session for end-of-game
// panels and drives the game with a fixed-step accumulator.
type App struct {
	g   *game.Game
	log *slog.Logger

	cam       *camera.Camera
	renderer  *Renderer
	hud       *HUD
	perf      *PerfPanel
	controls  *ControlsPanel
	inspector *Inspector
	overlays  *OverlayRegistry

	dt  float32
	acc float32

	snap   session.Snapshot
	end    ending
	reason string
}

// NewApp creates the front-end for g and subscribes it to session notices.
// The raylib window must already be open.
func NewApp(g *game.Game, logger *slog.Logger) *App {
	cfg := g.Config()
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		g:   g,
		log: logger,
		cam: camera.New(
			float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()),
			cfg.Derived.PixelsPer32,
			cfg.Derived.MinX32, cfg.Derived.MaxX32, cfg.Derived.MinY32, cfg.Derived.MaxY32,
		),
		renderer:  NewRenderer(),
		hud:       NewHUD(),
		perf:      NewPerfPanel(300),
		controls:  NewControlsPanel(220),
		inspector: NewInspector(260),
		overlays:  NewOverlayRegistry(),
		dt:        cfg.Derived.DT32,
		snap:      g.State().Snapshot(),
	}
	g.Subscribe(a)
	return a
}

// Close unsubscribes the front-end.
func (a *App) Close() {
	a.g.Unsubscribe(a)
}

// OnGameStateChanged refreshes the cached snapshot. A session back in
// progress hides the end panel.
func (a *App) OnGameStateChanged() {
	a.snap = a.g.State().Snapshot()
	if a.snap.Outcome == session.InProgress {
		a.end = endNone
		a.reason = ""
	}
}

// OnGameOver shows the loss panel.
func (a *App) OnGameOver(reason string) {
	a.end = endLost
	a.reason = reason
}

// OnGameWon shows the win panel.
func (a *App) OnGameWon() {
	a.end = endWon
}

// Update handles input, runs fixed steps for the elapsed frame time, and
// moves the camera.
func (a *App) Update() {
	frame := rl.GetFrameTime()
	a.handleInput()

	a.acc += frame
	if limit := a.dt * maxCatchUp; a.acc > limit {
		a.acc = limit
	}
	for a.acc >= a.dt {
		if !a.g.Autopilot() {
			a.movePlayer(a.dt)
		}
		a.g.Step(a.dt)
		a.acc -= a.dt
	}

	p := a.g.Player()
	a.cam.Follow(p.X, p.Y, frame)
}

func (a *App) handleInput() {
	if rl.IsWindowResized() {
		a.cam.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	}

	a.overlays.HandleKeys()
	if rl.IsKeyPressed(rl.KeyTab) {
		a.controls.Toggle()
	}

	if wheel := rl.GetMouseWheelMove(); wheel > 0 {
		a.cam.ZoomBy(1.1)
	} else if wheel < 0 {
		a.cam.ZoomBy(1 / 1.1)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		a.cam.Reset()
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && a.end == endNone {
		m := rl.GetMousePosition()
		wx, wy := a.cam.ScreenToWorld(m.X, m.Y)
		a.inspector.Pick(a.g.Cats(), wx, wy, pickRadius)
	}

	if a.g.State().IsTerminal() {
		if rl.IsKeyPressed(rl.KeyR) {
			a.restart()
		}
		return
	}

	if !a.g.Autopilot() && (rl.IsKeyPressed(rl.KeyE) || rl.IsKeyPressed(rl.KeySpace)) {
		res := a.g.Interact()
		a.log.Debug("interact",
			"kind", int(res.Kind),
			"identity", string(res.Identity),
			"outcome", res.Outcome.String(),
		)
	}
}

func (a *App) movePlayer(dt float32) {
	var dx, dy float32
	if rl.IsKeyDown(rl.KeyRight) || rl.IsKeyDown(rl.KeyD) {
		dx++
	}
	if rl.IsKeyDown(rl.KeyLeft) || rl.IsKeyDown(rl.KeyA) {
		dx--
	}
	if rl.IsKeyDown(rl.KeyUp) || rl.IsKeyDown(rl.KeyW) {
		dy++
	}
	if rl.IsKeyDown(rl.KeyDown) || rl.IsKeyDown(rl.KeyS) {
		dy--
	}
	a.g.MovePlayer(dx, dy, dt)
}

func (a *App) restart() {
	a.g.RequestRestart()
	a.acc = 0
	a.inspector.Select("")
}

// Draw renders one frame.
func (a *App) Draw() {
	a.g.RecordFrame()
	sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())

	rl.BeginDrawing()
	rl.ClearBackground(a.renderer.Theme.Fence)

	cats := a.g.Cats()
	a.drawYard()
	a.drawCats(cats)
	a.drawCaretaker()
	a.drawPlayer()
	a.drawBubble()

	a.hud.Draw(HUDData{
		Snapshot:  a.snap,
		Player:    a.g.Player(),
		Autopilot: a.g.Autopilot(),
		FPS:       rl.GetFPS(),
	})
	a.hud.DrawControls(sh, controlsText)
	a.controls.Draw(a.overlays, sw, sh)
	if a.overlays.IsEnabled(OverlayInspector) {
		a.inspector.Draw(a.g, cats, sw, sh)
	}
	if a.overlays.IsEnabled(OverlayPerf) {
		a.perf.Draw(a.g.PerfStats(), a.g.Phases(), sw, sh)
	}
	a.drawEndPanel(sw, sh)

	rl.EndDrawing()
}

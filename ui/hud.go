package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/copycat/game"
	"github.com/pthm-cable/copycat/session"
	"github.com/pthm-cable/copycat/systems"
	"github.com/pthm-cable/copycat/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Snapshot  session.Snapshot
	Player    game.PlayerView
	Autopilot bool
	FPS       int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders meals, the current disguise, and the player's hunger bar.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	const width = 280
	x, y := int32(10), int32(10)
	r.DrawPanel(x, y, width, 96)
	x += r.Theme.Padding
	y += r.Theme.Padding

	s := data.Snapshot
	rl.DrawText(fmt.Sprintf("Meals: %d / %d", s.MealsEarned, s.MealsToWin), x, y, 20, rl.White)
	y += 26

	disguise := "none"
	if s.Disguised {
		disguise = string(s.Disguise.ID)
		rl.DrawRectangle(x+r.Theme.LabelWidth+rl.MeasureText(disguise, r.Theme.FontSize)+6, y+1, 10, 10, toRL(s.Disguise.Tint))
	}
	y = r.DrawLabelValue(x, y, "Disguise", disguise)
	y = r.DrawMeter(x, y, "Hunger", data.Player.HungerCur, data.Player.HungerMax, width-r.Theme.Padding*2)

	status := fmt.Sprintf("FPS: %d", data.FPS)
	if data.Autopilot {
		status += " | AUTOPILOT"
	}
	rl.DrawText(status, x, y, r.Theme.FontSize, rl.Gray)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Color{R: 30, G: 40, B: 30, A: 255})
}

// PerfPanel renders per-phase step timing.
type PerfPanel struct {
	renderer *Renderer
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(width int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), width: width}
}

// Draw renders the panel at the top right of the screen.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, phases *systems.SystemRegistry, screenW, screenH int32) {
	r := p.renderer
	all := phases.All()
	height := int32(len(all))*14 + 64
	x, y := Place(AnchorTopRight, p.width, height, screenW, screenH, 10)
	r.DrawPanel(x, y, p.width, height)
	x += r.Theme.Padding
	y += r.Theme.Padding

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Avg: %s | %.0f tps | %.0f fps",
		stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond, stats.FPS), x, y, 12, rl.Yellow)
	y += 18

	for _, info := range all {
		pct := stats.PhasePct[info.ID]
		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-14s %8s %5.1f%%", info.Name, stats.PhaseAvg[info.ID].Round(time.Microsecond), pct), x, y, 12, color)
		y += 14
	}
}

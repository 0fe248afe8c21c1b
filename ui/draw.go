package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/copycat/components"
	"github.com/pthm-cable/copycat/game"
	"github.com/pthm-cable/copycat/session"
)

// Body sizes in world units.
const (
	catBody    = 0.4
	catHead    = 0.25
	grandmaW   = 0.9
	grandmaH   = 1.4
	bubbleFont = 18
)

func (a *App) drawYard() {
	c := a.cam
	x0, y0 := c.WorldToScreen(c.MinX, c.MaxY)
	x1, y1 := c.WorldToScreen(c.MaxX, c.MinY)
	rl.DrawRectangle(int32(x0), int32(y0), int32(x1-x0), int32(y1-y0), a.renderer.Theme.Grass)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 4, a.renderer.Theme.Fence)
}

func (a *App) drawCats(cats []game.CatView) {
	s := a.cam.Scale()
	for _, cat := range cats {
		if !a.cam.IsVisible(cat.X, cat.Y, 1) {
			continue
		}
		sx, sy := a.cam.WorldToScreen(cat.X, cat.Y)

		if a.overlays.IsEnabled(OverlayWalkTargets) && cat.Walking {
			tx, ty := a.cam.WorldToScreen(cat.TargetX, cat.TargetY)
			rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: tx, Y: ty}, rl.Fade(rl.White, 0.5))
			rl.DrawCircleLines(int32(tx), int32(ty), 4, rl.White)
		}

		drawCat(sx, sy, s, cat.FacingLeft, toRL(cat.Tint), cat.Visual)

		if cat.ID == a.inspector.Selected() {
			rl.DrawCircleLines(int32(sx), int32(sy), (catBody+0.25)*s, rl.Yellow)
		}

		labelY := int32(sy - (catBody+0.55)*s)
		if a.overlays.IsEnabled(OverlayFedMarkers) && cat.Fed {
			drawCentered("FED", int32(sx), labelY-12, 10, rl.Green)
		}
		if a.overlays.IsEnabled(OverlayCatLabels) {
			drawCentered(string(cat.ID)+" - "+cat.Label, int32(sx), labelY, 10, rl.RayWhite)
		}
	}
}

// drawCat draws a cat made of primitives, posed by its visual.
func drawCat(sx, sy, scale float32, facingLeft bool, tint rl.Color, v components.Visual) {
	dir := float32(1)
	if facingLeft {
		dir = -1
	}
	body := catBody * scale
	head := catHead * scale
	outline := rl.Fade(rl.Black, 0.6)

	switch v.Set {
	case components.SpriteLaying, components.SpriteSleeping:
		// Lower the body as the frames advance.
		flat := 0.6 - 0.05*float32(v.Frame%6)
		rl.DrawEllipse(int32(sx), int32(sy+body*0.3), body*1.3, body*flat, tint)
		rl.DrawEllipseLines(int32(sx), int32(sy+body*0.3), body*1.3, body*flat, outline)
		rl.DrawCircle(int32(sx+dir*body*1.1), int32(sy+body*0.2), head, tint)
		if v.Set == components.SpriteSleeping {
			rl.DrawText("z", int32(sx+dir*body), int32(sy-body-float32(v.Frame%4)*3), 14, rl.RayWhite)
		}
		return
	}

	bob := float32(0)
	if v.Set == components.SpriteWalk && v.Frame%2 == 1 {
		bob = -0.06 * scale
	}
	tail := float32(v.Frame%4-2) * 0.08 * scale
	rl.DrawLineEx(
		rl.Vector2{X: sx - dir*body*0.8, Y: sy + bob},
		rl.Vector2{X: sx - dir*body*1.5, Y: sy - body + tail + bob},
		3, tint,
	)
	rl.DrawCircle(int32(sx), int32(sy+bob), body, tint)
	rl.DrawCircleLines(int32(sx), int32(sy+bob), body, outline)

	hx, hy := sx+dir*body*0.8, sy-body*0.7+bob
	rl.DrawTriangle(
		rl.Vector2{X: hx - head*0.9, Y: hy - head*0.3},
		rl.Vector2{X: hx - head*0.2, Y: hy - head*0.6},
		rl.Vector2{X: hx - head*0.6, Y: hy - head*1.4},
		tint,
	)
	rl.DrawTriangle(
		rl.Vector2{X: hx + head*0.2, Y: hy - head*0.6},
		rl.Vector2{X: hx + head*0.9, Y: hy - head*0.3},
		rl.Vector2{X: hx + head*0.6, Y: hy - head*1.4},
		tint,
	)
	rl.DrawCircle(int32(hx), int32(hy), head, tint)
	rl.DrawCircle(int32(hx+dir*head*0.4), int32(hy-head*0.15), 2, rl.Black)
}

func (a *App) drawCaretaker() {
	c := a.g.Caretaker()
	s := a.cam.Scale()
	sx, sy := a.cam.WorldToScreen(c.X, c.Y)
	theme := a.renderer.Theme

	w, h := grandmaW*s, grandmaH*s
	rl.DrawRectangleRounded(rl.Rectangle{X: sx - w/2, Y: sy - h/2, Width: w, Height: h}, 0.4, 8, theme.Grandma)
	rl.DrawCircle(int32(sx), int32(sy-h/2-0.2*s), 0.3*s, rl.Color{R: 240, G: 210, B: 190, A: 255})
	rl.DrawCircle(int32(sx), int32(sy-h/2-0.4*s), 0.22*s, rl.LightGray)

	if c.Busy {
		dir := float32(1)
		if c.FacingLeft {
			dir = -1
		}
		bx := sx + dir*(w/2+0.35*s)
		by := sy + h/2 - 0.1*s
		rl.DrawEllipse(int32(bx), int32(by), 0.3*s, 0.1*s, rl.Color{R: 200, G: 60, B: 60, A: 255})
		if c.LastFed != "" {
			drawCentered(string(c.LastFed)+" eating", int32(bx), int32(by+0.2*s), 10, rl.RayWhite)
		}
	}
	if a.overlays.IsEnabled(OverlayCatLabels) {
		drawCentered("Grandma - "+c.Mode.String(), int32(sx), int32(sy+h/2+4), 10, rl.RayWhite)
	}
}

func (a *App) drawPlayer() {
	p := a.g.Player()
	s := a.cam.Scale()
	sx, sy := a.cam.WorldToScreen(p.X, p.Y)

	if a.overlays.IsEnabled(OverlayInteractRadius) {
		rl.DrawCircleLines(int32(sx), int32(sy), p.Radius*s, rl.Fade(rl.White, 0.6))
	}

	drawCat(sx, sy, s, p.FacingLeft, toRL(p.Tint), components.Visual{Set: components.SpriteIdle})
	rl.DrawCircleLines(int32(sx), int32(sy), (catBody+0.08)*s, rl.White)

	label := "You"
	if p.Disguised {
		label = "You (as " + string(p.Disguise.ID) + ")"
	}
	drawCentered(label, int32(sx), int32(sy+(catBody+0.2)*s), 12, rl.White)
}

func (a *App) drawBubble() {
	b := a.g.Bubble()
	if !b.Visible || b.Alpha <= 0 {
		return
	}
	c := a.g.Caretaker()
	s := a.cam.Scale()
	sx, sy := a.cam.WorldToScreen(c.X, c.Y+grandmaH/2+0.9)

	theme := a.renderer.Theme
	tw := float32(rl.MeasureText(b.Text, bubbleFont))
	w, h := tw+24, float32(bubbleFont)+16
	rect := rl.Rectangle{X: sx - w/2, Y: sy - h/2 - 0.2*s, Width: w, Height: h}

	rl.DrawRectangleRounded(rect, 0.5, 8, rl.Fade(theme.Bubble, b.Alpha))
	rl.DrawTriangle(
		rl.Vector2{X: sx - 8, Y: rect.Y + h},
		rl.Vector2{X: sx, Y: rect.Y + h + 10},
		rl.Vector2{X: sx + 8, Y: rect.Y + h},
		rl.Fade(theme.Bubble, b.Alpha),
	)
	rl.DrawText(b.Text, int32(rect.X+12), int32(rect.Y+8), bubbleFont, rl.Fade(theme.BubbleText, b.Alpha))
}

func (a *App) drawEndPanel(screenW, screenH int32) {
	if a.end == endNone {
		return
	}
	const w, h = 380, 190
	r := a.renderer
	x, y := Place(AnchorCenter, w, h, screenW, screenH, 0)

	rl.DrawRectangle(0, 0, screenW, screenH, rl.Fade(rl.Black, 0.4))
	r.DrawPanel(x, y, w, h)

	title, detail, color := "You win!", "Grandma never noticed a thing.", rl.Green
	if a.end == endLost {
		title, color = "Game over", rl.Red
		switch a.reason {
		case session.ReasonCaught:
			detail = "Grandma recognised you. Caught!"
		case session.ReasonStarved:
			detail = "You starved."
		default:
			detail = a.reason
		}
	}

	drawCentered(title, x+w/2, y+20, 32, color)
	drawCentered(detail, x+w/2, y+64, 16, rl.RayWhite)
	drawCentered(fmt.Sprintf("Meals: %d / %d", a.snap.MealsEarned, a.snap.MealsToWin), x+w/2, y+90, 16, rl.LightGray)

	btn := rl.Rectangle{X: float32(x + w/2 - 60), Y: float32(y + h - 56), Width: 120, Height: 32}
	if gui.Button(btn, "Restart [R]") {
		a.restart()
	}
}

func drawCentered(text string, cx, y, size int32, color rl.Color) {
	rl.DrawText(text, cx-rl.MeasureText(text, size)/2, y, size, color)
}

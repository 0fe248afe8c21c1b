package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/copycat/components"
	"github.com/pthm-cable/copycat/game"
	"github.com/pthm-cable/copycat/inspector"
	"github.com/pthm-cable/copycat/session"
)

// Inspector shows the selected yard cat.
type Inspector struct {
	renderer *Renderer
	width    int32
	fields   []components.FieldDescriptor
	selected session.Identity
}

// NewInspector creates an inspector with nothing selected.
func NewInspector(width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		width:    width,
		fields:   components.CatFieldDescriptors(),
	}
}

// Select picks the cat to inspect. An empty id clears the selection.
func (ins *Inspector) Select(id session.Identity) {
	ins.selected = id
}

// Selected returns the inspected cat's identity.
func (ins *Inspector) Selected() session.Identity {
	return ins.selected
}

// Pick selects the cat closest to (wx, wy) within radius world units, or
// clears the selection if none is close enough.
func (ins *Inspector) Pick(cats []game.CatView, wx, wy, radius float32) {
	ins.selected = ""
	best := radius * radius
	for _, c := range cats {
		dx, dy := c.X-wx, c.Y-wy
		if d := dx*dx + dy*dy; d <= best {
			best = d
			ins.selected = c.ID
		}
	}
}

// Draw renders the selected cat's rows at the bottom right of the screen,
// followed by the raw component fields.
func (ins *Inspector) Draw(g *game.Game, cats []game.CatView, screenW, screenH int32) {
	if ins.selected == "" {
		return
	}
	var cat *game.CatView
	for i := range cats {
		if cats[i].ID == ins.selected {
			cat = &cats[i]
			break
		}
	}
	if cat == nil {
		return
	}

	var rows []inspector.Row
	if c, b, h, ok := g.CatComponents(cat.ID); ok {
		rows = append(rows, inspector.Rows(&c)...)
		rows = append(rows, inspector.Rows(&b)...)
		rows = append(rows, inspector.Rows(&h)...)
	}

	r := ins.renderer
	lines := int32(len(ins.fields) + len(rows) + 1)
	height := lines*(r.Theme.LineHeight+2) + r.Theme.Padding*2 + 28
	x, y := Place(AnchorBottomRight, ins.width, height, screenW, screenH, 10)
	r.DrawPanel(x, y, ins.width, height)
	x += r.Theme.Padding
	y += r.Theme.Padding
	width := ins.width - r.Theme.Padding*2

	rl.DrawRectangle(x, y+3, 12, 12, toRL(cat.Tint))
	rl.DrawText("Cat Inspector", x+18, y, 16, rl.White)
	y += 24

	y = r.DrawFields(x, y, ins.fields, catSource{cat}, width)
	y = r.DrawSectionHeader(x, y+4, "Components")
	for _, row := range rows {
		if row.Widget == inspector.WidgetBar {
			y = r.DrawMeter(x, y, row.Name, row.Value, row.Max, width)
			continue
		}
		y = r.DrawLabelValue(x, y, row.Name, row.Text)
	}
}

// catSource adapts a CatView to descriptor rows.
type catSource struct {
	c *game.CatView
}

func (s catSource) FieldText(id string) (string, bool) {
	c := s.c
	switch id {
	case "identity":
		return string(c.ID), true
	case "profile":
		return c.Profile.String(), true
	case "state":
		return c.Label, true
	case "timer":
		return fmt.Sprintf("%.1f/%.1fs", c.Timer, c.Deadline), true
	case "fed":
		if !c.Fed {
			return "no", true
		}
		return fmt.Sprintf("yes, hungry in %.0fs", c.FedTimer), true
	}
	return "", false
}

func (s catSource) FieldValue(id string) (float32, float32, bool) {
	if id == "hunger" {
		return s.c.HungerCur, s.c.HungerMax, true
	}
	return 0, 0, false
}

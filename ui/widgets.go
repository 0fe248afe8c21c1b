package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/copycat/components"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawMeter draws a bar with low/medium/high colors and a "current/max" label.
func (r *Renderer) DrawMeter(x, y int32, label string, current, max float32, width int32) int32 {
	ratio := float32(0)
	if max > 0 {
		ratio = current / max
		if ratio > 1 {
			ratio = 1
		}
		if ratio < 0 {
			ratio = 0
		}
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 60

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ratio), r.Theme.BarHeight, r.meterColor(ratio))
	rl.DrawText(fmt.Sprintf("%.0f/%.0f", current, max), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

func (r *Renderer) meterColor(ratio float32) rl.Color {
	switch {
	case ratio < 0.3:
		return r.Theme.BarFillLow
	case ratio < 0.6:
		return r.Theme.BarFillMedium
	default:
		return r.Theme.BarFillHigh
	}
}

// FieldSource supplies values for descriptor-driven rows.
type FieldSource interface {
	FieldText(id string) (string, bool)
	FieldValue(id string) (current, max float32, ok bool)
}

// DrawField renders one descriptor row. Rows the source cannot fill, and
// zero values not marked ShowWhenZero, are skipped.
func (r *Renderer) DrawField(x, y int32, fd components.FieldDescriptor, src FieldSource, width int32) int32 {
	if fd.IsBar {
		cur, max, ok := src.FieldValue(fd.ID)
		if !ok || (cur == 0 && !fd.ShowWhenZero) {
			return y
		}
		return r.DrawMeter(x, y, fd.Label, cur, max, width)
	}
	text, ok := src.FieldText(fd.ID)
	if !ok || text == "" {
		return y
	}
	return r.DrawLabelValue(x, y, fd.Label, text)
}

// DrawFields renders descriptor rows with a header whenever the group changes.
func (r *Renderer) DrawFields(x, y int32, fields []components.FieldDescriptor, src FieldSource, width int32) int32 {
	group := ""
	for _, fd := range fields {
		if fd.Group != group && group != "" {
			y += 4
		}
		group = fd.Group
		y = r.DrawField(x, y, fd, src, width)
	}
	return y
}

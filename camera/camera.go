// Package camera provides a 2D follow camera for the yard viewport.
package camera

// Camera maps world units (y up) to screen pixels (y down) and follows a
// target with exponential smoothing. The view is kept inside the yard.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = PixelsPerUnit pixels per world unit)
	Zoom float32

	// PixelsPerUnit is the base scale at zoom 1
	PixelsPerUnit float32

	// Smooth is the follow rate per second (0 = snap to target)
	Smooth float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World bounds in world units
	MinX, MaxX, MinY, MaxY float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the yard at zoom 1.
func New(viewportW, viewportH, pixelsPerUnit, minX, maxX, minY, maxY float32) *Camera {
	c := &Camera{
		Zoom:          1.0,
		PixelsPerUnit: pixelsPerUnit,
		Smooth:        5,
		ViewportW:     viewportW,
		ViewportH:     viewportH,
		MinX:          minX,
		MaxX:          maxX,
		MinY:          minY,
		MaxY:          maxY,
		MinZoom:       0.5,
		MaxZoom:       3.0,
	}
	c.Reset()
	return c
}

// Scale returns screen pixels per world unit at the current zoom.
func (c *Camera) Scale() float32 {
	return c.PixelsPerUnit * c.Zoom
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	s := c.Scale()
	sx = c.ViewportW/2 + (wx-c.X)*s
	sy = c.ViewportH/2 - (wy-c.Y)*s
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.Scale()
	wx = c.X + (sx-c.ViewportW/2)/s
	wy = c.Y - (sy-c.ViewportH/2)/s
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW, halfH := c.halfExtents()
	return absf(wx-c.X) <= halfW+radius && absf(wy-c.Y) <= halfH+radius
}

// Follow moves the camera toward (tx, ty). The step is Smooth*dt of the
// remaining distance, capped at the full distance.
func (c *Camera) Follow(tx, ty, dt float32) {
	t := float32(1)
	if c.Smooth > 0 {
		t = clamp(c.Smooth*dt, 0, 1)
	}
	c.X += (tx - c.X) * t
	c.Y += (ty - c.Y) * t
	c.clampToWorld()
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.clampToWorld()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampToWorld()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the camera on the yard at zoom 1.
func (c *Camera) Reset() {
	c.X = (c.MinX + c.MaxX) / 2
	c.Y = (c.MinY + c.MaxY) / 2
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW, halfH := c.halfExtents()
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

func (c *Camera) halfExtents() (float32, float32) {
	s := c.Scale()
	return c.ViewportW / (2 * s), c.ViewportH / (2 * s)
}

// clampToWorld keeps the view inside the yard. An axis wider than the yard
// is centered instead.
func (c *Camera) clampToWorld() {
	halfW, halfH := c.halfExtents()
	c.X = clampAxis(c.X, halfW, c.MinX, c.MaxX)
	c.Y = clampAxis(c.Y, halfH, c.MinY, c.MaxY)
}

func clampAxis(v, half, lo, hi float32) float32 {
	if hi-lo <= 2*half {
		return (lo + hi) / 2
	}
	return clamp(v, lo+half, hi-half)
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

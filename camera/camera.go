// Package camera maps the square periodic domain onto the window.
package camera

import "github.com/pthm-cable/chemotaxis/systems"

// Camera controls the viewport into the domain.
// Domain coordinates are float64 (metres); screen coordinates are float32 pixels.
// At zoom 1 the whole domain fits the shorter viewport side.
type Camera struct {
	// Center of the view in domain coordinates
	X, Y float64

	// Zoom level (1.0 = whole domain visible)
	Zoom float32

	ViewportW, ViewportH float32

	// Side length of the periodic domain
	Size float64

	MinZoom, MaxZoom float32
}

// New creates a camera centered on a domain of side size.
func New(viewportW, viewportH float32, size float64) *Camera {
	return &Camera{
		X:         size / 2,
		Y:         size / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		Size:      size,
		MinZoom:   1.0,
		MaxZoom:   8.0,
	}
}

// PixelsPerUnit returns the current scale from domain units to pixels.
func (c *Camera) PixelsPerUnit() float64 {
	side := c.ViewportW
	if c.ViewportH < side {
		side = c.ViewportH
	}
	return float64(side) / c.Size * float64(c.Zoom)
}

// WorldToScreen converts domain coordinates to screen coordinates,
// taking the periodic image nearest the view center.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float32) {
	scale := c.PixelsPerUnit()
	dx := systems.ToroidalDelta(wx, c.X, c.Size)
	dy := systems.ToroidalDelta(wy, c.Y, c.Size)
	sx = c.ViewportW/2 + float32(dx*scale)
	sy = c.ViewportH/2 + float32(dy*scale)
	return sx, sy
}

// ScreenToWorld converts screen coordinates to domain coordinates in [0, Size).
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float64) {
	scale := c.PixelsPerUnit()
	dx := float64(sx-c.ViewportW/2) / scale
	dy := float64(sy-c.ViewportH/2) / scale
	return systems.Wrap(c.X+dx, c.Size), systems.Wrap(c.Y+dy, c.Size)
}

// ToScreenLength converts a domain length to pixels.
func (c *Camera) ToScreenLength(l float64) float32 {
	return float32(l * c.PixelsPerUnit())
}

// IsVisible reports whether a circle at (wx, wy) with a pixel radius could
// be on screen.
func (c *Camera) IsVisible(wx, wy float64, radius float32) bool {
	sx, sy := c.WorldToScreen(wx, wy)
	return sx >= -radius && sx <= c.ViewportW+radius &&
		sy >= -radius && sy <= c.ViewportH+radius
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the view by a delta in screen pixels, wrapping at the domain edges.
func (c *Camera) Pan(dx, dy float32) {
	scale := c.PixelsPerUnit()
	c.X = systems.Wrap(c.X+float64(dx)/scale, c.Size)
	c.Y = systems.Wrap(c.Y+float64(dy)/scale, c.Size)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.Size / 2
	c.Y = c.Size / 2
	c.Zoom = 1.0
}

func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

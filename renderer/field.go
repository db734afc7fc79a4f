// Package renderer draws the concentration field and the agents.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chemotaxis/camera"
	"github.com/pthm-cable/chemotaxis/sim"
)

// FieldRenderer draws the concentration field as a heat map texture.
type FieldRenderer struct {
	tex      rl.Texture2D
	gridSize int
	samples  []float64
	pixels   []color.RGBA

	initialized bool
}

// NewFieldRenderer creates a renderer sampling the field on a gridSize² grid.
func NewFieldRenderer(gridSize int) *FieldRenderer {
	if gridSize < 2 {
		gridSize = 2
	}
	return &FieldRenderer{gridSize: gridSize}
}

// Init creates the GPU texture (must be called after the raylib window exists).
func (r *FieldRenderer) Init() {
	if r.initialized {
		return
	}
	n := r.gridSize

	img := rl.GenImageColor(n, n, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.SetTextureWrap(r.tex, rl.WrapRepeat)
	rl.UnloadImage(img)

	r.samples = make([]float64, n*n)
	r.pixels = make([]color.RGBA, n*n)
	r.initialized = true
}

// Update resamples the field from snap and uploads it.
func (r *FieldRenderer) Update(snap *sim.Snapshot) {
	if !r.initialized {
		r.Init()
	}
	r.samples = snap.SampleField(r.gridSize, r.samples)
	for i, v := range r.samples {
		r.pixels[i] = HeatColor(v)
	}
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw maps the visible part of the periodic domain onto the screen.
func (r *FieldRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}

	// Texels per domain unit; the repeat wrap mode tiles past the edges
	texScale := float64(r.gridSize) / cam.Size
	ppu := cam.PixelsPerUnit()
	visW := float64(cam.ViewportW) / ppu
	visH := float64(cam.ViewportH) / ppu

	src := rl.Rectangle{
		X:      float32((cam.X - visW/2) * texScale),
		Y:      float32((cam.Y - visH/2) * texScale),
		Width:  float32(visW * texScale),
		Height: float32(visH * texScale),
	}
	dst := rl.Rectangle{X: 0, Y: 0, Width: cam.ViewportW, Height: cam.ViewportH}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *FieldRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}

// HeatColor maps a concentration in [0, 1] onto a dark blue, cyan, yellow,
// white gradient.
func HeatColor(v float64) color.RGBA {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	var r, g, b float64
	switch {
	case v < 0.25:
		t := v / 0.25
		r, g, b = 10+t*30, 20+t*60, 60+t*100
	case v < 0.5:
		t := (v - 0.25) / 0.25
		r, g, b = 40+t*20, 80+t*120, 160+t*40
	case v < 0.75:
		t := (v - 0.5) / 0.25
		r, g, b = 60+t*140, 200-t*40, 200-t*150
	default:
		t := (v - 0.75) / 0.25
		r, g, b = 200+t*55, 160+t*95, 50+t*205
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}

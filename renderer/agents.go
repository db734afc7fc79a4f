package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chemotaxis/camera"
	"github.com/pthm-cable/chemotaxis/sim"
)

// AgentStyle controls how agents are drawn.
type AgentStyle struct {
	Radius      float32 // pixels at zoom 1
	HeadingLen  float32 // pixels at zoom 1
	Low, High   rl.Color
	SourceColor rl.Color
}

// DefaultAgentStyle returns the default agent look.
func DefaultAgentStyle() AgentStyle {
	return AgentStyle{
		Radius:      3,
		HeadingLen:  7,
		Low:         rl.Color{R: 170, G: 220, B: 255, A: 255},
		High:        rl.Color{R: 255, G: 120, B: 60, A: 255},
		SourceColor: rl.Color{R: 255, G: 255, B: 255, A: 200},
	}
}

// DrawAgents draws every agent as a dot with a heading tick, tinted by the
// concentration it sensed on its last step.
func DrawAgents(snap *sim.Snapshot, cam *camera.Camera, style AgentStyle) {
	radius := style.Radius * cam.Zoom
	length := style.HeadingLen * cam.Zoom

	for _, a := range snap.Agents {
		if !cam.IsVisible(a.X, a.Y, radius+length) {
			continue
		}
		sx, sy := cam.WorldToScreen(a.X, a.Y)
		c := lerpColor(style.Low, style.High, a.Concentration)

		speed := math.Hypot(a.VX, a.VY)
		if speed > 0 {
			hx := float32(a.VX/speed) * length
			hy := float32(a.VY/speed) * length
			rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: sx + hx, Y: sy + hy}, c)
		}
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, c)
	}
}

// DrawSource marks the droplet with a cross and rings at one and two spreads.
func DrawSource(snap *sim.Snapshot, cam *camera.Camera, style AgentStyle) {
	if !snap.HasSource {
		return
	}
	sx, sy := cam.WorldToScreen(snap.Source.X, snap.Source.Y)
	spread := cam.ToScreenLength(snap.Spread)

	rl.DrawCircleLines(int32(sx), int32(sy), spread, style.SourceColor)
	rl.DrawCircleLines(int32(sx), int32(sy), 2*spread, rl.Fade(style.SourceColor, 0.4))
	rl.DrawLineV(rl.Vector2{X: sx - 6, Y: sy}, rl.Vector2{X: sx + 6, Y: sy}, style.SourceColor)
	rl.DrawLineV(rl.Vector2{X: sx, Y: sy - 6}, rl.Vector2{X: sx, Y: sy + 6}, style.SourceColor)
}

func lerpColor(a, b rl.Color, t float64) rl.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

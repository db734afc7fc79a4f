// Field preview tool - interactive view of the droplet's concentration field
// and its evaporation, with sliders.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"image/color"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chemotaxis/config"
	"github.com/pthm-cable/chemotaxis/renderer"
	"github.com/pthm-cable/chemotaxis/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 620
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 128
)

// fieldParams are the slider values, lengths in micrometres.
type fieldParams struct {
	Spread    float32
	SourceX   float32
	SourceY   float32
	Decay     float32
	MinSpread float32
}

func defaultParams(cfg *config.Config) fieldParams {
	return fieldParams{
		Spread:    float32(cfg.Field.Spread * 1e6),
		SourceX:   float32(cfg.Derived.SourceX * 1e6),
		SourceY:   float32(cfg.Derived.SourceY * 1e6),
		Decay:     float32(cfg.Field.Decay),
		MinSpread: float32(cfg.Field.MinSpread * 1e6),
	}
}

func main() {
	config.MustInit("")
	cfg := config.Cfg()
	size := cfg.World.Size
	sizeUM := float32(size * 1e6)

	rl.InitWindow(windowWidth, windowHeight, "Concentration Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams(cfg)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	samples := make([]float64, gridSize*gridSize)
	pixels := make([]color.RGBA, gridSize*gridSize)

	var field *systems.ConcentrationField
	evaporating := false
	steps := 0

	rebuild := func() {
		field = systems.NewConcentrationField(size, float64(params.Spread)*1e-6)
		field.SetEvaporation(float64(params.Decay), float64(params.MinSpread)*1e-6)
		field.PlaceSource(float64(params.SourceX)*1e-6, float64(params.SourceY)*1e-6)
		steps = 0
	}
	rebuild()

	for !rl.WindowShouldClose() {
		if evaporating {
			if field.Evaporate() {
				evaporating = false
			}
			steps++
		}

		samples = field.Sample(gridSize, samples)
		for i, v := range samples {
			pixels[i] = renderer.HeatColor(v)
		}
		rl.UpdateTexture(texture, pixels)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		if src, ok := field.Source(); ok {
			rl.DrawText(fmt.Sprintf("Source (%.1f, %.1f) um  spread %.2f um  steps %d",
				src.X*1e6, src.Y*1e6, field.Spread()*1e6, steps), 15, statsY, 16, rl.DarkGray)
			// Concentration one spread away, for reference: exp(-1/2)
			rl.DrawText(fmt.Sprintf("c(1 spread) = %.3f", math.Exp(-0.5)), 15, statsY+20, 16, rl.DarkGray)
		} else {
			rl.DrawText(fmt.Sprintf("Droplet evaporated after %d steps", steps), 15, statsY, 16, rl.Maroon)
		}

		panelX := float32(previewSize + 20)
		panelY := float32(10)
		rl.DrawText("Droplet Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		changed := false
		slider := func(label string, value *float32, min, max float32) {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				fmt.Sprintf("%.0f", min), fmt.Sprintf("%.0f", max),
				*value, min, max,
			)
			rl.DrawText(fmt.Sprintf("%.2f", v), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if v != *value {
				*value = v
				changed = true
			}
			panelY += 35
		}

		slider("Spread (um)", &params.Spread, 1, sizeUM/2)
		slider("Source X (um)", &params.SourceX, 0, sizeUM)
		slider("Source Y (um)", &params.SourceY, 0, sizeUM)
		slider("Decay per step", &params.Decay, 0.9, 1)
		slider("Min spread (um)", &params.MinSpread, 0, sizeUM/4)

		if changed {
			rebuild()
			evaporating = false
		}

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(evaporating, "Stop", "Evaporate")) {
			evaporating = !evaporating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset") {
			rebuild()
			evaporating = false
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 250, Height: 30}, "Defaults") {
			params = defaultParams(cfg)
			rebuild()
			evaporating = false
		}

		rl.EndDrawing()
	}
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}

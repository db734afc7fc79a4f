package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsState is the interactive state owned by the game.
type ControlsState struct {
	Paused         bool
	HasSource      bool
	StepsPerUpdate int
	ShowField      bool
}

// ControlsAction reports which buttons were pressed this frame.
type ControlsAction struct {
	TogglePause  bool
	RemoveSource bool
	ResetCamera  bool
	ToggleField  bool

	// StepsPerUpdate is the slider value, equal to the input when untouched.
	StepsPerUpdate int
}

// MaxStepsPerUpdate bounds the speed slider.
const MaxStepsPerUpdate = 20

// ControlsPanel renders the raygui buttons and speed slider.
type ControlsPanel struct {
	renderer *Renderer
	x, y     float32
	width    float32
}

// NewControlsPanel creates a controls panel at (x, y).
func NewControlsPanel(x, y, width float32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y float32) {
	c.x = x
	c.y = y
}

// Contains reports whether a screen point falls on the panel, so clicks
// there are not treated as droplet placement.
func (c *ControlsPanel) Contains(px, py float32) bool {
	return px >= c.x && px <= c.x+c.width && py >= c.y && py <= c.y+c.height()
}

func (c *ControlsPanel) height() float32 {
	return 2*30 + 3*8 + 20 + 18 + 2*float32(c.renderer.Theme.Padding)
}

// Draw renders the panel and returns the actions taken.
func (c *ControlsPanel) Draw(state ControlsState) ControlsAction {
	pad := float32(c.renderer.Theme.Padding)
	c.renderer.DrawPanel(int32(c.x), int32(c.y), int32(c.width), int32(c.height()))

	act := ControlsAction{StepsPerUpdate: state.StepsPerUpdate}
	x := c.x + pad
	y := c.y + pad
	half := (c.width - 3*pad) / 2

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 30}, toggleText(state.Paused, "Resume", "Pause")) {
		act.TogglePause = true
	}
	if state.HasSource {
		if gui.Button(rl.Rectangle{X: x + half + pad, Y: y, Width: half, Height: 30}, "Remove droplet") {
			act.RemoveSource = true
		}
	}
	y += 38

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 30}, "Reset view") {
		act.ResetCamera = true
	}
	if gui.Button(rl.Rectangle{X: x + half + pad, Y: y, Width: half, Height: 30}, toggleText(state.ShowField, "Hide field", "Show field")) {
		act.ToggleField = true
	}
	y += 38

	rl.DrawText(fmt.Sprintf("Steps per frame: %d", state.StepsPerUpdate), int32(x), int32(y), 12, rl.LightGray)
	y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x + 10, Y: y, Width: c.width - 2*pad - 30, Height: 20},
		"1", fmt.Sprint(MaxStepsPerUpdate),
		float32(state.StepsPerUpdate), 1, MaxStepsPerUpdate,
	)
	if steps := int(v + 0.5); steps != state.StepsPerUpdate {
		act.StepsPerUpdate = steps
	}

	return act
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}

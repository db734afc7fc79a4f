package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chemotaxis/renderer"
	"github.com/pthm-cable/chemotaxis/ui"
)

const controlsLegend = "[LMB] place droplet  [RMB/R] remove  [Space] pause  [</>] speed  [F] field  [Arrows/Wheel] view  [Home] reset"

// Draw renders the current state.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()
	snap := g.sim.Snapshot()

	if g.showField {
		g.fieldRenderer.Update(&snap)
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 8, G: 12, B: 24, A: 255})

	if g.showField {
		g.fieldRenderer.Draw(g.camera)
	}
	renderer.DrawSource(&snap, g.camera, g.agentStyle)
	renderer.DrawAgents(&snap, g.camera, g.agentStyle)

	g.hud.Draw(ui.HUDData{
		Tick:           snap.Tick,
		SimTime:        snap.Time,
		StepsPerUpdate: g.stepsPerUpdate,
		FPS:            rl.GetFPS(),
		Paused:         g.paused,
		Agents:         len(snap.Agents),
		HasSource:      snap.HasSource,
		SourceX:        snap.Source.X,
		SourceY:        snap.Source.Y,
		Spread:         snap.Spread,
		Window:         g.lastWindow,
	})
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)
	g.perfPanel.Draw(g.perfCollector.Stats())

	g.applyControls(g.controls.Draw(ui.ControlsState{
		Paused:         g.paused,
		HasSource:      snap.HasSource,
		StepsPerUpdate: g.stepsPerUpdate,
		ShowField:      g.showField,
	}))

	rl.EndDrawing()
}

// applyControls applies the control panel actions for this frame.
func (g *Game) applyControls(act ui.ControlsAction) {
	if act.TogglePause {
		g.paused = !g.paused
	}
	if act.RemoveSource {
		g.RemoveSource()
	}
	if act.ResetCamera {
		g.camera.Reset()
	}
	if act.ToggleField {
		g.showField = !g.showField
	}
	g.stepsPerUpdate = act.StepsPerUpdate
}

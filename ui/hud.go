package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chemotaxis/telemetry"
)

// HUDData holds the values shown in the stats panel.
type HUDData struct {
	Tick           int32
	SimTime        float64
	StepsPerUpdate int
	FPS            int32
	Paused         bool

	Agents    int
	HasSource bool
	SourceX   float64
	SourceY   float64
	Spread    float64

	// Most recent telemetry window, zero until the first flush
	Window telemetry.WindowStats
}

// hudSections lays out the stats panel.
var hudSections = []SectionDescriptor{
	{
		ID:    "run",
		Title: "Simulation",
		Fields: []FieldDescriptor{
			{ID: "tick", Label: "Tick", Widget: WidgetText, TextGetter: func(d any) string {
				return fmt.Sprintf("%d", d.(HUDData).Tick)
			}},
			{ID: "time", Label: "Time", Widget: WidgetText, Format: "%.1f s", Getter: func(d any) float64 {
				return d.(HUDData).SimTime
			}},
			{ID: "speed", Label: "Speed", Widget: WidgetText, TextGetter: func(d any) string {
				return fmt.Sprintf("%dx", d.(HUDData).StepsPerUpdate)
			}},
			{ID: "agents", Label: "Agents", Widget: WidgetText, TextGetter: func(d any) string {
				return fmt.Sprintf("%d", d.(HUDData).Agents)
			}},
		},
	},
	{
		ID:    "source",
		Title: "Droplet",
		Fields: []FieldDescriptor{
			{ID: "none", Label: "Source", Widget: WidgetText,
				Visible:    func(d any) bool { return !d.(HUDData).HasSource },
				TextGetter: func(any) string { return "none (click to place)" }},
			{ID: "pos", Label: "Position", Widget: WidgetText,
				Visible: func(d any) bool { return d.(HUDData).HasSource },
				TextGetter: func(d any) string {
					h := d.(HUDData)
					return fmt.Sprintf("(%.1f, %.1f) um", h.SourceX*1e6, h.SourceY*1e6)
				}},
			{ID: "spread", Label: "Spread", Widget: WidgetText, Format: "%.1f um",
				Visible: func(d any) bool { return d.(HUDData).HasSource },
				Getter:  func(d any) float64 { return d.(HUDData).Spread * 1e6 }},
		},
	},
	{
		ID:      "window",
		Title:   "Last window",
		Visible: func(d any) bool { return d.(HUDData).Window.Decisions > 0 },
		Fields: []FieldDescriptor{
			{ID: "up", Label: "Up-gradient", Widget: WidgetBar, Getter: func(d any) float64 {
				return d.(HUDData).Window.UpGradientRate
			}},
			{ID: "run", Label: "Run", Widget: WidgetBar, Getter: func(d any) float64 {
				return d.(HUDData).Window.RunRate
			}},
			{ID: "tumble", Label: "Tumble", Widget: WidgetBar, Getter: func(d any) float64 {
				return d.(HUDData).Window.TumbleRate
			}},
			{ID: "conc", Label: "Mean conc", Widget: WidgetBar, Getter: func(d any) float64 {
				return d.(HUDData).Window.ConcMean
			}},
			{ID: "dist", Label: "Mean dist", Widget: WidgetText, Format: "%.1f um",
				Visible: func(d any) bool { return d.(HUDData).Window.HasSource },
				Getter:  func(d any) float64 { return d.(HUDData).Window.DistanceMean * 1e6 }},
		},
	},
}

// HUD renders the stats panel and the key legend.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a HUD anchored at (x, y).
func NewHUD(x, y, width int32) *HUD {
	return &HUD{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Draw renders the stats panel.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	pad := r.Theme.Padding

	height := pad*2 + r.Theme.LineHeight
	for _, sd := range hudSections {
		height += r.SectionHeight(sd, data)
	}
	r.DrawPanel(h.x, h.y, h.width, height)

	y := h.y + pad
	status, color := "Running", rl.Green
	if data.Paused {
		status, color = "PAUSED", rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("%s  %d fps", status, data.FPS), h.x+pad, y, 14, color)
	y += r.Theme.LineHeight

	for _, sd := range hudSections {
		y = r.DrawSection(h.x+pad, y, sd, data, h.width-pad*2)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-20, 12, rl.Gray)
}

// PerfPanel renders per-phase tick timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a perf panel at (x, y).
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the perf panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	y := p.y
	rl.DrawText(fmt.Sprintf("Tick %dus (%.0f/s)", stats.AvgTickDuration.Microseconds(), stats.TicksPerSecond),
		p.x, y, 12, rl.LightGray)
	y += 14
	for _, phase := range []string{telemetry.PhaseStep, telemetry.PhaseSnapshot, telemetry.PhaseTelemetry} {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-10s %5.1f%%", phase, pct), p.x, y, 12, color)
		y += 14
	}
}

// Package game runs a Simulation interactively or headless, feeding
// telemetry and the raylib front end.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/chemotaxis/camera"
	"github.com/pthm-cable/chemotaxis/config"
	"github.com/pthm-cable/chemotaxis/renderer"
	"github.com/pthm-cable/chemotaxis/sim"
	"github.com/pthm-cable/chemotaxis/telemetry"
	"github.com/pthm-cable/chemotaxis/ui"
)

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int

	// Config overrides the global config when set.
	Config *config.Config

	// StatsCallback, if set, receives every flushed telemetry window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the simulation and everything around it.
type Game struct {
	cfg *config.Config
	sim *sim.Simulation

	// State
	paused         bool
	stepsPerUpdate int
	showField      bool
	headless       bool

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	lastWindow    telemetry.WindowStats

	// Rendering (nil when headless)
	camera        *camera.Camera
	fieldRenderer *renderer.FieldRenderer
	agentStyle    renderer.AgentStyle
	hud           *ui.HUD
	controls      *ui.ControlsPanel
	perfPanel     *ui.PerfPanel
	screenWidth   float32
	screenHeight  float32
}

// NewGameWithOptions builds a game from opts.Config or the global config.
// In graphics mode the raylib window must already be open.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	s, err := sim.New(sim.ParamsFromConfig(cfg), rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:            cfg,
		sim:            s,
		stepsPerUpdate: steps,
		showField:      true,
		headless:       opts.Headless,
		collector:      telemetry.NewCollector(statsWindow, cfg.Physics.DT),
		perfCollector:  telemetry.NewPerfCollector(cfg.Derived.TicksPerStats),
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		s.Close()
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if cfg.Source.PlaceOnStart {
		g.PlaceSource(cfg.Derived.SourceX, cfg.Derived.SourceY)
	}

	if !opts.Headless {
		g.initGraphics()
	}

	slog.Info("simulation created",
		"seed", opts.Seed,
		"agents", cfg.Population.Agents,
		"size", cfg.World.Size,
		"dt", cfg.Physics.DT,
		"headless", opts.Headless,
	)
	return g, nil
}

func (g *Game) initGraphics() {
	g.screenWidth = g.cfg.Derived.ScreenW32
	g.screenHeight = g.cfg.Derived.ScreenH32

	g.camera = camera.New(g.screenWidth, g.screenHeight, g.cfg.World.Size)
	g.fieldRenderer = renderer.NewFieldRenderer(g.cfg.Field.GridSize)
	g.fieldRenderer.Init()
	g.agentStyle = renderer.DefaultAgentStyle()
	g.hud = ui.NewHUD(10, 10, 240)
	g.controls = ui.NewControlsPanel(g.screenWidth-270, 10, 260)
	g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-170, int32(g.screenHeight)-70)
}

// Update handles input and advances the simulation (graphics mode).
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// UpdateHeadless advances the simulation without input or drawing.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step runs one tick plus its telemetry.
func (g *Game) step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseStep)
	g.sim.Step()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordStep(g.sim.LastStepStats())
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// PlaceSource drops the attractant at domain coordinates (x, y).
func (g *Game) PlaceSource(x, y float64) {
	g.sim.PlaceSource(x, y)
	slog.Info("droplet placed", "x", x, "y", y, "tick", g.sim.Tick())
}

// RemoveSource clears the attractant.
func (g *Game) RemoveSource() {
	g.sim.RemoveSource()
	slog.Info("droplet removed", "tick", g.sim.Tick())
}

// Tick returns the number of completed simulation steps.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}

// Simulation exposes the underlying model.
func (g *Game) Simulation() *sim.Simulation {
	return g.sim
}

// Unload releases GPU resources, stops workers and closes output files.
func (g *Game) Unload() {
	if g.fieldRenderer != nil {
		g.fieldRenderer.Unload()
	}
	g.sim.Close()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

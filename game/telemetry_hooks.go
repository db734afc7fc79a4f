package game

import (
	"log/slog"

	"github.com/pthm-cable/chemotaxis/systems"
	"github.com/pthm-cable/chemotaxis/telemetry"
)

// flushTelemetry closes the stats window when it has elapsed.
func (g *Game) flushTelemetry() {
	tick := g.sim.Tick()
	if !g.collector.ShouldFlush(tick) {
		return
	}

	g.perfCollector.StartPhase(telemetry.PhaseSnapshot)
	sample := g.sampleField()
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)

	stats := g.collector.Flush(tick, sample)
	perfStats := g.perfCollector.Stats()
	g.lastWindow = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleField collects the population state for the window summary.
func (g *Game) sampleField() telemetry.FieldSample {
	snap := g.sim.Snapshot()

	sample := telemetry.FieldSample{
		Agents:         len(snap.Agents),
		Concentrations: snap.FieldAtAgents(),
		HasSource:      snap.HasSource,
		Spread:         snap.Spread,
	}
	if snap.HasSource {
		sample.SourceX = snap.Source.X
		sample.SourceY = snap.Source.Y
		sample.Distances = make([]float64, len(snap.Agents))
		for i, a := range snap.Agents {
			sample.Distances[i] = systems.ToroidalDistance(a.X, a.Y, snap.Source.X, snap.Source.Y, snap.Size)
		}
	}
	return sample
}

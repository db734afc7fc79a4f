package telemetry

import "github.com/pthm-cable/chemotaxis/systems"

// Collector accumulates motion decisions within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32
	decisions       systems.StepStats
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordStep adds the decisions of one simulation step.
func (c *Collector) RecordStep(s systems.StepStats) {
	c.decisions.Add(s)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// FieldSample is the population state sampled at the end of a window.
type FieldSample struct {
	Agents         int
	Concentrations []float64 // field at each agent's position
	Distances      []float64 // toroidal distance to the source, empty without one

	HasSource        bool
	SourceX, SourceY float64
	Spread           float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample FieldSample) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,
		Agents:          sample.Agents,
		HasSource:       sample.HasSource,
		SourceX:         sample.SourceX,
		SourceY:         sample.SourceY,
		Spread:          sample.Spread,
		Decisions:       c.decisions.Agents,
	}

	if n := c.decisions.Agents; n > 0 {
		stats.TumbleRate = float64(c.decisions.Tumbles) / float64(n)
		stats.UpGradientRate = float64(c.decisions.RunsUpGradient) / float64(n)
		stats.RunRate = float64(c.decisions.Runs) / float64(n)
	}

	conc := Summarize(sample.Concentrations)
	stats.ConcMean = conc.Mean
	stats.ConcStd = conc.Std
	stats.ConcP10 = conc.P10
	stats.ConcP50 = conc.P50
	stats.ConcP90 = conc.P90
	stats.ConcMax = conc.Max

	if sample.HasSource {
		dist := Summarize(sample.Distances)
		stats.DistanceMean = dist.Mean
		stats.DistanceP50 = dist.P50
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.decisions = systems.StepStats{}

	return stats
}

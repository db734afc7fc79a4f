package telemetry

import (
	"testing"

	"github.com/pthm-cable/chemotaxis/systems"
)

func TestCollectorWindowing(t *testing.T) {
	// 1s windows at dt=0.2 flush every 5 ticks
	c := NewCollector(1.0, 0.2)

	for tick := int32(1); tick < 5; tick++ {
		if c.ShouldFlush(tick) {
			t.Fatalf("flush requested early at tick %d", tick)
		}
	}
	if !c.ShouldFlush(5) {
		t.Fatal("expected flush at tick 5")
	}

	c.Flush(5, FieldSample{})
	if c.ShouldFlush(9) {
		t.Error("flush requested before second window elapsed")
	}
	if !c.ShouldFlush(10) {
		t.Error("expected flush at tick 10")
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0.01, 1)
	if !c.ShouldFlush(1) {
		t.Error("window shorter than a tick should flush every tick")
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.5)
	c.RecordStep(systems.StepStats{Agents: 10, RunsUpGradient: 6, Runs: 2, Tumbles: 2})
	c.RecordStep(systems.StepStats{Agents: 10, RunsUpGradient: 2, Runs: 4, Tumbles: 4})

	stats := c.Flush(2, FieldSample{
		Agents:         3,
		Concentrations: []float64{0.2, 0.4, 0.9},
		Distances:      []float64{1, 2, 3},
		HasSource:      true,
		SourceX:        10,
		SourceY:        20,
		Spread:         5,
	})

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 2 {
		t.Errorf("window = [%d, %d], want [0, 2]", stats.WindowStartTick, stats.WindowEndTick)
	}
	if stats.SimTimeSec != 1.0 {
		t.Errorf("SimTimeSec = %v, want 1", stats.SimTimeSec)
	}
	if stats.Decisions != 20 {
		t.Errorf("Decisions = %d, want 20", stats.Decisions)
	}
	if stats.UpGradientRate != 0.4 || stats.RunRate != 0.3 || stats.TumbleRate != 0.3 {
		t.Errorf("rates = %v/%v/%v, want 0.4/0.3/0.3",
			stats.UpGradientRate, stats.RunRate, stats.TumbleRate)
	}
	if stats.ConcMax != 0.9 {
		t.Errorf("ConcMax = %v, want 0.9", stats.ConcMax)
	}
	if stats.DistanceMean != 2 {
		t.Errorf("DistanceMean = %v, want 2", stats.DistanceMean)
	}

	// Counters reset for the next window
	next := c.Flush(4, FieldSample{})
	if next.Decisions != 0 || next.TumbleRate != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if next.WindowStartTick != 2 {
		t.Errorf("next window starts at %d, want 2", next.WindowStartTick)
	}
}

func TestCollectorFlushWithoutSource(t *testing.T) {
	c := NewCollector(1.0, 1.0)
	stats := c.Flush(1, FieldSample{
		Agents:         2,
		Concentrations: []float64{0, 0},
		Distances:      []float64{7, 9},
	})
	if stats.HasSource {
		t.Error("HasSource = true")
	}
	if stats.DistanceMean != 0 || stats.DistanceP50 != 0 {
		t.Errorf("distance stats without source = %v/%v, want 0", stats.DistanceMean, stats.DistanceP50)
	}
}

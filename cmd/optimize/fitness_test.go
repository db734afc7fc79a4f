package main

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/pthm-cable/chemotaxis/config"
)

func TestRunSimulationLogsConstructionError(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Agent.Speed = 0

	params := NewParamVector()
	fe := NewFitnessEvaluator(params, 10, []int64{7}, cfg)

	if windows := fe.runSimulation(params.DefaultVector(), 7); windows != nil {
		t.Errorf("runSimulation returned %d windows for an invalid config", len(windows))
	}
	out := buf.String()
	if !strings.Contains(out, "failed to create game") || !strings.Contains(out, `"seed":7`) {
		t.Errorf("construction error not logged with seed: %q", out)
	}

	if f := fe.Evaluate(params.DefaultVector()); !math.IsInf(f, 1) {
		t.Errorf("Evaluate = %v, want +Inf", f)
	}
}

package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Agents int `csv:"agents"`

	// Droplet at window end
	HasSource bool    `csv:"has_source"`
	SourceX   float64 `csv:"source_x"`
	SourceY   float64 `csv:"source_y"`
	Spread    float64 `csv:"spread"`

	// Motion decisions during window
	Decisions      int     `csv:"decisions"`
	TumbleRate     float64 `csv:"tumble_rate"`
	UpGradientRate float64 `csv:"up_gradient_rate"` // kept by the improved check
	RunRate        float64 `csv:"run_rate"`         // kept by the fallback check

	// Concentration at agent positions (sampled at window end)
	ConcMean float64 `csv:"conc_mean"`
	ConcStd  float64 `csv:"conc_std"`
	ConcP10  float64 `csv:"conc_p10"`
	ConcP50  float64 `csv:"conc_p50"`
	ConcP90  float64 `csv:"conc_p90"`
	ConcMax  float64 `csv:"conc_max"`

	// Toroidal distance to the droplet (0 without a source)
	DistanceMean float64 `csv:"distance_mean"`
	DistanceP50  float64 `csv:"distance_p50"`
}

// Distribution summarises a sample of values.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// Summarize computes mean, sample standard deviation, percentiles and max.
// Returns the zero Distribution for an empty slice. values is not modified.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var d Distribution
	if n > 1 {
		d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	} else {
		d.Mean = sorted[0]
	}
	d.P10 = stat.Quantile(0.10, stat.LinInterp, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.LinInterp, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.LinInterp, sorted, nil)
	d.Max = floats.Max(sorted)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("agents", s.Agents),
		slog.Bool("has_source", s.HasSource),
		slog.Float64("tumble_rate", s.TumbleRate),
		slog.Float64("up_gradient_rate", s.UpGradientRate),
		slog.Float64("run_rate", s.RunRate),
		slog.Float64("conc_mean", s.ConcMean),
		slog.Float64("conc_p50", s.ConcP50),
		slog.Float64("conc_p90", s.ConcP90),
		slog.Float64("distance_mean", s.DistanceMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"agents", s.Agents,
		"has_source", s.HasSource,
		"spread", s.Spread,
		"decisions", s.Decisions,
		"tumble_rate", s.TumbleRate,
		"up_gradient_rate", s.UpGradientRate,
		"run_rate", s.RunRate,
		"conc_mean", s.ConcMean,
		"conc_std", s.ConcStd,
		"conc_p10", s.ConcP10,
		"conc_p50", s.ConcP50,
		"conc_p90", s.ConcP90,
		"conc_max", s.ConcMax,
		"distance_mean", s.DistanceMean,
		"distance_p50", s.DistanceP50,
	)
}

package telemetry

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Distribution
	}{
		{"empty", nil, Distribution{}},
		{"single", []float64{4}, Distribution{Mean: 4, P10: 4, P50: 4, P90: 4, Max: 4}},
		{"constant", []float64{2, 2, 2, 2}, Distribution{Mean: 2, P10: 2, P50: 2, P90: 2, Max: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.values)
			pairs := [][2]float64{
				{got.Mean, tt.want.Mean}, {got.Std, tt.want.Std},
				{got.P10, tt.want.P10}, {got.P50, tt.want.P50},
				{got.P90, tt.want.P90}, {got.Max, tt.want.Max},
			}
			for _, p := range pairs {
				if math.Abs(p[0]-p[1]) > 1e-12 {
					t.Errorf("Summarize(%v) = %+v, want %+v", tt.values, got, tt.want)
					break
				}
			}
		})
	}
}

func TestSummarizeSpread(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}
	d := Summarize(values)

	if d.Mean != 3 {
		t.Errorf("Mean = %v, want 3", d.Mean)
	}
	// Sample standard deviation of 1..5
	if math.Abs(d.Std-math.Sqrt(2.5)) > 1e-12 {
		t.Errorf("Std = %v, want %v", d.Std, math.Sqrt(2.5))
	}
	if d.Max != 5 {
		t.Errorf("Max = %v, want 5", d.Max)
	}
	if !(d.P10 <= d.P50 && d.P50 <= d.P90) {
		t.Errorf("percentiles out of order: %v %v %v", d.P10, d.P50, d.P90)
	}
	if d.P10 < 1 || d.P90 > 5 {
		t.Errorf("percentiles outside sample range: %v %v", d.P10, d.P90)
	}
	// Input must not be reordered
	if values[0] != 5 || values[4] != 3 {
		t.Errorf("input modified: %v", values)
	}
}

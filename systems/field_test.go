package systems

import (
	"math"
	"testing"
)

func TestFieldNoSource(t *testing.T) {
	f := NewConcentrationField(100, 5)

	points := []Point{{0, 0}, {50, 50}, {99.9, 0.1}, {-20, 300}}
	for _, p := range points {
		if c := f.ConcentrationAt(p.X, p.Y); c != 0 {
			t.Errorf("ConcentrationAt(%v, %v) = %v without source, want 0", p.X, p.Y, c)
		}
	}
	if _, ok := f.Source(); ok {
		t.Error("expected no source on a new field")
	}
}

func TestFieldPeakAndRange(t *testing.T) {
	f := NewConcentrationField(100, 5)
	f.PlaceSource(30, 70)

	if c := f.ConcentrationAt(30, 70); c != 1 {
		t.Errorf("concentration at source = %v, want exactly 1", c)
	}

	for x := -50.0; x <= 150; x += 7.5 {
		for y := -50.0; y <= 150; y += 7.5 {
			c := f.ConcentrationAt(x, y)
			if c < 0 || c > 1 {
				t.Fatalf("ConcentrationAt(%v, %v) = %v, outside [0,1]", x, y, c)
			}
		}
	}
}

func TestFieldGaussian(t *testing.T) {
	f := NewConcentrationField(100, 5)
	f.PlaceSource(50, 50)

	// One spread away: exp(-1/2)
	got := f.ConcentrationAt(55, 50)
	want := math.Exp(-0.5)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("ConcentrationAt one spread away = %v, want %v", got, want)
	}

	// Monotone decay with distance, in any direction
	prev := 1.0
	for d := 0.5; d < 40; d += 0.5 {
		c := f.ConcentrationAt(50-d*0.6, 50+d*0.8)
		if c > prev {
			t.Fatalf("concentration increased with distance at d=%v: %v > %v", d, c, prev)
		}
		prev = c
	}
}

func TestFieldPlaceOverwrites(t *testing.T) {
	f := NewConcentrationField(100, 5)
	f.PlaceSource(10, 10)
	f.PlaceSource(80, 20)

	src, ok := f.Source()
	if !ok || src.X != 80 || src.Y != 20 {
		t.Errorf("Source() = %v, %v; want (80, 20), true", src, ok)
	}
	if c := f.ConcentrationAt(80, 20); c != 1 {
		t.Errorf("peak should move with the source, got %v", c)
	}
}

func TestFieldRemoveIdempotent(t *testing.T) {
	f := NewConcentrationField(100, 5)
	f.PlaceSource(50, 50)

	f.RemoveSource()
	once := f.ConcentrationAt(50, 50)
	_, okOnce := f.Source()

	f.RemoveSource()
	twice := f.ConcentrationAt(50, 50)
	_, okTwice := f.Source()

	if once != 0 || twice != 0 || okOnce || okTwice {
		t.Errorf("remove not idempotent: once=(%v,%v) twice=(%v,%v)", once, okOnce, twice, okTwice)
	}
}

func TestFieldEvaporation(t *testing.T) {
	f := NewConcentrationField(100, 8)
	f.SetEvaporation(0.5, 1)
	f.PlaceSource(50, 50)

	near := f.ConcentrationAt(54, 50)
	if f.Evaporate() {
		t.Fatal("droplet should not evaporate after one halving")
	}
	if f.Spread() != 4 {
		t.Errorf("spread = %v, want 4", f.Spread())
	}
	if c := f.ConcentrationAt(54, 50); c >= near {
		t.Errorf("shrinking droplet should read lower off-center: %v >= %v", c, near)
	}

	// 4 -> 2 -> 1 reaches min spread
	f.Evaporate()
	if !f.Evaporate() {
		t.Fatal("droplet should evaporate once spread reaches min_spread")
	}
	if _, ok := f.Source(); ok {
		t.Error("evaporated droplet should leave no source")
	}
	if c := f.ConcentrationAt(50, 50); c != 0 {
		t.Errorf("evaporated field = %v, want 0", c)
	}

	// Placement restores the configured spread
	f.PlaceSource(20, 20)
	if f.Spread() != 8 {
		t.Errorf("spread after placement = %v, want 8", f.Spread())
	}
}

func TestFieldEvaporationWithoutFloor(t *testing.T) {
	for _, minSpread := range []float64{0, -1} {
		f := NewConcentrationField(100, 8)
		f.SetEvaporation(0.5, minSpread)
		f.PlaceSource(50, 50)

		evaporated := false
		for i := 0; i < 2000 && !evaporated; i++ {
			evaporated = f.Evaporate()
			c := f.ConcentrationAt(50, 50)
			if math.IsNaN(c) || c < 0 || c > 1 {
				t.Fatalf("min spread %v, step %d: concentration %v outside [0, 1]", minSpread, i, c)
			}
		}
		if !evaporated {
			t.Errorf("min spread %v: droplet never evaporated", minSpread)
		}
		if _, ok := f.Source(); ok {
			t.Errorf("min spread %v: source still present", minSpread)
		}
	}
}

func TestFieldEvaporationDisabled(t *testing.T) {
	f := NewConcentrationField(100, 5)
	f.PlaceSource(50, 50)
	for i := 0; i < 1000; i++ {
		f.Evaporate()
	}
	if f.Spread() != 5 {
		t.Errorf("spread changed without decay: %v", f.Spread())
	}
}

func TestFieldSample(t *testing.T) {
	f := NewConcentrationField(100, 5)

	grid := f.Sample(10, nil)
	if len(grid) != 100 {
		t.Fatalf("len(grid) = %d, want 100", len(grid))
	}
	for i, v := range grid {
		if v != 0 {
			t.Fatalf("grid[%d] = %v without source, want 0", i, v)
		}
	}

	f.PlaceSource(30, 70)
	grid = f.Sample(10, grid)
	// Column 3, row 7 sits on the source
	if grid[7*10+3] != 1 {
		t.Errorf("grid at source cell = %v, want 1", grid[7*10+3])
	}
	if grid[3*10+7] >= grid[7*10+3] {
		t.Errorf("transposed cell should be lower: %v", grid[3*10+7])
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"inside", 42, 42},
		{"zero", 0, 0},
		{"exactly size", 100, 0},
		{"past size", 101.5, 1.5},
		{"negative", -1, 99},
		{"far negative", -250, 50},
		{"tiny negative rounds to size", -1e-18, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.v, 100)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Wrap(%v, 100) = %v, want %v", tt.v, got, tt.want)
			}
			if got < 0 || got >= 100 {
				t.Errorf("Wrap(%v, 100) = %v, outside [0, 100)", tt.v, got)
			}
		})
	}
}

func TestToroidalDistance(t *testing.T) {
	if d := ToroidalDistance(1, 50, 99, 50, 100); math.Abs(d-2) > 1e-9 {
		t.Errorf("distance across the seam = %v, want 2", d)
	}
	if d := ToroidalDistance(10, 10, 13, 14, 100); math.Abs(d-5) > 1e-9 {
		t.Errorf("distance = %v, want 5", d)
	}
}

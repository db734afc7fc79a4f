package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/chemotaxis/components"
)

// seqRand replays a fixed sequence of draws, cycling when exhausted.
type seqRand struct {
	vals  []float64
	i     int
	calls int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	r.calls++
	return v
}

func TestDecideOrder(t *testing.T) {
	p := DefaultMotionParams()

	tests := []struct {
		name      string
		improved  bool
		draws     []float64
		want      Decision
		wantCalls int
	}{
		{"improved kept by first check", true, []float64{0.1}, DecisionRunUpGradient, 1},
		{"improved falls through and keeps", true, []float64{0.95, 0.2}, DecisionRun, 2},
		{"improved falls through and tumbles", true, []float64{0.95, 0.7}, DecisionTumble, 2},
		{"not improved keeps", false, []float64{0.49}, DecisionRun, 1},
		{"not improved tumbles", false, []float64{0.5}, DecisionTumble, 1},
		// A draw that would pass the improved check must not be used when flat
		{"flat ignores first-check threshold", false, []float64{0.6}, DecisionTumble, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := &seqRand{vals: tt.draws}
			got := Decide(tt.improved, rng, p)
			if got != tt.want {
				t.Errorf("Decide = %v, want %v", got, tt.want)
			}
			if rng.calls != tt.wantCalls {
				t.Errorf("draws consumed = %d, want %d", rng.calls, tt.wantCalls)
			}
		})
	}
}

func TestDecidePersistenceRates(t *testing.T) {
	const n = 20000
	p := DefaultMotionParams()
	rng := rand.New(rand.NewSource(7))

	var up, keptImproved int
	for i := 0; i < n; i++ {
		d := Decide(true, rng, p)
		if d == DecisionRunUpGradient {
			up++
		}
		if d.KeepsHeading() {
			keptImproved++
		}
	}

	// The improved check alone keeps ~90% of the time
	if rate := float64(up) / n; math.Abs(rate-0.9) > 0.01 {
		t.Errorf("up-gradient keep rate = %.4f, want ~0.9", rate)
	}
	// Short-circuit fallthrough adds 0.1*0.5
	if rate := float64(keptImproved) / n; math.Abs(rate-0.95) > 0.01 {
		t.Errorf("overall keep rate when improving = %.4f, want ~0.95", rate)
	}

	var keptFlat int
	for i := 0; i < n; i++ {
		if Decide(false, rng, p).KeepsHeading() {
			keptFlat++
		}
	}
	if rate := float64(keptFlat) / n; math.Abs(rate-0.5) > 0.02 {
		t.Errorf("keep rate when not improving = %.4f, want ~0.5", rate)
	}
}

func TestRandomHeadingSpeed(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		vx, vy := RandomHeading(rng, 3)
		if s := math.Hypot(vx, vy); math.Abs(s-3) > 1e-9 {
			t.Fatalf("heading magnitude = %v, want 3", s)
		}
	}
}

func TestAdvanceKeepHeadingScenario(t *testing.T) {
	field := NewConcentrationField(100, 5)
	field.PlaceSource(50, 50)

	pos := components.Position{X: 50, Y: 50}
	vel := components.Velocity{X: 1, Y: 0}
	mot := components.Motility{Speed: 1, LastConcentration: 0, Rand: &seqRand{vals: []float64{0}}}

	d := Advance(&pos, &vel, &mot, field, 1, DefaultMotionParams())

	if !d.KeepsHeading() {
		t.Fatalf("decision = %v, want a run", d)
	}
	if pos.X != 51 || pos.Y != 50 {
		t.Errorf("position = (%v, %v), want (51, 50)", pos.X, pos.Y)
	}
	if vel.X != 1 || vel.Y != 0 {
		t.Errorf("heading changed to (%v, %v)", vel.X, vel.Y)
	}
	// Pre-move sample, not the concentration at (51, 50)
	if mot.LastConcentration != 1.0 {
		t.Errorf("stored concentration = %v, want 1.0", mot.LastConcentration)
	}
}

func TestAdvanceTumbleKeepsSpeed(t *testing.T) {
	field := NewConcentrationField(100, 5)
	pos := components.Position{X: 10, Y: 10}
	vel := components.Velocity{X: 2, Y: 0}
	// 0.9 fails the fallback check, 0.25 is the new angle (π/2)
	mot := components.Motility{Speed: 2, Rand: &seqRand{vals: []float64{0.9, 0.25}}}

	d := Advance(&pos, &vel, &mot, field, 1, DefaultMotionParams())
	if d != DecisionTumble {
		t.Fatalf("decision = %v, want tumble", d)
	}
	if math.Abs(vel.X) > 1e-12 || math.Abs(vel.Y-2) > 1e-12 {
		t.Errorf("heading = (%v, %v), want (0, 2)", vel.X, vel.Y)
	}
	if math.Abs(pos.X-10) > 1e-12 || math.Abs(pos.Y-12) > 1e-12 {
		t.Errorf("position = (%v, %v), want (10, 12)", pos.X, pos.Y)
	}
}

func TestAdvanceWrapsAtBoundary(t *testing.T) {
	field := NewConcentrationField(100, 5)
	keep := &seqRand{vals: []float64{0}}

	tests := []struct {
		name   string
		x, y   float64
		vx, vy float64
		dt     float64
	}{
		{"exits right edge exactly", 99, 50, 1, 0, 1},
		{"exits left edge", 0, 50, -1, 0, 1},
		{"exits bottom corner", 99.5, 99.5, 0.5, 0.5, 1},
		{"starts on zero moving negative", 0, 0, -1e-12, -1e-12, 1},
		{"long jump", 50, 50, 730, -410, 1},
		{"starts just below size", math.Nextafter(100, 0), 0, 1e-20, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := components.Position{X: tt.x, Y: tt.y}
			vel := components.Velocity{X: tt.vx, Y: tt.vy}
			mot := components.Motility{Speed: math.Hypot(tt.vx, tt.vy), Rand: keep}
			Advance(&pos, &vel, &mot, field, tt.dt, DefaultMotionParams())
			if pos.X < 0 || pos.X >= 100 || pos.Y < 0 || pos.Y >= 100 {
				t.Errorf("position (%v, %v) outside [0,100)^2", pos.X, pos.Y)
			}
		})
	}
}

func newTestWorld(t *testing.T, n int, seed int64) *ecs.World {
	t.Helper()
	w := ecs.NewWorld()
	mapper := ecs.NewMap3[components.Position, components.Velocity, components.Motility](w)
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		pos := components.Position{X: rng.Float64() * 100, Y: rng.Float64() * 100}
		var vel components.Velocity
		vel.X, vel.Y = RandomHeading(rng, 1)
		mot := components.Motility{
			ID:    uint32(i),
			Speed: 1,
			Rand:  rand.New(rand.NewSource(rng.Int63())),
		}
		mapper.NewEntity(&pos, &vel, &mot)
	}
	return w
}

func TestChemotaxisSystemNoSource(t *testing.T) {
	w := newTestWorld(t, 200, 3)
	sys := NewChemotaxisSystem(w, DefaultMotionParams())
	field := NewConcentrationField(100, 5)
	filter := ecs.NewFilter1[components.Motility](w)

	var total StepStats
	for tick := 0; tick < 50; tick++ {
		stats := sys.Update(field, 0.5)
		if stats.Agents != 200 {
			t.Fatalf("tick %d updated %d agents, want 200", tick, stats.Agents)
		}
		if stats.RunsUpGradient != 0 {
			t.Fatalf("tick %d: up-gradient runs without a source", tick)
		}
		total.Add(stats)

		query := filter.Query()
		for query.Next() {
			mot := query.Get()
			if mot.LastConcentration != 0 {
				t.Fatalf("stored concentration %v without a source", mot.LastConcentration)
			}
		}
	}

	rate := float64(total.Tumbles) / float64(total.Agents)
	if math.Abs(rate-0.5) > 0.03 {
		t.Errorf("tumble rate without source = %.4f, want ~0.5", rate)
	}
}

func TestChemotaxisSystemKeepsAgentsInDomain(t *testing.T) {
	w := newTestWorld(t, 100, 11)
	sys := NewChemotaxisSystem(w, DefaultMotionParams())
	field := NewConcentrationField(100, 10)
	field.PlaceSource(0, 0)
	filter := ecs.NewFilter1[components.Position](w)

	for tick := 0; tick < 200; tick++ {
		sys.Update(field, 3.7)
		query := filter.Query()
		for query.Next() {
			pos := query.Get()
			if pos.X < 0 || pos.X >= 100 || pos.Y < 0 || pos.Y >= 100 {
				t.Fatalf("tick %d: position (%v, %v) outside domain", tick, pos.X, pos.Y)
			}
		}
	}
}

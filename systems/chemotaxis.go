package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/chemotaxis/components"
)

// Persistence probabilities of the run-and-tumble rule.
const (
	ProbabilityStraightIncrease = 0.9
	ProbabilityStraightDecrease = 0.5
)

// MotionParams holds the keep-heading probabilities.
type MotionParams struct {
	PIncrease float64 // first check, only when concentration improved
	PDecrease float64 // fallback check
}

// DefaultMotionParams returns the classic 0.9 / 0.5 persistence.
func DefaultMotionParams() MotionParams {
	return MotionParams{
		PIncrease: ProbabilityStraightIncrease,
		PDecrease: ProbabilityStraightDecrease,
	}
}

// Decision is the outcome of one keep-heading check.
type Decision uint8

const (
	DecisionTumble        Decision = iota // new random heading
	DecisionRunUpGradient                 // kept by the improved-concentration check
	DecisionRun                           // kept by the fallback check
)

// KeepsHeading reports whether the agent continues straight.
func (d Decision) KeepsHeading() bool {
	return d != DecisionTumble
}

func (d Decision) String() string {
	switch d {
	case DecisionRunUpGradient:
		return "run_up_gradient"
	case DecisionRun:
		return "run"
	default:
		return "tumble"
	}
}

// Decide evaluates the keep-heading rule.
// The improved check draws first and short-circuits; only when it did not
// keep the heading is the fallback drawn. This is not two independent trials:
// an improving agent keeps its heading with PIncrease + (1-PIncrease)*PDecrease.
func Decide(improved bool, rng components.Rand, p MotionParams) Decision {
	if improved && rng.Float64() < p.PIncrease {
		return DecisionRunUpGradient
	}
	if rng.Float64() < p.PDecrease {
		return DecisionRun
	}
	return DecisionTumble
}

// RandomHeading draws a direction uniformly in [0, 2π) scaled by speed.
func RandomHeading(rng components.Rand, speed float64) (vx, vy float64) {
	alpha := rng.Float64() * 2 * math.Pi
	return math.Cos(alpha) * speed, math.Sin(alpha) * speed
}

// FieldSampler is the read-only view of the field that agents sense.
type FieldSampler interface {
	ConcentrationAt(x, y float64) float64
	Size() float64
}

// Advance applies one tick of run-and-tumble motion to a single agent.
// The stored concentration becomes the sample taken before moving.
func Advance(pos *components.Position, vel *components.Velocity, mot *components.Motility, field FieldSampler, dt float64, p MotionParams) Decision {
	current := field.ConcentrationAt(pos.X, pos.Y)

	d := Decide(current > mot.LastConcentration, mot.Rand, p)
	if d == DecisionTumble {
		vel.X, vel.Y = RandomHeading(mot.Rand, mot.Speed)
	}

	size := field.Size()
	pos.X = Wrap(pos.X+vel.X*dt, size)
	pos.Y = Wrap(pos.Y+vel.Y*dt, size)

	mot.LastConcentration = current
	return d
}

// StepStats counts motion decisions over one or more ticks.
type StepStats struct {
	Agents         int
	RunsUpGradient int
	Runs           int
	Tumbles        int
}

// Record adds one decision.
func (s *StepStats) Record(d Decision) {
	s.Agents++
	switch d {
	case DecisionRunUpGradient:
		s.RunsUpGradient++
	case DecisionRun:
		s.Runs++
	default:
		s.Tumbles++
	}
}

// Add merges another tally into s.
func (s *StepStats) Add(o StepStats) {
	s.Agents += o.Agents
	s.RunsUpGradient += o.RunsUpGradient
	s.Runs += o.Runs
	s.Tumbles += o.Tumbles
}

// ChemotaxisSystem advances every agent entity by one tick.
type ChemotaxisSystem struct {
	filter *ecs.Filter3[components.Position, components.Velocity, components.Motility]
	params MotionParams
}

// NewChemotaxisSystem creates a new chemotaxis system.
func NewChemotaxisSystem(w *ecs.World, p MotionParams) *ChemotaxisSystem {
	return &ChemotaxisSystem{
		filter: ecs.NewFilter3[components.Position, components.Velocity, components.Motility](w),
		params: p,
	}
}

// Params returns the motion parameters in use.
func (s *ChemotaxisSystem) Params() MotionParams {
	return s.params
}

// Update runs the chemotaxis system.
// The field must not change while Update runs.
func (s *ChemotaxisSystem) Update(field FieldSampler, dt float64) StepStats {
	var stats StepStats
	query := s.filter.Query()
	for query.Next() {
		pos, vel, mot := query.Get()
		stats.Record(Advance(pos, vel, mot, field, dt, s.params))
	}
	return stats
}

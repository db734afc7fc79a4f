// Package sim owns the chemotaxis model: the attractant field and the
// population of run-and-tumble agents, advanced one fixed tick at a time.
package sim

import (
	"log/slog"
	"math"
	"math/rand"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/chemotaxis/components"
	"github.com/pthm-cable/chemotaxis/systems"
)

// Simulation holds the field and the agents.
// All methods are safe to call from multiple goroutines; source commands are
// applied between steps, never during one. Close waits for a running Step.
type Simulation struct {
	mu     sync.Mutex
	params Params
	rng    *rand.Rand

	world      *ecs.World
	agentMap   *ecs.Map3[components.Position, components.Velocity, components.Motility]
	agents     *ecs.Filter3[components.Position, components.Velocity, components.Motility]
	chemotaxis *systems.ChemotaxisSystem
	field      *systems.ConcentrationField
	parallel   *parallelState

	agentCount int
	nextID     uint32
	tick       int32
	elapsed    float64
	lastStats  systems.StepStats
}

// New validates p and creates a simulation with no source and p.AgentCount
// agents at random positions with random headings, all drawn from rng.
// A nil rng uses a fixed seed.
func New(p Params, rng *rand.Rand) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	world := ecs.NewWorld()
	s := &Simulation{
		params:     p,
		rng:        rng,
		world:      world,
		agentMap:   ecs.NewMap3[components.Position, components.Velocity, components.Motility](world),
		agents:     ecs.NewFilter3[components.Position, components.Velocity, components.Motility](world),
		chemotaxis: systems.NewChemotaxisSystem(world, p.Motion),
		field:      systems.NewConcentrationField(p.DomainSize, p.Spread),
		parallel:   newParallelState(),
	}
	if p.Decay < 1 {
		s.field.SetEvaporation(p.Decay, p.MinSpread)
	}

	s.spawnInitialPopulation()

	return s, nil
}

// spawnInitialPopulation creates the starting agents.
func (s *Simulation) spawnInitialPopulation() {
	for i := 0; i < s.params.AgentCount; i++ {
		x := s.rng.Float64() * s.params.DomainSize
		y := s.rng.Float64() * s.params.DomainSize
		vx, vy := systems.RandomHeading(s.rng, s.params.Speed)
		s.spawnAgent(x, y, vx, vy)
	}
}

// spawnAgent creates one agent entity. The caller holds mu or is New.
func (s *Simulation) spawnAgent(x, y, vx, vy float64) ecs.Entity {
	size := s.params.DomainSize
	pos := components.Position{X: systems.Wrap(x, size), Y: systems.Wrap(y, size)}
	vel := components.Velocity{X: vx, Y: vy}
	mot := components.Motility{
		ID:                s.nextID,
		Speed:             s.params.Speed,
		LastConcentration: s.field.ConcentrationAt(pos.X, pos.Y),
		Rand:              s.params.agentRand(s.rng.Int63()),
	}
	s.nextID++
	s.agentCount++
	return s.agentMap.NewEntity(&pos, &vel, &mot)
}

// SpawnAgent adds an agent with an explicit position and heading vector.
// The heading is used as given; its speed for future tumbles is Params.Speed.
func (s *Simulation) SpawnAgent(x, y, vx, vy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spawnAgent(x, y, vx, vy)
}

// Step advances every agent by one tick, then the droplet and the clock.
// Agents all sense the field as it stood when Step began.
func (s *Simulation) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats systems.StepStats
	if t := s.params.ParallelThreshold; t > 0 && s.agentCount >= t {
		stats = s.stepParallel()
	} else {
		stats = s.chemotaxis.Update(s.field, s.params.DT)
	}

	if s.field.Evaporate() {
		slog.Info("droplet evaporated", "tick", s.tick, "sim_time", s.elapsed)
	}

	s.lastStats = stats
	s.elapsed += s.params.DT
	s.tick++
}

// PlaceSource puts the droplet at domain coordinates (x, y), replacing any
// previous one. Agents first sense it on the next Step.
func (s *Simulation) PlaceSource(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.field.PlaceSource(x, y)
	slog.Debug("source placed", "x", x, "y", y, "tick", s.tick)
}

// RemoveSource clears the droplet. Idempotent.
func (s *Simulation) RemoveSource() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.field.RemoveSource()
	slog.Debug("source removed", "tick", s.tick)
}

// ConcentrationAt samples the current field.
func (s *Simulation) ConcentrationAt(x, y float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.field.ConcentrationAt(x, y)
}

// Snapshot returns a read-only copy of the current state.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Tick:   s.tick,
		Time:   s.elapsed,
		Size:   s.params.DomainSize,
		Spread: s.field.Spread(),
		Field:  s.field.Clone(),
		Agents: make([]AgentState, 0, s.agentCount),
	}
	snap.Source, snap.HasSource = s.field.Source()

	query := s.agents.Query()
	for query.Next() {
		pos, vel, mot := query.Get()
		snap.Agents = append(snap.Agents, AgentState{
			ID:            mot.ID,
			X:             pos.X,
			Y:             pos.Y,
			VX:            vel.X,
			VY:            vel.Y,
			Concentration: mot.LastConcentration,
		})
	}
	return snap
}

// LastStepStats returns the decision counts of the most recent Step.
func (s *Simulation) LastStepStats() systems.StepStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStats
}

// Params returns the construction parameters.
func (s *Simulation) Params() Params {
	return s.params
}

// AgentCount returns the population size.
func (s *Simulation) AgentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agentCount
}

// Tick returns the number of completed steps.
func (s *Simulation) Tick() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// ElapsedTime returns simulated seconds.
func (s *Simulation) ElapsedTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Close stops the worker pool, waiting for a running Step. A later Step
// starts the pool again.
func (s *Simulation) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parallel.stopWorkers()
}

// MeanDistanceToSource returns the mean toroidal distance from the agents in
// snap to its source, or NaN without a source.
func MeanDistanceToSource(snap Snapshot) float64 {
	if !snap.HasSource || len(snap.Agents) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, a := range snap.Agents {
		sum += systems.ToroidalDistance(a.X, a.Y, snap.Source.X, snap.Source.Y, snap.Size)
	}
	return sum / float64(len(snap.Agents))
}

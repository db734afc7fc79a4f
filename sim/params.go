package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/pthm-cable/chemotaxis/components"
	"github.com/pthm-cable/chemotaxis/config"
	"github.com/pthm-cable/chemotaxis/systems"
)

// ErrInvalidConfiguration is returned by New for degenerate parameters.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Params holds the construction parameters of a Simulation.
type Params struct {
	AgentCount int
	DomainSize float64
	Speed      float64
	Spread     float64
	DT         float64
	Motion     systems.MotionParams

	// Droplet evaporation: Decay in (0, 1], 1 disables it.
	// MinSpread must be positive when Decay < 1.
	Decay     float64
	MinSpread float64

	// Agent count at or above which Step uses the worker pool (0 = never).
	ParallelThreshold int

	// AgentRand builds an agent's private random stream from a seed drawn
	// from the simulation generator. Nil uses math/rand.
	AgentRand func(seed int64) components.Rand
}

// DefaultParams returns the parameters of the droplet experiment.
func DefaultParams() Params {
	return Params{
		AgentCount:        100,
		DomainSize:        100e-6,
		Speed:             3e-6,
		Spread:            2e-5,
		DT:                0.2,
		Motion:            systems.DefaultMotionParams(),
		Decay:             1,
		ParallelThreshold: 64,
	}
}

// ParamsFromConfig maps the loaded configuration onto simulation parameters.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		AgentCount: cfg.Population.Agents,
		DomainSize: cfg.World.Size,
		Speed:      cfg.Agent.Speed,
		Spread:     cfg.Field.Spread,
		DT:         cfg.Physics.DT,
		Motion: systems.MotionParams{
			PIncrease: cfg.Motion.PIncrease,
			PDecrease: cfg.Motion.PDecrease,
		},
		Decay:             cfg.Field.Decay,
		MinSpread:         cfg.Field.MinSpread,
		ParallelThreshold: cfg.Parallel.Threshold,
	}
}

// Validate rejects parameters the motion rule cannot run with.
func (p Params) Validate() error {
	switch {
	case p.AgentCount < 0:
		return fmt.Errorf("%w: agent count must not be negative, got %d", ErrInvalidConfiguration, p.AgentCount)
	case !(p.DomainSize > 0):
		return fmt.Errorf("%w: domain size must be positive, got %g", ErrInvalidConfiguration, p.DomainSize)
	case !(p.Speed > 0):
		return fmt.Errorf("%w: speed must be positive, got %g", ErrInvalidConfiguration, p.Speed)
	case !(p.Spread > 0):
		return fmt.Errorf("%w: spread must be positive, got %g", ErrInvalidConfiguration, p.Spread)
	case !(p.DT > 0):
		return fmt.Errorf("%w: tick length must be positive, got %g", ErrInvalidConfiguration, p.DT)
	case p.Motion.PIncrease < 0 || p.Motion.PIncrease > 1:
		return fmt.Errorf("%w: increase probability must be in [0, 1], got %g", ErrInvalidConfiguration, p.Motion.PIncrease)
	case p.Motion.PDecrease < 0 || p.Motion.PDecrease > 1:
		return fmt.Errorf("%w: decrease probability must be in [0, 1], got %g", ErrInvalidConfiguration, p.Motion.PDecrease)
	case !(p.Decay > 0 && p.Decay <= 1):
		return fmt.Errorf("%w: decay must be in (0, 1], got %g", ErrInvalidConfiguration, p.Decay)
	case p.Decay < 1 && !(p.MinSpread > 0):
		return fmt.Errorf("%w: min spread must be positive when decay < 1, got %g", ErrInvalidConfiguration, p.MinSpread)
	}
	return nil
}

func (p Params) agentRand(seed int64) components.Rand {
	if p.AgentRand != nil {
		return p.AgentRand(seed)
	}
	return rand.New(rand.NewSource(seed))
}

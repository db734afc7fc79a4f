// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned by Validate when a parameter is out of range.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Population PopulationConfig `yaml:"population"`
	Agent      AgentConfig      `yaml:"agent"`
	Motion     MotionConfig     `yaml:"motion"`
	Field      FieldConfig      `yaml:"field"`
	Source     SourceConfig     `yaml:"source"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the domain dimensions.
// The domain is square and periodic in both axes.
type WorldConfig struct {
	Size float64 `yaml:"size"` // Side length in domain units (meters by default)
}

// PhysicsConfig holds time stepping parameters.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"` // Seconds per tick
}

// PopulationConfig holds population parameters.
type PopulationConfig struct {
	Agents int `yaml:"agents"`
}

// AgentConfig holds per-agent motion parameters.
type AgentConfig struct {
	Speed float64 `yaml:"speed"` // Domain units per second, constant for the agent's lifetime
}

// MotionConfig holds run-and-tumble persistence probabilities.
type MotionConfig struct {
	PIncrease float64 `yaml:"p_increase"` // Keep heading when concentration improved
	PDecrease float64 `yaml:"p_decrease"` // Keep heading otherwise
}

// FieldConfig holds attractant field parameters.
type FieldConfig struct {
	Spread    float64 `yaml:"spread"`     // Gaussian falloff radius of the droplet
	Decay     float64 `yaml:"decay"`      // Spread multiplier per tick (1 = droplet never evaporates)
	MinSpread float64 `yaml:"min_spread"` // Field reads zero once spread drops to this
	GridSize  int     `yaml:"grid_size"`  // Cells per side of the sampled field image
}

// SourceConfig optionally places a droplet before the first tick.
type SourceConfig struct {
	PlaceOnStart bool    `yaml:"place_on_start"`
	X            float64 `yaml:"x"` // Fraction of the domain size
	Y            float64 `yaml:"y"` // Fraction of the domain size
}

// ParallelConfig holds worker pool parameters.
type ParallelConfig struct {
	Threshold int `yaml:"threshold"` // Minimum agent count for parallel updates (0 = never)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds of simulated time per stats window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32     float32 // Screen.Width as float32
	ScreenH32     float32 // Screen.Height as float32
	TicksPerStats int     // Telemetry.StatsWindow / Physics.DT, at least 1
	SourceX       float64 // Source.X in domain units
	SourceY       float64 // Source.Y in domain units
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects degenerate parameters.
func (c *Config) Validate() error {
	switch {
	case c.World.Size <= 0:
		return fmt.Errorf("%w: world.size must be positive, got %g", ErrInvalid, c.World.Size)
	case c.Physics.DT <= 0:
		return fmt.Errorf("%w: physics.dt must be positive, got %g", ErrInvalid, c.Physics.DT)
	case c.Population.Agents < 0:
		return fmt.Errorf("%w: population.agents must not be negative, got %d", ErrInvalid, c.Population.Agents)
	case c.Agent.Speed <= 0:
		return fmt.Errorf("%w: agent.speed must be positive, got %g", ErrInvalid, c.Agent.Speed)
	case c.Field.Spread <= 0:
		return fmt.Errorf("%w: field.spread must be positive, got %g", ErrInvalid, c.Field.Spread)
	case c.Field.Decay <= 0 || c.Field.Decay > 1:
		return fmt.Errorf("%w: field.decay must be in (0, 1], got %g", ErrInvalid, c.Field.Decay)
	case c.Field.MinSpread < 0:
		return fmt.Errorf("%w: field.min_spread must not be negative, got %g", ErrInvalid, c.Field.MinSpread)
	case c.Field.Decay < 1 && c.Field.MinSpread <= 0:
		return fmt.Errorf("%w: field.min_spread must be positive when field.decay < 1, got %g", ErrInvalid, c.Field.MinSpread)
	case c.Field.GridSize <= 0:
		return fmt.Errorf("%w: field.grid_size must be positive, got %d", ErrInvalid, c.Field.GridSize)
	case !unit(c.Motion.PIncrease):
		return fmt.Errorf("%w: motion.p_increase must be in [0, 1], got %g", ErrInvalid, c.Motion.PIncrease)
	case !unit(c.Motion.PDecrease):
		return fmt.Errorf("%w: motion.p_decrease must be in [0, 1], got %g", ErrInvalid, c.Motion.PDecrease)
	}
	return nil
}

func unit(p float64) bool {
	return p >= 0 && p <= 1
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	ticks := int(c.Telemetry.StatsWindow / c.Physics.DT)
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.TicksPerStats = ticks

	c.Derived.SourceX = c.Source.X * c.World.Size
	c.Derived.SourceY = c.Source.Y * c.World.Size
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Package components defines ECS components for the simulation.
package components

// Position represents an agent's position in domain coordinates.
// Always inside [0, size) on both axes after a tick.
type Position struct {
	X, Y float64
}

// Velocity is the agent's heading scaled by its speed.
type Velocity struct {
	X, Y float64
}

// Rand is the random stream consumed by an agent's motion decisions.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Motility holds the run-and-tumble state of an agent.
type Motility struct {
	ID                uint32  // Stable index in creation order
	Speed             float64 // Constant for the agent's lifetime
	LastConcentration float64 // Sample at the pre-move position of the previous tick
	Rand              Rand    // Owned by this agent only
}

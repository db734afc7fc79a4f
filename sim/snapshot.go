package sim

import "github.com/pthm-cable/chemotaxis/systems"

// AgentState is one agent as seen by a renderer.
type AgentState struct {
	ID            uint32
	X, Y          float64
	VX, VY        float64
	Concentration float64 // sampled at the pre-move position of the last tick
}

// Snapshot is a read-only view of a Simulation between steps.
type Snapshot struct {
	Tick   int32
	Time   float64
	Size   float64
	Spread float64

	Source    systems.Point
	HasSource bool

	// Agents in stable creation order.
	Agents []AgentState

	// Field is a frozen copy of the attractant field at snapshot time.
	Field *systems.ConcentrationField
}

// ConcentrationAt queries the field as it stood at snapshot time.
func (s Snapshot) ConcentrationAt(x, y float64) float64 {
	return s.Field.ConcentrationAt(x, y)
}

// SampleField returns an n x n row-major concentration grid, reusing dst.
func (s Snapshot) SampleField(n int, dst []float64) []float64 {
	return s.Field.Sample(n, dst)
}

// Concentrations returns the stored concentration of every agent.
func (s Snapshot) Concentrations() []float64 {
	out := make([]float64, len(s.Agents))
	for i, a := range s.Agents {
		out[i] = a.Concentration
	}
	return out
}

// FieldAtAgents samples the snapshot field at every agent's current position.
func (s Snapshot) FieldAtAgents() []float64 {
	out := make([]float64, len(s.Agents))
	for i, a := range s.Agents {
		out[i] = s.Field.ConcentrationAt(a.X, a.Y)
	}
	return out
}

package systems

import "math"

// Point is a location in domain coordinates.
type Point struct {
	X, Y float64
}

// ConcentrationField is the attractant field of a single droplet source.
// Concentration is a Gaussian of the Euclidean distance to the source:
// 1 at the source, decaying monotonically, and 0 everywhere without a source.
type ConcentrationField struct {
	size   float64
	spread float64 // configured spread, restored on placement

	// Current droplet state. source is replaced in one assignment.
	source  *Point
	current float64

	// Evaporation (decay == 1 disables it)
	decay     float64
	minSpread float64
}

// NewConcentrationField creates an empty field over a square domain.
// size and spread must be positive; callers validate them.
func NewConcentrationField(size, spread float64) *ConcentrationField {
	return &ConcentrationField{
		size:    size,
		spread:  spread,
		current: spread,
		decay:   1,
	}
}

// SetEvaporation makes the droplet shrink by decay per Evaporate call.
// Once the spread reaches minSpread the source is removed.
func (f *ConcentrationField) SetEvaporation(decay, minSpread float64) {
	f.decay = decay
	f.minSpread = minSpread
}

// Size returns the side length of the domain.
func (f *ConcentrationField) Size() float64 { return f.size }

// Spread returns the current falloff radius of the droplet.
func (f *ConcentrationField) Spread() float64 { return f.current }

// Source returns the droplet location, if one is placed.
func (f *ConcentrationField) Source() (Point, bool) {
	if f.source == nil {
		return Point{}, false
	}
	return *f.source, true
}

// ConcentrationAt returns the attractant concentration at (x, y), in [0, 1].
// Points outside the domain are valid and simply read low.
func (f *ConcentrationField) ConcentrationAt(x, y float64) float64 {
	src := f.source
	if src == nil {
		return 0
	}
	dx := x - src.X
	dy := y - src.Y
	return math.Exp(-(dx*dx + dy*dy) / (2 * f.current * f.current))
}

// PlaceSource sets the droplet at (x, y), replacing any previous one.
func (f *ConcentrationField) PlaceSource(x, y float64) {
	f.current = f.spread
	f.source = &Point{X: x, Y: y}
}

// RemoveSource clears the droplet. Calling it again has no further effect.
func (f *ConcentrationField) RemoveSource() {
	f.source = nil
}

// Clone returns a frozen copy for read-only queries.
// Later commands on f do not affect the copy.
func (f *ConcentrationField) Clone() *ConcentrationField {
	c := *f
	return &c
}

// Evaporate shrinks the droplet by one tick of decay.
// Returns true if the droplet evaporated completely during this call.
// A droplet too narrow to evaluate evaporates even above min spread.
func (f *ConcentrationField) Evaporate() bool {
	if f.decay >= 1 || f.source == nil {
		return false
	}
	f.current *= f.decay
	if f.current <= f.minSpread || f.current*f.current == 0 {
		f.source = nil
		f.current = f.spread
		return true
	}
	return false
}

// Sample fills dst with an n x n row-major grid of concentrations.
// Cell (i, j) is sampled at (i*size/n, j*size/n), so row j is the y axis.
// dst is reused when large enough.
func (f *ConcentrationField) Sample(n int, dst []float64) []float64 {
	if cap(dst) < n*n {
		dst = make([]float64, n*n)
	}
	dst = dst[:n*n]

	if f.source == nil {
		for i := range dst {
			dst[i] = 0
		}
		return dst
	}

	cell := f.size / float64(n)
	for j := 0; j < n; j++ {
		y := float64(j) * cell
		for i := 0; i < n; i++ {
			dst[j*n+i] = f.ConcentrationAt(float64(i)*cell, y)
		}
	}
	return dst
}

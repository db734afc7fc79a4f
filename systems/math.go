package systems

import "math"

// Wrap maps v into [0, size) on a periodic axis.
// Values that would round up to size after wrapping map to 0.
func Wrap(v, size float64) float64 {
	r := math.Mod(v, size)
	if r < 0 {
		r += size
	}
	if r >= size {
		r = 0
	}
	return r
}

// ToroidalDelta computes the shortest signed distance from 'from' to 'to'
// on a periodic axis of the given size.
func ToroidalDelta(to, from, size float64) float64 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// ToroidalDistance returns the shortest Euclidean distance between two points
// in a square periodic domain.
func ToroidalDistance(x1, y1, x2, y2, size float64) float64 {
	return math.Hypot(ToroidalDelta(x1, x2, size), ToroidalDelta(y1, y2, size))
}

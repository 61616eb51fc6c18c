package aggregators

import "math"

// Discretize maps x onto the integer grid of the given step, rounding
// half-to-even like the Round op in the compiled graphs. step must be
// positive.
func Discretize(x, step float64) int64 {
	return int64(math.RoundToEven(x / step))
}

// Undiscretize maps a grid point back to the real line. For any finite x
// within the grid's range, |Undiscretize(Discretize(x, step), step) - x| is
// at most step/2.
func Undiscretize(q int64, step float64) float64 {
	return float64(q) * step
}

package plot

import "github.com/matzehuels/matrixplot/pkg/matrix"

// Extrema is the (min, max) pair used to normalize cell magnitudes.
type Extrema struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ComputeExtrema returns the smallest and largest present values of m.
//
// For matrices where absence is stored as zero (see
// [matrix.Matrix.ImplicitZero]) both bounds start at zero, so a matrix
// of only positive values has Min == 0. Otherwise only present cells
// count, and a matrix with no present cell yields (0, 0).
func ComputeExtrema(m matrix.Matrix) Extrema {
	var e Extrema
	if m == nil {
		return e
	}
	seeded := m.ImplicitZero()
	matrix.Each(m, func(_, _ int, c matrix.Cell) {
		if !c.Present() {
			return
		}
		if !seeded {
			e = Extrema{Min: c.Value, Max: c.Value}
			seeded = true
			return
		}
		if c.Value > e.Max {
			e.Max = c.Value
		}
		if c.Value < e.Min {
			e.Min = c.Value
		}
	})
	return e
}

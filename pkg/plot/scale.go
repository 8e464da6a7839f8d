package plot

import (
	"math"

	"github.com/matzehuels/matrixplot/pkg/errors"
	"github.com/matzehuels/matrixplot/pkg/matrix"
)

// Scale upsamples m by cfg.ScalingFactor using nearest-neighbour
// replication: destination (i, j) copies source (i/k, j/k), so each cell
// becomes a k x k block. A factor of 1 returns an equal copy.
//
// The factor is validated before anything is allocated.
func Scale(m matrix.Matrix, cfg Config) (matrix.Matrix, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkMatrix(m); err != nil {
		return nil, err
	}
	cfg.trace("scale matrix", "rows", m.Rows(), "cols", m.Cols(), "factor", cfg.ScalingFactor)

	k := cfg.ScalingFactor
	rows, cols := m.Rows(), m.Cols()
	if k == 1 {
		return m.Remap(rows, cols, func(i, j int) (int, int) { return i, j })
	}
	if rows > math.MaxInt/k || cols > math.MaxInt/k {
		return nil, errors.New(errors.ErrCodeInvalidDimensions,
			"scaling %dx%d by %d overflows", rows, cols, k)
	}
	return m.Remap(rows*k, cols*k, func(i, j int) (int, int) {
		return i / k, j / k
	})
}

// checkMatrix rejects nil and degenerate matrices.
func checkMatrix(m matrix.Matrix) error {
	if m == nil {
		return errors.New(errors.ErrCodeInvalidDimensions, "matrix is nil")
	}
	if m.Rows() < 1 || m.Cols() < 1 {
		return errors.New(errors.ErrCodeInvalidDimensions,
			"matrix must be at least 1x1, got %dx%d", m.Rows(), m.Cols())
	}
	return nil
}

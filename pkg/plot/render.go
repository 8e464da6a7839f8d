package plot

import (
	"image"
	"image/color"
	"math"

	"github.com/matzehuels/matrixplot/pkg/errors"
	"github.com/matzehuels/matrixplot/pkg/matrix"
)

// Render draws m into a new (cols+1) x (rows+1) image.
//
// For each pixel (x, y) the first matching rule wins:
//
//  1. annotations on, diagonal on, x == y: diagonal color
//  2. annotations on, on a boundary (see package docs): boundary color
//  3. x == cols or y == rows: left transparent
//  4. otherwise the color of matrix cell [y][x]
//
// ext is normally [ComputeExtrema] of m. A positive cell rendered against
// Max <= 0, or a negative one against Min >= 0, fails with NORMALIZATION.
func Render(m matrix.Matrix, cfg Config, ext Extrema) (*image.NRGBA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkMatrix(m); err != nil {
		return nil, err
	}
	cfg.trace("render matrix", "rows", m.Rows(), "cols", m.Cols(), "min", ext.Min, "max", ext.Max)

	rows, cols := m.Rows(), m.Cols()
	if rows == math.MaxInt || cols == math.MaxInt {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "matrix %dx%d too large for an image", rows, cols)
	}

	if cfg.Verbosity > 0 {
		cfg.logger().Info("generating image", "width", cols+1, "height", rows+1)
		if cfg.Verbosity > 1 {
			cfg.logger().Info("scaling factor", "factor", cfg.ScalingFactor)
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, cols+1, rows+1))
	k := cfg.ScalingFactor

	for x := 0; x <= cols; x++ {
		for y := 0; y <= rows; y++ {
			if cfg.AnnotateImage {
				if cfg.DrawDiagonal && x == y {
					img.SetNRGBA(x, y, palette.Diagonal)
					continue
				}
				if cfg.onBoundary(x, y, k) {
					img.SetNRGBA(x, y, palette.Boundary)
					continue
				}
			}

			// The extra row and column only exist for boundary lines.
			if x == cols || y == rows {
				continue
			}

			c, err := cellColor(m.Classify(y, x), cfg.WithColor, ext)
			if err != nil {
				return nil, errors.New(errors.ErrCodeNormalization,
					"cell (row %d, col %d): %s", y, x, errors.UserMessage(err))
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img, nil
}

// onBoundary applies the boundary rule. Without StrictBoundaries the
// horizontal check is not gated by DrawBoundaries.
func (c Config) onBoundary(x, y, k int) bool {
	if c.StrictBoundaries {
		return c.DrawBoundaries && (x%k == 0 || y%k == 0)
	}
	return (c.DrawBoundaries && x%k == 0) || y%k == 0
}

// cellColor maps a classified cell to its pixel color.
func cellColor(cell matrix.Cell, withColor bool, ext Extrema) (color.NRGBA, error) {
	switch cell.Kind {
	case matrix.Absent, matrix.Zero:
		return palette.Empty, nil
	}
	if !withColor {
		return palette.Flat, nil
	}

	if cell.Kind == matrix.Positive {
		if ext.Max <= 0 {
			return color.NRGBA{}, errors.New(errors.ErrCodeNormalization,
				"positive value %g but maximum is %g", cell.Value, ext.Max)
		}
		c := palette.Positive
		c.A = alpha(cell.Value, ext.Max)
		return c, nil
	}

	if ext.Min >= 0 {
		return color.NRGBA{}, errors.New(errors.ErrCodeNormalization,
			"negative value %g but minimum is %g", cell.Value, ext.Min)
	}
	c := palette.Negative
	c.A = alpha(math.Abs(cell.Value), math.Abs(ext.Min))
	return c, nil
}

// alpha returns ceil(v/bound * 255) clamped to [0, 255]. bound must be > 0.
func alpha(v, bound float64) uint8 {
	a := math.Ceil(v / bound * math.MaxUint8)
	switch {
	case math.IsNaN(a):
		// only Inf/Inf, the extremum itself
		return math.MaxUint8
	case a <= 0:
		return 0
	case a >= math.MaxUint8:
		return math.MaxUint8
	}
	return uint8(a)
}

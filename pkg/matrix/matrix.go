package matrix

import (
	"math"

	"github.com/matzehuels/matrixplot/pkg/errors"
)

// Number is the set of element types a matrix can hold.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Kind classifies a single cell for rendering.
type Kind uint8

const (
	Absent   Kind = iota // no data
	Zero                 // present and exactly zero
	Positive             // present and > 0
	Negative             // present and < 0
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Zero:
		return "zero"
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	}
	return "unknown"
}

// Cell is the classified content of one matrix position.
// Value carries the signed number for Positive and Negative cells and is
// zero otherwise.
type Cell struct {
	Kind  Kind
	Value float64
}

// Present reports whether the cell holds a value.
func (c Cell) Present() bool { return c.Kind != Absent }

// Magnitude returns |Value|.
func (c Cell) Magnitude() float64 { return math.Abs(c.Value) }

// Matrix is the capability shared by [Dense] and [Optional].
//
// Classify and Remap index rows first: Classify(row, col). Classify panics
// when the position is outside the matrix, like slice indexing.
type Matrix interface {
	Rows() int
	Cols() int
	Classify(row, col int) Cell

	// ImplicitZero reports whether absent cells are stored as numeric zero.
	// Such matrices treat zero as a real value when computing extrema.
	ImplicitZero() bool

	// Remap returns a new matrix of the same representation with the
	// given shape, where destination (i, j) is a value copy of the source
	// cell returned by src(i, j).
	Remap(rows, cols int, src func(i, j int) (int, int)) (Matrix, error)
}

// Each calls fn for every cell of m in row-major order.
func Each(m Matrix, fn func(row, col int, c Cell)) {
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			fn(i, j, m.Classify(i, j))
		}
	}
}

// classify maps a number to its cell kind. NaN is treated as absent.
func classify[T Number](v T) Cell {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return Cell{Kind: Absent}
	case f == 0:
		return Cell{Kind: Zero}
	case f > 0:
		return Cell{Kind: Positive, Value: f}
	default:
		return Cell{Kind: Negative, Value: f}
	}
}

// checkShape validates matrix dimensions and guards against rows*cols
// overflowing int.
func checkShape(rows, cols int) error {
	if rows < 1 || cols < 1 {
		return errors.New(errors.ErrCodeInvalidDimensions,
			"matrix must be at least 1x1, got %dx%d", rows, cols)
	}
	if rows > math.MaxInt/cols {
		return errors.New(errors.ErrCodeInvalidDimensions,
			"matrix %dx%d is too large", rows, cols)
	}
	return nil
}

// remap builds a rows x cols row-major slice where each element is copied
// from src at the coordinates returned by at.
func remap[E any](src []E, srcRows, srcCols, rows, cols int, at func(i, j int) (int, int)) ([]E, error) {
	if err := checkShape(rows, cols); err != nil {
		return nil, err
	}
	out := make([]E, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			si, sj := at(i, j)
			if si < 0 || si >= srcRows || sj < 0 || sj >= srcCols {
				return nil, errors.New(errors.ErrCodeInvalidDimensions,
					"remap of (%d,%d) points outside %dx%d source: (%d,%d)", i, j, srcRows, srcCols, si, sj)
			}
			out[i*cols+j] = src[si*srcCols+sj]
		}
	}
	return out, nil
}

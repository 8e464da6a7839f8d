package matrix

import (
	"github.com/matzehuels/matrixplot/pkg/errors"
)

// Dense is a matrix where every cell holds a number and zero stands for
// "no data".
type Dense[T Number] struct {
	rows, cols int
	data       []T
}

// NewDense returns a rows x cols matrix of zeros.
func NewDense[T Number](rows, cols int) (*Dense[T], error) {
	if err := checkShape(rows, cols); err != nil {
		return nil, err
	}
	return &Dense[T]{rows: rows, cols: cols, data: make([]T, rows*cols)}, nil
}

// DenseFromRows copies a slice of rows into a new matrix.
// All rows must have the same, non-zero length.
func DenseFromRows[T Number](rows [][]T) (*Dense[T], error) {
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "matrix has no rows")
	}
	d, err := NewDense[T](len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != d.cols {
			return nil, errors.New(errors.ErrCodeInvalidDimensions,
				"row %d has %d columns, want %d", i, len(row), d.cols)
		}
		copy(d.data[i*d.cols:], row)
	}
	return d, nil
}

// Rows returns the number of rows.
func (d *Dense[T]) Rows() int { return d.rows }

// Cols returns the number of columns.
func (d *Dense[T]) Cols() int { return d.cols }

// At returns the value at (row, col).
func (d *Dense[T]) At(row, col int) T { return d.data[d.index(row, col)] }

// Set stores v at (row, col).
func (d *Dense[T]) Set(row, col int, v T) error {
	if !d.inBounds(row, col) {
		return errors.New(errors.ErrCodeInvalidInput,
			"position (%d,%d) outside %dx%d matrix", row, col, d.rows, d.cols)
	}
	d.data[row*d.cols+col] = v
	return nil
}

// Classify implements [Matrix].
func (d *Dense[T]) Classify(row, col int) Cell {
	return classify(d.data[d.index(row, col)])
}

// ImplicitZero implements [Matrix]; always true for Dense.
func (d *Dense[T]) ImplicitZero() bool { return true }

// Remap implements [Matrix].
func (d *Dense[T]) Remap(rows, cols int, src func(i, j int) (int, int)) (Matrix, error) {
	data, err := remap(d.data, d.rows, d.cols, rows, cols, src)
	if err != nil {
		return nil, err
	}
	return &Dense[T]{rows: rows, cols: cols, data: data}, nil
}

// Equal reports whether o has the same shape and values.
func (d *Dense[T]) Equal(o *Dense[T]) bool {
	if o == nil || d.rows != o.rows || d.cols != o.cols {
		return false
	}
	for i := range d.data {
		if d.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// RowSlices returns a copy of the matrix as a slice of rows.
func (d *Dense[T]) RowSlices() [][]T {
	out := make([][]T, d.rows)
	for i := range out {
		out[i] = append([]T(nil), d.data[i*d.cols:(i+1)*d.cols]...)
	}
	return out
}

func (d *Dense[T]) inBounds(row, col int) bool {
	return row >= 0 && row < d.rows && col >= 0 && col < d.cols
}

func (d *Dense[T]) index(row, col int) int {
	if !d.inBounds(row, col) {
		panic(errors.New(errors.ErrCodeInvalidInput,
			"position (%d,%d) outside %dx%d matrix", row, col, d.rows, d.cols))
	}
	return row*d.cols + col
}

var _ Matrix = (*Dense[int])(nil)

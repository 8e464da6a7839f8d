package matrix

import (
	"github.com/matzehuels/matrixplot/pkg/errors"
)

// slot is one Optional cell.
type slot[T Number] struct {
	v  T
	ok bool
	c  Color
}

// Optional is a matrix whose cells are either present or absent.
// A present zero is distinct from an absent cell.
type Optional[T Number] struct {
	rows, cols int
	data       []slot[T]
}

// NewOptional returns a rows x cols matrix with every cell absent.
func NewOptional[T Number](rows, cols int) (*Optional[T], error) {
	if err := checkShape(rows, cols); err != nil {
		return nil, err
	}
	return &Optional[T]{rows: rows, cols: cols, data: make([]slot[T], rows*cols)}, nil
}

// Rows returns the number of rows.
func (o *Optional[T]) Rows() int { return o.rows }

// Cols returns the number of columns.
func (o *Optional[T]) Cols() int { return o.cols }

// Get returns the value at (row, col) and whether it is present.
func (o *Optional[T]) Get(row, col int) (T, bool) {
	s := o.data[o.index(row, col)]
	return s.v, s.ok
}

// Set marks (row, col) present with value v.
func (o *Optional[T]) Set(row, col int, v T) error {
	if !o.inBounds(row, col) {
		return errors.New(errors.ErrCodeInvalidInput,
			"position (%d,%d) outside %dx%d matrix", row, col, o.rows, o.cols)
	}
	o.data[row*o.cols+col] = slot[T]{v: v, ok: true}
	return nil
}

// ColorAt returns the tag of the record that filled (row, col), or the
// zero Color for absent cells and cells set with [Optional.Set].
func (o *Optional[T]) ColorAt(row, col int) Color {
	return o.data[o.index(row, col)].c
}

// Clear marks (row, col) absent.
func (o *Optional[T]) Clear(row, col int) error {
	if !o.inBounds(row, col) {
		return errors.New(errors.ErrCodeInvalidInput,
			"position (%d,%d) outside %dx%d matrix", row, col, o.rows, o.cols)
	}
	o.data[row*o.cols+col] = slot[T]{}
	return nil
}

// Len returns the number of present cells.
func (o *Optional[T]) Len() int {
	n := 0
	for _, s := range o.data {
		if s.ok {
			n++
		}
	}
	return n
}

// Classify implements [Matrix].
func (o *Optional[T]) Classify(row, col int) Cell {
	s := o.data[o.index(row, col)]
	if !s.ok {
		return Cell{Kind: Absent}
	}
	return classify(s.v)
}

// ImplicitZero implements [Matrix]; always false for Optional.
func (o *Optional[T]) ImplicitZero() bool { return false }

// Remap implements [Matrix].
func (o *Optional[T]) Remap(rows, cols int, src func(i, j int) (int, int)) (Matrix, error) {
	data, err := remap(o.data, o.rows, o.cols, rows, cols, src)
	if err != nil {
		return nil, err
	}
	return &Optional[T]{rows: rows, cols: cols, data: data}, nil
}

// Equal reports whether p has the same shape, the same present cells and
// the same values in them. Color tags are not compared.
func (o *Optional[T]) Equal(p *Optional[T]) bool {
	if p == nil || o.rows != p.rows || o.cols != p.cols {
		return false
	}
	for i := range o.data {
		a, b := o.data[i], p.data[i]
		if a.ok != b.ok || a.v != b.v {
			return false
		}
	}
	return true
}

func (o *Optional[T]) inBounds(row, col int) bool {
	return row >= 0 && row < o.rows && col >= 0 && col < o.cols
}

func (o *Optional[T]) index(row, col int) int {
	if !o.inBounds(row, col) {
		panic(errors.New(errors.ErrCodeInvalidInput,
			"position (%d,%d) outside %dx%d matrix", row, col, o.rows, o.cols))
	}
	return row*o.cols + col
}

var _ Matrix = (*Optional[int])(nil)

package matrix

import (
	"github.com/matzehuels/matrixplot/pkg/errors"
)

// Position locates a record: X is the column, Y is the row.
type Position struct {
	X uint32 `json:"x" toml:"x"`
	Y uint32 `json:"y" toml:"y"`
}

// Color is an RGBA tag carried by ingestion records. Rendering derives
// colors from values and ignores the tag; [FromCells] and
// [Optional.Records] keep it so converted documents retain it.
type Color struct {
	R uint8 `json:"r" toml:"r"`
	G uint8 `json:"g" toml:"g"`
	B uint8 `json:"b" toml:"b"`
	A uint8 `json:"a" toml:"a"`
}

// Record is one non-empty cell of a sparse matrix.
type Record[T Number] struct {
	Pos   Position `json:"pos" toml:"pos"`
	Value T        `json:"value" toml:"value"`
	Color Color    `json:"color" toml:"color"`
}

// FromCells builds a rows x cols Optional matrix holding each record's
// value at [Pos.Y][Pos.X]. Cells without a record are absent. When two
// records share a position the later one wins.
//
// Every position is bounds-checked; an out-of-range record fails the whole
// call with INVALID_INPUT rather than being dropped.
func FromCells[T Number](cells []Record[T], rows, cols int) (*Optional[T], error) {
	if rows < 0 || cols < 0 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions,
			"declared dimensions must be non-negative, got %dx%d", rows, cols)
	}
	m, err := NewOptional[T](rows, cols)
	if err != nil {
		return nil, err
	}
	for i, c := range cells {
		row, col := int(c.Pos.Y), int(c.Pos.X)
		if row >= rows || col >= cols {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"cell %d at (x=%d, y=%d) outside declared %dx%d matrix", i, c.Pos.X, c.Pos.Y, rows, cols)
		}
		m.data[row*cols+col] = slot[T]{v: c.Value, ok: true, c: c.Color}
	}
	return m, nil
}

// Records lists the present cells of m in row-major order.
func (o *Optional[T]) Records() []Record[T] {
	out := make([]Record[T], 0, o.Len())
	for i, s := range o.data {
		if !s.ok {
			continue
		}
		out = append(out, Record[T]{
			Pos:   Position{X: uint32(i % o.cols), Y: uint32(i / o.cols)},
			Value: s.v,
			Color: s.c,
		})
	}
	return out
}

package matrix

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/matrixplot/pkg/errors"
)

func TestFromCells(t *testing.T) {
	cells := []Record[int]{
		{Pos: Position{X: 20, Y: 10}, Value: 10, Color: Color{A: 255}},
		{Pos: Position{X: 30, Y: 50}, Value: 10, Color: Color{R: 255, G: 255, B: 255}},
	}

	m, err := FromCells(cells, 1000, 1000)
	require.NoError(t, err)
	require.Equal(t, 1000, m.Rows())
	require.Equal(t, 1000, m.Cols())
	require.Equal(t, 2, m.Len())

	// X is the column, Y is the row.
	v, ok := m.Get(10, 20)
	require.True(t, ok)
	require.Equal(t, 10, v)

	_, ok = m.Get(20, 10)
	require.False(t, ok)
}

func TestRecordsKeepColor(t *testing.T) {
	red := Color{R: 255, A: 255}
	cells := []Record[int]{
		{Pos: Position{X: 1, Y: 0}, Value: 4, Color: red},
		{Pos: Position{X: 0, Y: 1}, Value: -1},
	}
	m, err := FromCells(cells, 2, 2)
	require.NoError(t, err)

	require.Equal(t, red, m.ColorAt(0, 1))
	require.Equal(t, Color{}, m.ColorAt(0, 0))
	require.Equal(t, cells, m.Records())

	plain, err := NewOptional[int](2, 2)
	require.NoError(t, err)
	require.NoError(t, plain.Set(0, 1, 4))
	require.NoError(t, plain.Set(1, 0, -1))
	require.True(t, m.Equal(plain), "color tags should not affect equality")
}

func TestFromCellsLastRecordWins(t *testing.T) {
	cells := []Record[int]{
		{Pos: Position{X: 1, Y: 1}, Value: 3},
		{Pos: Position{X: 1, Y: 1}, Value: -3},
	}
	m, err := FromCells(cells, 2, 2)
	require.NoError(t, err)

	v, ok := m.Get(1, 1)
	require.True(t, ok)
	require.Equal(t, -3, v)
}

func TestFromCellsValidation(t *testing.T) {
	tests := []struct {
		name       string
		cells      []Record[int]
		rows, cols int
		code       errors.Code
	}{
		{"negative rows", nil, -1, 4, errors.ErrCodeInvalidDimensions},
		{"negative cols", nil, 4, -1, errors.ErrCodeInvalidDimensions},
		{"zero rows", nil, 0, 4, errors.ErrCodeInvalidDimensions},
		{"x out of range", []Record[int]{{Pos: Position{X: 4, Y: 0}, Value: 1}}, 4, 4, errors.ErrCodeInvalidInput},
		{"y out of range", []Record[int]{{Pos: Position{X: 0, Y: 9}, Value: 1}}, 4, 4, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromCells(tt.cells, tt.rows, tt.cols)
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	cells := []Record[int]{
		{Pos: Position{X: 2, Y: 1}, Value: 1},
		{Pos: Position{X: 5, Y: 2}, Value: 7},
		{Pos: Position{X: 9, Y: 8}, Value: -190},
	}
	m, err := FromCells(cells, 10, 10)
	require.NoError(t, err)
	require.Equal(t, cells, m.Records())
}

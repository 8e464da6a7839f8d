// Package matrix provides the two-dimensional grids rendered by matrixplot.
//
// # Overview
//
// Two representations share one contract, [Matrix]:
//
//   - [Dense]: every cell holds a number; zero means "no data".
//   - [Optional]: cells are either present (any number, including zero)
//     or absent.
//
// Both are generic over [Number], so unsigned and signed integers as well
// as floats can be plotted without conversion. Consumers never switch on
// the concrete type; they ask [Matrix.Classify] for a [Cell], which is one
// of [Absent], [Zero], [Positive] or [Negative] together with its value.
//
// # Shape
//
// Matrices are always rectangular with at least one row and one column.
// Constructors return an INVALID_DIMENSIONS error from pkg/errors when
// that does not hold.
//
// # Ingestion
//
// [FromCells] builds an [Optional] matrix from a flat list of positioned
// records, the format produced by external tools that only know about the
// non-empty cells of a sparse matrix:
//
//	cells := []matrix.Record[int]{
//	    {Pos: matrix.Position{X: 2, Y: 1}, Value: 1},
//	    {Pos: matrix.Position{X: 9, Y: 8}, Value: -190},
//	}
//	m, err := matrix.FromCells(cells, 10, 10)
//
// X is the column and Y is the row, matching pixel coordinates in the
// rendered image.
package matrix

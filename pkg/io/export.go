package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/matrixplot/pkg/errors"
	"github.com/matzehuels/matrixplot/pkg/matrix"
)

// colorTagger is implemented by matrices that remember record colors.
type colorTagger interface {
	ColorAt(row, col int) matrix.Color
}

// NewDocument captures m as a document. Matrices with implicit zeros are
// written as dense data, all others as cells listing the present entries
// with their color tags.
func NewDocument(m matrix.Matrix) *Document {
	if m.ImplicitZero() {
		data := make([][]float64, m.Rows())
		for i := range data {
			data[i] = make([]float64, m.Cols())
		}
		matrix.Each(m, func(row, col int, c matrix.Cell) {
			data[row][col] = c.Value
		})
		return &Document{Data: data}
	}

	tags, _ := m.(colorTagger)
	doc := &Document{Rows: m.Rows(), Cols: m.Cols(), Cells: []matrix.Record[float64]{}}
	matrix.Each(m, func(row, col int, c matrix.Cell) {
		if !c.Present() {
			return
		}
		rec := matrix.Record[float64]{
			Pos:   matrix.Position{X: uint32(col), Y: uint32(row)},
			Value: c.Value,
		}
		if tags != nil {
			rec.Color = tags.ColorAt(row, col)
		}
		doc.Cells = append(doc.Cells, rec)
	})
	return doc
}

// WriteJSON encodes doc as indented JSON. The output can be re-imported
// with [ReadJSON].
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return nil
}

// WriteTOML encodes doc as TOML.
func WriteTOML(doc *Document, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode toml")
	}
	return nil
}

// Encode writes doc in the given format. Matrix Market output is not
// supported.
func Encode(doc *Document, w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(doc, w)
	case FormatTOML:
		return WriteTOML(doc, w)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "cannot export %q documents", f)
}

// ExportFile writes doc to path in the format named by its extension.
func ExportFile(doc *Document, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if f == FormatMatrixMarket {
		return errors.New(errors.ErrCodeInvalidFormat, "cannot export %q documents", f)
	}
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := Encode(doc, out, f); err != nil {
		out.Close()
		_ = os.Remove(path)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "close %s", path)
	}
	return nil
}

// Canonical returns the compact JSON encoding of doc. Equal documents give
// equal bytes, which makes the result suitable as a cache key input.
func Canonical(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return data, nil
}

package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/matrixplot/pkg/errors"
	"github.com/matzehuels/matrixplot/pkg/matrix"
)

// Format names a document encoding.
type Format string

// Supported document formats.
const (
	FormatJSON         Format = "json"
	FormatTOML         Format = "toml"
	FormatMatrixMarket Format = "mtx"
)

// FormatFromPath picks a document format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".mtx", ".mm":
		return FormatMatrixMarket, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported input %q (expected .json, .toml or .mtx)", filepath.Base(path))
}

// Document is a decoded matrix description. Exactly one of Cells or Data is
// used: Cells with Rows and Cols for sparse input, Data for dense input.
type Document struct {
	Rows  int                      `json:"rows,omitempty" toml:"rows,omitempty"`
	Cols  int                      `json:"cols,omitempty" toml:"cols,omitempty"`
	Cells []matrix.Record[float64] `json:"cells,omitempty" toml:"cells,omitempty"`
	Data  [][]float64              `json:"data,omitempty" toml:"data,omitempty"`
}

// Dense reports whether d describes a dense matrix.
func (d *Document) Dense() bool { return d.Data != nil }

// Matrix builds the matrix d describes.
func (d *Document) Matrix() (matrix.Matrix, error) {
	switch {
	case d.Data != nil && d.Cells != nil:
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has both cells and data")
	case d.Data != nil:
		if d.Rows != 0 && d.Rows != len(d.Data) {
			return nil, errors.New(errors.ErrCodeInvalidDimensions,
				"declared %d rows, data has %d", d.Rows, len(d.Data))
		}
		if d.Cols != 0 && len(d.Data) > 0 && d.Cols != len(d.Data[0]) {
			return nil, errors.New(errors.ErrCodeInvalidDimensions,
				"declared %d cols, data has %d", d.Cols, len(d.Data[0]))
		}
		return matrix.DenseFromRows(d.Data)
	default:
		return matrix.FromCells(d.Cells, d.Rows, d.Cols)
	}
}

// Decode reads a document in the given format from r. Decode does not
// close r.
func Decode(r io.Reader, f Format) (*Document, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	case FormatMatrixMarket:
		return ReadMatrixMarket(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", f)
}

// ReadJSON decodes a JSON document. Unknown fields are rejected.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
	}
	return &doc, nil
}

// ReadTOML decodes a TOML document. Unknown keys are rejected.
func ReadTOML(r io.Reader) (*Document, error) {
	var doc Document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown key %q", undecoded[0].String())
	}
	return &doc, nil
}

// ImportFile reads the document at path, choosing the decoder from the
// file extension.
func ImportFile(path string) (*Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer file.Close()
	return Decode(file, f)
}

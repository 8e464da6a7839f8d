package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/matrixplot/pkg/errors"
	"github.com/matzehuels/matrixplot/pkg/matrix"
)

const mtxBanner = "%%matrixmarket"

// maxPrealloc bounds the capacity reserved from a size line before any
// entry has been read.
const maxPrealloc = 1 << 16

type mtxHeader struct {
	layout   string // coordinate | array
	field    string // real | integer | pattern
	symmetry string // general | symmetric | skew-symmetric
}

func parseMTXHeader(line string) (mtxHeader, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) != 5 || fields[0] != mtxBanner || fields[1] != "matrix" {
		return mtxHeader{}, errors.New(errors.ErrCodeInvalidInput, "not a Matrix Market file: %q", line)
	}
	h := mtxHeader{layout: fields[2], field: fields[3], symmetry: fields[4]}
	switch h.layout {
	case "coordinate", "array":
	default:
		return h, errors.New(errors.ErrCodeInvalidInput, "unsupported layout %q", h.layout)
	}
	switch h.field {
	case "real", "double", "integer":
	case "pattern":
		if h.layout == "array" {
			return h, errors.New(errors.ErrCodeInvalidInput, "pattern field requires coordinate layout")
		}
	default:
		return h, errors.New(errors.ErrCodeInvalidInput, "unsupported field %q", h.field)
	}
	switch h.symmetry {
	case "general", "symmetric", "skew-symmetric":
	default:
		return h, errors.New(errors.ErrCodeInvalidInput, "unsupported symmetry %q", h.symmetry)
	}
	return h, nil
}

// ReadMatrixMarket decodes a Matrix Market coordinate or array file.
func ReadMatrixMarket(r io.Reader) (*Document, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	next := func() (string, bool) {
		for sc.Scan() {
			lineNo++
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "%") {
				continue
			}
			return line, true
		}
		return "", false
	}

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read matrix market")
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty Matrix Market file")
	}
	lineNo++
	h, err := parseMTXHeader(sc.Text())
	if err != nil {
		return nil, err
	}

	size, ok := next()
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing size line")
	}
	dims, err := parseInts(strings.Fields(size))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", lineNo)
	}

	var doc *Document
	if h.layout == "coordinate" {
		if len(dims) != 3 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "line %d: want \"rows cols entries\"", lineNo)
		}
		doc, err = readCoordinate(h, dims[0], dims[1], dims[2], next, &lineNo)
	} else {
		if len(dims) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "line %d: want \"rows cols\"", lineNo)
		}
		doc, err = readArray(h, dims[0], dims[1], next, &lineNo)
	}
	if err != nil {
		return nil, err
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read matrix market")
	}
	return doc, nil
}

func readCoordinate(h mtxHeader, rows, cols, entries int, next func() (string, bool), lineNo *int) (*Document, error) {
	if rows < 1 || cols < 1 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "matrix must be at least 1x1, got %dx%d", rows, cols)
	}
	if entries < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "negative entry count %d", entries)
	}
	doc := &Document{Rows: rows, Cols: cols, Cells: make([]matrix.Record[float64], 0, min(entries, maxPrealloc))}
	add := func(row, col int, v float64) {
		doc.Cells = append(doc.Cells, matrix.Record[float64]{
			Pos:   matrix.Position{X: uint32(col), Y: uint32(row)},
			Value: v,
		})
	}

	for n := 0; n < entries; n++ {
		line, ok := next()
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "expected %d entries, found %d", entries, n)
		}
		fields := strings.Fields(line)
		want := 3
		if h.field == "pattern" {
			want = 2
		}
		if len(fields) != want {
			return nil, errors.New(errors.ErrCodeInvalidInput, "line %d: want %d fields, got %d", *lineNo, want, len(fields))
		}
		idx, err := parseInts(fields[:2])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", *lineNo)
		}
		row, col := idx[0]-1, idx[1]-1
		if row < 0 || row >= rows || col < 0 || col >= cols {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"line %d: entry (%d, %d) outside %dx%d matrix", *lineNo, idx[0], idx[1], rows, cols)
		}
		v := 1.0
		if h.field != "pattern" {
			if v, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", *lineNo)
			}
		}
		add(row, col, v)
		if row != col {
			switch h.symmetry {
			case "symmetric":
				add(col, row, v)
			case "skew-symmetric":
				add(col, row, -v)
			}
		}
	}
	return doc, nil
}

func readArray(h mtxHeader, rows, cols int, next func() (string, bool), lineNo *int) (*Document, error) {
	if rows < 1 || cols < 1 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "matrix must be at least 1x1, got %dx%d", rows, cols)
	}
	if h.symmetry != "general" && rows != cols {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "%s matrix must be square, got %dx%d", h.symmetry, rows, cols)
	}

	// Array files are column-major; symmetric ones list only the lower
	// triangle including the diagonal (strictly lower for skew-symmetric).
	// Values are collected before the matrix is allocated so a size line
	// alone cannot reserve memory the input never fills.
	type entry struct {
		i, j int
		v    float64
	}
	var values []entry
	for j := 0; j < cols; j++ {
		start := 0
		switch h.symmetry {
		case "symmetric":
			start = j
		case "skew-symmetric":
			start = j + 1
		}
		for i := start; i < rows; i++ {
			line, ok := next()
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidInput, "array ended before entry (%d, %d)", i+1, j+1)
			}
			v, err := strconv.ParseFloat(line, 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", *lineNo)
			}
			values = append(values, entry{i: i, j: j, v: v})
		}
	}

	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, cols)
	}
	for _, e := range values {
		data[e.i][e.j] = e.v
		if e.i == e.j {
			continue
		}
		switch h.symmetry {
		case "symmetric":
			data[e.j][e.i] = e.v
		case "skew-symmetric":
			data[e.j][e.i] = -e.v
		}
	}
	return &Document{Data: data}, nil
}

func parseInts(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", f, err)
		}
		out[i] = n
	}
	return out, nil
}

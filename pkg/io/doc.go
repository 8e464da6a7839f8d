// Package io reads and writes matrix documents.
//
// # Overview
//
// A document describes one matrix in one of two shapes. A cells document
// lists the present entries of a sparse matrix, the same records a foreign
// caller hands over through the ingestion path:
//
//	{
//	  "rows": 10,
//	  "cols": 10,
//	  "cells": [
//	    {"pos": {"x": 2, "y": 1}, "value": 1},
//	    {"pos": {"x": 5, "y": 4}, "value": 10}
//	  ]
//	}
//
// Positions use X for the column and Y for the row. Cells without a record
// are absent and render as empty. A dense document spells out every value:
//
//	{
//	  "data": [
//	    [0, 1, 2],
//	    [-3, 4, 0]
//	  ]
//	}
//
// Both shapes may be written as TOML with the same keys:
//
//	rows = 2
//	cols = 2
//
//	[[cells]]
//	value = 3
//	pos = { x = 1, y = 0 }
//
// # Matrix Market
//
// Coordinate and array files in the Matrix Market exchange format (.mtx)
// are also accepted. Coordinate files become sparse matrices with 1-based
// indices converted to 0-based, pattern files store 1 for every listed
// entry, and symmetric or skew-symmetric files are mirrored. Array files
// become dense matrices.
//
// # Import
//
// Use [ImportFile] to read a document from disk; the format is chosen from
// the extension. [Decode] reads from any io.Reader:
//
//	doc, err := io.ImportFile("sample.json")
//	if err != nil {
//	    return err
//	}
//	m, err := doc.Matrix()
//
// Decoding failures and shape violations are reported as INVALID_INPUT or
// INVALID_DIMENSIONS errors from pkg/errors.
//
// # Export
//
// [NewDocument] captures any [matrix.Matrix] as a document, and [Encode]
// or [ExportFile] serialize it as JSON or TOML. Dense matrices export as
// data, sparse ones as cells, so a re-import produces an equivalent matrix.
//
// [matrix.Matrix]: github.com/matzehuels/matrixplot/pkg/matrix.Matrix
package io

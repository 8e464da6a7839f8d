// Package pkg provides the core libraries for matrixplot.
//
// # Overview
//
// Matrixplot draws a matrix as a raster image: every cell becomes a square
// block of pixels, red for positive values and black for negative ones, with
// opacity proportional to magnitude. The pkg directory is organized as:
//
//  1. [matrix] - Dense and optional matrix containers and cell classification
//  2. [plot] - Config, scaling, extrema and the pixel renderer
//  3. [plot/sink] - PNG, BMP and TIFF encoding
//  4. [io] - JSON, TOML and Matrix Market documents
//  5. [pipeline] - Orchestration (import → scale → render → encode) with caching
//  6. [cache] - File, Redis and null caches for rendered images
//
// # Architecture
//
//	JSON / TOML / Matrix Market document
//	         ↓
//	    [io] package (decode to a matrix)
//	         ↓
//	    [plot] package (scale, extrema, render)
//	         ↓
//	    [plot/sink] package (encode)
//	         ↓
//	    PNG/BMP/TIFF output
//
// # Quick Start
//
//	doc, _ := io.ImportFile("weights.json")
//	m, _ := doc.Matrix()
//
//	cfg := plot.DefaultConfig()
//	cfg.ScalingFactor = 8
//	img, _ := plot.Plot(m, cfg)
//	_ = sink.Save("weights.png", img, sink.FormatPNG)
//
// Use [pipeline.Runner] instead when results should be cached.
//
// # Errors
//
// All packages return [errors.Error] values carrying a [errors.Code], so
// callers can branch on the failure class with errors.Is.
package pkg

// Package pipeline provides the import → render → encode pipeline shared by
// the CLI and the HTTP service.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Import: decode a matrix document (JSON, TOML or Matrix Market)
//  2. Render: scale, compute extrema and rasterize with pkg/plot
//  3. Encode: write the image as png, bmp or tiff with pkg/plot/sink
//
// Encoded images are cached under a key derived from the canonical
// document and the options that affect pixels.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	doc, err := runner.Import(ctx, "sample.json")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Config: plot.DefaultConfig(),
//	    Format: sink.FormatPNG,
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("sample.png", result.Artifact, 0o644)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/matrixplot/pkg/cache"
	"github.com/matzehuels/matrixplot/pkg/errors"
	"github.com/matzehuels/matrixplot/pkg/plot"
	"github.com/matzehuels/matrixplot/pkg/plot/sink"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Config controls rendering. Its Logger is replaced by Options.Logger.
	Config plot.Config `json:"config"`

	// Format is the output encoding; empty means sink.DefaultFormat.
	Format sink.Format `json:"format,omitempty"`

	// Refresh skips the cache lookup but still stores the result.
	Refresh bool `json:"refresh,omitempty"`

	// MaxCells caps rows*cols*ScalingFactor² of a run; 0 means no limit.
	MaxCells int `json:"max_cells,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Artifact is the encoded image.
	Artifact []byte

	// Format is the encoding of Artifact.
	Format sink.Format

	// DocumentHash is the content hash of the canonical input document.
	DocumentHash string

	// Extrema are the extreme values found in the matrix.
	Extrema plot.Extrema

	// Stats contains sizes and timings.
	Stats Stats

	// CacheHit reports whether Artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	Cols       int
	Width      int
	Height     int
	Bytes      int
	RenderTime time.Duration
	EncodeTime time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Format == "" {
		o.Format = sink.DefaultFormat
	}
	f, err := sink.ParseFormat(string(o.Format))
	if err != nil {
		return err
	}
	o.Format = f
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.Config.Logger = o.Logger
	o.validated = true
	return nil
}

// CheckSize rejects a rows x cols matrix whose scaled pixel count exceeds
// MaxCells. Options must have been validated.
func (o *Options) CheckSize(rows, cols int) error {
	if o.MaxCells <= 0 || rows <= 0 || cols <= 0 {
		return nil
	}
	k := o.Config.ScalingFactor
	limit := o.MaxCells
	if rows > limit/cols {
		return tooLarge(rows, cols, k, limit)
	}
	cells := rows * cols
	if cells > limit/k || cells*k > limit/k {
		return tooLarge(rows, cols, k, limit)
	}
	return nil
}

func tooLarge(rows, cols, k, limit int) error {
	return errors.New(errors.ErrCodeInvalidDimensions,
		"%dx%d matrix at scaling factor %d exceeds the limit of %d cells", rows, cols, k, limit)
}

// KeyOpts returns the cache key options for this run.
func (o *Options) KeyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format:           string(o.Format),
		ScalingFactor:    o.Config.ScalingFactor,
		WithColor:        o.Config.WithColor,
		AnnotateImage:    o.Config.AnnotateImage,
		DrawDiagonal:     o.Config.DrawDiagonal,
		DrawBoundaries:   o.Config.DrawBoundaries,
		StrictBoundaries: o.Config.StrictBoundaries,
	}
}

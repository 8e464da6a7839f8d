package pipeline

import (
	"image"
	"time"

	"github.com/matzehuels/matrixplot/pkg/matrix"
	"github.com/matzehuels/matrixplot/pkg/plot"
	"github.com/matzehuels/matrixplot/pkg/plot/sink"
)

// Render runs the render stage: scale m, compute extrema on the scaled
// matrix and rasterize it. opts must already be validated.
func Render(m matrix.Matrix, opts Options) (*image.NRGBA, plot.Extrema, error) {
	scaled, err := plot.Scale(m, opts.Config)
	if err != nil {
		return nil, plot.Extrema{}, err
	}
	ext := plot.ComputeExtrema(scaled)
	img, err := plot.Render(scaled, opts.Config, ext)
	if err != nil {
		return nil, ext, err
	}
	return img, ext, nil
}

// Encode runs the encode stage and returns the artifact bytes together
// with the time spent.
func Encode(img image.Image, format sink.Format) ([]byte, time.Duration, error) {
	start := time.Now()
	data, err := sink.Bytes(img, format)
	return data, time.Since(start), err
}

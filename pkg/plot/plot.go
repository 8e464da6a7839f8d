package plot

import (
	"image"

	"github.com/matzehuels/matrixplot/pkg/matrix"
)

// Plot scales m, computes its extrema and renders it.
// The image is (cols*k + 1) x (rows*k + 1) pixels.
func Plot(m matrix.Matrix, cfg Config) (*image.NRGBA, error) {
	scaled, err := Scale(m, cfg)
	if err != nil {
		return nil, err
	}
	return Render(scaled, cfg, ComputeExtrema(scaled))
}

// ImageSize returns the width and height Plot produces for a rows x cols
// matrix, without rendering.
func ImageSize(rows, cols int, cfg Config) (width, height int) {
	k := cfg.ScalingFactor
	if k < 1 {
		k = DefaultScalingFactor
	}
	return cols*k + 1, rows*k + 1
}

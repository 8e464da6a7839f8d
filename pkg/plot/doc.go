// Package plot turns a [matrix.Matrix] into a raster image.
//
// # Overview
//
// Rendering happens in three steps, each usable on its own:
//
//  1. [Scale] replicates every cell into a k x k block (nearest neighbour).
//  2. [ComputeExtrema] finds the (min, max) used to normalize magnitudes.
//  3. [Render] walks every pixel and picks its color.
//
// [Plot] chains the three:
//
//	cfg := plot.DefaultConfig()
//	cfg.ScalingFactor = 10
//	img, err := plot.Plot(m, cfg)
//	if err != nil {
//	    return err
//	}
//	err = sink.Save("matrix.png", img, sink.FormatPNG)
//
// # Colors
//
// The palette is fixed (see [DefaultPalette]):
//
//   - absent and zero cells are opaque white
//   - positive cells are red, alpha proportional to value/max
//   - negative cells are black, alpha proportional to |value|/|min|
//   - with WithColor off, every non-zero cell is opaque black
//   - the diagonal is translucent red, grid boundaries are blue
//
// # Image Size
//
// The image is one pixel wider and taller than the matrix so the last
// boundary line has somewhere to go. Without annotations that extra row
// and column stay fully transparent.
//
// # Boundary Precedence
//
// The boundary rule reads (DrawBoundaries && x%k == 0) || y%k == 0, so
// horizontal lines appear whenever annotations are on, even with
// DrawBoundaries off. Existing images depend on this, so it is the
// default. Set [Config.StrictBoundaries] to require DrawBoundaries for
// both directions.
package plot

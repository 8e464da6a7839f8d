package plot

import "image/color"

// Palette lists the colors the renderer uses. Positive and Negative are
// base colors whose alpha is replaced by the normalized magnitude.
type Palette struct {
	Diagonal color.NRGBA
	Boundary color.NRGBA
	Empty    color.NRGBA
	Flat     color.NRGBA
	Positive color.NRGBA
	Negative color.NRGBA
}

var palette = Palette{
	Diagonal: color.NRGBA{R: 255, A: 125},
	Boundary: color.NRGBA{B: 255, A: 255},
	Empty:    color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	Flat:     color.NRGBA{A: 255},
	Positive: color.NRGBA{R: 255, A: 255},
	Negative: color.NRGBA{A: 255},
}

// DefaultPalette returns a copy of the fixed palette.
func DefaultPalette() Palette { return palette }

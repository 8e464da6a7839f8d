// Package sink writes rendered matrix images to files and streams.
//
// Only lossless formats are offered so that every pixel, including the
// alpha-encoded magnitudes, survives the round trip:
//
//   - png (default)
//   - bmp (32-bit with alpha)
//   - tiff (deflate compressed)
//
// Basic usage:
//
//	img, err := plot.Plot(m, cfg)
//	if err != nil {
//	    return err
//	}
//	if err := sink.Save("matrix.png", img, sink.FormatFromPath("matrix.png")); err != nil {
//	    return err
//	}
//
// Save never retries. Failures are reported as IMAGE_WRITE errors from
// pkg/errors with the underlying cause attached.
package sink

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/matzehuels/matrixplot/pkg/errors"
)

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// DefaultFormat is used when neither a flag nor an extension names one.
const DefaultFormat = FormatPNG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[Format]bool{
	FormatPNG:  true,
	FormatBMP:  true,
	FormatTIFF: true,
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	}
	return "image/png"
}

// Ext returns the canonical file extension for f, with the dot.
func (f Format) Ext() string { return "." + string(f) }

// ParseFormat validates a user-supplied format name. "tif" is accepted as
// an alias for tiff.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "tif" {
		f = FormatTIFF
	}
	if !ValidFormats[f] {
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: png, bmp, tiff)", s)
	}
	return f, nil
}

// FormatFromPath infers the format from the file extension, falling back
// to [DefaultFormat].
func FormatFromPath(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if f, err := ParseFormat(ext); err == nil {
		return f
	}
	return DefaultFormat
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", f)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeImageWrite, err, "encode %s", f)
	}
	return nil
}

// Bytes encodes img in memory.
func Bytes(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save encodes img and writes it to path. A partially written file is
// removed on failure.
func Save(path string, img image.Image, f Format) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if !ValidFormats[f] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", f)
	}
	data, err := Bytes(img, f)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// WriteFile writes already encoded image data to path.
func WriteFile(path string, data []byte) error {
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeImageWrite, err, "create %s", path)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		_ = os.Remove(path)
		return errors.Wrap(errors.ErrCodeImageWrite, err, "write %s", path)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return errors.Wrap(errors.ErrCodeImageWrite, err, "close %s", path)
	}
	return nil
}

package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/matzehuels/matrixplot/pkg/errors"
)

func sample() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 125})
	img.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 255})
	img.SetNRGBA(2, 1, color.NRGBA{R: 255, A: 26})
	img.SetNRGBA(3, 2, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"png", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{"bmp", FormatBMP, false},
		{"tiff", FormatTIFF, false},
		{"tif", FormatTIFF, false},
		{" png ", FormatPNG, false},
		{"jpeg", "", true},
		{"svg", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ParseFormat(%q) wrong code: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"out.png", FormatPNG},
		{"out.BMP", FormatBMP},
		{"plots/out.tif", FormatTIFF},
		{"out.jpg", DefaultFormat},
		{"out", DefaultFormat},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFormatMetadata(t *testing.T) {
	if FormatPNG.ContentType() != "image/png" || FormatBMP.ContentType() != "image/bmp" || FormatTIFF.ContentType() != "image/tiff" {
		t.Error("unexpected content types")
	}
	if FormatTIFF.Ext() != ".tiff" {
		t.Errorf("FormatTIFF.Ext() = %q", FormatTIFF.Ext())
	}
}

func TestEncodePNGPreservesAlpha(t *testing.T) {
	src := sample()
	data, err := Bytes(src, FormatPNG)
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if decoded.Bounds() != src.Bounds() {
		t.Fatalf("bounds = %v, want %v", decoded.Bounds(), src.Bounds())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			got := color.NRGBAModel.Convert(decoded.At(x, y)).(color.NRGBA)
			if want := src.NRGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestEncodeOtherFormats(t *testing.T) {
	src := sample()

	data, err := Bytes(src, FormatBMP)
	if err != nil {
		t.Fatalf("Bytes(bmp) error = %v", err)
	}
	img, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("bmp.Decode() error = %v", err)
	}
	if img.Bounds().Size() != src.Bounds().Size() {
		t.Errorf("bmp bounds = %v, want %v", img.Bounds(), src.Bounds())
	}

	data, err = Bytes(src, FormatTIFF)
	if err != nil {
		t.Fatalf("Bytes(tiff) error = %v", err)
	}
	img, err = tiff.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("tiff.Decode() error = %v", err)
	}
	if img.Bounds().Size() != src.Bounds().Size() {
		t.Errorf("tiff bounds = %v, want %v", img.Bounds(), src.Bounds())
	}

	if _, err := Bytes(src, Format("gif")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Bytes(gif) error = %v, want INVALID_FORMAT", err)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matrix.png")

	if err := Save(path, sample(), FormatPNG); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() == 0 {
		t.Error("saved file is empty")
	}
}

func TestSaveErrors(t *testing.T) {
	dir := t.TempDir()

	err := Save(filepath.Join(dir, "missing", "matrix.png"), sample(), FormatPNG)
	if !errors.Is(err, errors.ErrCodeImageWrite) {
		t.Errorf("Save(missing dir) error = %v, want IMAGE_WRITE", err)
	}

	err = Save("", sample(), FormatPNG)
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Save(\"\") error = %v, want INVALID_PATH", err)
	}

	err = Save(filepath.Join(dir, "matrix.gif"), sample(), Format("gif"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Save(gif) error = %v, want INVALID_FORMAT", err)
	}
}

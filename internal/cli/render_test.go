package cli

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/matzehuels/matrixplot/pkg/errors"
	"github.com/matzehuels/matrixplot/pkg/pipeline"
	"github.com/matzehuels/matrixplot/pkg/plot"
	"github.com/matzehuels/matrixplot/pkg/plot/sink"
)

const sampleJSON = `{"data": [[1, 0, -2], [0, 3, 0]]}`

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func decodeImage(t *testing.T, path string, decode func(f *os.File) (image.Image, error)) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func decodePNG(f *os.File) (image.Image, error) { return png.Decode(f) }
func decodeBMP(f *os.File) (image.Image, error) { return bmp.Decode(f) }

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input  string
		format sink.Format
		want   string
	}{
		{"m.json", sink.FormatPNG, "m.png"},
		{"dir/m.toml", sink.FormatBMP, "dir/m.bmp"},
		{"laplace.mtx", sink.FormatTIFF, "laplace.tiff"},
		{"noext", sink.FormatPNG, "noext.png"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.input, tt.format); got != tt.want {
			t.Errorf("outputPath(%q, %s) = %q, want %q", tt.input, tt.format, got, tt.want)
		}
	}
}

func TestRunRender(t *testing.T) {
	c, out := newTestCLI(t)
	ctx := withLogger(context.Background(), c.Logger)
	input := writeDoc(t, "m.json", sampleJSON)
	opts := pipeline.Options{Config: plot.DefaultConfig(), Format: sink.FormatPNG}

	result, err := c.runRender(ctx, input, "", opts, cacheFlags{})
	if err != nil {
		t.Fatalf("runRender() error: %v", err)
	}
	if result.CacheHit {
		t.Error("first render should not be cached")
	}

	output := strings.TrimSuffix(input, ".json") + ".png"
	img := decodeImage(t, output, decodePNG)
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("image bounds = %v, want 4x3", b)
	}
	if !strings.Contains(out.String(), "fresh") {
		t.Errorf("summary should report a fresh render: %q", out.String())
	}

	out.Reset()
	result, err = c.runRender(ctx, input, "", opts, cacheFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if !result.CacheHit {
		t.Error("second render should be cached")
	}
	if !strings.Contains(out.String(), "cached") {
		t.Errorf("summary should report a cache hit: %q", out.String())
	}
}

func TestRunRenderErrors(t *testing.T) {
	c, _ := newTestCLI(t)
	ctx := context.Background()
	opts := pipeline.Options{Config: plot.DefaultConfig()}

	_, err := c.runRender(ctx, filepath.Join(t.TempDir(), "missing.json"), "", opts, cacheFlags{noCache: true})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing input error = %v, want FILE_NOT_FOUND", err)
	}

	input := writeDoc(t, "m.json", sampleJSON)
	_, err = c.runRender(ctx, input, filepath.Join(t.TempDir(), "nope", "m.png"), opts, cacheFlags{noCache: true})
	if !errors.Is(err, errors.ErrCodeImageWrite) {
		t.Errorf("unwritable output error = %v, want IMAGE_WRITE", err)
	}

	_, err = c.runRender(ctx, input, t.TempDir()+"/", opts, cacheFlags{noCache: true})
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("directory output error = %v, want INVALID_PATH", err)
	}
}

func TestRenderCommand(t *testing.T) {
	c, _ := newTestCLI(t)
	input := writeDoc(t, "m.json", sampleJSON)

	if err := execute(t, c, "render", input, "--scale", "2", "--format", "bmp", "--no-cache"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	img := decodeImage(t, strings.TrimSuffix(input, ".json")+".bmp", decodeBMP)
	if b := img.Bounds(); b.Dx() != 7 || b.Dy() != 5 {
		t.Errorf("image bounds = %v, want 7x5", b)
	}
}

func TestRenderCommandFormatFromOutput(t *testing.T) {
	c, _ := newTestCLI(t)
	input := writeDoc(t, "m.json", sampleJSON)
	output := filepath.Join(filepath.Dir(input), "out.bmp")

	if err := execute(t, c, "render", input, "-o", output, "--no-cache"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	decodeImage(t, output, decodeBMP)
}

func TestRenderCommandConfigPrecedence(t *testing.T) {
	c, _ := newTestCLI(t)
	input := writeDoc(t, "m.json", sampleJSON)
	config := writeDoc(t, "plot.toml", "scaling_factor = 5\nannotate_image = true\ndraw_diagonal = true\n")
	output := filepath.Join(filepath.Dir(input), "m.png")

	if err := execute(t, c, "render", input, "--config", config, "--no-cache"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	img := decodeImage(t, output, decodePNG)
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 11 {
		t.Errorf("config scale: bounds = %v, want 16x11", b)
	}
	// diagonal from the config file
	if _, _, _, a := img.At(7, 7).RGBA(); a == 0 {
		t.Error("diagonal pixel should be opaque")
	}

	if err := execute(t, c, "render", input, "--config", config, "--scale", "3", "--no-cache"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	img = decodeImage(t, output, decodePNG)
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 7 {
		t.Errorf("flag override: bounds = %v, want 10x7", b)
	}
}

func TestRenderCommandInvalidFlags(t *testing.T) {
	c, _ := newTestCLI(t)
	input := writeDoc(t, "m.json", sampleJSON)

	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"zero scale", []string{"--scale", "0"}, errors.ErrCodeInvalidScalingFactor},
		{"bad format", []string{"--format", "gif"}, errors.ErrCodeInvalidFormat},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "none.toml")}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", input, "--no-cache"}, tt.args...)
			if err := execute(t, c, args...); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want)
			}
		})
	}
}

package plot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/matrixplot/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.WithColor {
		t.Error("DefaultConfig().WithColor = false, want true")
	}
	if cfg.ScalingFactor != DefaultScalingFactor {
		t.Errorf("DefaultConfig().ScalingFactor = %d, want %d", cfg.ScalingFactor, DefaultScalingFactor)
	}
	if cfg.AnnotateImage || cfg.DrawDiagonal || cfg.DrawBoundaries || cfg.StrictBoundaries {
		t.Error("DefaultConfig() should not annotate")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestDecodeConfig(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Config
		wantErr errors.Code
	}{
		{
			name:  "empty keeps defaults",
			input: "",
			want:  DefaultConfig(),
		},
		{
			name: "full",
			input: `verbosity = 2
with_color = false
annotate_image = true
draw_diagonal = true
draw_boundaries = true
strict_boundaries = true
scaling_factor = 10
`,
			want: Config{
				Verbosity:        2,
				AnnotateImage:    true,
				DrawDiagonal:     true,
				DrawBoundaries:   true,
				StrictBoundaries: true,
				ScalingFactor:    10,
			},
		},
		{
			name:    "zero scaling factor",
			input:   "scaling_factor = 0\n",
			wantErr: errors.ErrCodeInvalidScalingFactor,
		},
		{
			name:    "unknown key",
			input:   "scale = 3\n",
			wantErr: errors.ErrCodeInvalidConfig,
		},
		{
			name:    "malformed",
			input:   "with_color = maybe\n",
			wantErr: errors.ErrCodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeConfig(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeConfig() error = %v, want %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeConfig() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plot.toml")
	if err := os.WriteFile(path, []byte("scaling_factor = 4\nannotate_image = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.ScalingFactor != 4 || !cfg.AnnotateImage || !cfg.WithColor {
		t.Errorf("LoadConfig() = %+v", cfg)
	}

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("LoadConfig(missing) error = %v, want FILE_NOT_FOUND", err)
	}

	cfg, err = LoadConfig(filepath.Join("..", "..", "examples", "plot.toml"))
	if err != nil {
		t.Fatalf("LoadConfig(example) error = %v", err)
	}
	if cfg.ScalingFactor != 8 || !cfg.DrawDiagonal || !cfg.DrawBoundaries {
		t.Errorf("LoadConfig(example) = %+v", cfg)
	}
}

func TestVerbosityOnlyAffectsLogs(t *testing.T) {
	m := optional(t, 10, 10, mixed...)

	quiet := annotated(2)
	want := mustPlot(t, m, quiet)

	var buf bytes.Buffer
	loud := quiet
	loud.Verbosity = 3
	loud.Logger = log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	got := mustPlot(t, m, loud)

	if !bytes.Equal(got.Pix, want.Pix) {
		t.Error("verbosity changed the rendered pixels")
	}
	for _, msg := range []string{"scale matrix", "render matrix", "generating image", "scaling factor"} {
		if !strings.Contains(buf.String(), msg) {
			t.Errorf("log output missing %q:\n%s", msg, buf.String())
		}
	}
}

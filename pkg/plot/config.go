package plot

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/matrixplot/pkg/errors"
)

// DefaultScalingFactor is used when a config leaves the factor unset.
const DefaultScalingFactor = 1

// Config holds the rendering options. Build it once and treat it as
// read-only afterwards; every function in this package takes it by value.
type Config struct {
	// Verbosity only controls diagnostic logging, never output.
	Verbosity uint8 `toml:"verbosity" json:"verbosity,omitempty"`

	// WithColor enables sign-dependent hue and magnitude-dependent alpha.
	// Off renders non-zero cells as opaque black.
	WithColor bool `toml:"with_color" json:"with_color"`

	// AnnotateImage is the master switch for the diagonal and boundaries.
	AnnotateImage  bool `toml:"annotate_image" json:"annotate_image"`
	DrawDiagonal   bool `toml:"draw_diagonal" json:"draw_diagonal"`
	DrawBoundaries bool `toml:"draw_boundaries" json:"draw_boundaries"`

	// StrictBoundaries makes DrawBoundaries gate horizontal lines too.
	StrictBoundaries bool `toml:"strict_boundaries" json:"strict_boundaries,omitempty"`

	// ScalingFactor is the side length of the block each cell becomes.
	ScalingFactor int `toml:"scaling_factor" json:"scaling_factor"`

	// Logger receives diagnostics. Nil discards them.
	Logger *log.Logger `toml:"-" json:"-"`
}

// DefaultConfig returns shaded colors, no annotations and no scaling.
func DefaultConfig() Config {
	return Config{
		WithColor:     true,
		ScalingFactor: DefaultScalingFactor,
	}
}

// Validate checks the options that would make rendering impossible.
func (c Config) Validate() error {
	if c.ScalingFactor < 1 {
		return errors.New(errors.ErrCodeInvalidScalingFactor,
			"scaling factor must be >= 1, got %d", c.ScalingFactor)
	}
	return nil
}

// LoadConfig reads a TOML file on top of [DefaultConfig]. Keys missing
// from the file keep their defaults; unknown keys are rejected so typos
// do not silently fall back to defaults.
//
//	with_color = true
//	annotate_image = true
//	draw_diagonal = true
//	draw_boundaries = true
//	scaling_factor = 10
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open config %s", path)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig is [LoadConfig] for an already opened reader.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidConfig,
			"unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) logger() *log.Logger {
	if c.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return c.Logger
}

// trace emits call-level diagnostics, only above verbosity 2.
func (c Config) trace(msg string, keyvals ...any) {
	if c.Verbosity > 2 {
		c.logger().Debug(msg, keyvals...)
	}
}

package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/matrixplot/pkg/errors"
	"github.com/matzehuels/matrixplot/pkg/pipeline"
	"github.com/matzehuels/matrixplot/pkg/plot"
	"github.com/matzehuels/matrixplot/pkg/plot/sink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output image path; derived from the input when empty
	format     string // png, bmp or tiff; inferred from output when empty
	configPath string // TOML file with plot options

	scale      int  // side length of each cell's pixel block
	color      bool // sign hue and magnitude alpha
	annotate   bool // master switch for diagonal and boundaries
	diagonal   bool // draw the main diagonal
	boundaries bool // draw vertical block boundaries
	strict     bool // let --boundaries gate horizontal lines too

	refresh bool // re-render even on a cache hit
	cache   cacheFlags
}

// renderCommand creates the render command.
//
// Plot options are resolved in three layers: defaults, then --config,
// then any flag given explicitly on the command line.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		scale: plot.DefaultScalingFactor,
		color: true,
	}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a matrix document to an image",
		Long: `Render a matrix document (.json, .toml or Matrix Market .mtx) to a PNG,
BMP or TIFF image. Each cell becomes a scale × scale block of pixels.`,
		Example: `  matrixplot render weights.json
  matrixplot render laplace.mtx -o laplace.png --scale 8 --annotate --diagonal --boundaries
  matrixplot render data.toml --config plot.toml --format tiff`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.pipelineOptions(cmd, &opts)
			if err != nil {
				return err
			}
			_, err = c.runRender(cmd.Context(), args[0], opts.output, popts, opts.cache)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output image (default <input>.<format>)")
	f.StringVarP(&opts.format, "format", "f", "", "image format: png (default), bmp, tiff")
	f.StringVarP(&opts.configPath, "config", "c", "", "TOML file with plot options")
	f.IntVarP(&opts.scale, "scale", "s", opts.scale, "pixels per cell side")
	f.BoolVar(&opts.color, "color", opts.color, "shade by sign and magnitude (--color=false for black)")
	f.BoolVar(&opts.annotate, "annotate", false, "enable annotations")
	f.BoolVar(&opts.diagonal, "diagonal", false, "draw the main diagonal (needs --annotate)")
	f.BoolVar(&opts.boundaries, "boundaries", false, "draw block boundaries (needs --annotate)")
	f.BoolVar(&opts.strict, "strict-boundaries", false, "apply --boundaries to horizontal lines too")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached renders")
	opts.cache.bind(cmd)

	return cmd
}

// pipelineOptions resolves the plot config and output format from flags.
func (c *CLI) pipelineOptions(cmd *cobra.Command, opts *renderOpts) (pipeline.Options, error) {
	cfg := plot.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := plot.LoadConfig(opts.configPath)
		if err != nil {
			return pipeline.Options{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("scale") {
		cfg.ScalingFactor = opts.scale
	}
	if flags.Changed("color") {
		cfg.WithColor = opts.color
	}
	if flags.Changed("annotate") {
		cfg.AnnotateImage = opts.annotate
	}
	if flags.Changed("diagonal") {
		cfg.DrawDiagonal = opts.diagonal
	}
	if flags.Changed("boundaries") {
		cfg.DrawBoundaries = opts.boundaries
	}
	if flags.Changed("strict-boundaries") {
		cfg.StrictBoundaries = opts.strict
	}
	if c.verbosity > 0 {
		cfg.Verbosity = c.plotVerbosity()
	}
	if err := cfg.Validate(); err != nil {
		return pipeline.Options{}, err
	}

	format := sink.DefaultFormat
	switch {
	case opts.format != "":
		f, err := sink.ParseFormat(opts.format)
		if err != nil {
			return pipeline.Options{}, err
		}
		format = f
	case opts.output != "":
		format = sink.FormatFromPath(opts.output)
	}

	return pipeline.Options{Config: cfg, Format: format, Refresh: opts.refresh}, nil
}

// outputPath replaces the input's extension with the image format's.
func outputPath(input string, format sink.Format) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + format.Ext()
}

// runRender imports input, renders it and writes the image. An empty
// output is derived from the input path.
func (c *CLI) runRender(ctx context.Context, input, output string, opts pipeline.Options, cf cacheFlags) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	if output == "" {
		output = outputPath(input, opts.Format)
	}
	if err := errors.ValidateOutputPath(output); err != nil {
		return nil, err
	}

	runner, err := c.newRunner(cf)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	doc, err := runner.Import(ctx, input)
	if err != nil {
		return nil, err
	}

	opts.Logger = logger
	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	if want := sink.FormatFromPath(output); filepath.Ext(output) != "" && want != result.Format {
		printWarning(c.out, "writing %s data to %s", result.Format, filepath.Base(output))
	}

	if err := sink.WriteFile(output, result.Artifact); err != nil {
		return nil, err
	}
	prog.done("Rendered " + output)

	printRenderSummary(c.out, input, output, result)
	return result, nil
}

package cli

import (
	"context"
	"io"
	"math"
	"net/url"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/matrixplot/pkg/buildinfo"
	"github.com/matzehuels/matrixplot/pkg/cache"
	"github.com/matzehuels/matrixplot/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "matrixplot"

	// cacheURLEnv names a shared Redis cache when --cache-url is not given.
	cacheURLEnv = "MATRIXPLOT_CACHE_URL"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// out receives user-facing output such as render summaries.
	out io.Writer

	// verbosity counts -v flags.
	verbosity int
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Matrixplot renders matrices as raster images",
		Long: `Matrixplot turns a matrix into an image with one pixel block per cell.
Positive values are drawn in red, negative values in black, with opacity
proportional to magnitude. Optional annotations mark the main diagonal and
block boundaries.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.SetLogLevel(levelFor(c.verbosity))
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().CountVarP(&c.verbosity, "verbose", "v",
		"increase verbosity (-v image size, -vv scaling factor, -vvv trace)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// levelFor maps the -v count to a log level.
func levelFor(verbosity int) log.Level {
	if verbosity > 0 {
		return LogDebug
	}
	return LogInfo
}

// plotVerbosity clamps the -v count into the renderer's verbosity range.
func (c *CLI) plotVerbosity() uint8 {
	if c.verbosity > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(c.verbosity)
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the render cache backend.
type cacheFlags struct {
	noCache bool
	url     string
}

func (f *cacheFlags) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().StringVar(&f.url, "cache-url", "", "redis URL for a shared cache (default $"+cacheURLEnv+")")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(f cacheFlags) (*pipeline.Runner, error) {
	ch, err := c.newCache(f)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// newCache picks Redis when a URL is configured, the user cache directory
// otherwise, and no cache when that directory cannot be determined.
func (c *CLI) newCache(f cacheFlags) (cache.Cache, error) {
	if f.noCache {
		return cache.NewNullCache(), nil
	}
	cacheURL := f.url
	if cacheURL == "" {
		cacheURL = os.Getenv(cacheURLEnv)
	}
	if cacheURL != "" {
		c.Logger.Debug("using redis cache", "url", redactURL(cacheURL))
		return cache.NewRedisCache(cacheURL)
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// redactURL masks the password of a connection URL for logging.
func redactURL(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/matrixplot/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/matrixplot/internal/server"
)

type serveOpts struct {
	addr     string
	root     string
	maxBody  int64
	maxCells int
	cache    cacheFlags
}

// serveCommand creates the serve command, which runs the HTTP render
// service until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:     server.DefaultAddr,
		maxBody:  server.DefaultMaxBodyBytes,
		maxCells: server.DefaultMaxCells,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders over HTTP",
		Long: `Run the HTTP render service.

  POST /api/v1/render           render the document in the request body
  GET  /api/v1/files/<path>     render a document below --root
  GET  /healthz                 liveness check

Render options are query parameters: format, scale, color, annotate,
diagonal, boundaries, strict and refresh.`,
		Example: `  matrixplot serve --addr :9000 --root ./matrices
  curl --data-binary @m.json 'localhost:9000/api/v1/render?scale=4' -o m.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.root, "root", "", "directory served under /api/v1/files/ (disabled when empty)")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", opts.maxBody, "maximum request body size in bytes")
	cmd.Flags().IntVar(&opts.maxCells, "max-cells", opts.maxCells, "maximum rows*cols*scale² per render")
	opts.cache.bind(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	runner, err := c.newRunner(opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if opts.root == "" {
		printInfo(c.out, "File route disabled; pass --root to enable it")
	}
	srv := server.New(runner, server.Config{
		Addr:         opts.addr,
		Root:         opts.root,
		MaxBodyBytes: opts.maxBody,
		MaxCells:     opts.maxCells,
		Logger:       loggerFromContext(ctx),
	})
	return srv.ListenAndServe(ctx)
}

package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/matrixplot/pkg/errors"
	mio "github.com/matzehuels/matrixplot/pkg/io"
)

// convertCommand creates the convert command, which rewrites a document
// as JSON or TOML. Matrix Market input is the typical use.
func (c *CLI) convertCommand() *cobra.Command {
	var output, to string

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a matrix document to JSON or TOML",
		Long: `Convert a matrix document to JSON or TOML. The matrix is validated on the
way: matrices with implicit zeros are written as dense "data" rows, all
others as "cells" listing their present entries.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args[0], output, to)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; its extension picks the format")
	cmd.Flags().StringVarP(&to, "to", "t", string(mio.FormatJSON), "output format when -o is not given: json, toml")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, input, output, to string) error {
	logger := loggerFromContext(ctx)

	if output == "" {
		f := mio.Format(strings.ToLower(to))
		if f != mio.FormatJSON && f != mio.FormatTOML {
			return errors.New(errors.ErrCodeInvalidFormat, "cannot convert to %q (must be json or toml)", to)
		}
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + string(f)
	}
	if filepath.Clean(output) == filepath.Clean(input) {
		return errors.New(errors.ErrCodeInvalidPath, "output %s would overwrite the input", output)
	}
	if err := errors.ValidateOutputPath(output); err != nil {
		return err
	}

	doc, err := mio.ImportFile(input)
	if err != nil {
		return err
	}
	m, err := doc.Matrix()
	if err != nil {
		return err
	}
	logger.Debug("converting", "input", input, "rows", m.Rows(), "cols", m.Cols())

	if err := mio.ExportFile(mio.NewDocument(m), output); err != nil {
		return err
	}
	printSuccess(c.out, "Converted %s", input)
	printFile(c.out, output)
	printNextStep(c.out, "Render it", "matrixplot render "+output)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pedigree/pkg/render/nodelink"
)

const (
	formatSVG = "svg"
	formatDOT = "dot"
)

var validFormats = []string{formatSVG, formatDOT}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path
	format   string // svg or dot
	detailed bool   // rank, order and names in node labels
}

// renderCommand creates the render command, a debug view of the computed
// layout drawn with Graphviz at the engine's own coordinates.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render [snapshot.json]",
		Short: "Draw the layout of a pedigree snapshot as SVG or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show rank, order and names in labels")

	return cmd
}

func validateFormat(format string) error {
	if !slices.Contains(validFormats, format) {
		return fmt.Errorf("invalid format: %s (must be one of %v)", format, validFormats)
	}
	return nil
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	e, err := c.layoutFile(ctx, input)
	if err != nil {
		return err
	}

	dot := nodelink.ToDOT(e.Graph(), nodelink.Options{Detailed: opts.detailed})
	data := []byte(dot)
	if opts.format == formatSVG {
		if data, err = nodelink.RenderSVG(ctx, dot); err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
	}

	path := outputPath(opts.output, input, "."+opts.format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess("Rendered %s", opts.format)
	printFile(path)
	return nil
}

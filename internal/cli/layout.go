package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pedigree/pkg/engine"
	"github.com/matzehuels/pedigree/pkg/graph"
)

// layoutCommand creates the layout command for computing pedigree layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		update bool
	)

	cmd := &cobra.Command{
		Use:   "layout [snapshot.json]",
		Short: "Compute the layout of a pedigree snapshot",
		Long: `Compute the layout of a pedigree snapshot.

The layout command reads a snapshot, assigns generations, orders each
generation to reduce crossing lines, and places every node. The output is a
layout.json document that a renderer can draw directly.

With --update the computed ranks, orders and positions are also written back
into the snapshot, so the next session starts from the same drawing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, update)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&update, "update", false, "write the computed layout back into the snapshot")

	return cmd
}

// runLayout loads the snapshot, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, update bool) error {
	prog := newProgress(snapshotLogger(ctx, input))
	e, err := c.layoutFile(ctx, input)
	if err != nil {
		return err
	}

	path := outputPath(output, input, ".layout.json")
	if err := writeLayout(e, path); err != nil {
		return err
	}
	if update {
		if err := graph.WriteSnapshotFile(e.Graph(), input); err != nil {
			return fmt.Errorf("update snapshot %s: %w", input, err)
		}
	}
	prog.done(fmt.Sprintf("Laid out %d nodes", e.Graph().NodeCount()), "crossings", e.Layout().Crossings)

	printSuccess("Layout complete")
	printFile(path)
	printStats(e.Layout())
	printNewline()
	printNextStep("Render", appName+" render "+input)
	return nil
}

func writeLayout(e *engine.Engine, path string) error {
	if err := graph.WriteLayoutFile(graph.FromLayout(e.Layout()), path); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}

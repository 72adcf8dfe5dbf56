package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	perr "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/graph"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// validateCommand creates the validate command, which checks a snapshot
// against the pedigree rules without laying it out.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [snapshot.json]",
		Short: "Check a pedigree snapshot for rule violations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, input string) error {
	logger := loggerFromContext(ctx)

	g, err := graph.ReadSnapshotFile(input)
	if err != nil {
		code, msg := violation(err)
		printError("%s is not a valid pedigree", input)
		if code != "" {
			printKeyValue("Code", string(code))
		}
		if nodes := perr.NodesOf(err); len(nodes) > 0 {
			printKeyValue("Nodes", fmt.Sprint(nodes))
		}
		printDetail("%s", msg)
		return fmt.Errorf("validate %s: %w", input, err)
	}
	logger.Debug("snapshot loaded", "nodes", g.NodeCount())

	people, unions := 0, 0
	for _, n := range g.Nodes() {
		switch {
		case n.Kind == pedigree.KindPartnership:
			unions++
		case n.IsIndividual():
			people++
		}
	}

	printSuccess("%s is valid", input)
	printKeyValue("Individuals", strconv.Itoa(people))
	printKeyValue("Unions", strconv.Itoa(unions))
	if p := g.Proband(); p != pedigree.NoID {
		printKeyValue("Proband", strconv.Itoa(int(p)))
	}
	return nil
}

// violation names the rule a rejected snapshot broke. Load wraps it in a
// VALIDATION error, so the innermost coded error is reported.
func violation(err error) (perr.Code, string) {
	if e := perr.Innermost(err); e != nil {
		return e.Code, e.Message
	}
	return "", err.Error()
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pedigree/pkg/engine"
	"github.com/matzehuels/pedigree/pkg/graph"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

const defaultSnapshot = "pedigree.json"

// newCommand creates the new command, which writes a starter pedigree: a
// proband with both parents.
func (c *CLI) newCommand() *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Write a starter pedigree snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNew(cmd.Context(), output, force)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultSnapshot, "output file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) runNew(ctx context.Context, output string, force bool) error {
	if !force {
		if _, err := os.Stat(output); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", output)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", output, err)
		}
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	e, err := engine.New(cfg, engine.WithLogger(loggerFromContext(ctx)))
	if err != nil {
		return err
	}
	if err := starterTrio(e); err != nil {
		return fmt.Errorf("build starter pedigree: %w", err)
	}
	if err := graph.WriteSnapshotFile(e.Graph(), output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Created starter pedigree")
	printFile(output)
	printNewline()
	printNextStep("Lay it out", appName+" layout "+output)
	return nil
}

// starterTrio adds a proband with a mother and a father.
func starterTrio(e *engine.Engine) error {
	proband, err := e.AddPerson(nil)
	if err != nil {
		return err
	}
	mother, err := e.AddPerson(&pedigree.Person{Gender: pedigree.GenderFemale})
	if err != nil {
		return err
	}
	father, err := e.AddPerson(&pedigree.Person{Gender: pedigree.GenderMale})
	if err != nil {
		return err
	}
	union, err := e.AddPartnership(mother, father)
	if err != nil {
		return err
	}
	return e.AddParentChild(union, proband)
}

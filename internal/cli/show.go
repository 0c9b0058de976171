package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/familytree/internal/render"
	"github.com/mesh-intelligence/familytree/internal/store"
	"github.com/mesh-intelligence/familytree/pkg/types"
)

func newShowCmd(a *app) *cobra.Command {
	var empty bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the starting tree and its statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := a.initialTree(empty)
			out := cmd.OutOrStdout()
			if err := render.Outline(out, root, ""); err != nil {
				return sysError(err)
			}
			fmt.Fprintln(out)
			if err := render.Stats(out, root); err != nil {
				return sysError(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&empty, "empty", false, "start from a single-member tree instead of the configured seed")
	return cmd
}

// initialTree builds the tree a command starts with.
func (a *app) initialTree(empty bool) *types.Member {
	seed := a.cfg.Seed
	if empty {
		seed = types.SeedEmpty
	}
	return store.Initial(seed, a.cfg.RootName)
}

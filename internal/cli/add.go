package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/metapkg/pkg/manifest"
)

func (c *CLI) addCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <package>",
		Short: "Add a dependency to pyproject.toml",
		Long: `Add a dependency specifier to [project].dependencies in pyproject.toml.

The specifier may carry extras, a version constraint and a marker:

  metapkg add requests
  metapkg add "uvicorn[standard]>=0.30"

A dependency with the same normalized name is not added twice.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := manifest.Open(c.dir)
			added, err := store.Add(args[0])
			if err != nil {
				return err
			}
			if !added {
				printInfo("%s is already in dependencies", StyleHighlight.Render(args[0]))
				return nil
			}
			printSuccess("Added %s to dependencies", StyleHighlight.Render(args[0]))
			loggerFromContext(cmd.Context()).Debug("updated manifest", "path", store.Path())
			return nil
		},
	}
}

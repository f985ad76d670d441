package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) scanCommand() *cobra.Command {
	var includeDev bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find imported packages missing from pyproject.toml",
		Long: `Scan the project's Python sources and list the distributions they import
that pyproject.toml does not declare.

Nothing is written. Add suggestions with:

  metapkg add <package>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("include-dev") {
				cfg.IncludeDev = includeDev
			}

			r, err := c.newResolver(ctx, cfg)
			if err != nil {
				return err
			}
			s, err := r.Suggest(ctx)
			if err != nil {
				return err
			}

			if len(s.Unmapped) > 0 {
				loggerFromContext(ctx).Debug("imports without a known distribution", "names", strings.Join(s.Unmapped, ", "))
			}
			if s.Empty() {
				printSuccess("All imports are covered by pyproject.toml")
				return nil
			}
			printTitle("Imported but not declared")
			for _, name := range s.Missing {
				printDetail("%s", name)
			}
			printNewline()
			printNextStep("Add them with", appName+" add "+s.Missing[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeDev, "include-dev", false, "also scan test and CI directories")
	return cmd
}

package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/metapkg/pkg/installed"
)

func (c *CLI) listCommand() *cobra.Command {
	var topLevel bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed distributions",
		Long: `List the distributions installed in the configured environment with their
versions, how many installed distributions they require and how many depend
on them.

With --top-level only distributions nothing else depends on are shown; these
are what the environment method writes to requirements.txt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			r, err := c.newResolver(ctx, cfg)
			if err != nil {
				return err
			}
			idx := r.Context().Index
			if idx.Len() == 0 {
				printWarning("No installed distributions found")
				printDetail("Set site_packages in %s or make python3 available", ".metapkg.toml")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderDistributions(idx, topLevel))
			return nil
		},
	}

	cmd.Flags().BoolVar(&topLevel, "top-level", false, "only show distributions nothing else depends on")
	return cmd
}

// renderDistributions formats the index as a table sorted by name.
func renderDistributions(idx *installed.Index, topLevelOnly bool) string {
	g := idx.Graph()
	top := make(map[string]bool)
	for _, d := range installed.TopLevelOnly(idx.All()) {
		top[d.Key()] = true
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.AppendHeader(table.Row{"Name", "Version", "Requires", "Dependents", "Top-level", "Imports"})

	shown := 0
	for _, d := range idx.All() {
		if topLevelOnly && !top[d.Key()] {
			continue
		}
		mark := ""
		if top[d.Key()] {
			mark = iconSuccess
		}
		tbl.AppendRow(table.Row{
			d.Name,
			d.Version,
			humanize.Comma(int64(len(g.Children(d.Key())))),
			humanize.Comma(int64(len(g.Parents(d.Key())))),
			mark,
			strings.Join(d.TopLevel, " "),
		})
		shown++
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %s distributions", humanize.Comma(int64(shown)))})
	return tbl.Render()
}

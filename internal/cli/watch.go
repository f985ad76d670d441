package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/metapkg/internal/config"
	"github.com/matzehuels/metapkg/internal/watch"
	"github.com/matzehuels/metapkg/pkg/imports"
	"github.com/matzehuels/metapkg/pkg/manifest"
	"github.com/matzehuels/metapkg/pkg/reqfile"
)

func (c *CLI) watchCommand() *cobra.Command {
	var opts reqsOpts

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate requirements.txt when sources change",
		Long: `Write requirements.txt, then rewrite it whenever a *.py file or
pyproject.toml in the project changes. Every regeneration takes a fresh
snapshot of the environment. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", reqfile.DefaultName, "output file, relative to the project directory")
	cmd.Flags().StringVarP(&opts.method, "method", "m", "auto", "resolution method")
	cmd.Flags().BoolVar(&opts.includeStdlib, "include-stdlib", false, "map standard-library imports too")
	cmd.Flags().BoolVar(&opts.includeDev, "include-dev", false, "scan test and CI directories and include the dev extra")
	cmd.Flags().BoolVar(&opts.allInstalled, "all", false, "environment method: write every installed distribution")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, cfg *config.Config) error {
	logger := loggerFromContext(ctx)
	output := c.projectPath(cfg.Output)

	regenerate := func(ctx context.Context) error {
		res, err := c.generate(ctx, cfg)
		if err != nil {
			return err
		}
		old, _ := os.ReadFile(output)
		if old != nil && reqfile.Hash(old) == reqfile.Hash(res.data) {
			logger.Info("requirements unchanged", "path", cfg.Output)
			return nil
		}
		if err := reqfile.WriteBytes(output, res.data); err != nil {
			return err
		}
		c.reportWrite(cfg.Output, old, res)
		return nil
	}

	if err := regenerate(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Error("generate requirements", "err", err)
	}

	scanner := imports.New(cfg.ExcludeDirs...)
	outputRel, _ := filepath.Rel(c.dir, output)
	w, err := watch.New(watch.Config{
		Root:     c.dir,
		Debounce: cfg.Watch.Debounce,
		Match: func(rel string) bool {
			return rel != outputRel && watchedFile(rel)
		},
		SkipDir: func(path string) bool { return scanner.SkipDir(path, cfg.IncludeDev) },
		OnChange: func(ctx context.Context, changed []string) error {
			logger.Debug("files changed", "paths", strings.Join(changed, ", "))
			return regenerate(ctx)
		},
		OnError: func(err error) { logger.Error("watch", "err", err) },
	})
	if err != nil {
		return err
	}

	printInfo("Watching %s for changes %s", StyleHighlight.Render(c.dir), StyleDim.Render(fmt.Sprintf("(debounce %s)", cfg.Watch.Debounce)))
	return w.Run(ctx)
}

// watchedFile reports whether a change to the file at rel can change the
// generated requirements.
func watchedFile(rel string) bool {
	base := filepath.Base(rel)
	return strings.HasSuffix(base, ".py") || base == manifest.FileName
}

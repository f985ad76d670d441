package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/metapkg/internal/config"
	"github.com/matzehuels/metapkg/pkg/errors"
	"github.com/matzehuels/metapkg/pkg/reqfile"
	"github.com/matzehuels/metapkg/pkg/resolver"
)

// reqsOpts holds the command-line flags for the reqs command. Flags that
// were set override the loaded configuration.
type reqsOpts struct {
	output        string
	method        string
	includeStdlib bool
	includeDev    bool
	allInstalled  bool
	check         bool // compare only, never write
	stdout        bool // print instead of writing
}

// apply copies the flags the user set onto cfg.
func (o *reqsOpts) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if flags.Changed("method") {
		cfg.Method = o.method
	}
	if flags.Changed("include-stdlib") {
		cfg.IncludeStdlib = o.includeStdlib
	}
	if flags.Changed("include-dev") {
		cfg.IncludeDev = o.includeDev
	}
	if flags.Changed("all") {
		cfg.AllInstalled = o.allInstalled
	}
}

func (c *CLI) reqsCommand() *cobra.Command {
	var opts reqsOpts

	cmd := &cobra.Command{
		Use:   "reqs",
		Short: "Generate requirements.txt",
		Long: fmt.Sprintf(`Resolve the project's requirements and write them to requirements.txt.

Methods:
  auto         manifest when pyproject.toml exists, imports otherwise
  manifest     dependencies declared in pyproject.toml (alias: pyproject)
  environment  installed distributions nothing else depends on (alias: env);
               pip-chill decides when it is installed, --all takes everything
  imports      third-party modules imported by the project's sources

Installed versions are pinned with ==; requirements that are not installed
are written without a version.

Examples:
  %[1]s reqs
  %[1]s reqs --method imports --include-dev
  %[1]s reqs --method environment --all
  %[1]s reqs --check              # exit non-zero when requirements.txt is stale`, appName),
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
			return c.runReqs(cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", reqfile.DefaultName, "output file, relative to the project directory")
	cmd.Flags().StringVarP(&opts.method, "method", "m", "auto", "resolution method: "+strings.Join(resolver.MethodNames(), ", "))
	cmd.Flags().BoolVar(&opts.includeStdlib, "include-stdlib", false, "map standard-library imports too")
	cmd.Flags().BoolVar(&opts.includeDev, "include-dev", false, "scan test and CI directories and include the dev extra")
	cmd.Flags().BoolVar(&opts.allInstalled, "all", false, "environment method: write every installed distribution, like pip freeze")
	cmd.Flags().BoolVar(&opts.check, "check", false, "report whether the file is up to date without writing it")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "print requirements instead of writing the file")
	cmd.MarkFlagsMutuallyExclusive("check", "stdout")

	_ = cmd.RegisterFlagCompletionFunc("method", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return resolver.MethodNames(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runReqs(cmd *cobra.Command, cfg *config.Config, opts reqsOpts) error {
	ctx := cmd.Context()
	res, err := c.generate(ctx, cfg)
	if err != nil {
		return err
	}

	if opts.stdout {
		_, err := cmd.OutOrStdout().Write(res.data)
		return err
	}

	path := c.projectPath(cfg.Output)
	old, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}

	if opts.check {
		if string(old) == string(res.data) {
			printSuccess("%s is up to date", cfg.Output)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), reqfile.Diff(old, res.data))
		return errors.New(errors.ErrCodeOutOfDate, "%s is out of date; run '%s'", cfg.Output, res.command)
	}

	if err := reqfile.WriteBytes(path, res.data); err != nil {
		return err
	}
	c.reportWrite(cfg.Output, old, res)
	return nil
}

// generation is one rendered requirements file.
type generation struct {
	method  resolver.Method
	reqs    resolver.Requirements
	command string
	data    []byte
}

// generate resolves requirements with a fresh environment snapshot and
// renders them.
func (c *CLI) generate(ctx context.Context, cfg *config.Config) (*generation, error) {
	method, err := resolver.ParseMethod(cfg.Method)
	if err != nil {
		return nil, err
	}

	prog := newProgress(loggerFromContext(ctx))
	r, err := c.newResolver(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Started after the snapshot so its warnings keep their own lines.
	spinner := c.newSpinner(ctx, "Resolving requirements...")
	spinner.Start()
	reqs, err := r.Resolve(ctx, method)
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Resolved %d requirements with %s", len(reqs), method))

	command := headerCommand(method, cfg)
	return &generation{
		method:  method,
		reqs:    reqs,
		command: command,
		data:    reqfile.Render(reqs.Pins(), command),
	}, nil
}

// headerCommand is the command line recorded in the generated file. It
// carries every setting that changes the result.
func headerCommand(m resolver.Method, cfg *config.Config) string {
	args := []string{appName, "reqs", "--method", m.String()}
	if cfg.IncludeDev {
		args = append(args, "--include-dev")
	}
	if cfg.IncludeStdlib {
		args = append(args, "--include-stdlib")
	}
	if cfg.AllInstalled {
		args = append(args, "--all")
	}
	return strings.Join(args, " ")
}

// reportWrite prints the written file and what changed since old.
func (c *CLI) reportWrite(name string, old []byte, res *generation) {
	if len(res.reqs) == 0 {
		printWarning("No requirements found")
	}
	printSuccess("Wrote %d requirements to %s", len(res.reqs), StyleHighlight.Render(name))
	printStats(len(res.reqs), len(res.data))
	if old == nil {
		return
	}
	prev, err := reqfile.Parse(old)
	if err != nil {
		return
	}
	printChanges(reqfile.Compare(prev, res.reqs.Pins()))
}

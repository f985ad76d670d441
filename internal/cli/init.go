package cli

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/metapkg/pkg/errors"
	"github.com/matzehuels/metapkg/pkg/manifest"
)

type initOpts struct {
	name        string
	description string
	author      string
	python      string
	yes         bool // never prompt
}

func (c *CLI) initCommand() *cobra.Command {
	var opts initOpts

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create pyproject.toml",
		Long: `Create a pyproject.toml in the project directory.

Values not given as flags are asked for interactively when stdin is a
terminal. With --yes, or without a terminal, the project name defaults to the
directory name. An existing pyproject.toml is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			interactive := !opts.yes && isatty.IsTerminal(os.Stdin.Fd())
			return c.runInit(cmd.Context(), opts, interactive)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "project name")
	cmd.Flags().StringVar(&opts.description, "description", "", "project description")
	cmd.Flags().StringVar(&opts.author, "author", "", "author name")
	cmd.Flags().StringVar(&opts.python, "requires-python", "", "supported Python versions (default >=3.8)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "accept defaults without prompting")

	return cmd
}

func (c *CLI) runInit(ctx context.Context, opts initOpts, interactive bool) error {
	store := manifest.Open(c.dir)
	if store.Exists() {
		printWarning("%s already exists", store.Path())
		return nil
	}

	if opts.name == "" {
		opts.name = defaultProjectName(c.dir)
	}
	if interactive {
		if err := promptProject(ctx, &opts); err != nil {
			return err
		}
	}

	err := store.Init(manifest.Project{
		Name:           strings.TrimSpace(opts.name),
		Description:    strings.TrimSpace(opts.description),
		Author:         strings.TrimSpace(opts.author),
		RequiresPython: strings.TrimSpace(opts.python),
	})
	if errors.Is(err, errors.ErrCodeManifestExists) {
		printWarning("%s already exists", store.Path())
		return nil
	}
	if err != nil {
		return err
	}

	printSuccess("Created %s", StyleHighlight.Render(manifest.FileName))
	printFile(store.Path())
	printNextStep("Add a dependency", appName+" add <package>")
	return nil
}

// promptProject asks for the values of opts, prefilled with what is known.
func promptProject(ctx context.Context, opts *initOpts) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Value(&opts.name).
				Validate(errors.ValidatePythonPackageName),
			huh.NewInput().
				Title("Description").
				Value(&opts.description),
			huh.NewInput().
				Title("Author").
				Value(&opts.author),
		),
	)
	return formError(form.RunWithContext(ctx))
}

// formError maps an aborted form to context.Canceled so it exits like Ctrl-C.
func formError(err error) error {
	if stderrors.Is(err, huh.ErrUserAborted) {
		return context.Canceled
	}
	return err
}

var invalidNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// defaultProjectName derives a valid package name from the directory name.
func defaultProjectName(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	name := invalidNameChars.ReplaceAllString(filepath.Base(abs), "-")
	name = strings.Trim(name, "-._")
	if name == "" {
		return "project"
	}
	return name
}

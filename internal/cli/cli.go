// Package cli implements the metapkg command-line interface.
//
// The commands manage a project's pyproject.toml and generate a pinned
// requirements.txt from one of several sources of truth. The CLI is built
// using cobra; settings come from internal/config and every command can be
// made verbose with --verbose (-v).
//
// # Commands
//
//   - init: create pyproject.toml, prompting for missing values
//   - add: append a dependency to pyproject.toml
//   - reqs: resolve requirements and write requirements.txt
//   - scan: list imported distributions pyproject.toml does not declare
//   - list: show installed distributions
//   - watch: regenerate requirements.txt when sources change
//
// # Logging
//
// Logs go to stderr through charmbracelet/log; command results go to
// stdout. Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/metapkg/internal/config"
	"github.com/matzehuels/metapkg/pkg/buildinfo"
	"github.com/matzehuels/metapkg/pkg/observability"
	"github.com/matzehuels/metapkg/pkg/resolver"
)

// appName is the application name used in generated headers and help text.
const appName = "metapkg"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	dir        string // project directory (--dir)
	configPath string // explicit config file (--config)
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), dir: "."}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "metapkg manages Python project metadata and requirements",
		Long: `metapkg creates and edits pyproject.toml and generates a pinned requirements.txt
from the manifest, the installed environment or the project's imports.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			stdout = cmd.OutOrStdout()
			installHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.Reset()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.dir, "dir", "C", ".", "project directory")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default .metapkg.toml in the project or home directory)")

	root.AddCommand(c.initCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.reqsCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads settings for the current project directory.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath, c.dir)
}

// newResolver snapshots the environment described by cfg. Resolver warnings
// are logged at warn level.
func (c *CLI) newResolver(ctx context.Context, cfg *config.Config) (*resolver.Resolver, error) {
	logger := loggerFromContext(ctx)
	rcfg := cfg.ResolverConfig(c.dir)
	rcfg.Logger = func(msg string, args ...any) { logger.Warnf(msg, args...) }

	rc, err := resolver.NewContext(ctx, rcfg)
	if err != nil {
		return nil, err
	}
	if rc.Runtime != nil {
		logger.Debug("probed interpreter", "python", rc.Runtime.Version, "executable", rc.Runtime.Executable)
	}
	logger.Debug("environment snapshot", "distributions", rc.Index.Len(), "stdlib", rc.Classifier.Len())
	return resolver.New(rc), nil
}

// projectPath resolves a possibly relative path against the project directory.
func (c *CLI) projectPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.dir, path)
}

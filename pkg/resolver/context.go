package resolver

import (
	"context"

	"github.com/matzehuels/metapkg/pkg/imports"
	"github.com/matzehuels/metapkg/pkg/installed"
	"github.com/matzehuels/metapkg/pkg/manifest"
	"github.com/matzehuels/metapkg/pkg/mapper"
	"github.com/matzehuels/metapkg/pkg/pyenv"
	"github.com/matzehuels/metapkg/pkg/stdlib"
)

// Options tunes a resolution run.
type Options struct {
	ProjectDir    string                 // Project root (default ".")
	IncludeDev    bool                   // Scan test and CI directories; add the "dev" extra in manifest mode
	IncludeStdlib bool                   // Let stdlib-classified imports reach the mapper
	AllInstalled  bool                   // Environment method reports every installed distribution
	Direct        installed.DirectLister // Direct-dependency source for the environment method (optional)
	Logger        func(string, ...any)   // Warning callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.ProjectDir == "" {
		opts.ProjectDir = "."
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Context is everything one resolution run reads: the stdlib classifier,
// the installed-distribution snapshot, the import mapper, the source
// scanner and the manifest store. It is built once per invocation and never
// shared between runs.
type Context struct {
	Runtime    *pyenv.Runtime // nil when no interpreter could be probed
	Classifier *stdlib.Classifier
	Index      *installed.Index
	Mapper     *mapper.Mapper
	Scanner    *imports.Scanner
	Manifest   *manifest.Store
	Options    Options
}

// Config describes how to build a Context.
type Config struct {
	Options

	Python       string            // Interpreter to probe (default python3)
	SitePackages []string          // Site directories searched before the interpreter's
	Aliases      map[string]string // Import aliases applied over the built-in table
	ExcludeDirs  []string          // Extra directory names or globs the scanner skips
	DirectTool   string            // Command line listing direct dependencies; empty detects pip-chill
}

// NewContext probes the interpreter and snapshots the environment. A missing
// interpreter is not an error: the classifier falls back to the embedded
// stdlib list and the index to the configured site directories.
func NewContext(ctx context.Context, cfg Config) (*Context, error) {
	opts := cfg.Options.WithDefaults()

	rt, err := pyenv.Probe(ctx, cfg.Python)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		opts.Logger("python interpreter unavailable, using built-in stdlib list: %v", err)
		rt = nil
	}

	sources := [][]string{stdlib.Fallback()}
	dirs := append([]string(nil), cfg.SitePackages...)
	if rt != nil {
		sources = append(sources, rt.StdlibModules(), rt.Builtins)
		dirs = append(dirs, rt.SitePackages()...)
	}
	if len(dirs) == 0 {
		opts.Logger("no site-packages directories found; installed versions are unknown")
	}

	idx, err := installed.Open(ctx, dirs...)
	if err != nil {
		return nil, err
	}

	if opts.Direct == nil {
		opts.Direct = directLister(cfg.DirectTool, rt, idx, opts.ProjectDir)
	}

	return &Context{
		Runtime:    rt,
		Classifier: stdlib.New(sources...),
		Index:      idx,
		Mapper:     mapper.New(idx.All(), mapper.DefaultAliases(), cfg.Aliases),
		Scanner:    imports.New(cfg.ExcludeDirs...),
		Manifest:   manifest.Open(opts.ProjectDir),
		Options:    opts,
	}, nil
}

// directLister picks the direct-dependency source: the configured tool, or
// pip-chill run by the probed interpreter when it is installed. It returns
// nil when neither is available.
func directLister(tool string, rt *pyenv.Runtime, idx *installed.Index, dir string) installed.DirectLister {
	var l *installed.CommandLister
	switch {
	case tool != "":
		l = installed.NewCommandLister(tool)
	case rt != nil && rt.Executable != "":
		if _, ok := idx.Lookup("pip-chill"); ok {
			l = &installed.CommandLister{Command: []string{rt.Executable, "-m", "pip_chill", "--no-version"}}
		}
	}
	if l == nil {
		return nil
	}
	l.Dir = dir
	return l
}

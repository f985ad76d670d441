// Package resolver reconciles declared, installed and imported dependencies
// into one pinned requirement list.
//
// # Methods
//
// A [Method] picks the source of truth:
//
//   - [Manifest]: dependencies declared in pyproject.toml, pinned to the
//     installed version when there is one.
//   - [Environment]: installed distributions nothing else depends on, or the
//     output of a direct-dependency tool such as pip-chill. With
//     [Options].AllInstalled every installed distribution is reported.
//   - [Imports]: third-party modules imported by the project's source,
//     mapped to distribution names.
//   - [Auto]: Manifest when pyproject.toml exists, Imports otherwise.
//
// Parse user input with [ParseMethod]; it is the only place a method name
// can be wrong.
//
// # Usage
//
//	rc, err := resolver.NewContext(ctx, resolver.Config{
//	    Options: resolver.Options{ProjectDir: "."},
//	})
//	if err != nil {
//	    return err
//	}
//	reqs, err := resolver.New(rc).Resolve(ctx, resolver.Auto{})
//
// A [Context] snapshots the environment once. Build a new one for every run
// so a changed environment is observed.
package resolver

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/metapkg/pkg/errors"
	"github.com/matzehuels/metapkg/pkg/imports"
	"github.com/matzehuels/metapkg/pkg/installed"
	"github.com/matzehuels/metapkg/pkg/manifest"
	"github.com/matzehuels/metapkg/pkg/mapper"
	"github.com/matzehuels/metapkg/pkg/observability"
	"github.com/matzehuels/metapkg/pkg/pep508"
)

// InstallerPackages are never reported by the environment method; they are
// part of every environment rather than project dependencies.
var InstallerPackages = []string{"pip", "setuptools", "wheel", "distribute"}

// Resolver runs resolution methods against one Context.
type Resolver struct {
	rc *Context
}

// New creates a Resolver. Nil fields of rc are treated as empty: no stdlib
// names, no installed distributions, no aliases.
func New(rc *Context) *Resolver {
	c := *rc
	c.Options = c.Options.WithDefaults()
	if c.Scanner == nil {
		c.Scanner = imports.New()
	}
	if c.Manifest == nil {
		c.Manifest = manifest.Open(c.Options.ProjectDir)
	}
	if c.Mapper == nil {
		c.Mapper = mapper.New(c.Index.All(), mapper.DefaultAliases())
	}
	return &Resolver{rc: &c}
}

// Context returns the resolver's context.
func (r *Resolver) Context() *Context { return r.rc }

// Resolve runs method and returns the resulting requirements. A nil method
// is INVALID_METHOD.
func (r *Resolver) Resolve(ctx context.Context, method Method) (Requirements, error) {
	if method == nil {
		return nil, errors.New(errors.ErrCodeInvalidMethod, "no resolution method given")
	}
	hooks := observability.Resolve()
	hooks.OnResolveStart(ctx, method.String())
	start := time.Now()

	reqs, err := method.resolve(ctx, r)
	hooks.OnResolveComplete(ctx, method.String(), len(reqs), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

// declared returns the manifest's dependency specifiers, including the
// "dev" extra when dev files are included.
func (r *Resolver) declared() ([]string, error) {
	m, err := r.rc.Manifest.Read()
	if err != nil {
		return nil, err
	}
	specs := m.Dependencies()
	if r.rc.Options.IncludeDev {
		specs = append(specs, m.OptionalDependencies("dev")...)
	}
	return specs, nil
}

func (r *Resolver) fromManifest(_ context.Context) (Requirements, error) {
	specs, err := r.declared()
	if err != nil {
		return nil, err
	}
	reqs := make(Requirements)
	for _, spec := range specs {
		name := pep508.BareName(spec)
		if name == "" {
			r.rc.Options.Logger("ignoring unparseable dependency %q", spec)
			continue
		}
		version, _ := r.rc.Index.VersionOf(name)
		reqs.add(Requirement{Name: name, Version: version, Source: SourceManifest})
	}
	return reqs, nil
}

func (r *Resolver) fromEnvironment(ctx context.Context) (Requirements, error) {
	reqs := make(Requirements)
	if r.rc.Options.AllInstalled {
		r.addInstalled(reqs, r.rc.Index.All())
		return reqs, nil
	}
	if direct := r.rc.Options.Direct; direct != nil {
		names, err := direct.List(ctx)
		if err == nil {
			for _, name := range names {
				req := Requirement{Name: name, Source: SourceDirect}
				if d, ok := r.rc.Index.Lookup(name); ok {
					req.Name, req.Version = d.Name, d.Version
				}
				reqs.add(req)
			}
			return reqs, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		r.rc.Options.Logger("direct dependency tool failed, falling back to top-level distributions: %v", err)
	}

	r.addInstalled(reqs, installed.TopLevelOnly(r.rc.Index.All()))
	return reqs, nil
}

// addInstalled pins dists into reqs, leaving out installer packages.
func (r *Resolver) addInstalled(reqs Requirements, dists []installed.Distribution) {
	for _, d := range dists {
		if slices.Contains(InstallerPackages, d.Key()) {
			continue
		}
		reqs.add(Requirement{Name: d.Name, Version: d.Version, Source: SourceEnvironment})
	}
}

func (r *Resolver) fromImports(ctx context.Context) (Requirements, error) {
	res, err := r.rc.Scanner.Scan(ctx, r.rc.Options.ProjectDir, r.rc.Options.IncludeDev)
	if err != nil {
		return nil, err
	}
	reqs := make(Requirements)
	for _, name := range res.Names() {
		if res.IsLocal(name) {
			continue
		}
		if !r.rc.Options.IncludeStdlib && r.rc.Classifier.IsStdlib(name) {
			continue
		}
		dist, ok := r.rc.Mapper.Lookup(name)
		if !ok {
			continue
		}
		version, _ := r.rc.Index.VersionOf(dist)
		reqs.add(Requirement{Name: dist, Version: version, Source: SourceImports})
	}
	return reqs, nil
}

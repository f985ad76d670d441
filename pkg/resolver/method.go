package resolver

import (
	"context"
	"strings"

	"github.com/matzehuels/metapkg/pkg/errors"
)

// Method selects the source of truth for a resolution. The set of methods
// is closed: only this package can implement it, and each method carries its
// own resolution step.
type Method interface {
	// String returns the method's canonical name.
	String() string

	resolve(ctx context.Context, r *Resolver) (Requirements, error)
}

// Manifest resolves the dependencies declared in pyproject.toml.
type Manifest struct{}

// Environment resolves the directly installed distributions.
type Environment struct{}

// Imports resolves the distributions providing scanned source imports.
type Imports struct{}

// Auto behaves as Manifest when a manifest exists and as Imports otherwise.
type Auto struct{}

func (Manifest) String() string    { return "manifest" }
func (Environment) String() string { return "environment" }
func (Imports) String() string     { return "imports" }
func (Auto) String() string        { return "auto" }

func (Manifest) resolve(ctx context.Context, r *Resolver) (Requirements, error) {
	return r.fromManifest(ctx)
}

func (Environment) resolve(ctx context.Context, r *Resolver) (Requirements, error) {
	return r.fromEnvironment(ctx)
}

func (Imports) resolve(ctx context.Context, r *Resolver) (Requirements, error) {
	return r.fromImports(ctx)
}

func (Auto) resolve(ctx context.Context, r *Resolver) (Requirements, error) {
	if r.rc.Manifest != nil && r.rc.Manifest.Exists() {
		return r.fromManifest(ctx)
	}
	return r.fromImports(ctx)
}

// Methods returns every method in display order.
func Methods() []Method {
	return []Method{Auto{}, Manifest{}, Environment{}, Imports{}}
}

// MethodNames returns the canonical method names in display order.
func MethodNames() []string {
	var names []string
	for _, m := range Methods() {
		names = append(names, m.String())
	}
	return names
}

var methodAliases = map[string]Method{
	"pyproject": Manifest{},
	"env":       Environment{},
}

// ParseMethod converts a user-supplied name to a Method. Matching is
// case-insensitive and accepts the short aliases "pyproject" and "env".
// Unknown names fail with INVALID_METHOD.
func ParseMethod(s string) (Method, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Methods() {
		if m.String() == name {
			return m, nil
		}
	}
	if m, ok := methodAliases[name]; ok {
		return m, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidMethod,
		"unknown method %q (valid: %s)", s, strings.Join(MethodNames(), ", "))
}

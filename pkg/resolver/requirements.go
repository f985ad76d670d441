package resolver

import (
	"maps"
	"slices"

	"github.com/matzehuels/metapkg/pkg/pep508"
	"github.com/matzehuels/metapkg/pkg/reqfile"
)

// Source records where a requirement came from.
type Source string

const (
	SourceManifest    Source = "manifest"
	SourceEnvironment Source = "environment"
	SourceDirect      Source = "direct"
	SourceImports     Source = "imports"
)

// Requirement is one resolved, optionally pinned, distribution.
type Requirement struct {
	Name    string // Distribution name as declared or recorded
	Version string // Installed version; empty when not installed
	Source  Source
}

// Requirements maps normalized distribution names to resolved requirements.
type Requirements map[string]Requirement

// add inserts req unless a requirement with the same normalized name
// exists. It reports whether req was added.
func (r Requirements) add(req Requirement) bool {
	key := pep508.Normalize(req.Name)
	if key == "" {
		return false
	}
	if _, ok := r[key]; ok {
		return false
	}
	r[key] = req
	return true
}

// Sorted returns the requirements in output order.
func (r Requirements) Sorted() []Requirement {
	pins := r.Pins()
	out := make([]Requirement, 0, len(r))
	byName := make(map[string]Requirement, len(r))
	for _, req := range r {
		byName[req.Name] = req
	}
	for _, name := range reqfile.SortedNames(pins) {
		out = append(out, byName[name])
	}
	return out
}

// Pins returns name to version, the form written to a requirements file.
func (r Requirements) Pins() map[string]string {
	pins := make(map[string]string, len(r))
	for _, req := range r {
		pins[req.Name] = req.Version
	}
	return pins
}

// Names returns the sorted normalized names.
func (r Requirements) Names() []string {
	return slices.Sorted(maps.Keys(r))
}

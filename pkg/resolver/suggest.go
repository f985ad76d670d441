package resolver

import (
	"context"
	"slices"

	"github.com/matzehuels/metapkg/pkg/mapper"
	"github.com/matzehuels/metapkg/pkg/pep508"
	"github.com/matzehuels/metapkg/pkg/reqfile"
)

// Suggestion reports imports the manifest does not declare.
type Suggestion struct {
	// Missing are distributions imported by the source but not declared,
	// sorted by name.
	Missing []string

	// Unmapped are third-party-looking import names no distribution could
	// be found for. They are hints, never suggestions.
	Unmapped []string
}

// Empty reports whether nothing is missing.
func (s *Suggestion) Empty() bool { return len(s.Missing) == 0 }

// Suggest compares scanned imports with the manifest's declared
// dependencies. Names are compared after normalization, so "Flask_Login"
// declared covers "flask-login" imported. A missing manifest is
// MANIFEST_NOT_FOUND.
func (r *Resolver) Suggest(ctx context.Context) (*Suggestion, error) {
	specs, err := r.declared()
	if err != nil {
		return nil, err
	}
	declared := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if name := pep508.BareName(spec); name != "" {
			declared[pep508.Normalize(name)] = true
		}
	}

	res, err := r.rc.Scanner.Scan(ctx, r.rc.Options.ProjectDir, r.rc.Options.IncludeDev)
	if err != nil {
		return nil, err
	}

	s := &Suggestion{}
	seen := make(map[string]bool)
	for _, name := range res.Names() {
		if res.IsLocal(name) || r.rc.Classifier.IsStdlib(name) {
			continue
		}
		resolution := r.rc.Mapper.Resolve(name)
		switch resolution.Kind {
		case mapper.Mapped:
			key := pep508.Normalize(resolution.Dist)
			if declared[key] || seen[key] {
				continue
			}
			seen[key] = true
			s.Missing = append(s.Missing, resolution.Dist)
		case mapper.Unmapped:
			s.Unmapped = append(s.Unmapped, name)
		}
	}
	slices.SortFunc(s.Missing, reqfile.CompareNames)
	return s, nil
}

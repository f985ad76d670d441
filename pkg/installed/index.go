package installed

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/metapkg/pkg/dag"
	"github.com/matzehuels/metapkg/pkg/observability"
	"github.com/matzehuels/metapkg/pkg/pep508"
)

// Distribution is one installed distribution.
type Distribution struct {
	Name     string   // Name as recorded in metadata
	Version  string   // Installed version; may be empty for broken metadata
	Requires []string // Normalized names of unconditional requirements
	TopLevel []string // Top-level import names the distribution provides
	Path     string   // Metadata directory or file
}

// Key returns the normalized distribution name.
func (d Distribution) Key() string { return pep508.Normalize(d.Name) }

// Index is a read-only snapshot of installed distributions, keyed by
// normalized name. It is rebuilt for every resolver run.
type Index struct {
	dists []Distribution
	byKey map[string]int
}

// Open enumerates the distributions installed in dirs. Directories are
// searched in order and the first directory to provide a distribution wins,
// matching interpreter import precedence. Missing directories are ignored.
// Open only fails when ctx is cancelled.
func Open(ctx context.Context, dirs ...string) (*Index, error) {
	start := time.Now()
	idx := &Index{byKey: make(map[string]int)}
	hooks := observability.Index()

	var found []Distribution
	seen := make(map[string]bool)
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				hooks.OnDistributionSkipped(ctx, dir, err)
			}
			continue
		}
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !isMetadataEntry(e.Name()) {
				continue
			}
			path := filepath.Join(dir, e.Name())
			dist, warning, err := readDistribution(path)
			if err != nil {
				hooks.OnDistributionSkipped(ctx, path, err)
				continue
			}
			if warning != nil {
				hooks.OnDistributionSkipped(ctx, path, warning)
			}
			if key := dist.Key(); !seen[key] {
				seen[key] = true
				found = append(found, dist)
			}
		}
	}

	idx.add(found...)
	hooks.OnIndexBuilt(ctx, len(dirs), len(idx.dists), time.Since(start))
	return idx, nil
}

// FromDistributions builds an index from already-loaded records. Later
// records with a duplicate name are ignored.
func FromDistributions(dists ...Distribution) *Index {
	idx := &Index{byKey: make(map[string]int)}
	idx.add(dists...)
	return idx
}

func (idx *Index) add(dists ...Distribution) {
	for _, d := range dists {
		if _, ok := idx.byKey[d.Key()]; ok {
			continue
		}
		idx.byKey[d.Key()] = -1
		idx.dists = append(idx.dists, d)
	}
	slices.SortFunc(idx.dists, func(a, b Distribution) int {
		return strings.Compare(a.Key(), b.Key())
	})
	for i, d := range idx.dists {
		idx.byKey[d.Key()] = i
	}
}

// All returns every installed distribution sorted by normalized name.
// The returned slice should not be modified.
func (idx *Index) All() []Distribution {
	if idx == nil {
		return nil
	}
	return idx.dists
}

// Len returns the number of indexed distributions.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.dists)
}

// Lookup returns the distribution with the given name, compared after
// normalization.
func (idx *Index) Lookup(name string) (Distribution, bool) {
	if idx == nil {
		return Distribution{}, false
	}
	i, ok := idx.byKey[pep508.Normalize(name)]
	if !ok {
		return Distribution{}, false
	}
	return idx.dists[i], true
}

// VersionOf returns the installed version of name.
func (idx *Index) VersionOf(name string) (string, bool) {
	d, ok := idx.Lookup(name)
	if !ok || d.Version == "" {
		return "", false
	}
	return d.Version, true
}

// Graph returns the requirement graph of the indexed distributions.
// Requirements on distributions that are not installed are omitted.
func (idx *Index) Graph() *dag.Graph {
	return buildGraph(idx.All())
}

// TopLevelOnly returns the records no other record in the set requires,
// in input order. A record requiring itself does not count.
func TopLevelOnly(records []Distribution) []Distribution {
	roots := make(map[string]bool)
	for _, id := range buildGraph(records).Roots() {
		roots[id] = true
	}
	var out []Distribution
	for _, d := range records {
		if roots[d.Key()] {
			out = append(out, d)
		}
	}
	return out
}

func buildGraph(records []Distribution) *dag.Graph {
	g := dag.New()
	for _, d := range records {
		_ = g.AddNode(d.Key())
	}
	for _, d := range records {
		for _, req := range d.Requires {
			// Requirements that are not installed have no node.
			if key := pep508.Normalize(req); g.Has(key) {
				_ = g.AddEdge(d.Key(), key)
			}
		}
	}
	return g
}

// Package mapper maps Python import names to the distributions that provide
// them.
//
// The import name in source ("cv2", "yaml", "sklearn") frequently differs
// from the name a project installs ("opencv-python", "pyyaml",
// "scikit-learn"). A [Mapper] answers that question from two tables, in
// order:
//
//  1. An alias table: well-known renames plus user overrides. An alias whose
//     value is [None] marks an import that is never a dependency.
//  2. An environment table built from installed distributions: each maps
//     its own name and its declared top-level modules to itself.
//
// Lookups are case-insensitive. Names neither table knows are unmapped; the
// mapper never invents a distribution name.
package mapper

import (
	"strings"

	"github.com/matzehuels/metapkg/pkg/installed"
	"github.com/matzehuels/metapkg/pkg/pep508"
)

// None is the alias value marking an import that never maps to a dependency.
const None = "none"

// Kind classifies the outcome of a lookup.
type Kind int

const (
	// Unmapped means no table knows the import name.
	Unmapped Kind = iota
	// Mapped means the import resolved to a distribution.
	Mapped
	// Excluded means an alias marked the import as never a dependency.
	Excluded
)

// String returns a lower-case label for the kind.
func (k Kind) String() string {
	switch k {
	case Mapped:
		return "mapped"
	case Excluded:
		return "excluded"
	default:
		return "unmapped"
	}
}

// Resolution is the result of resolving one import name.
type Resolution struct {
	Import string // Import name as queried
	Dist   string // Distribution name; empty unless Kind is Mapped
	Kind   Kind
}

// Mapper resolves import names. It is read-only after construction.
type Mapper struct {
	aliases map[string]string // lower-case import -> dist, "" for None
	env     map[string]string // lower-case import -> dist
}

// New builds a Mapper from installed distributions and alias tables.
// Later alias tables override earlier ones, so user aliases are passed after
// [DefaultAliases]. For the environment table the first distribution to
// claim a name wins; callers pass distributions in a stable order.
func New(dists []installed.Distribution, aliases ...map[string]string) *Mapper {
	m := &Mapper{
		aliases: make(map[string]string),
		env:     make(map[string]string),
	}
	for _, table := range aliases {
		for imp, dist := range table {
			imp = strings.ToLower(strings.TrimSpace(imp))
			if imp == "" {
				continue
			}
			dist = strings.TrimSpace(dist)
			if strings.EqualFold(dist, None) {
				dist = ""
			}
			m.aliases[imp] = dist
		}
	}
	for _, d := range dists {
		if d.Name == "" {
			continue
		}
		m.claim(d.Key(), d.Name)
		m.claim(d.Name, d.Name)
		for _, mod := range d.TopLevel {
			m.claim(mod, d.Name)
		}
	}
	return m
}

func (m *Mapper) claim(imp, dist string) {
	imp = strings.ToLower(imp)
	if imp == "" {
		return
	}
	if _, ok := m.env[imp]; !ok {
		m.env[imp] = dist
	}
}

// Resolve looks up the distribution providing an import name. Dotted names
// resolve by their root segment.
func (m *Mapper) Resolve(name string) Resolution {
	res := Resolution{Import: name}
	if m == nil {
		return res
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if i := strings.IndexByte(key, '.'); i >= 0 {
		key = key[:i]
	}
	if dist, ok := m.aliases[key]; ok {
		if dist == "" {
			res.Kind = Excluded
			return res
		}
		res.Dist, res.Kind = dist, Mapped
		return res
	}
	if dist, ok := m.env[key]; ok {
		res.Dist, res.Kind = dist, Mapped
		return res
	}
	// Import names never contain "-", but a distribution may be installed
	// under the import name with "_" (e.g. "typing_extensions").
	if dist, ok := m.env[pep508.Normalize(key)]; ok {
		res.Dist, res.Kind = dist, Mapped
	}
	return res
}

// Lookup is the partial-function view of Resolve: it reports a
// distribution only for mapped names.
func (m *Mapper) Lookup(name string) (string, bool) {
	r := m.Resolve(name)
	return r.Dist, r.Kind == Mapped
}

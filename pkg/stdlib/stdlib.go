// Package stdlib classifies import names as standard-library modules.
//
// A [Classifier] is built once per resolver run from several name sources:
// the interpreter's standard-library module index, its builtin module names,
// and a curated list embedded in the binary ([Fallback]). The union of all
// sources is used. A name found in none of them is treated as a third-party
// candidate.
package stdlib

import (
	"bufio"
	_ "embed"
	"strings"
)

//go:embed fallback.txt
var fallbackList string

// Fallback returns the curated list of top-level standard-library modules.
// It covers environments where interpreter introspection is unavailable.
func Fallback() []string {
	var names []string
	sc := bufio.NewScanner(strings.NewReader(fallbackList))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		names = append(names, line)
	}
	return names
}

// Classifier answers whether an import name belongs to the standard library.
// The zero value classifies nothing as stdlib. A Classifier is read-only after
// construction.
type Classifier struct {
	names map[string]bool
	lower map[string]bool
}

// New builds a Classifier from the union of the given name sources.
// Dotted names contribute their root segment.
func New(sources ...[]string) *Classifier {
	c := &Classifier{
		names: make(map[string]bool),
		lower: make(map[string]bool),
	}
	for _, src := range sources {
		for _, name := range src {
			c.add(name)
		}
	}
	return c
}

// Default builds a Classifier from the embedded fallback list only.
func Default() *Classifier {
	return New(Fallback())
}

func (c *Classifier) add(name string) {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return
	}
	c.names[name] = true
	c.lower[strings.ToLower(name)] = true
}

// IsStdlib reports whether name is a standard-library module.
// Matching is exact first, then case-insensitive.
func (c *Classifier) IsStdlib(name string) bool {
	if c == nil || c.names == nil {
		return false
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return c.names[name] || c.lower[strings.ToLower(name)]
}

// Len returns the number of distinct names known to the classifier.
func (c *Classifier) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

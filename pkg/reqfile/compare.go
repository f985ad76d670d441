package reqfile

import (
	"maps"
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/matzehuels/metapkg/pkg/pep508"
)

// Change is a requirement whose pinned version differs.
type Change struct {
	Name string
	From string
	To   string
}

// Changes summarizes the difference between two requirement sets.
type Changes struct {
	Added   []string
	Removed []string
	Changed []Change
}

// Empty reports whether the sets are equivalent.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Compare diffs two name to version maps. Names are compared after
// normalization; results use normalized names and are sorted.
func Compare(old, new map[string]string) Changes {
	o, n := normalizeKeys(old), normalizeKeys(new)
	var c Changes
	for _, name := range slices.Sorted(maps.Keys(n)) {
		prev, ok := o[name]
		switch {
		case !ok:
			c.Added = append(c.Added, name)
		case prev != n[name]:
			c.Changed = append(c.Changed, Change{Name: name, From: prev, To: n[name]})
		}
	}
	for _, name := range slices.Sorted(maps.Keys(o)) {
		if _, ok := n[name]; !ok {
			c.Removed = append(c.Removed, name)
		}
	}
	return c
}

func normalizeKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[pep508.Normalize(k)] = v
	}
	return out
}

// Diff returns a line diff of old and new: unchanged lines are prefixed
// with two spaces, removed lines with "- " and added lines with "+ ".
// Equal inputs give "".
func Diff(old, new []byte) string {
	if string(old) == string(new) {
		return ""
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToRunes(string(old), string(new))
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + strings.TrimSuffix(line, "\n") + "\n")
		}
	}
	return out.String()
}

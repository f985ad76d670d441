// Package manifest reads and writes a project's pyproject.toml.
//
// A [Manifest] keeps the whole decoded document, so tables metapkg does not
// understand (tool configuration, optional dependencies, URLs) survive a
// read-modify-write cycle. Accessors cover only the fields metapkg needs.
package manifest

import (
	"slices"

	"github.com/matzehuels/metapkg/pkg/pep508"
)

// FileName is the manifest file looked up in a project directory.
const FileName = "pyproject.toml"

// Manifest is a decoded pyproject.toml document.
type Manifest struct {
	doc map[string]any
}

// Project holds the values used to create a new manifest.
type Project struct {
	Name           string
	Version        string
	Description    string
	Author         string
	RequiresPython string
}

// New builds the manifest written by "metapkg init": a [project] table with
// an empty dependency list and a hatchling [build-system].
func New(p Project) *Manifest {
	if p.Version == "" {
		p.Version = "0.1.0"
	}
	if p.RequiresPython == "" {
		p.RequiresPython = ">=3.8"
	}
	authors := []map[string]any{}
	if p.Author != "" {
		authors = append(authors, map[string]any{"name": p.Author})
	}
	return &Manifest{doc: map[string]any{
		"project": map[string]any{
			"name":            p.Name,
			"version":         p.Version,
			"description":     p.Description,
			"authors":         authors,
			"dependencies":    []any{},
			"requires-python": p.RequiresPython,
		},
		"build-system": map[string]any{
			"requires":      []any{"hatchling"},
			"build-backend": "hatchling.build",
		},
	}}
}

// project returns the [project] table, creating it when create is set.
func (m *Manifest) project(create bool) map[string]any {
	if m.doc == nil {
		if !create {
			return nil
		}
		m.doc = make(map[string]any)
	}
	p, ok := m.doc["project"].(map[string]any)
	if !ok && create {
		p = make(map[string]any)
		m.doc["project"] = p
	}
	return p
}

func (m *Manifest) projectString(key string) string {
	s, _ := m.project(false)[key].(string)
	return s
}

// Name returns project.name.
func (m *Manifest) Name() string { return m.projectString("name") }

// Version returns project.version.
func (m *Manifest) Version() string { return m.projectString("version") }

// Description returns project.description.
func (m *Manifest) Description() string { return m.projectString("description") }

// Dependencies returns project.dependencies in declared order. Entries that
// are not strings are ignored.
func (m *Manifest) Dependencies() []string {
	return stringList(m.project(false)["dependencies"])
}

// OptionalDependencies returns the specifiers of one extra from
// project.optional-dependencies.
func (m *Manifest) OptionalDependencies(extra string) []string {
	groups, _ := m.project(false)["optional-dependencies"].(map[string]any)
	return stringList(groups[extra])
}

// HasDependency reports whether a dependency with the same normalized name
// is already declared.
func (m *Manifest) HasDependency(spec string) bool {
	name := pep508.BareName(spec)
	if name == "" {
		return false
	}
	return slices.ContainsFunc(m.Dependencies(), func(dep string) bool {
		return pep508.Equal(pep508.BareName(dep), name)
	})
}

// AddDependency appends spec to project.dependencies unless a dependency
// with the same normalized name exists. It reports whether spec was added.
func (m *Manifest) AddDependency(spec string) bool {
	if m.HasDependency(spec) {
		return false
	}
	p := m.project(true)
	deps, _ := p["dependencies"].([]any)
	p["dependencies"] = append(deps, spec)
	return true
}

// stringList converts a decoded TOML array to strings.
func stringList(v any) []string {
	var out []string
	switch list := v.(type) {
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, list...)
	}
	return out
}

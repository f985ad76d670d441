package pep508

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matzehuels/metapkg/pkg/errors"
)

// Requirement is a parsed dependency specifier.
type Requirement struct {
	Name       string   // Name as written
	Extras     []string // Requested extras, in written order
	Constraint string   // Version constraint without spaces (e.g. ">=2.0,<3")
	URL        string   // Direct reference for "name @ url" requirements
	Marker     string   // Environment marker after ";"
}

var (
	extrasRE = regexp.MustCompile(`^\[([^\]]*)\]`)
	extraRE  = regexp.MustCompile(`\bextra\s*==`)
)

// Parse splits a dependency specifier into its parts.
// It returns an INVALID_PACKAGE error when the name is missing or malformed.
func Parse(spec string) (Requirement, error) {
	s := strings.TrimSpace(spec)

	var req Requirement
	if i := strings.Index(s, ";"); i >= 0 {
		req.Marker = strings.TrimSpace(s[i+1:])
		s = strings.TrimSpace(s[:i])
	}

	req.Name = BareName(s)
	if err := errors.ValidatePythonPackageName(req.Name); err != nil {
		return Requirement{}, errors.Wrap(errors.ErrCodeInvalidPackage, err, "invalid requirement %q", spec)
	}
	rest := strings.TrimSpace(s[len(req.Name):])

	if m := extrasRE.FindStringSubmatch(rest); m != nil {
		for _, e := range strings.Split(m[1], ",") {
			if e = strings.TrimSpace(e); e != "" {
				req.Extras = append(req.Extras, e)
			}
		}
		rest = strings.TrimSpace(rest[len(m[0]):])
	}

	if strings.HasPrefix(rest, "@") {
		req.URL = strings.TrimSpace(rest[1:])
		if req.URL == "" {
			return Requirement{}, errors.New(errors.ErrCodeInvalidPackage, "invalid requirement %q: empty URL", spec)
		}
		return req, nil
	}

	rest = strings.TrimSuffix(strings.TrimPrefix(rest, "("), ")")
	req.Constraint = strings.Join(strings.Fields(rest), "")
	if req.Constraint != "" && !strings.ContainsAny(req.Constraint[:1], "<>=!~") {
		return Requirement{}, errors.New(errors.ErrCodeInvalidPackage, "invalid requirement %q: unexpected %q", spec, rest)
	}
	return req, nil
}

// Key returns the normalized distribution name.
func (r Requirement) Key() string { return Normalize(r.Name) }

// OnlyForExtra reports whether the requirement applies only when an extra is
// requested, e.g. `pytest; extra == "test"`.
func (r Requirement) OnlyForExtra() bool {
	return r.Marker != "" && extraRE.MatchString(r.Marker)
}

// String renders the requirement in canonical form.
func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		fmt.Fprintf(&b, "[%s]", strings.Join(r.Extras, ","))
	}
	switch {
	case r.URL != "":
		b.WriteString(" @ " + r.URL)
	case r.Constraint != "":
		b.WriteString(r.Constraint)
	}
	if r.Marker != "" {
		b.WriteString("; " + r.Marker)
	}
	return b.String()
}

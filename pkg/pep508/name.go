package pep508

import (
	"regexp"
	"strings"
)

var separatorRE = regexp.MustCompile(`[-_.]+`)

// Normalize converts a distribution name to its canonical PEP 503 form.
func Normalize(name string) string {
	return separatorRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// Equal reports whether two distribution names refer to the same project.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

var bareNameRE = regexp.MustCompile(`^[A-Za-z0-9_.-]+`)

// BareName returns the distribution name at the start of a specifier.
//
// The rule is: the first run of identifier, dot, hyphen or underscore
// characters is the name. Leading whitespace is ignored. If the specifier
// does not start with such a run, BareName returns "".
//
//	BareName("pandas>=2.0")          // "pandas"
//	BareName("requests[socks]~=2.3") // "requests"
//	BareName(">=1.0")                // ""
func BareName(spec string) string {
	return bareNameRE.FindString(strings.TrimSpace(spec))
}

// Package pep508 implements the Python packaging name rules metapkg relies on.
//
// # Name Normalization
//
// Distribution names are compared after PEP 503 normalization: lowercase,
// with runs of "-", "_" and "." collapsed into a single "-". Every set
// membership test in metapkg goes through [Normalize]; skipping it turns
// "Scikit_Learn" and "scikit-learn" into different packages.
//
//	pep508.Normalize("Scikit_Learn") // "scikit-learn"
//
// # Specifiers
//
// A dependency specifier as written in pyproject.toml or a METADATA
// Requires-Dist header looks like:
//
//	requests[socks,security] >=2.28, <3 ; python_version >= "3.8"
//
// [BareName] extracts only the name using one documented rule: the first run
// of identifier, dot, hyphen or underscore characters is the name. [Parse]
// splits the full specifier into name, extras, version constraint and marker.
package pep508

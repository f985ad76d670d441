// Package installed indexes the Python distributions installed in a set of
// site directories.
//
// # Overview
//
// The index reads distribution metadata straight from disk. Each
// site-packages directory is listed once and every *.dist-info or *.egg-info
// entry becomes a [Distribution]:
//
//	idx, err := installed.Open(ctx, rt.SitePackages()...)
//	v, ok := idx.VersionOf("Requests") // "2.31.0", true
//
// Metadata is read best-effort. A distribution whose requirements cannot be
// parsed keeps an empty Requires list; one whose name cannot be determined
// is dropped. Both outcomes are reported through
// observability.Index().OnDistributionSkipped and never fail [Open].
//
// # Top-level filtering
//
// [TopLevelOnly] keeps the distributions nothing else in the set requires.
// This approximates "what the user installed on purpose" and misclassifies
// packages pulled in by mechanisms metadata does not record (build
// backends, plugins loaded by entry point, manual installs of a dependency).
// A [DirectLister] backed by an external tool can replace the heuristic.
package installed

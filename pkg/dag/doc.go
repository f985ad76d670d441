// Package dag provides the dependency graph metapkg builds from installed
// distributions.
//
// # Overview
//
// Each installed distribution becomes a node keyed by its normalized name.
// An edge From→To records that From declares a requirement on To. The graph
// answers the one question the top-level heuristic needs: does anything else
// depend on this package?
//
//	g := dag.New()
//	g.AddNode("requests")
//	g.AddNode("urllib3")
//	g.AddEdge("requests", "urllib3")
//	g.Roots() // ["requests"]
//
// Cycles are permitted and self-edges are dropped, so the name "dag" is
// aspirational for real-world environments. [Graph.Roots] is still well
// defined: a node that is only required by members of its own cycle is not
// a root.
package dag

// Package pkg provides the libraries behind metapkg.
//
// # Overview
//
// metapkg derives a pinned requirements.txt for a Python project from one of
// three views of its dependencies: what pyproject.toml declares, what is
// installed, and what the source code imports. The libraries are organized
// leaf-first:
//
//  1. Names and facts: [pep508], [stdlib], [pyenv], [installed], [dag]
//  2. Mapping and scanning: [mapper], [imports]
//  3. Files: [manifest], [reqfile], [fsutil]
//  4. Resolution: [resolver]
//  5. Cross-cutting: [errors], [observability], [buildinfo]
//
// # Data Flow
//
//	pyproject.toml            source tree
//	      ↓                        ↓
//	 [manifest]               [imports]
//	      ↓                        ↓
//	      └──────→ [mapper] ←──────┘
//	                  ↓
//	 [installed] → [resolver] ← [stdlib]
//	                  ↓
//	              [reqfile]
//	                  ↓
//	           requirements.txt
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/metapkg/pkg/reqfile"
//	    "github.com/matzehuels/metapkg/pkg/resolver"
//	)
//
//	rc, err := resolver.NewContext(ctx, resolver.Config{
//	    Options: resolver.Options{ProjectDir: "."},
//	})
//	if err != nil {
//	    return err
//	}
//	reqs, err := resolver.New(rc).Resolve(ctx, resolver.Auto{})
//	if err != nil {
//	    return err
//	}
//	err = reqfile.Write("requirements.txt", reqs.Pins(), "metapkg reqs --method auto")
//
// # Package Guide
//
// [pep508] normalizes distribution names and parses dependency specifiers.
// Every membership test in metapkg compares normalized names.
//
// [stdlib] classifies import names as standard library, from the
// interpreter when [pyenv] can probe one and from an embedded list otherwise.
//
// [installed] reads dist-info and egg-info metadata straight from
// site-packages without running Python, and filters distributions down to
// those nothing else requires.
//
// [mapper] turns import names into distribution names ("cv2" to
// "opencv-python") using a built-in alias table, user aliases and the
// installed distributions' top-level modules.
//
// [imports] walks a source tree and parses every file with tree-sitter.
// Unparseable files are recorded and skipped.
//
// [resolver] ties these together behind a closed set of methods and
// suggests dependencies pyproject.toml is missing.
//
// [errors] defines coded errors; [observability] exposes hooks for skipped
// files and distributions and for run timings.
//
// [pep508]: https://pkg.go.dev/github.com/matzehuels/metapkg/pkg/pep508
// [stdlib]: https://pkg.go.dev/github.com/matzehuels/metapkg/pkg/stdlib
// [pyenv]: https://pkg.go.dev/github.com/matzehuels/metapkg/pkg/pyenv
// [installed]: https://pkg.go.dev/github.com/matzehuels/metapkg/pkg/installed
// [dag]: https://pkg.go.dev/github.com/matzehuels/metapkg/pkg/dag
// [mapper]: https://pkg.go.dev/github.com/matzehuels/metapkg/pkg/mapper
// [imports]: https://pkg.go.dev/github.com/matzehuels/metapkg/pkg/imports
// [manifest]: https://pkg.go.dev/github.com/matzehuels/metapkg/pkg/manifest
// [reqfile]: https://pkg.go.dev/github.com/matzehuels/metapkg/pkg/reqfile
// [fsutil]: https://pkg.go.dev/github.com/matzehuels/metapkg/pkg/fsutil
// [resolver]: https://pkg.go.dev/github.com/matzehuels/metapkg/pkg/resolver
// [errors]: https://pkg.go.dev/github.com/matzehuels/metapkg/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/metapkg/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/metapkg/pkg/buildinfo
package pkg

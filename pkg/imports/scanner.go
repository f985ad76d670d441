// Package imports statically scans a Python source tree for the top-level
// modules it imports.
//
// Scanning is a best-effort approximation: dynamic imports are invisible by
// construction, and files that cannot be read or parsed contribute nothing.
// Each file's outcome is kept as an explicit [FileResult] so callers can see
// what was skipped and why; a faulty file never aborts a scan.
package imports

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/metapkg/pkg/errors"
	"github.com/matzehuels/metapkg/pkg/observability"
)

// DefaultExcludes are directory names never scanned. Entries containing "*"
// are glob patterns.
var DefaultExcludes = []string{
	".git", ".hg", ".svn", "__pycache__", ".eggs", "*.egg-info",
	"dist", "build", "venv", ".venv", "env", ".env",
	".mypy_cache", ".pytest_cache", "node_modules",
}

// DevExcludes are directory names scanned only when dev files are included.
var DevExcludes = []string{
	"tests", "test", ".tox", ".github", ".gitlab", ".circleci",
}

// FileResult is the outcome of scanning one file. Err is non-nil when the
// file was skipped.
type FileResult struct {
	Path    string   // Path relative to the scan root
	Imports []string // Root import names, sorted
	Err     error
}

// Result aggregates a scan.
type Result struct {
	Root  string
	Files []FileResult

	// LocalModules are the project's own top-level modules: *.py files and
	// packages at the root or under src/.
	LocalModules []string
}

// Names returns the sorted set of import names across all parsed files.
func (r *Result) Names() []string {
	if r == nil {
		return nil
	}
	var names []string
	for _, f := range r.Files {
		if f.Err == nil {
			names = append(names, f.Imports...)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Skipped returns the files that contributed nothing because of an error.
func (r *Result) Skipped() []FileResult {
	if r == nil {
		return nil
	}
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// IsLocal reports whether name is one of the project's own modules.
func (r *Result) IsLocal(name string) bool {
	return r != nil && slices.Contains(r.LocalModules, name)
}

// Scanner walks source trees. The zero value is not usable - use New.
type Scanner struct {
	excludes []string
}

// New creates a Scanner that skips DefaultExcludes plus any extra directory
// names or glob patterns.
func New(extraExcludes ...string) *Scanner {
	ex := slices.Clone(DefaultExcludes)
	for _, e := range extraExcludes {
		if e = strings.TrimSpace(e); e != "" {
			ex = append(ex, e)
		}
	}
	return &Scanner{excludes: ex}
}

// Scan walks root and parses every *.py file. Only a missing or unreadable
// root and context cancellation are returned as errors; every other fault is
// recorded on the file's result and reported via observability hooks.
func (s *Scanner) Scan(ctx context.Context, root string, includeDev bool) (*Result, error) {
	start := time.Now()
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "scan root %s", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "scan root %s is not a directory", root)
	}

	parser := NewParser()
	defer parser.Close()

	hooks := observability.Scan()
	res := &Result{Root: root}
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, _ := filepath.Rel(root, path)
		if err != nil {
			if path == root {
				return err
			}
			// Unreadable subdirectory: record it and keep going.
			res.Files = append(res.Files, FileResult{Path: rel, Err: err})
			hooks.OnFileSkipped(ctx, rel, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && s.SkipDir(path, includeDev) {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".py") || !d.Type().IsRegular() {
			return nil
		}

		fr := FileResult{Path: rel}
		content, err := os.ReadFile(path)
		if err == nil {
			fr.Imports, err = parser.Parse(ctx, content)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			fr.Err = err
			fr.Imports = nil
			hooks.OnFileSkipped(ctx, rel, err)
		}
		res.Files = append(res.Files, fr)
		return nil
	})
	if walkErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, walkErr, "scan %s", root)
	}

	res.LocalModules = localModules(root)
	hooks.OnScanComplete(ctx, root, len(res.Files), len(res.Skipped()), len(res.Names()), time.Since(start))
	return res, nil
}

// SkipDir reports whether the directory at path is left out of a scan:
// its name is excluded or it holds a virtual environment.
func (s *Scanner) SkipDir(path string, includeDev bool) bool {
	name := filepath.Base(path)
	if excluded(name, s.excludes) || (!includeDev && excluded(name, DevExcludes)) {
		return true
	}
	return isVirtualEnv(path)
}

func excluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(p, "*") {
			if ok, _ := filepath.Match(p, name); ok {
				return true
			}
			continue
		}
		if name == p {
			return true
		}
	}
	return false
}

// isVirtualEnv reports whether dir is a virtual environment under any name.
func isVirtualEnv(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "pyvenv.cfg"))
	return err == nil
}

// localModules lists the top-level modules a project defines itself.
func localModules(root string) []string {
	var names []string
	for _, dir := range []string{root, filepath.Join(root, "src")} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() {
				if _, err := os.Stat(filepath.Join(dir, name, "__init__.py")); err == nil {
					names = append(names, name)
				}
				continue
			}
			if mod, ok := strings.CutSuffix(name, ".py"); ok && mod != "" {
				names = append(names, mod)
			}
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

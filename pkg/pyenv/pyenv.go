// Package pyenv introspects the local Python interpreter.
//
// metapkg never imports Python code. Everything it needs from the runtime
// (site directories, builtin module names, the standard-library index) is
// collected by running the interpreter once with a small introspection
// script and decoding its JSON output into a [Runtime] snapshot.
//
// Probing is best-effort: callers treat a failed [Probe] as "no interpreter"
// and fall back to configuration and embedded defaults.
package pyenv

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/metapkg/pkg/errors"
)

// DefaultInterpreter is the interpreter looked up on PATH when none is configured.
const DefaultInterpreter = "python3"

const probeScript = `
import json, site, sys, sysconfig
try:
    sitedirs = site.getsitepackages()
except Exception:
    sitedirs = []
try:
    user = site.getusersitepackages()
except Exception:
    user = ""
json.dump({
    "executable": sys.executable,
    "version": "%d.%d.%d" % sys.version_info[:3],
    "prefix": sys.prefix,
    "sys_path": [p for p in sys.path if p],
    "site_packages": sitedirs + ([user] if user else []),
    "builtin_module_names": list(sys.builtin_module_names),
    "stdlib_module_names": sorted(getattr(sys, "stdlib_module_names", [])),
    "stdlib_dir": sysconfig.get_paths().get("stdlib", ""),
}, sys.stdout)
`

// Runtime is a snapshot of an interpreter's introspection data.
type Runtime struct {
	Executable  string   `json:"executable"`
	Version     string   `json:"version"`
	Prefix      string   `json:"prefix"`
	SysPath     []string `json:"sys_path"`
	SiteDirs    []string `json:"site_packages"`
	Builtins    []string `json:"builtin_module_names"`
	StdlibNames []string `json:"stdlib_module_names"`
	StdlibDir   string   `json:"stdlib_dir"`
}

// Probe runs exe with the introspection script and decodes the result.
// An empty exe uses [DefaultInterpreter]. Failures are reported with
// code INTERPRETER.
func Probe(ctx context.Context, exe string) (*Runtime, error) {
	if exe == "" {
		exe = DefaultInterpreter
	}
	path, err := exec.LookPath(exe)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInterpreter, err, "python interpreter %q not found", exe)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "-I", "-c", probeScript)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		return nil, errors.Wrap(errors.ErrCodeInterpreter, err, "probe %s: %s", path, msg)
	}
	return Decode(stdout.Bytes())
}

// Decode parses the introspection script's JSON output.
func Decode(data []byte) (*Runtime, error) {
	var rt Runtime
	if err := json.Unmarshal(data, &rt); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInterpreter, err, "decode interpreter probe")
	}
	return &rt, nil
}

// SitePackages returns the existing site-packages directories visible to the
// interpreter, in sys.path order, without duplicates. The -I flag used by
// Probe hides user site and PYTHONPATH from sys.path, so SiteDirs reported by
// the site module are appended after sys.path entries.
func (r *Runtime) SitePackages() []string {
	var dirs []string
	seen := make(map[string]bool)
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		base := filepath.Base(p)
		if base != "site-packages" && base != "dist-packages" {
			return
		}
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			return
		}
		seen[p] = true
		dirs = append(dirs, p)
	}
	for _, p := range r.SysPath {
		add(p)
	}
	for _, p := range r.SiteDirs {
		add(p)
	}
	return dirs
}

// StdlibModules returns the runtime's standard-library module names: the
// interpreter's own index merged with a listing of its stdlib directory.
func (r *Runtime) StdlibModules() []string {
	names := slices.Clone(r.StdlibNames)
	if r.StdlibDir != "" {
		names = append(names, ListModules(r.StdlibDir)...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// ListModules lists the importable top-level modules in dir: *.py files,
// extension modules and package directories. lib-dynload is flattened into
// the listing; site-packages is skipped. Unreadable directories yield nil.
func ListModules(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			if name == "lib-dynload" {
				names = append(names, ListModules(filepath.Join(dir, name))...)
				continue
			}
			if name == "site-packages" || name == "dist-packages" || name == "__pycache__" || strings.Contains(name, "-") {
				continue
			}
			names = append(names, name)
			continue
		}
		if mod, ok := moduleName(name); ok {
			names = append(names, mod)
		}
	}
	return names
}

// moduleName returns the import name for a module file such as "json.py" or
// "_ssl.cpython-312-x86_64-linux-gnu.so".
func moduleName(file string) (string, bool) {
	switch ext := filepath.Ext(file); ext {
	case ".py", ".so", ".pyd":
		base := strings.TrimSuffix(file, ext)
		if i := strings.IndexByte(base, '.'); i >= 0 {
			base = base[:i]
		}
		return base, base != "" && !strings.Contains(base, "-")
	}
	return "", false
}

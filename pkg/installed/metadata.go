package installed

import (
	"bufio"
	"fmt"
	"io"
	"net/textproto"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/metapkg/pkg/pep508"
)

const (
	distInfoSuffix = ".dist-info"
	eggInfoSuffix  = ".egg-info"
)

// isMetadataEntry reports whether a site-packages entry describes a
// distribution.
func isMetadataEntry(name string) bool {
	return strings.HasSuffix(name, distInfoSuffix) || strings.HasSuffix(name, eggInfoSuffix)
}

// readDistribution loads the distribution described by path, a metadata
// directory or a legacy single-file egg-info. The returned warning is
// non-nil when the record was kept with degraded metadata.
func readDistribution(path string) (dist Distribution, warning error, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return Distribution{}, nil, err
	}
	isDir := info.IsDir()

	header, warning := readHeader(path, isDir)

	dist.Path = path
	dist.Name = strings.TrimSpace(header.Get("Name"))
	dist.Version = strings.TrimSpace(header.Get("Version"))
	if dist.Name == "" || dist.Version == "" {
		name, version := splitEntryName(filepath.Base(path))
		if dist.Name == "" {
			dist.Name = name
		}
		if dist.Version == "" {
			dist.Version = version
		}
	}
	if dist.Name == "" {
		return Distribution{}, nil, fmt.Errorf("%s: no distribution name", path)
	}

	requires, err := readRequires(path, isDir, header)
	if err != nil && warning == nil {
		warning = err
	}
	dist.Requires = requires
	if isDir {
		dist.TopLevel = readTopLevel(path)
	}
	return dist, warning, nil
}

// readHeader returns the RFC 822 style header block of METADATA (dist-info)
// or PKG-INFO (egg-info). A malformed header yields the fields parsed before
// the fault together with the error; the header is never nil.
func readHeader(path string, isDir bool) (textproto.MIMEHeader, error) {
	file := path
	if isDir {
		name := "PKG-INFO"
		if strings.HasSuffix(path, distInfoSuffix) {
			name = "METADATA"
		}
		file = filepath.Join(path, name)
	}

	f, err := os.Open(file)
	if err != nil {
		return textproto.MIMEHeader{}, err
	}
	defer f.Close()

	header, err := textproto.NewReader(bufio.NewReader(f)).ReadMIMEHeader()
	if header == nil {
		header = textproto.MIMEHeader{}
	}
	if err != nil && err != io.EOF {
		return header, fmt.Errorf("%s: %w", file, err)
	}
	return header, nil
}

// splitEntryName derives name and version from "name-version.dist-info".
// Installers escape "-" in names as "_", so the first "-" separates name
// from version. Egg-info entries may carry a "-pyX.Y" tag.
func splitEntryName(entry string) (name, version string) {
	base := strings.TrimSuffix(strings.TrimSuffix(entry, distInfoSuffix), eggInfoSuffix)
	name, version, _ = strings.Cut(base, "-")
	if i := strings.Index(version, "-py"); i >= 0 {
		version = version[:i]
	}
	return name, version
}

// readRequires collects the normalized names of unconditional requirements.
// Requires-Dist headers take precedence over an egg-info requires.txt.
// Specifiers that fail to parse are skipped; the first failure is returned
// alongside the names that did parse.
func readRequires(path string, isDir bool, header textproto.MIMEHeader) ([]string, error) {
	specs := header.Values("Requires-Dist")
	if len(specs) == 0 && isDir {
		data, err := os.ReadFile(filepath.Join(path, "requires.txt"))
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		specs = parseRequiresTxt(string(data))
	}

	seen := make(map[string]bool)
	var names []string
	var firstErr error
	for _, spec := range specs {
		req, err := pep508.Parse(spec)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if req.OnlyForExtra() {
			continue
		}
		if key := req.Key(); !seen[key] {
			seen[key] = true
			names = append(names, key)
		}
	}
	slices.Sort(names)
	return names, firstErr
}

// parseRequiresTxt returns the specifiers in an egg-info requires.txt that
// apply without extras. A "[name]" section belongs to an extra; a
// "[:marker]" section is an unconditional requirement guarded by a marker.
func parseRequiresTxt(data string) []string {
	var specs []string
	inExtra := false
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}
		if line[0] == '[' {
			section := strings.Trim(line, "[]")
			inExtra = !strings.HasPrefix(section, ":")
			continue
		}
		if !inExtra {
			specs = append(specs, line)
		}
	}
	return specs
}

// readTopLevel returns the top-level import names the distribution provides,
// from top_level.txt or, failing that, from the installed-files RECORD.
func readTopLevel(path string) []string {
	if data, err := os.ReadFile(filepath.Join(path, "top_level.txt")); err == nil {
		var names []string
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if head, _, _ := strings.Cut(line, "/"); head != "" {
				names = append(names, head)
			}
		}
		slices.Sort(names)
		return slices.Compact(names)
	}
	data, err := os.ReadFile(filepath.Join(path, "RECORD"))
	if err != nil {
		return nil
	}
	return topLevelFromRecord(string(data))
}

// topLevelFromRecord extracts top-level module names from RECORD rows of the
// form "path,hash,size".
func topLevelFromRecord(data string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, line := range strings.Split(data, "\n") {
		file, _, _ := strings.Cut(strings.TrimSpace(line), ",")
		file = strings.Trim(file, `"`)
		if file == "" || strings.HasPrefix(file, "..") || strings.HasPrefix(file, "/") {
			continue
		}
		var name string
		if head, _, nested := strings.Cut(file, "/"); nested {
			if isMetadataEntry(head) || strings.HasSuffix(head, ".data") || head == "__pycache__" {
				continue
			}
			name = head
		} else {
			name = moduleFile(file)
		}
		if name == "" || strings.ContainsAny(name, "-.") || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// moduleFile returns the import name of a top-level module file, or "" for
// files that are not importable (e.g. "distutils-precedence.pth").
func moduleFile(file string) string {
	switch ext := filepath.Ext(file); ext {
	case ".py", ".so", ".pyd":
		base := strings.TrimSuffix(file, ext)
		if i := strings.IndexByte(base, '.'); i >= 0 {
			base = base[:i]
		}
		return base
	}
	return ""
}

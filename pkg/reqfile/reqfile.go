// Package reqfile renders, writes and reads pinned requirements files.
//
// # Format
//
// A generated file starts with comment lines naming the generator and the
// command that produced it, then a blank line, then one requirement per
// line sorted by name:
//
//	# This file was generated by metapkg
//	# metapkg reqs --method auto
//
//	flask
//	pandas==2.1.0
//
// A requirement with a known version is pinned with "=="; one without is
// written as a bare name.
package reqfile

import (
	"bufio"
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"maps"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/metapkg/pkg/buildinfo"
	"github.com/matzehuels/metapkg/pkg/errors"
	"github.com/matzehuels/metapkg/pkg/fsutil"
	"github.com/matzehuels/metapkg/pkg/pep508"
)

// DefaultName is the requirements file name used when none is configured.
const DefaultName = "requirements.txt"

// GeneratedBy is the first header line of every rendered file. Release
// builds add their version.
var GeneratedBy = "# This file was generated by " + buildinfo.Generator()

// Render formats reqs (name to version, empty for unpinned). command, when
// non-empty, is recorded as a second header line.
func Render(reqs map[string]string, command string) []byte {
	var b bytes.Buffer
	b.WriteString(GeneratedBy + "\n")
	if command != "" {
		b.WriteString("# " + command + "\n")
	}
	b.WriteString("\n")
	for _, name := range SortedNames(reqs) {
		b.WriteString(name)
		if v := reqs[name]; v != "" {
			b.WriteString("==" + v)
		}
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// SortedNames returns the keys of reqs ordered case-insensitively, ties
// broken by exact comparison.
func SortedNames(reqs map[string]string) []string {
	return slices.SortedFunc(maps.Keys(reqs), CompareNames)
}

// CompareNames orders requirement names case-insensitively, ties broken by
// exact comparison.
func CompareNames(a, b string) int {
	return cmp.Or(
		strings.Compare(strings.ToLower(a), strings.ToLower(b)),
		strings.Compare(a, b),
	)
}

// Write renders reqs and atomically replaces path. The target is never left
// truncated; failures are reported as OUTPUT_WRITE.
func Write(path string, reqs map[string]string, command string) error {
	return WriteBytes(path, Render(reqs, command))
}

// WriteBytes atomically replaces path with already rendered content.
func WriteBytes(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "cannot write %s", path)
	}
	return nil
}

var depNameRE = regexp.MustCompile(`^([a-zA-Z0-9][-a-zA-Z0-9._]*)`)

// Read parses an existing requirements file into normalized name to pinned
// version ("" when not pinned with "=="). Comments, pip options, URLs and
// editable installs are skipped. A missing file yields an empty map.
func Read(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}

// Parse is Read for in-memory content.
func Parse(data []byte) (map[string]string, error) {
	return parse(bytes.NewReader(data))
}

func parse(r io.Reader) (map[string]string, error) {
	result := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if i := strings.Index(line, " #"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" || line[0] == '#' || line[0] == '-' {
			continue
		}
		if strings.Contains(line, "://") || strings.HasPrefix(line, "git+") {
			continue
		}
		m := depNameRE.FindStringSubmatch(line)
		if len(m) < 2 {
			continue
		}
		name := pep508.Normalize(m[1])
		version := ""
		if rest := strings.TrimSpace(line[len(m[1]):]); strings.HasPrefix(rest, "==") {
			version, _, _ = strings.Cut(strings.TrimSpace(rest[2:]), ";")
			version = strings.TrimSpace(version)
		}
		if _, seen := result[name]; !seen {
			result[name] = version
		}
	}
	return result, scanner.Err()
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

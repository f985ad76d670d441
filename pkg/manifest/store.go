package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/metapkg/pkg/errors"
	"github.com/matzehuels/metapkg/pkg/fsutil"
	"github.com/matzehuels/metapkg/pkg/pep508"
)

// Store reads and writes the manifest of one project directory.
type Store struct {
	path string
}

// Open returns a Store for dir/pyproject.toml. The file need not exist.
func Open(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName)}
}

// Path returns the manifest path.
func (s *Store) Path() string { return s.path }

// Exists reports whether the manifest file exists.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Read decodes the manifest. A missing file is MANIFEST_NOT_FOUND and
// undecodable TOML is INVALID_MANIFEST.
func (s *Store) Read() (*Manifest, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, errors.ManifestNotFound(s.path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", s.path)
	}
	doc := make(map[string]any)
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", s.path)
	}
	return &Manifest{doc: doc}, nil
}

// Write encodes m and atomically replaces the manifest file.
func (s *Store) Write(m *Manifest) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(m.doc); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "encode %s", s.path)
	}
	if err := fsutil.WriteFileAtomic(s.path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "write %s", s.path)
	}
	return nil
}

// Init creates the manifest from p. It fails with MANIFEST_EXISTS when the
// file is already present.
func (s *Store) Init(p Project) error {
	if s.Exists() {
		return errors.New(errors.ErrCodeManifestExists, "%s already exists", s.path)
	}
	if err := errors.ValidatePythonPackageName(p.Name); err != nil {
		return err
	}
	return s.Write(New(p))
}

// Add validates spec and appends it to the declared dependencies unless a
// dependency with the same normalized name exists. It reports whether the
// manifest changed.
func (s *Store) Add(spec string) (bool, error) {
	spec = strings.TrimSpace(spec)
	if _, err := pep508.Parse(spec); err != nil {
		return false, err
	}
	m, err := s.Read()
	if err != nil {
		return false, err
	}
	if !m.AddDependency(spec) {
		return false, nil
	}
	return true, s.Write(m)
}

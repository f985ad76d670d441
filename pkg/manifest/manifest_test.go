package manifest

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/metapkg/pkg/errors"
)

func TestInitAndRead(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir)
	if s.Exists() {
		t.Fatal("Exists() = true before Init")
	}

	if err := s.Init(Project{Name: "demo", Description: "A demo", Author: "Ada"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !s.Exists() {
		t.Fatal("Exists() = false after Init")
	}

	m, err := s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if m.Name() != "demo" || m.Version() != "0.1.0" || m.Description() != "A demo" {
		t.Errorf("got name=%q version=%q description=%q", m.Name(), m.Version(), m.Description())
	}
	if deps := m.Dependencies(); len(deps) != 0 {
		t.Errorf("Dependencies() = %v, want empty", deps)
	}

	data, _ := os.ReadFile(s.Path())
	for _, want := range []string{`build-backend = "hatchling.build"`, `requires-python = ">=3.8"`, `name = "Ada"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("manifest missing %q:\n%s", want, data)
		}
	}
}

func TestInitExisting(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir)
	if err := s.Init(Project{Name: "demo"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Init(Project{Name: "demo"}); !errors.Is(err, errors.ErrCodeManifestExists) {
		t.Errorf("second Init = %v, want MANIFEST_EXISTS", err)
	}
}

func TestInitInvalidName(t *testing.T) {
	if err := Open(t.TempDir()).Init(Project{Name: "-bad-"}); !errors.Is(err, errors.ErrCodeInvalidPackage) {
		t.Errorf("Init(-bad-) = %v, want INVALID_PACKAGE", err)
	}
}

func TestReadMissing(t *testing.T) {
	_, err := Open(t.TempDir()).Read()
	if !errors.Is(err, errors.ErrCodeManifestNotFound) {
		t.Fatalf("Read() = %v, want MANIFEST_NOT_FOUND", err)
	}
	if !strings.Contains(errors.UserMessage(err), "metapkg init") {
		t.Errorf("message %q should direct to metapkg init", errors.UserMessage(err))
	}
}

func TestReadInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("[project\nname="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(dir).Read(); !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("Read() = %v, want INVALID_MANIFEST", err)
	}
}

func TestAdd(t *testing.T) {
	dir := t.TempDir()
	content := `[project]
name = "demo"
version = "1.2.3"
dependencies = ["requests>=2.0", "Flask_Login"]

[tool.ruff]
line-length = 100
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	s := Open(dir)

	tests := []struct {
		spec  string
		added bool
	}{
		{"pandas>=2.0", true},
		{"Requests", false},
		{"flask-login==0.6", false},
		{"  numpy  ", true},
	}
	for _, tt := range tests {
		added, err := s.Add(tt.spec)
		if err != nil {
			t.Fatalf("Add(%q): %v", tt.spec, err)
		}
		if added != tt.added {
			t.Errorf("Add(%q) = %v, want %v", tt.spec, added, tt.added)
		}
	}

	m, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"requests>=2.0", "Flask_Login", "pandas>=2.0", "numpy"}
	if got := m.Dependencies(); !slices.Equal(got, want) {
		t.Errorf("Dependencies() = %v, want %v", got, want)
	}
	if m.Version() != "1.2.3" {
		t.Errorf("Version() = %q, want 1.2.3", m.Version())
	}

	raw, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "[tool.ruff]") || !strings.Contains(string(raw), "line-length = 100") {
		t.Errorf("tool.ruff did not survive round trip:\n%s", raw)
	}
}

func TestAddErrors(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir)

	if _, err := s.Add("requests"); !errors.Is(err, errors.ErrCodeManifestNotFound) {
		t.Errorf("Add without manifest = %v, want MANIFEST_NOT_FOUND", err)
	}
	if err := s.Init(Project{Name: "demo"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(">=1.0"); !errors.Is(err, errors.ErrCodeInvalidPackage) {
		t.Errorf("Add(>=1.0) = %v, want INVALID_PACKAGE", err)
	}
}

func TestOptionalDependencies(t *testing.T) {
	dir := t.TempDir()
	content := `[project]
name = "demo"
dependencies = []

[project.optional-dependencies]
dev = ["pytest", "ruff>=0.1"]
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Open(dir).Read()
	if err != nil {
		t.Fatal(err)
	}
	if got := m.OptionalDependencies("dev"); !slices.Equal(got, []string{"pytest", "ruff>=0.1"}) {
		t.Errorf("OptionalDependencies(dev) = %v", got)
	}
	if got := m.OptionalDependencies("docs"); got != nil {
		t.Errorf("OptionalDependencies(docs) = %v, want nil", got)
	}
}

func TestAddDependencyWithoutProjectTable(t *testing.T) {
	m := &Manifest{}
	if !m.AddDependency("click") {
		t.Fatal("AddDependency on empty manifest should add")
	}
	if got := m.Dependencies(); !slices.Equal(got, []string{"click"}) {
		t.Errorf("Dependencies() = %v, want [click]", got)
	}
}

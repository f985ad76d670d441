package reqfile

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/metapkg/pkg/errors"
)

func TestRender(t *testing.T) {
	got := string(Render(map[string]string{"pandas": "2.1.0", "flask": ""}, "metapkg reqs --method auto"))
	want := `# This file was generated by metapkg
# metapkg reqs --method auto

flask
pandas==2.1.0
`
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	got := string(Render(nil, ""))
	if got != GeneratedBy+"\n\n" {
		t.Errorf("Render(nil) = %q, want header only", got)
	}
}

func TestSortedNames(t *testing.T) {
	reqs := map[string]string{"zope.interface": "", "Django": "", "attrs": "", "django": ""}
	want := []string{"attrs", "Django", "django", "zope.interface"}
	if got := SortedNames(reqs); !slices.Equal(got, want) {
		t.Errorf("SortedNames() = %v, want %v", got, want)
	}
}

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", DefaultName)
	reqs := map[string]string{"Flask_Login": "0.6.3", "requests": "2.31.0", "numpy": ""}

	if err := Write(path, reqs, ""); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := map[string]string{"flask-login": "0.6.3", "requests": "2.31.0", "numpy": ""}
	if len(got) != len(want) {
		t.Fatalf("Read() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("Read()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := Write(filepath.Join(blocker, DefaultName), map[string]string{"flask": ""}, "")
	if !errors.Is(err, errors.ErrCodeOutputWrite) {
		t.Errorf("Write() = %v, want OUTPUT_WRITE", err)
	}

	if err := Write("", nil, ""); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Write(\"\") = %v, want INVALID_PATH", err)
	}
}

func TestWriteLeavesNoTempFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultName)
	if err := Write(path, map[string]string{"flask": "3.0.0"}, ""); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(path)

	// Renaming onto a non-empty directory fails after the temp file exists.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(path, "keep"), before, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Write(path, map[string]string{"django": ""}, ""); err == nil {
		t.Fatal("Write over a non-empty directory should fail")
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestParse(t *testing.T) {
	data := []byte(`# comment
-r base.txt
--index-url https://example.org/simple
requests==2.31.0  # pinned
Django>=4.2
numpy == 1.26.0 ; python_version >= "3.9"
-e git+https://github.com/org/repo.git#egg=repo
pkg @ https://example.org/pkg.whl
requests==1.0
`)
	got, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"requests": "2.31.0", "django": "", "numpy": "1.26.0"}
	if len(got) != len(want) {
		t.Fatalf("Parse() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("Parse()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestReadMissing(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "none.txt"))
	if err != nil || len(got) != 0 {
		t.Errorf("Read(missing) = %v, %v, want empty map", got, err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("flask\n"))
	if len(h1) != 64 {
		t.Errorf("len(Hash) = %d, want 64", len(h1))
	}
	if h1 != Hash([]byte("flask\n")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("django\n")) {
		t.Error("different input should give different hashes")
	}
}

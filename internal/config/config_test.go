package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/metapkg/pkg/errors"
)

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return t.TempDir()
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("", dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Method != "auto" {
		t.Errorf("Method = %q, want auto", cfg.Method)
	}
	if cfg.Output != "requirements.txt" {
		t.Errorf("Output = %q, want requirements.txt", cfg.Output)
	}
	if cfg.Python != "python3" {
		t.Errorf("Python = %q, want python3", cfg.Python)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 500ms", cfg.Watch.Debounce)
	}
	if cfg.IncludeDev || cfg.IncludeStdlib {
		t.Error("include flags should default to false")
	}
}

func TestLoadProjectFile(t *testing.T) {
	dir := isolate(t)
	content := `method = "imports"
output = "reqs/prod.txt"
include_dev = true
exclude_dirs = ["notebooks"]
direct_tool = "pip-chill --no-version"

[aliases]
yaml = "PyYAML"
mylib = "none"

[watch]
debounce = "2s"
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Method != "imports" {
		t.Errorf("Method = %q, want imports", cfg.Method)
	}
	if cfg.Output != "reqs/prod.txt" {
		t.Errorf("Output = %q", cfg.Output)
	}
	if !cfg.IncludeDev {
		t.Error("IncludeDev = false, want true")
	}
	if len(cfg.ExcludeDirs) != 1 || cfg.ExcludeDirs[0] != "notebooks" {
		t.Errorf("ExcludeDirs = %v", cfg.ExcludeDirs)
	}
	if cfg.Aliases["yaml"] != "PyYAML" || cfg.Aliases["mylib"] != "none" {
		t.Errorf("Aliases = %v", cfg.Aliases)
	}
	if cfg.DirectTool != "pip-chill --no-version" {
		t.Errorf("DirectTool = %q", cfg.DirectTool)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("Watch.Debounce = %v, want 2s", cfg.Watch.Debounce)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(`method = "imports"`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("METAPKG_METHOD", "environment")
	t.Setenv("METAPKG_WATCH_DEBOUNCE", "1s")
	t.Setenv("METAPKG_ALL_INSTALLED", "true")

	cfg, err := Load("", dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Method != "environment" {
		t.Errorf("Method = %q, want environment", cfg.Method)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Watch.Debounce = %v, want 1s", cfg.Watch.Debounce)
	}
	if !cfg.AllInstalled {
		t.Error("AllInstalled = false, want true from METAPKG_ALL_INSTALLED")
	}
}

func TestLoadExplicitPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte(`method = "manifest"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Method != "manifest" {
		t.Errorf("Method = %q, want manifest", cfg.Method)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml"), dir); err == nil {
		t.Error("Load with missing explicit path should fail")
	}
}

func TestLoadInvalidMethod(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(`method = "freeze"`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load("", dir)
	if !errors.Is(err, errors.ErrCodeInvalidMethod) {
		t.Errorf("Load = %v, want INVALID_METHOD", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"alias method", func(c *Config) { c.Method = "env" }, false},
		{"empty output", func(c *Config) { c.Output = "" }, false},
		{"bad method", func(c *Config) { c.Method = "bogus" }, true},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, true},
		{"bad output", func(c *Config) { c.Output = "out\x00.txt" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolverConfig(t *testing.T) {
	cfg := Default()
	cfg.IncludeDev = true
	cfg.AllInstalled = true
	cfg.Aliases = map[string]string{"yaml": "PyYAML"}
	cfg.SitePackages = []string{"/venv/lib/site-packages"}

	rc := cfg.ResolverConfig("/proj")
	if rc.ProjectDir != "/proj" || !rc.IncludeDev || !rc.AllInstalled {
		t.Errorf("Options = %+v", rc.Options)
	}
	if rc.Python != "python3" || rc.Aliases["yaml"] != "PyYAML" || len(rc.SitePackages) != 1 {
		t.Errorf("ResolverConfig = %+v", rc)
	}
}

// Package config loads metapkg settings from defaults, a .metapkg.toml file
// and METAPKG_* environment variables.
package config

import (
	"time"

	"github.com/matzehuels/metapkg/pkg/errors"
	"github.com/matzehuels/metapkg/pkg/reqfile"
	"github.com/matzehuels/metapkg/pkg/resolver"
)

// FileName is the configuration file searched in the project directory and
// the home directory.
const FileName = ".metapkg.toml"

// EnvPrefix prefixes every environment override, e.g. METAPKG_METHOD.
const EnvPrefix = "METAPKG"

const (
	defaultMethod   = "auto"
	defaultPython   = "python3"
	defaultDebounce = 500 * time.Millisecond
)

// Config holds all settings.
type Config struct {
	Python        string            `mapstructure:"python"`
	SitePackages  []string          `mapstructure:"site_packages"`
	Output        string            `mapstructure:"output"`
	Method        string            `mapstructure:"method"`
	IncludeDev    bool              `mapstructure:"include_dev"`
	IncludeStdlib bool              `mapstructure:"include_stdlib"`
	AllInstalled  bool              `mapstructure:"all_installed"`
	DirectTool    string            `mapstructure:"direct_tool"`
	Aliases       map[string]string `mapstructure:"aliases"`
	ExcludeDirs   []string          `mapstructure:"exclude_dirs"`
	Watch         WatchConfig       `mapstructure:"watch"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Python: defaultPython,
		Output: reqfile.DefaultName,
		Method: defaultMethod,
		Watch:  WatchConfig{Debounce: defaultDebounce},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := resolver.ParseMethod(c.Method); err != nil {
		return err
	}
	if c.Output != "" {
		if err := errors.ValidatePath(c.Output); err != nil {
			return err
		}
	}
	if c.Watch.Debounce < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

// ResolverConfig converts the settings into a resolver configuration rooted
// at dir.
func (c *Config) ResolverConfig(dir string) resolver.Config {
	return resolver.Config{
		Options: resolver.Options{
			ProjectDir:    dir,
			IncludeDev:    c.IncludeDev,
			IncludeStdlib: c.IncludeStdlib,
			AllInstalled:  c.AllInstalled,
		},
		Python:       c.Python,
		SitePackages: c.SitePackages,
		Aliases:      c.Aliases,
		ExcludeDirs:  c.ExcludeDirs,
		DirectTool:   c.DirectTool,
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from defaults, the config file and environment
// variables, in increasing order of precedence. An explicit path must exist;
// otherwise .metapkg.toml is searched in projectDir and then $HOME, and its
// absence is not an error.
func Load(path, projectDir string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		if projectDir == "" {
			projectDir = "."
		}
		v.AddConfigPath(projectDir)
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("python", d.Python)
	v.SetDefault("site_packages", []string{})
	v.SetDefault("output", d.Output)
	v.SetDefault("method", d.Method)
	v.SetDefault("include_dev", false)
	v.SetDefault("include_stdlib", false)
	v.SetDefault("all_installed", false)
	v.SetDefault("direct_tool", "")
	v.SetDefault("aliases", map[string]string{})
	v.SetDefault("exclude_dirs", []string{})
	v.SetDefault("watch.debounce", d.Watch.Debounce)
}

// Package config loads Rono's optional project configuration file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultHTTPTimeoutSeconds matches spec.md §5's fixed request timeout
// when no rono.yaml overrides it.
const DefaultHTTPTimeoutSeconds = 30

// Config is the shape of an optional rono.yaml sitting next to the
// entry file or in the working directory.
type Config struct {
	ImportPaths        []string `yaml:"importPaths"`
	HTTPTimeoutSeconds int      `yaml:"httpTimeoutSeconds"`
}

// Default returns the configuration spec.md describes when no
// rono.yaml is present: a single extra search path "." (the process's
// working directory), tried after the importing file's own directory,
// and a 30s HTTP timeout.
func Default() *Config {
	return &Config{
		ImportPaths:        []string{"."},
		HTTPTimeoutSeconds: DefaultHTTPTimeoutSeconds,
	}
}

// Load looks for rono.yaml next to entryFile, then in the current
// working directory. A missing file is not an error — it just leaves
// the caller with Default().
func Load(entryFile string) (*Config, error) {
	cfg := Default()

	candidates := []string{
		filepath.Join(filepath.Dir(entryFile), "rono.yaml"),
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, "rono.yaml"))
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
		if len(cfg.ImportPaths) == 0 {
			cfg.ImportPaths = []string{"."}
		}
		if cfg.HTTPTimeoutSeconds <= 0 {
			cfg.HTTPTimeoutSeconds = DefaultHTTPTimeoutSeconds
		}
		return cfg, nil
	}
	return cfg, nil
}

// HTTPTimeout converts the configured seconds into a time.Duration for
// internal/builtin's http.Client.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Package projectconfig loads technetium.yaml, the optional project-level
// configuration file consulted at startup (spec §6's process-wide state).
//
// Grounded on the teacher's internal/ext/config.go: same discovery-by-walking-
// up-parents strategy, same gopkg.in/yaml.v3 decoding, same load-then-
// setDefaults shape. The teacher's Config describes Go dependency bindings;
// ours describes debug verbosity, the staleness cache directory, and a PATH-
// like search list for `which` — unrelated fields, identical plumbing.
package projectconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level technetium.yaml shape.
type Config struct {
	// Debug controls debug-trace verbosity: "off", "line", or "full".
	// Defaults to "off".
	Debug string `yaml:"debug,omitempty"`

	// CacheDir overrides the staleness cache directory name, normally ".tcmake".
	CacheDir string `yaml:"cache_dir,omitempty"`

	// Paths is an extra search list consulted by `which`, ahead of $PATH.
	// Entries are resolved relative to the directory containing technetium.yaml.
	Paths []string `yaml:"paths,omitempty"`
}

const (
	fileName    = "technetium.yaml"
	altFileName = "technetium.yml"
)

// defaultCacheDir is used when Config.CacheDir is unset.
const defaultCacheDir = ".tcmake"

// Find searches for technetium.yaml starting from dir and walking up to
// parent directories, the way the teacher's FindConfig locates funxy.yaml.
// Returns the empty string with a nil error if no config file is found.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range []string{fileName, altFileName} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load reads and parses technetium.yaml at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes technetium.yaml content from bytes. path is used only for
// error messages and for resolving Paths entries relative to its directory.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.setDefaults()
	cfg.resolvePaths(filepath.Dir(path))
	return &cfg, nil
}

// LoadForDir finds and loads technetium.yaml starting from dir, walking up
// to parent directories. Returns a zero-value, default Config (never nil)
// if no config file exists — callers don't need a separate "found?" check.
func LoadForDir(dir string) (*Config, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		cfg := &Config{}
		cfg.setDefaults()
		return cfg, nil
	}
	return Load(path)
}

func (c *Config) validate() error {
	switch c.Debug {
	case "", "off", "line", "full":
	default:
		return fmt.Errorf("debug: must be one of off, line, full, got %q", c.Debug)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Debug == "" {
		c.Debug = "off"
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir
	}
}

// resolvePaths rewrites relative Paths entries to be relative to configDir,
// the directory containing technetium.yaml, so `which` can use them directly
// regardless of the process's current working directory.
func (c *Config) resolvePaths(configDir string) {
	for i, p := range c.Paths {
		if !filepath.IsAbs(p) {
			c.Paths[i] = filepath.Join(configDir, p)
		}
	}
}

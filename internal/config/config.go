// Package config loads plutoc.yaml, the project-level configuration file
// naming the standard-library root and project module root used to
// resolve `import` declarations.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Config is the parsed shape of plutoc.yaml.
type Config struct {
	// StdlibRoot is the directory containing the standard library's
	// `.pluto` modules. Defaults to "stdlib" relative to the config file.
	StdlibRoot string `yaml:"stdlibRoot"`

	// ModuleRoot is the directory containing the project's own modules,
	// searched before StdlibRoot. Defaults to the config file's directory.
	ModuleRoot string `yaml:"moduleRoot"`

	// Standalone disables module resolution entirely: the entry file may
	// not `import` anything. Useful for single-file scripts and examples.
	Standalone bool `yaml:"standalone"`
}

// Default returns the configuration used when no plutoc.yaml is present.
func Default(baseDir string) *Config {
	return &Config{
		StdlibRoot: filepath.Join(baseDir, "stdlib"),
		ModuleRoot: baseDir,
	}
}

// Load reads and parses plutoc.yaml from dir, falling back to Default if
// the file does not exist.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "plutoc.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(dir), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := Default(dir)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if !filepath.IsAbs(cfg.StdlibRoot) {
		cfg.StdlibRoot = filepath.Join(dir, cfg.StdlibRoot)
	}
	if !filepath.IsAbs(cfg.ModuleRoot) {
		cfg.ModuleRoot = filepath.Join(dir, cfg.ModuleRoot)
	}
	return cfg, nil
}

// Roots returns the search-path list in resolution order: project module
// root first, then the standard library.
func (c *Config) Roots() []string {
	return []string{c.ModuleRoot, c.StdlibRoot}
}

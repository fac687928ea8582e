// Package config handles loading and saving view configuration: the filter
// and sort surface of a projection, expressed as a YAML document so hosts
// and tests can set up a view declaratively.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/outliner/pkg/projection"
)

// Projection modes.
const (
	ModeTree = "tree"
	ModeFlat = "flat"
)

// FilterConfig is the filter surface. Text and Pattern are mutually
// exclusive; Validate rejects configs that set both.
type FilterConfig struct {
	Text          string `yaml:"text,omitempty"`
	Pattern       string `yaml:"pattern,omitempty"`
	CaseSensitive bool   `yaml:"case_sensitive,omitempty"`
	ExactMatch    bool   `yaml:"exact_match,omitempty"`
	Fields        []int  `yaml:"fields,omitempty"`         // empty = all fields
	KeepAncestors bool   `yaml:"keep_ancestors,omitempty"` // placeholder vs promote mode
}

// SortConfig is the sort surface, used by the flattened projection.
type SortConfig struct {
	Field      int  `yaml:"field,omitempty"`
	Descending bool `yaml:"descending,omitempty"`
}

// ViewConfig is the top-level view configuration.
type ViewConfig struct {
	Mode   string       `yaml:"mode,omitempty"` // tree (default) or flat
	Filter FilterConfig `yaml:"filter,omitempty"`
	Sort   SortConfig   `yaml:"sort,omitempty"`
}

// DefaultConfig returns a passthrough hierarchical view: no filter, tree
// mode, ascending sort on field 0.
func DefaultConfig() ViewConfig {
	return ViewConfig{Mode: ModeTree}
}

// Validate checks the config for contradictions and uncompilable patterns.
func (c ViewConfig) Validate() error {
	switch c.Mode {
	case "", ModeTree, ModeFlat:
	default:
		return fmt.Errorf("unknown mode %q (want %q or %q)", c.Mode, ModeTree, ModeFlat)
	}
	if c.Filter.Text != "" && c.Filter.Pattern != "" {
		return fmt.Errorf("filter text and pattern are mutually exclusive")
	}
	if c.Filter.Pattern != "" {
		if _, err := regexp.Compile(c.Filter.Pattern); err != nil {
			return fmt.Errorf("compiling filter pattern: %w", err)
		}
	}
	for _, f := range c.Filter.Fields {
		if f < 0 {
			return fmt.Errorf("negative filter field %d", f)
		}
	}
	return nil
}

// LoadFrom reads a view config from a specific path. A missing file yields
// DefaultConfig.
func LoadFrom(path string) (ViewConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveTo writes the view config to a specific path, creating parent
// directories as needed.
func SaveTo(cfg ViewConfig, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Apply configures an engine from the config. Each setter triggers its own
// rebuild; Apply is meant for setup, not per-keystroke updates.
func Apply[E comparable](cfg ViewConfig, e *projection.Engine[E]) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.SetFilterFields(cfg.Filter.Fields...)
	e.SetKeepAncestors(cfg.Filter.KeepAncestors)
	if cfg.Filter.Pattern != "" {
		re, err := regexp.Compile(cfg.Filter.Pattern)
		if err != nil {
			return fmt.Errorf("compiling filter pattern: %w", err)
		}
		e.SetFilterPattern(re)
	} else {
		e.SetFilterText(cfg.Filter.Text, cfg.Filter.CaseSensitive, cfg.Filter.ExactMatch)
	}
	e.SetSortField(cfg.Sort.Field)
	e.SetSortDescending(cfg.Sort.Descending)
	e.SetFlat(cfg.Mode == ModeFlat)
	return nil
}

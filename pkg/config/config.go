// Package config loads selection profiles from YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/camframe/pkg/kernel"
	_ "github.com/chazu/camframe/pkg/kernel/projection" // registers "projection"
	"github.com/chazu/camframe/pkg/kernel/sat"
	"github.com/chazu/camframe/pkg/scene"
	"github.com/chazu/camframe/pkg/selection"
	"gopkg.in/yaml.v3"
)

// Profile defaults.
const (
	DefaultMargin   = 0.03
	DefaultStrategy = kernel.NameProjection
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// FilterProfile is the kind filter section of a profile.
type FilterProfile struct {
	Enabled bool     `yaml:"enabled" json:"enabled"`
	Kinds   []string `yaml:"kinds,omitempty" json:"kinds,omitempty"`
}

// Profile is a saved set of selection options.
type Profile struct {
	Outside  bool    `yaml:"outside" json:"outside"`
	Animate  bool    `yaml:"animate" json:"animate"`
	Additive bool    `yaml:"additive" json:"additive"`
	Margin   float64 `yaml:"margin" json:"margin"`

	// Strategy names a registered containment strategy.
	Strategy string `yaml:"strategy" json:"strategy"`

	// BoxAxes adds the box face axes to the sat strategy.
	BoxAxes bool `yaml:"box_axes,omitempty" json:"box_axes,omitempty"`

	Filter FilterProfile `yaml:"filter,omitempty" json:"filter,omitempty"`
}

// Default returns the profile used when no file is given.
func Default() *Profile {
	return &Profile{
		Margin:   DefaultMargin,
		Strategy: DefaultStrategy,
	}
}

// Load reads a profile from a .yaml or .yml file of at most 1MB. Keys
// the file leaves out keep their defaults.
func Load(path string) (*Profile, error) {
	cleanPath := filepath.Clean(path)
	if ext := strings.ToLower(filepath.Ext(cleanPath)); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML profile.
func Parse(data []byte) (*Profile, error) {
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return p, nil
}

// Validate checks the margin, strategy and filter kinds.
func (p *Profile) Validate() error {
	if _, err := p.Options(); err != nil {
		return err
	}
	if _, err := kernel.Lookup(p.Strategy); err != nil {
		return err
	}
	if p.BoxAxes && p.Strategy != kernel.NameSAT {
		return fmt.Errorf("box_axes requires the %q strategy, got %q", kernel.NameSAT, p.Strategy)
	}
	return nil
}

// Options converts the profile into selection options.
func (p *Profile) Options() (selection.Options, error) {
	kinds, err := scene.ParseKindSet(strings.Join(p.Filter.Kinds, ","))
	if err != nil {
		return selection.Options{}, fmt.Errorf("filter: %w", err)
	}
	opts := selection.Options{
		Outside:  p.Outside,
		Animate:  p.Animate,
		Additive: p.Additive,
		Margin:   p.Margin,
		Filter:   selection.Filter{Enabled: p.Filter.Enabled, Kinds: kinds},
	}
	if err := opts.Validate(); err != nil {
		return selection.Options{}, err
	}
	return opts, nil
}

// Containment returns the strategy the profile names.
func (p *Profile) Containment() (kernel.Containment, error) {
	if p.Strategy == kernel.NameSAT {
		return sat.New(sat.Options{BoxAxes: p.BoxAxes}), nil
	}
	return kernel.Lookup(p.Strategy)
}

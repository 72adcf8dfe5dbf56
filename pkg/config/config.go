// Package config holds the layout settings fixed at session start.
//
// A config file is TOML or YAML, chosen by extension:
//
//	[layout]
//	generation_spacing = 120
//	minimum_horizontal_gap = 24
//
//	[ordering]
//	max_iterations = 8
//	tie_break = "id"
//
// Zero values fall back to the defaults in [Default].
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	perr "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/layout/ordering"
)

// Config is the complete layout configuration.
type Config struct {
	Layout   Layout   `toml:"layout" yaml:"layout" json:"layout"`
	Ordering Ordering `toml:"ordering" yaml:"ordering" json:"ordering"`
}

// Layout controls the coordinate assigner.
type Layout struct {
	// GenerationSpacing is the vertical distance between ranks in pixels.
	GenerationSpacing float64 `toml:"generation_spacing" yaml:"generation_spacing" json:"generation_spacing"`
	// MinimumHorizontalGap separates the edges of neighboring nodes.
	MinimumHorizontalGap float64 `toml:"minimum_horizontal_gap" yaml:"minimum_horizontal_gap" json:"minimum_horizontal_gap"`
	// PersonRelativeWidth is the drawn width of a person.
	PersonRelativeWidth float64 `toml:"person_relative_width" yaml:"person_relative_width" json:"person_relative_width"`
	// GroupRelativeWidth multiplies PersonRelativeWidth for person groups.
	GroupRelativeWidth float64 `toml:"group_relative_width" yaml:"group_relative_width" json:"group_relative_width"`
}

// Ordering controls the order solver.
type Ordering struct {
	MaxIterations int    `toml:"max_iterations" yaml:"max_iterations" json:"max_iterations"`
	TieBreak      string `toml:"tie_break" yaml:"tie_break" json:"tie_break"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: Layout{
			GenerationSpacing:    100,
			MinimumHorizontalGap: 20,
			PersonRelativeWidth:  40,
			GroupRelativeWidth:   1.5,
		},
		Ordering: Ordering{
			MaxIterations: ordering.DefaultMaxIterations,
			TieBreak:      ordering.TieBreakPrevious.String(),
		},
	}
}

// Load reads a config file. Files ending in .yaml or .yml are parsed as
// YAML, everything else as TOML. Defaults fill unset fields and the result
// is validated.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	format := "toml"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format ("toml" or "yaml").
func Parse(data []byte, format string) (Config, error) {
	var cfg Config
	switch format {
	case "toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, perr.Wrap(perr.ErrCodeInvalidConfig, err, "parse toml")
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, perr.Wrap(perr.ErrCodeInvalidConfig, err, "parse yaml")
		}
	default:
		return Config{}, perr.New(perr.ErrCodeInvalidConfig, "unknown config format %q", format)
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithDefaults returns c with zero fields replaced by defaults.
func (c Config) WithDefaults() Config {
	d := Default()
	if c.Layout.GenerationSpacing == 0 {
		c.Layout.GenerationSpacing = d.Layout.GenerationSpacing
	}
	if c.Layout.MinimumHorizontalGap == 0 {
		c.Layout.MinimumHorizontalGap = d.Layout.MinimumHorizontalGap
	}
	if c.Layout.PersonRelativeWidth == 0 {
		c.Layout.PersonRelativeWidth = d.Layout.PersonRelativeWidth
	}
	if c.Layout.GroupRelativeWidth == 0 {
		c.Layout.GroupRelativeWidth = d.Layout.GroupRelativeWidth
	}
	if c.Ordering.MaxIterations == 0 {
		c.Ordering.MaxIterations = d.Ordering.MaxIterations
	}
	if c.Ordering.TieBreak == "" {
		c.Ordering.TieBreak = d.Ordering.TieBreak
	}
	return c
}

// Validate rejects non-positive sizes and unknown ordering settings.
func (c Config) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"generation_spacing", c.Layout.GenerationSpacing},
		{"minimum_horizontal_gap", c.Layout.MinimumHorizontalGap},
		{"person_relative_width", c.Layout.PersonRelativeWidth},
		{"group_relative_width", c.Layout.GroupRelativeWidth},
	}
	for _, ch := range checks {
		if ch.value <= 0 {
			return perr.New(perr.ErrCodeInvalidConfig, "layout.%s must be positive, got %g", ch.name, ch.value)
		}
	}
	if c.Ordering.MaxIterations < 0 {
		return perr.New(perr.ErrCodeInvalidConfig, "ordering.max_iterations must not be negative, got %d", c.Ordering.MaxIterations)
	}
	if _, err := c.TieBreak(); err != nil {
		return err
	}
	return nil
}

// TieBreak parses Ordering.TieBreak.
func (c Config) TieBreak() (ordering.TieBreak, error) {
	return ordering.ParseTieBreak(c.Ordering.TieBreak)
}

// Orderer builds the order solver described by c.
func (c Config) Orderer() ordering.Orderer {
	tb, _ := c.TieBreak()
	return ordering.Barycentric{MaxIterations: c.Ordering.MaxIterations, TieBreak: tb}
}

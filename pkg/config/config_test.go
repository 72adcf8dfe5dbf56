package config

import (
	"os"
	"path/filepath"
	"testing"

	perr "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/layout/ordering"
)

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if c.Layout.GenerationSpacing != 100 || c.Layout.MinimumHorizontalGap != 20 {
		t.Errorf("spacing = %v/%v, want 100/20", c.Layout.GenerationSpacing, c.Layout.MinimumHorizontalGap)
	}
	if c.Ordering.MaxIterations != ordering.DefaultMaxIterations {
		t.Errorf("MaxIterations = %d, want %d", c.Ordering.MaxIterations, ordering.DefaultMaxIterations)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		data    string
		spacing float64
		tie     ordering.TieBreak
	}{
		{
			name:    "toml",
			format:  "toml",
			data:    "[layout]\ngeneration_spacing = 120\n\n[ordering]\ntie_break = \"id\"\n",
			spacing: 120,
			tie:     ordering.TieBreakID,
		},
		{
			name:    "yaml",
			format:  "yaml",
			data:    "layout:\n  generation_spacing: 80\n",
			spacing: 80,
			tie:     ordering.TieBreakPrevious,
		},
		{
			name:    "empty",
			format:  "toml",
			data:    "",
			spacing: 100,
			tie:     ordering.TieBreakPrevious,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if c.Layout.GenerationSpacing != tt.spacing {
				t.Errorf("GenerationSpacing = %v, want %v", c.Layout.GenerationSpacing, tt.spacing)
			}
			if c.Layout.PersonRelativeWidth != 40 {
				t.Errorf("PersonRelativeWidth = %v, want default 40", c.Layout.PersonRelativeWidth)
			}
			tie, err := c.TieBreak()
			if err != nil || tie != tt.tie {
				t.Errorf("TieBreak() = %v, %v, want %v", tie, err, tt.tie)
			}
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		format string
		data   string
	}{
		{"negative gap", "toml", "[layout]\nminimum_horizontal_gap = -5\n"},
		{"bad tie break", "yaml", "ordering:\n  tie_break: coin\n"},
		{"negative iterations", "toml", "[ordering]\nmax_iterations = -1\n"},
		{"bad syntax", "toml", "[layout\n"},
		{"unknown format", "ini", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if !perr.Is(err, perr.ErrCodeInvalidConfig) {
				t.Errorf("Parse error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad_ByExtension(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "layout.yml")
	if err := os.WriteFile(yamlPath, []byte("layout:\n  group_relative_width: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(yamlPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Layout.GroupRelativeWidth != 2 {
		t.Errorf("GroupRelativeWidth = %v, want 2", c.Layout.GroupRelativeWidth)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Load(missing) = nil error")
	}
}

func TestOrderer(t *testing.T) {
	c := Default()
	c.Ordering.TieBreak = "id"
	c.Ordering.MaxIterations = 3
	b, ok := c.Orderer().(ordering.Barycentric)
	if !ok {
		t.Fatalf("Orderer() = %T, want ordering.Barycentric", c.Orderer())
	}
	if b.MaxIterations != 3 || b.TieBreak != ordering.TieBreakID {
		t.Errorf("Orderer() = %+v", b)
	}
}

package config

import (
	"errors"
	"fmt"

	"github.com/oakwood-commons/streamview/internal/formatter"
)

// ErrInvalidConfig is returned when a config value is out of range or names
// an unknown border or output format.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the on-disk configuration. Pointer fields distinguish an unset
// value from its zero value so files can be layered over the defaults.
type Config struct {
	Display DisplayConfig `yaml:"display" json:"display"`
	Theme   ThemeConfig   `yaml:"theme" json:"theme"`
}

// DisplayConfig controls table rendering and output selection.
type DisplayConfig struct {
	MaxWidth          *int    `yaml:"max_width,omitempty" json:"max_width,omitempty"`
	Border            *string `yaml:"border,omitempty" json:"border,omitempty"`
	NoColor           *bool   `yaml:"no_color,omitempty" json:"no_color,omitempty"`
	AllowUnknownTypes *bool   `yaml:"allow_unknown_types,omitempty" json:"allow_unknown_types,omitempty"`
	Output            *string `yaml:"output,omitempty" json:"output,omitempty"`
}

// ThemeConfig holds table colors as ANSI codes ("12") or hex ("#5f87ff").
type ThemeConfig struct {
	HeaderFG    string `yaml:"header_fg,omitempty" json:"header_fg,omitempty"`
	KeyColor    string `yaml:"key_color,omitempty" json:"key_color,omitempty"`
	ValueColor  string `yaml:"value_color,omitempty" json:"value_color,omitempty"`
	BorderColor string `yaml:"border_color,omitempty" json:"border_color,omitempty"`
}

// Merge returns c with every field set in override applied on top.
func (c Config) Merge(override Config) Config {
	out := c
	d := override.Display
	if d.MaxWidth != nil {
		out.Display.MaxWidth = d.MaxWidth
	}
	if d.Border != nil {
		out.Display.Border = d.Border
	}
	if d.NoColor != nil {
		out.Display.NoColor = d.NoColor
	}
	if d.AllowUnknownTypes != nil {
		out.Display.AllowUnknownTypes = d.AllowUnknownTypes
	}
	if d.Output != nil {
		out.Display.Output = d.Output
	}

	apply := func(src string, dst *string) {
		if src != "" {
			*dst = src
		}
	}
	apply(override.Theme.HeaderFG, &out.Theme.HeaderFG)
	apply(override.Theme.KeyColor, &out.Theme.KeyColor)
	apply(override.Theme.ValueColor, &out.Theme.ValueColor)
	apply(override.Theme.BorderColor, &out.Theme.BorderColor)
	return out
}

// Validate checks ranges and enumerated values.
func (c Config) Validate() error {
	if c.Display.MaxWidth != nil && *c.Display.MaxWidth < 0 {
		return fmt.Errorf("%w: max_width must be non-negative, got %d", ErrInvalidConfig, *c.Display.MaxWidth)
	}
	if c.Display.Border != nil {
		if _, err := formatter.ParseBorder(*c.Display.Border); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if c.Display.Output != nil {
		if _, err := formatter.ParseFormat(*c.Display.Output); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// MaxWidthOrZero returns the configured cell width cap, or 0 when unset.
func (d DisplayConfig) MaxWidthOrZero() int {
	if d.MaxWidth == nil {
		return 0
	}
	return *d.MaxWidth
}

// BorderStyle returns the parsed border, defaulting to ASCII.
func (d DisplayConfig) BorderStyle() formatter.BorderStyle {
	if d.Border == nil {
		return formatter.BorderASCII
	}
	b, err := formatter.ParseBorder(*d.Border)
	if err != nil {
		return formatter.BorderASCII
	}
	return b
}

// Format returns the parsed output format, defaulting to table.
func (d DisplayConfig) Format() formatter.Format {
	if d.Output == nil {
		return formatter.FormatTable
	}
	f, err := formatter.ParseFormat(*d.Output)
	if err != nil {
		return formatter.FormatTable
	}
	return f
}

// TableColors converts the theme into formatter colors. Empty entries keep
// the formatter defaults.
func (t ThemeConfig) TableColors() formatter.TableColors {
	return formatter.TableColors{
		HeaderFG:    formatter.ParseColor(t.HeaderFG),
		KeyColor:    formatter.ParseColor(t.KeyColor),
		ValueColor:  formatter.ParseColor(t.ValueColor),
		BorderColor: formatter.ParseColor(t.BorderColor),
	}
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

// NoColorEnabled reports whether no_color is set to true.
func (d DisplayConfig) NoColorEnabled() bool {
	return boolValue(d.NoColor)
}

// AllowUnknownTypesEnabled reports whether allow_unknown_types is set to true.
func (d DisplayConfig) AllowUnknownTypesEnabled() bool {
	return boolValue(d.AllowUnknownTypes)
}

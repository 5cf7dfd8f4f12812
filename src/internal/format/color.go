// FILE: src/internal/format/color.go
package format

import (
	"strings"

	"github.com/fatih/color"
)

// Palette maps level names to terminal colors
type Palette struct {
	enabled bool
	colors  map[string]*color.Color
}

// NewPalette returns a level palette. Bold variants are used for the client echo header.
func NewPalette(enabled, bold bool) *Palette {
	attrs := func(fg color.Attribute) []color.Attribute {
		if bold {
			return []color.Attribute{fg, color.Bold}
		}
		return []color.Attribute{fg}
	}

	return &Palette{
		enabled: enabled,
		colors: map[string]*color.Color{
			"ERROR": color.New(attrs(color.FgRed)...),
			"WARN":  color.New(attrs(color.FgYellow)...),
			"INFO":  color.New(attrs(color.FgCyan)...),
			"DEBUG": color.New(attrs(color.FgGreen)...),
		},
	}
}

// Paint wraps s in the color for level, unknown levels and disabled palettes pass through
func (p *Palette) Paint(level, s string) string {
	if p == nil || !p.enabled {
		return s
	}
	c, ok := p.colors[strings.ToUpper(level)]
	if !ok {
		return s
	}
	return c.Sprint(s)
}

package gantt

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// MinPaletteSize is the least number of distinct colors a palette must have.
const MinPaletteSize = 10

// DefaultColors is the ten-color cycle used for process rows.
var DefaultColors = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// DefaultIdleColor is the neutral color of the idle row.
const DefaultIdleColor = "#808080"

// ErrPaletteTooSmall is returned when a palette has fewer than MinPaletteSize
// distinct colors.
var ErrPaletteTooSmall = errors.New("palette needs more distinct colors")

// A Palette colors the rows of a chart.
type Palette struct {
	colors []color.RGBA
	idle   color.RGBA
}

// DefaultPalette returns the palette built from DefaultColors and
// DefaultIdleColor.
func DefaultPalette() Palette {
	p, err := NewPalette(DefaultColors, DefaultIdleColor)
	if err != nil {
		panic(err)
	}

	return p
}

// NewPalette creates a palette from hex colors such as "#1f77b4" or "#fff".
func NewPalette(colors []string, idle string) (Palette, error) {
	p := Palette{}
	seen := make(map[color.RGBA]bool)

	for _, s := range colors {
		c, err := ParseHexColor(s)
		if err != nil {
			return Palette{}, err
		}

		seen[c] = true
		p.colors = append(p.colors, c)
	}

	if len(seen) < MinPaletteSize {
		return Palette{}, fmt.Errorf("%w: got %d, need %d",
			ErrPaletteTooSmall, len(seen), MinPaletteSize)
	}

	idleColor, err := ParseHexColor(idle)
	if err != nil {
		return Palette{}, err
	}

	p.idle = idleColor

	return p, nil
}

// Size returns the length of the color cycle.
func (p Palette) Size() int {
	return len(p.colors)
}

// IdleColor returns the color of the idle row.
func (p Palette) IdleColor() color.RGBA {
	return p.idle
}

// RowColor returns the cycle color of a row, ignoring idleness.
func (p Palette) RowColor(row int) color.RGBA {
	n := len(p.colors)
	return p.colors[((row%n)+n)%n]
}

// A ColorAssignment maps a row index to the color of its bars.
type ColorAssignment func(row int) color.RGBA

// Assignment binds the palette to a layout. The idle row gets the idle color
// no matter its index; every other row cycles through the palette.
func (p Palette) Assignment(layout *RowLayout) ColorAssignment {
	return func(row int) color.RGBA {
		if layout.IsIdle(row) {
			return p.idle
		}

		return p.RowColor(row)
	}
}

// ParseHexColor parses "#rrggbb" or "#rgb".
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}

	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}

	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}

// HexColor formats a color as "#rrggbb".
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

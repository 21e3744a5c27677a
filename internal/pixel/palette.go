package pixel

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is a 256-entry color lookup table. Tables are computed once so
// the per-frame path only indexes.
type Palette [256]RGB

func (p *Palette) At(i uint8) RGB { return p[i] }

// NewGradient blends between the hex color stops in Lab space.
func NewGradient(stops ...string) (*Palette, error) {
	if len(stops) == 0 {
		return nil, fmt.Errorf("%w: no stops", ErrInvalidColor)
	}
	cols := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		cols[i] = c
	}

	p := &Palette{}
	if len(cols) == 1 {
		r, g, b := cols[0].RGB255()
		for i := range p {
			p[i] = RGB{r, g, b}
		}
		return p, nil
	}

	segments := len(cols) - 1
	for i := range p {
		pos := float64(i) / 255 * float64(segments)
		seg := int(pos)
		if seg >= segments {
			seg = segments - 1
		}
		r, g, b := cols[seg].BlendLab(cols[seg+1], pos-float64(seg)).Clamped().RGB255()
		p[i] = RGB{r, g, b}
	}
	return p, nil
}

// Rainbow walks the full hue circle at constant saturation and value.
func Rainbow() *Palette {
	p := &Palette{}
	for i := range p {
		r, g, b := colorful.Hsv(float64(i)*360/256, 1, 1).Clamped().RGB255()
		p[i] = RGB{r, g, b}
	}
	return p
}

var gradients = map[string][]string{
	"fire":   {"#000000", "#8b0000", "#ff4500", "#ffd700", "#ffffff"},
	"ocean":  {"#000033", "#0044aa", "#00ccff", "#e0ffff"},
	"matrix": {"#001100", "#00aa00", "#aaffaa"},
	"enl":    {"#0a3306", "#36ff1f"},
	"res":    {"#00066b", "#000fff"},
}

// NamedPalette returns "rainbow" or one of the built-in gradients.
func NamedPalette(name string) (*Palette, error) {
	if name == "" || name == "rainbow" {
		return Rainbow(), nil
	}
	stops, ok := gradients[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPalette, name)
	}
	return NewGradient(stops...)
}

func PaletteNames() []string {
	names := []string{"rainbow"}
	for name := range gradients {
		names = append(names, name)
	}
	sort.Strings(names[1:])
	return names
}

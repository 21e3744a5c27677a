package effect

import (
	"fmt"

	"github.com/san-kum/ledsim/internal/font"
	"github.com/san-kum/ledsim/internal/pixel"
)

// Text scrolls a string right to left. Every Divisor ticks the scroll
// offset grows by one; the drawn x position is StartX - offset mod Period.
// Baseline is the grid row holding the lowest row of the font's ascent.
type Text struct {
	Font     font.Source
	Content  string
	StartX   int
	Baseline int
	Divisor  int
	Period   int
	Color    pixel.RGB
	tick     uint64
}

func NewText(src font.Source, content string, startX, baseline, divisor, period int) (*Text, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil font", ErrInvalidParam)
	}
	if divisor < 1 {
		return nil, fmt.Errorf("%w: scroll divisor %d", ErrInvalidParam, divisor)
	}
	if period < 1 {
		return nil, fmt.Errorf("%w: scroll period %d", ErrInvalidParam, period)
	}
	return &Text{
		Font:     src,
		Content:  content,
		StartX:   startX,
		Baseline: baseline,
		Divisor:  divisor,
		Period:   period,
		Color:    pixel.Magenta,
	}, nil
}

func (tx *Text) Kind() Kind { return KindText }
func (tx *Text) sealed()    {}

// Offset is the wrapped scroll offset the next Tick will draw at.
func (tx *Text) Offset() int {
	return int((tx.tick / uint64(tx.Divisor)) % uint64(tx.Period))
}

func (tx *Text) Tick(t Target) bool {
	w, h := t.Size()
	x := tx.StartX - tx.Offset()
	top := tx.Baseline - tx.Font.Ascent() + 1

	for _, r := range tx.Content {
		if x >= w {
			break
		}
		g, ok := font.Lookup(tx.Font, r)
		if !ok {
			continue
		}
		if x+g.Width > 0 {
			tx.drawGlyph(t, g, x, top, w, h)
		}
		x += g.Advance
	}

	tx.tick++
	return true
}

func (tx *Text) drawGlyph(t Target, g font.Glyph, x0, y0, w, h int) {
	for col := 0; col < g.Width; col++ {
		x := x0 + col
		if x < 0 || x >= w {
			continue
		}
		for row := 0; row < g.Height; row++ {
			y := y0 + row
			if y < 0 || y >= h {
				continue
			}
			switch cov := g.At(col, row); cov {
			case 0:
			case 255:
				t.Set(x, y, tx.Color)
			default:
				t.Blend(x, y, tx.Color, float64(cov)/255)
			}
		}
	}
}

package effect

import (
	"fmt"

	"github.com/san-kum/ledsim/internal/pixel"
)

// Row is a falling trail in a single column. The head moves down one cell
// per tick and the trail fades linearly over Height cells above it.
//
// A Row dies only when its lifetime countdown reaches zero, even if part
// of the trail is still on the grid. The compositor's clear or fade
// removes what is left.
type Row struct {
	// Speed is the palette stride per tick; it cycles the trail color.
	Speed    uint8
	X        int
	Height   int
	Color    pixel.RGB
	Palette  *pixel.Palette
	head     int
	life     int
	lifespan int
	age      int
}

// NewRow builds a row whose head starts at y. Color defaults to white.
func NewRow(speed uint8, x, y, height, lifetime int) (*Row, error) {
	if height < 1 {
		return nil, fmt.Errorf("%w: row height %d", ErrInvalidParam, height)
	}
	if lifetime < 1 {
		return nil, fmt.Errorf("%w: row lifetime %d", ErrInvalidParam, lifetime)
	}
	return &Row{
		Speed:    speed,
		X:        x,
		Height:   height,
		Color:    pixel.White,
		head:     y,
		life:     lifetime,
		lifespan: lifetime,
	}, nil
}

func (r *Row) Kind() Kind { return KindRow }
func (r *Row) sealed()    {}

// Head is the current head cell.
func (r *Row) Head() pixel.Point { return pixel.Point{X: r.X, Y: r.head} }

// Remaining is the number of ticks left before the row dies.
func (r *Row) Remaining() int { return r.life }

// Lifetime is the countdown the row started with.
func (r *Row) Lifetime() int { return r.lifespan }

func (r *Row) color() pixel.RGB {
	if r.Palette == nil {
		return r.Color
	}
	return r.Palette.At(uint8(int(r.Speed) * r.age))
}

func (r *Row) Tick(t Target) bool {
	if r.life <= 0 {
		return false
	}
	r.head++
	r.life--
	r.age++
	if r.life == 0 {
		return false
	}

	c := r.color()
	for k := 0; k < r.Height; k++ {
		level := uint8(255 * (r.Height - k) / r.Height)
		t.Set(r.X, r.head-k, pixel.Scale(c, level))
	}
	return true
}

// Package display defines the output surface a compositor flushes frames to.
//
// A Sink receives at most one Clear, any number of DrawPixels calls and
// exactly one Flush per frame. Implementations live in the subpackages:
// term (tcell), window (raylib), svg and opc. This package provides the
// contract plus an in-memory recorder and a discarding sink.
package display

import (
	"errors"
	"iter"

	"github.com/san-kum/ledsim/internal/pixel"
)

var (
	// ErrClosed indicates a sink used after Close, or a window closed by the user.
	ErrClosed = errors.New("display: sink closed")

	// ErrInjected is returned by Memory when a failure was scheduled.
	ErrInjected = errors.New("display: injected failure")
)

type Sink interface {
	// Clear paints the whole surface with c.
	Clear(c pixel.RGB) error
	// DrawPixels writes each yielded cell. The sequence is a snapshot: it
	// may be iterated more than once and after the call returns.
	DrawPixels(px iter.Seq2[pixel.Point, pixel.RGB]) error
	// Flush makes the frame visible.
	Flush() error
}

// Geometry describes how grid cells map onto a raster surface.
type Geometry struct {
	Scale   int // pixels per LED cell edge
	Spacing int // dark gap between neighbouring LEDs
}

// DefaultGeometry matches a small LED panel viewed on a desktop screen.
var DefaultGeometry = Geometry{Scale: 24, Spacing: 3}

// Size returns the raster size of a w×h grid.
func (g Geometry) Size(w, h int) (int, int) {
	return w * g.Scale, h * g.Scale
}

// Cell returns the top-left corner and edge length of the lit square for (x, y).
func (g Geometry) Cell(x, y int) (px, py, edge int) {
	edge = max(g.Scale-g.Spacing, 1)
	return x*g.Scale + g.Spacing/2, y*g.Scale + g.Spacing/2, edge
}

// Discard accepts and drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Clear(pixel.RGB) error                              { return nil }
func (discard) DrawPixels(iter.Seq2[pixel.Point, pixel.RGB]) error { return nil }
func (discard) Flush() error                                       { return nil }

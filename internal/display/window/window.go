// Package window renders the LED grid in a desktop window with raylib,
// drawing each LED as a lit square separated by a dark gap.
package window

import (
	"iter"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/ledsim/internal/display"
	"github.com/san-kum/ledsim/internal/pixel"
)

var (
	colPanel = rl.NewColor(10, 10, 10, 255)
	colUnlit = rl.NewColor(30, 30, 30, 255)
)

type Sink struct {
	width, height int
	geo           display.Geometry
	cells         []pixel.RGB
	bg            pixel.RGB
	open          bool
}

// Open creates a window sized for a w×h grid. raylib is not thread safe:
// Open, every Sink method and Close must run on the same OS thread.
func Open(title string, w, h int, geo display.Geometry) *Sink {
	pw, ph := geo.Size(w, h)
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(pw), int32(ph), title)
	rl.SetExitKey(rl.KeyQ)

	return &Sink{
		width:  w,
		height: h,
		geo:    geo,
		cells:  make([]pixel.RGB, w*h),
		open:   true,
	}
}

func (s *Sink) Clear(c pixel.RGB) error {
	if !s.open {
		return display.ErrClosed
	}
	s.bg = c
	for i := range s.cells {
		s.cells[i] = c
	}
	return nil
}

func (s *Sink) DrawPixels(px iter.Seq2[pixel.Point, pixel.RGB]) error {
	if !s.open {
		return display.ErrClosed
	}
	for p, c := range px {
		if p.X < 0 || p.Y < 0 || p.X >= s.width || p.Y >= s.height {
			continue
		}
		s.cells[p.Y*s.width+p.X] = c
	}
	return nil
}

// Flush repaints the window. It reports display.ErrClosed once the user
// closed the window.
func (s *Sink) Flush() error {
	if !s.open || rl.WindowShouldClose() {
		return display.ErrClosed
	}

	rl.BeginDrawing()
	rl.ClearBackground(colPanel)
	for i, c := range s.cells {
		x, y, edge := s.geo.Cell(i%s.width, i/s.width)
		col := rl.NewColor(c.R, c.G, c.B, 255)
		if c == s.bg {
			col = colUnlit
		}
		rl.DrawRectangle(int32(x), int32(y), int32(edge), int32(edge), col)
	}
	rl.EndDrawing()
	return nil
}

func (s *Sink) Close() error {
	if s.open {
		s.open = false
		rl.CloseWindow()
	}
	return nil
}

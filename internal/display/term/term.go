// Package term shows the LED grid in a terminal using tcell. Every LED is
// two terminal cells wide so that the grid keeps a roughly square aspect.
package term

import (
	"iter"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/san-kum/ledsim/internal/display"
	"github.com/san-kum/ledsim/internal/pixel"
)

const cellWidth = 2

type Sink struct {
	screen tcell.Screen
	owned  bool
	closed atomic.Bool
	// OffsetX and OffsetY move the grid away from the top left corner,
	// in terminal cells.
	OffsetX, OffsetY int
}

// Open takes over the terminal. q, Esc or Ctrl-C close the sink; the next
// Flush then reports display.ErrClosed.
func Open() (*Sink, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()

	s := &Sink{screen: screen, owned: true}
	go s.pollKeys()
	return s, nil
}

// New wraps an initialised screen. The caller keeps ownership of it.
func New(screen tcell.Screen) *Sink {
	return &Sink{screen: screen}
}

func (s *Sink) pollKeys() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		key, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}
		if key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC || key.Rune() == 'q' {
			s.closed.Store(true)
			return
		}
	}
}

func styleOf(c pixel.RGB) tcell.Style {
	return tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

func (s *Sink) Clear(c pixel.RGB) error {
	if s.closed.Load() {
		return display.ErrClosed
	}
	s.screen.Fill(' ', styleOf(c))
	return nil
}

func (s *Sink) DrawPixels(px iter.Seq2[pixel.Point, pixel.RGB]) error {
	if s.closed.Load() {
		return display.ErrClosed
	}
	for p, c := range px {
		st := styleOf(c)
		x := s.OffsetX + p.X*cellWidth
		for i := 0; i < cellWidth; i++ {
			s.screen.SetContent(x+i, s.OffsetY+p.Y, ' ', nil, st)
		}
	}
	return nil
}

func (s *Sink) Flush() error {
	if s.closed.Load() {
		return display.ErrClosed
	}
	s.screen.Show()
	return nil
}

// Close restores the terminal if the sink opened it.
func (s *Sink) Close() error {
	s.closed.Store(true)
	if s.owned {
		s.owned = false
		s.screen.Fini()
	}
	return nil
}

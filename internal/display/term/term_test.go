package term

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/san-kum/ledsim/internal/display"
	"github.com/san-kum/ledsim/internal/pixel"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	return screen
}

func background(t *testing.T, screen tcell.Screen, x, y int) tcell.Color {
	t.Helper()
	_, _, style, _ := screen.GetContent(x, y)
	_, bg, _ := style.Decompose()
	return bg
}

func TestSinkPaintsDoubleWidthCells(t *testing.T) {
	screen := newScreen(t)
	s := New(screen)

	if err := s.Clear(pixel.Blue); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	err := s.DrawPixels(pixel.Seq([]pixel.Pixel{
		{Point: pixel.Point{X: 1, Y: 2}, Color: pixel.Red},
	}))
	if err != nil {
		t.Fatalf("DrawPixels: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	red := tcell.NewRGBColor(255, 0, 0)
	blue := tcell.NewRGBColor(0, 0, 255)
	for _, x := range []int{2, 3} {
		if bg := background(t, screen, x, 2); bg != red {
			t.Errorf("cell (%d,2): expected red background, got %v", x, bg)
		}
	}
	if bg := background(t, screen, 4, 2); bg != blue {
		t.Errorf("cell (4,2): expected cleared background, got %v", bg)
	}
}

func TestSinkOffset(t *testing.T) {
	screen := newScreen(t)
	s := New(screen)
	s.OffsetX, s.OffsetY = 3, 1

	_ = s.DrawPixels(pixel.Seq([]pixel.Pixel{{Point: pixel.Point{}, Color: pixel.Green}}))
	_ = s.Flush()

	if bg := background(t, screen, 3, 1); bg != tcell.NewRGBColor(0, 255, 0) {
		t.Errorf("expected green at the offset origin, got %v", bg)
	}
}

func TestClosedSinkRejectsFrames(t *testing.T) {
	s := New(newScreen(t))
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Flush(); !errors.Is(err, display.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := s.Clear(pixel.Black); !errors.Is(err, display.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

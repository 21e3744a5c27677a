// Package svg writes LED grid frames as SVG images.
package svg

import (
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/ledsim/internal/display"
	"github.com/san-kum/ledsim/internal/pixel"
)

const (
	panelFill = "#0a0a0a"
	unlitFill = "#1e1e1e"
)

// Render draws frame as one rounded square per LED. Cells equal to bg
// are drawn as unlit LEDs.
func Render(frame pixel.Frame, bg pixel.RGB, geo display.Geometry) string {
	width, height := geo.Size(frame.Width, frame.Height)
	radius := float64(geo.Scale) * 0.15

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, panelFill))

	for p, c := range frame.Pixels() {
		x, y, edge := geo.Cell(p.X, p.Y)
		fill := unlitFill
		if c != bg {
			fill = c.Hex()
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" rx="%.1f" fill="%s"/>
`, x, y, edge, edge, radius, fill))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Sink renders every flushed frame through Create.
type Sink struct {
	width, height int
	geo           display.Geometry
	surface       []pixel.RGB
	bg            pixel.RGB
	frame         int
	create        func(frame int) (io.WriteCloser, error)
}

// NewSink calls create once per Flush with the frame index.
func NewSink(w, h int, geo display.Geometry, create func(frame int) (io.WriteCloser, error)) *Sink {
	return &Sink{
		width:   w,
		height:  h,
		geo:     geo,
		surface: make([]pixel.RGB, w*h),
		create:  create,
	}
}

// DirSink writes frame-00000.svg, frame-00001.svg and so on into dir.
func DirSink(dir string, w, h int, geo display.Geometry) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return NewSink(w, h, geo, func(frame int) (io.WriteCloser, error) {
		return os.Create(filepath.Join(dir, fmt.Sprintf("frame-%05d.svg", frame)))
	}), nil
}

func (s *Sink) Clear(c pixel.RGB) error {
	s.bg = c
	for i := range s.surface {
		s.surface[i] = c
	}
	return nil
}

func (s *Sink) DrawPixels(px iter.Seq2[pixel.Point, pixel.RGB]) error {
	for p, c := range px {
		if p.X < 0 || p.Y < 0 || p.X >= s.width || p.Y >= s.height {
			continue
		}
		s.surface[p.Y*s.width+p.X] = c
	}
	return nil
}

func (s *Sink) Flush() error {
	w, err := s.create(s.frame)
	if err != nil {
		return err
	}
	frame := pixel.NewFrame(s.width, s.height, s.surface)
	if _, err := io.WriteString(w, Render(frame, s.bg, s.geo)); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	s.frame++
	return nil
}

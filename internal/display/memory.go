package display

import (
	"fmt"
	"iter"

	"github.com/san-kum/ledsim/internal/pixel"
)

// Op names a Sink method. It is used to schedule failures on Memory.
type Op string

const (
	OpClear Op = "clear"
	OpDraw  Op = "draw"
	OpFlush Op = "flush"
)

// FrameLog is everything a Memory sink received between two flushes.
type FrameLog struct {
	Cleared bool
	Drawn   []pixel.Pixel
	Frame   pixel.Frame // visible surface after the flush
}

// Memory keeps a W×H surface in memory and records every flushed frame.
// It backs the tests and the gif output of ledsim render.
type Memory struct {
	width, height int
	surface       []pixel.RGB
	pending       FrameLog
	frames        []FrameLog
	failures      map[int]Op
	calls         int
	keep          bool
}

// NewMemory returns a surface of w×h cells. When keep is false only the
// most recent frame is retained.
func NewMemory(w, h int, keep bool) *Memory {
	return &Memory{
		width:    w,
		height:   h,
		surface:  make([]pixel.RGB, w*h),
		failures: make(map[int]Op),
		keep:     keep,
	}
}

// FailOn makes the op fail during the flush-th frame (counting from 0).
func (m *Memory) FailOn(flush int, op Op) {
	m.failures[flush] = op
}

func (m *Memory) check(op Op) error {
	if m.failures[m.calls] == op {
		delete(m.failures, m.calls)
		m.pending = FrameLog{}
		m.calls++
		return fmt.Errorf("%w: %s", ErrInjected, op)
	}
	return nil
}

func (m *Memory) Clear(c pixel.RGB) error {
	if err := m.check(OpClear); err != nil {
		return err
	}
	for i := range m.surface {
		m.surface[i] = c
	}
	m.pending.Cleared = true
	return nil
}

func (m *Memory) DrawPixels(px iter.Seq2[pixel.Point, pixel.RGB]) error {
	if err := m.check(OpDraw); err != nil {
		return err
	}
	for p, c := range px {
		if p.X < 0 || p.Y < 0 || p.X >= m.width || p.Y >= m.height {
			continue
		}
		m.surface[p.Y*m.width+p.X] = c
		m.pending.Drawn = append(m.pending.Drawn, pixel.Pixel{Point: p, Color: c})
	}
	return nil
}

func (m *Memory) Flush() error {
	if err := m.check(OpFlush); err != nil {
		return err
	}
	m.pending.Frame = pixel.NewFrame(m.width, m.height, m.surface)
	if m.keep {
		m.frames = append(m.frames, m.pending)
	} else {
		m.frames = append(m.frames[:0], m.pending)
	}
	m.pending = FrameLog{}
	m.calls++
	return nil
}

// Frames returns the recorded frames, oldest first.
func (m *Memory) Frames() []FrameLog { return m.frames }

// Last returns the most recent flushed frame.
func (m *Memory) Last() (FrameLog, bool) {
	if len(m.frames) == 0 {
		return FrameLog{}, false
	}
	return m.frames[len(m.frames)-1], true
}

// Surface returns what the sink currently shows, including unflushed draws.
func (m *Memory) Surface() pixel.Frame {
	return pixel.NewFrame(m.width, m.height, m.surface)
}

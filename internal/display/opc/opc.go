// Package opc streams frames to an Open Pixel Control server such as a
// Fadecandy board or the gl_server simulator.
//
// Each flush sends one "set pixel colours" message carrying the whole
// grid: channel, command, big endian payload length, then R, G, B per LED
// in strip order.
package opc

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"net"
	"time"

	"github.com/san-kum/ledsim/internal/display"
	"github.com/san-kum/ledsim/internal/pixel"
)

const (
	CmdSetPixels byte = 0
	headerLen         = 4
	maxPayload        = 0xffff
)

var ErrFrameTooLarge = errors.New("opc: frame exceeds message size")

// Layout maps grid cells onto strip positions.
type Layout uint8

const (
	// Progressive strips run left to right on every row.
	Progressive Layout = iota
	// Serpentine strips reverse direction on odd rows.
	Serpentine
)

func (l Layout) index(x, y, w int) int {
	if l == Serpentine && y%2 == 1 {
		return y*w + (w - 1 - x)
	}
	return y*w + x
}

// Encode appends one set-pixels message for frame to dst.
func Encode(dst []byte, channel uint8, frame pixel.Frame, layout Layout) ([]byte, error) {
	n := frame.Width * frame.Height * 3
	if n > maxPayload {
		return dst, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, n)
	}
	dst = append(dst, channel, CmdSetPixels, 0, 0)
	binary.BigEndian.PutUint16(dst[len(dst)-2:], uint16(n))

	start := len(dst)
	dst = append(dst, make([]byte, n)...)
	for p, c := range frame.Pixels() {
		i := start + 3*layout.index(p.X, p.Y, frame.Width)
		dst[i], dst[i+1], dst[i+2] = c.R, c.G, c.B
	}
	return dst, nil
}

type Options struct {
	Channel      uint8
	Layout       Layout
	WriteTimeout time.Duration
}

type Sink struct {
	w       io.Writer
	opts    Options
	width   int
	height  int
	surface []pixel.RGB
	buf     []byte
}

// NewSink streams to w. If w is a net.Conn, WriteTimeout applies.
func NewSink(w io.Writer, width, height int, opts Options) *Sink {
	return &Sink{
		w:       w,
		opts:    opts,
		width:   width,
		height:  height,
		surface: make([]pixel.RGB, width*height),
	}
}

// Dial connects to an OPC server, usually on port 7890.
func Dial(ctx context.Context, addr string, width, height int, opts Options) (*Sink, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("opc: dial %s: %w", addr, err)
	}
	return NewSink(conn, width, height, opts), nil
}

func (s *Sink) Clear(c pixel.RGB) error {
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
	var err error
	frame := pixel.NewFrame(s.width, s.height, s.surface)
	if s.buf, err = Encode(s.buf[:0], s.opts.Channel, frame, s.opts.Layout); err != nil {
		return err
	}
	if err := s.send(); err != nil {
		if errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("%w: %v", display.ErrClosed, err)
		}
		return err
	}
	return nil
}

func (s *Sink) send() error {
	if conn, ok := s.w.(net.Conn); ok && s.opts.WriteTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout)); err != nil {
			return err
		}
	}
	_, err := s.w.Write(s.buf)
	return err
}

func (s *Sink) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

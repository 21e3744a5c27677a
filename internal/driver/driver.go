// Package driver is the host frame clock. It calls OnFrame on a fixed
// cadence and decides which errors end the run.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/ledsim/internal/compositor"
	"github.com/san-kum/ledsim/internal/display"
)

var ErrSinkFailures = errors.New("driver: too many consecutive sink failures")

// Frameable is anything driven one frame at a time.
type Frameable interface {
	OnFrame() error
	Terminated() bool
}

type Options struct {
	// FPS is the frame rate; zero or less renders as fast as possible.
	FPS float64
	// MaxSinkFailures stops the run after that many sink errors in a row.
	// Zero keeps going forever.
	MaxSinkFailures int
	Logger          *slog.Logger
}

func (o Options) interval() time.Duration {
	if o.FPS <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / o.FPS)
}

// Run drives f until it terminates, the display is closed or ctx is done.
// Sink errors are logged and the run continues; a closed display ends the
// run without error. Any other error from OnFrame is returned.
func Run(ctx context.Context, f Frameable, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	var tick <-chan time.Time
	if d := opts.interval(); d > 0 {
		t := time.NewTicker(d)
		defer t.Stop()
		tick = t.C
	}

	failures := 0
	for !f.Terminated() {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		err := f.OnFrame()
		if err == nil {
			failures = 0
			continue
		}

		var sinkErr *compositor.SinkError
		switch {
		case errors.Is(err, display.ErrClosed):
			log.Info("display closed", "frame", frameOf(err))
			return nil
		case errors.As(err, &sinkErr):
			failures++
			log.Warn("frame dropped", "frame", sinkErr.Frame, "op", sinkErr.Op, "consecutive", failures, "err", sinkErr.Err)
			if opts.MaxSinkFailures > 0 && failures >= opts.MaxSinkFailures {
				return fmt.Errorf("%w: %w", ErrSinkFailures, err)
			}
		default:
			return err
		}
	}
	return nil
}

func frameOf(err error) int {
	var sinkErr *compositor.SinkError
	if errors.As(err, &sinkErr) {
		return sinkErr.Frame
	}
	return -1
}

// Step calls OnFrame up to n times without pacing and stops at the first
// error or at termination. It returns the number of frames rendered.
func Step(f Frameable, n int) (int, error) {
	for i := 0; i < n; i++ {
		if f.Terminated() {
			return i, nil
		}
		if err := f.OnFrame(); err != nil {
			return i + 1, err
		}
	}
	return n, nil
}

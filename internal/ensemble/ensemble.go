// Package ensemble runs several independent compositors in parallel and
// fingerprints every frame they produce.
//
// Runs share nothing: each goroutine builds its own compositor from a copy
// of the configuration. Two runs with identical seeds must produce
// identical digests frame for frame; Verify checks exactly that.
package ensemble

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ledsim/internal/compositor"
	"github.com/san-kum/ledsim/internal/display"
	"github.com/san-kum/ledsim/internal/metrics"
	"github.com/san-kum/ledsim/internal/pixel"
)

var (
	ErrUnbounded        = errors.New("ensemble: run needs a frame budget")
	ErrNondeterministic = errors.New("ensemble: runs diverged")
)

// Digest is the 64-bit FNV-1a hash of a frame's cells in row-major order.
func Digest(f pixel.Frame) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 0, 3*f.Width*f.Height)
	for _, c := range f.Pixels() {
		buf = append(buf, c.R, c.G, c.B)
	}
	h.Write(buf)
	return h.Sum64()
}

type Run struct {
	Index         int
	MotionSeed    [2]uint64
	PlacementSeed [2]uint64
	Digests       []uint64
	Metrics       map[string]float64
}

// Record drives one compositor over its whole frame budget.
func Record(ctx context.Context, cfg compositor.Config, opts ...compositor.Option) (*Run, error) {
	if cfg.Frames <= 0 {
		return nil, ErrUnbounded
	}

	opts = append(opts[:len(opts):len(opts)], compositor.WithLogger(slog.New(slog.DiscardHandler)))
	for _, m := range metrics.Standard(cfg.Width, cfg.Height) {
		opts = append(opts, compositor.WithMetric(m))
	}
	c, err := compositor.New(cfg, display.Discard, opts...)
	if err != nil {
		return nil, err
	}

	run := &Run{
		MotionSeed:    cfg.MotionSeed,
		PlacementSeed: cfg.PlacementSeed,
		Digests:       make([]uint64, 0, cfg.Frames),
	}
	for !c.Terminated() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.OnFrame(); err != nil {
			return nil, err
		}
		run.Digests = append(run.Digests, Digest(c.Snapshot()))
	}
	run.Metrics = c.Metrics()
	return run, nil
}

type Ensemble struct {
	base     compositor.Config
	numRuns  int
	parallel int
	opts     []compositor.Option
}

// New prepares numRuns runs of base. parallel limits concurrent runs;
// zero or less means no limit.
func New(base compositor.Config, numRuns, parallel int, opts ...compositor.Option) *Ensemble {
	return &Ensemble{base: base, numRuns: numRuns, parallel: parallel, opts: opts}
}

// Run executes every run with the seeds chosen by vary. The first error
// cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, vary func(i int, cfg *compositor.Config)) ([]*Run, error) {
	results := make([]*Run, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.parallel > 0 {
		g.SetLimit(e.parallel)
	}
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfg := e.base
			if vary != nil {
				vary(i, &cfg)
			}
			run, err := Record(ctx, cfg, e.opts...)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			run.Index = i
			results[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Sweep offsets the placement seed of run i by i, giving numRuns
// different but reproducible animations.
func (e *Ensemble) Sweep(ctx context.Context) ([]*Run, error) {
	return e.Run(ctx, func(i int, cfg *compositor.Config) {
		cfg.PlacementSeed[0] += uint64(i)
	})
}

// Verify runs the base configuration numRuns times and checks that every
// run produced the same frames.
func (e *Ensemble) Verify(ctx context.Context) error {
	runs, err := e.Run(ctx, nil)
	if err != nil {
		return err
	}
	for _, r := range runs[1:] {
		if err := Compare(runs[0], r); err != nil {
			return err
		}
	}
	return nil
}

// Compare reports the first frame at which a and b differ, wrapping
// ErrNondeterministic.
func Compare(a, b *Run) error {
	if len(a.Digests) != len(b.Digests) {
		return fmt.Errorf("%w: run %d rendered %d frames, run %d rendered %d",
			ErrNondeterministic, a.Index, len(a.Digests), b.Index, len(b.Digests))
	}
	for i := range a.Digests {
		if a.Digests[i] != b.Digests[i] {
			return fmt.Errorf("%w: run %d and run %d differ at frame %d",
				ErrNondeterministic, a.Index, b.Index, i)
		}
	}
	return nil
}

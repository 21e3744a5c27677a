// Package effect implements the animation generators composited onto the
// pixel grid.
//
// The set of effects is closed: [Row], [Circle], [Chaser] and [Text]. Each
// owns its animation state and advances it once per [Effect.Tick]. An effect
// never reseeds itself; when Tick reports false the owner replaces it with a
// fresh instance from a [Spawner].
package effect

import (
	"errors"

	"github.com/san-kum/ledsim/internal/pixel"
)

var ErrInvalidParam = errors.New("effect: invalid parameter")

// Target is the drawing surface effects write to. Writes outside the grid
// must be ignored by the implementation.
type Target interface {
	Size() (w, h int)
	Set(x, y int, c pixel.RGB)
	Blend(x, y int, c pixel.RGB, weight float64)
}

type Kind uint8

const (
	KindRow Kind = iota
	KindCircle
	KindChaser
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindRow:
		return "row"
	case KindCircle:
		return "circle"
	case KindChaser:
		return "chaser"
	case KindText:
		return "text"
	}
	return "unknown"
}

type Effect interface {
	Kind() Kind
	// Tick advances the animation one frame and draws it. A false return
	// means the effect is finished and drew nothing.
	Tick(t Target) bool

	sealed()
}

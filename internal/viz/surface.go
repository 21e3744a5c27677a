package viz

import (
	"iter"
	"sync"

	"github.com/san-kum/ledsim/internal/pixel"
)

// Surface is the display sink behind the live view. Draws land on a back
// surface; Flush publishes it as the frame the view renders.
type Surface struct {
	mu            sync.Mutex
	width, height int
	back          []pixel.RGB
	shown         pixel.Frame
	bg            pixel.RGB
	flushes       int
}

func NewSurface(w, h int) *Surface {
	return &Surface{
		width:  w,
		height: h,
		back:   make([]pixel.RGB, w*h),
		shown:  pixel.NewFrame(w, h, nil),
	}
}

func (s *Surface) Clear(c pixel.RGB) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bg = c
	for i := range s.back {
		s.back[i] = c
	}
	return nil
}

func (s *Surface) DrawPixels(px iter.Seq2[pixel.Point, pixel.RGB]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for p, c := range px {
		if p.X < 0 || p.Y < 0 || p.X >= s.width || p.Y >= s.height {
			continue
		}
		s.back[p.Y*s.width+p.X] = c
	}
	return nil
}

func (s *Surface) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = pixel.NewFrame(s.width, s.height, s.back)
	s.flushes++
	return nil
}

// Shown returns the last flushed frame and the background it was cleared to.
func (s *Surface) Shown() (pixel.Frame, pixel.RGB) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown, s.bg
}

func (s *Surface) Flushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}

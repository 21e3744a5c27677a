package metrics

import "github.com/san-kum/ledsim/internal/compositor"

// History keeps the changed-cell count of the last Cap frames for plotting.
type History struct {
	cap  int
	ring []float64
	next int
	full bool
}

func NewHistory(capacity int) *History {
	capacity = max(capacity, 1)
	return &History{cap: capacity, ring: make([]float64, capacity)}
}

func (h *History) Name() string { return "changed_history" }

func (h *History) Observe(s compositor.FrameStats) {
	h.ring[h.next] = float64(s.Changed)
	h.next = (h.next + 1) % h.cap
	if h.next == 0 {
		h.full = true
	}
}

// Value is the most recent sample.
func (h *History) Value() float64 {
	if !h.full && h.next == 0 {
		return 0
	}
	return h.ring[(h.next-1+h.cap)%h.cap]
}

func (h *History) Reset() {
	h.next = 0
	h.full = false
}

// Series returns the retained samples, oldest first.
func (h *History) Series() []float64 {
	if !h.full {
		return append([]float64(nil), h.ring[:h.next]...)
	}
	out := make([]float64, 0, h.cap)
	out = append(out, h.ring[h.next:]...)
	return append(out, h.ring[:h.next]...)
}

// Standard returns the metric set the CLI reports for a w×h grid.
func Standard(w, h int) []compositor.Metric {
	return []compositor.Metric{
		NewChangedPixels(),
		NewBandwidth(w, h),
		NewRespawns(),
		NewSinkHealth(),
	}
}

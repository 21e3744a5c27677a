// Package metrics provides compositor.Metric implementations that
// summarise a run frame by frame.
package metrics

import "github.com/san-kum/ledsim/internal/compositor"

// ChangedPixels is the mean number of cells that changed per frame.
type ChangedPixels struct {
	name    string
	sum     int
	samples int
}

func NewChangedPixels() *ChangedPixels {
	return &ChangedPixels{
		name: "changed_pixels",
	}
}

func (c *ChangedPixels) Name() string {
	return c.name
}

func (c *ChangedPixels) Observe(s compositor.FrameStats) {
	c.sum += s.Changed
	c.samples++
}

func (c *ChangedPixels) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.sum) / float64(c.samples)
}

func (c *ChangedPixels) Reset() {
	c.sum = 0
	c.samples = 0
}

// Bandwidth is the share of cells actually sent to the sink, relative to
// repainting the whole grid every frame.
type Bandwidth struct {
	name    string
	cells   int
	sent    int
	samples int
}

func NewBandwidth(width, height int) *Bandwidth {
	return &Bandwidth{
		name:  "bandwidth",
		cells: width * height,
	}
}

func (b *Bandwidth) Name() string { return b.name }

func (b *Bandwidth) Observe(s compositor.FrameStats) {
	b.sent += s.Sent
	b.samples++
}

func (b *Bandwidth) Value() float64 {
	if b.samples == 0 || b.cells == 0 {
		return 0
	}
	return float64(b.sent) / float64(b.samples*b.cells)
}

func (b *Bandwidth) Reset() {
	b.sent = 0
	b.samples = 0
}

// Respawns counts replaced effects.
type Respawns struct {
	total int
}

func NewRespawns() *Respawns { return &Respawns{} }

func (r *Respawns) Name() string                    { return "respawns" }
func (r *Respawns) Observe(s compositor.FrameStats) { r.total += s.Respawned }
func (r *Respawns) Value() float64                  { return float64(r.total) }
func (r *Respawns) Reset()                          { r.total = 0 }

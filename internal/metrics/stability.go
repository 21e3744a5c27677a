package metrics

import "github.com/san-kum/ledsim/internal/compositor"

// SinkHealth is the fraction of frames that reached the display.
type SinkHealth struct {
	name     string
	failures int
	samples  int
}

func NewSinkHealth() *SinkHealth {
	return &SinkHealth{
		name: "sink_health",
	}
}

func (s *SinkHealth) Name() string {
	return s.name
}

func (s *SinkHealth) Observe(st compositor.FrameStats) {
	s.samples++
	if st.Err != nil {
		s.failures++
	}
}

func (s *SinkHealth) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.failures)/float64(s.samples)
}

func (s *SinkHealth) Failures() int { return s.failures }

func (s *SinkHealth) Reset() {
	s.failures = 0
	s.samples = 0
}

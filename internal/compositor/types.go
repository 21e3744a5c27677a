package compositor

type State uint8

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	if s == Terminated {
		return "terminated"
	}
	return "running"
}

// FrameStats describes one OnFrame call.
type FrameStats struct {
	Frame     int  // index of the frame just rendered, from 0
	Changed   int  // cells that differ from the last flushed frame
	Sent      int  // cells handed to DrawPixels
	Respawned int  // effects replaced this frame
	Full      bool // frame was a full repaint
	Err       error
}

type Metric interface {
	Name() string
	Observe(s FrameStats)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(s FrameStats)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(FrameStats)

func (f ObserverFunc) OnFrame(s FrameStats) { f(s) }

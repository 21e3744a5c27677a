// Package compositor drives the effects of one LED grid frame by frame.
//
// A [Compositor] owns the pixel buffer, the effect collection and the
// spawner that replaces finished effects. Each call to
// [Compositor.OnFrame] renders one frame and flushes it to a
// [display.Sink]:
//
//   - the buffer is cleared (or faded, leaving trails)
//   - every effect ticks in collection order, later entries drawing over
//     earlier ones
//   - finished effects are replaced in place
//   - only cells that differ from the last successfully flushed frame are
//     sent, unless a full repaint is pending
//
// # Example
//
//	cfg := compositor.DefaultConfig()
//	c, _ := compositor.New(cfg, display.Discard)
//	for !c.Terminated() {
//		_ = c.OnFrame()
//	}
//
// # Thread Safety
//
// Compositor instances are NOT thread-safe and never schedule themselves.
// The host clock (see package driver) calls OnFrame. For parallel runs use
// package ensemble, which gives every goroutine its own compositor.
package compositor

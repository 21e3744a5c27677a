// Package viz provides a live terminal viewer for the LED grid.
//
// The viewer is a Bubble Tea program that owns a compositor and paces it
// with its own tick messages:
//
//   - [Model]: the live view, grid on the left and frame statistics right
//   - [Surface]: the display sink the compositor flushes into
//   - [Canvas]: Braille canvas used by the monochrome view
//   - [NewPicker]: preset menu that launches a Model
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	M     - Toggle monochrome Braille view
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
//
// # Recording
//
// G records every flushed frame and writes ledsim.gif to the current
// directory when recording stops or the viewer quits.
package viz

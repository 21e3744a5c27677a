// Package pixel provides the framebuffer primitives for ledsim.
//
// The package defines the fixed-size grid every effect draws into:
//
//   - [RGB]: an 8-bit per channel color sample
//   - [Buffer]: a double-buffered W×H grid with diffing against the
//     last committed frame
//   - [Frame]: an immutable snapshot handed to display sinks
//   - [Palette]: a 256-entry gradient lookup table
//
// # Numeric Semantics
//
// Blending and fading use 8.8 fixed point integer math so that two runs
// with the same inputs produce byte-identical frames.
//
// # Thread Safety
//
// Buffer instances are NOT thread-safe. A Buffer is owned by exactly one
// compositor for its whole lifetime.
package pixel

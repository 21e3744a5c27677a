package effect

import "math"

// Fixed is a Q16.16 fixed point number. Effect geometry uses it so that
// frames are bit-identical across runs and platforms.
type Fixed int64

const (
	fixedShift       = 16
	FixedOne   Fixed = 1 << fixedShift
	fixedHalf  Fixed = FixedOne >> 1
)

func FixedFromInt(i int) Fixed { return Fixed(int64(i) << fixedShift) }

// FixedFromFloat rounds f to the nearest representable value. It is only
// called when parameters are built, never per frame.
func FixedFromFloat(f float64) Fixed { return Fixed(math.Round(f * float64(FixedOne))) }

func (f Fixed) Float() float64 { return float64(f) / float64(FixedOne) }

// Round returns the nearest integer, halves rounding up.
func (f Fixed) Round() int { return int((f + fixedHalf) >> fixedShift) }

func (f Fixed) MulInt(i int) Fixed { return f * Fixed(i) }

func absFixed(f Fixed) Fixed {
	if f < 0 {
		return -f
	}
	return f
}

// isqrt returns floor(sqrt(v)).
func isqrt(v uint64) uint64 {
	if v == 0 {
		return 0
	}
	r := uint64(math.Sqrt(float64(v)))
	for r*r > v {
		r--
	}
	for (r+1)*(r+1) <= v {
		r++
	}
	return r
}

// distance returns the Euclidean length of (dx, dy) in Q16.16, truncated.
func distance(dx, dy int) Fixed {
	sq := uint64(dx*dx + dy*dy)
	return Fixed(isqrt(sq << (2 * fixedShift)))
}

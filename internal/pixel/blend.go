package pixel

// WeightOne is the fixed point representation of a blend weight of 1.0.
const WeightOne = 256

// Weight converts w in [0, 1] to 8.8 fixed point, clamping out of range values.
func Weight(w float64) int {
	if w <= 0 {
		return 0
	}
	if w >= 1 {
		return WeightOne
	}
	return int(w*WeightOne + 0.5)
}

// lerpChannel truncates, which always moves down by at least one but can
// stall on the way up, so an upward step is at least one as well.
func lerpChannel(a, b uint8, w int) uint8 {
	v := uint8((int(a)*(WeightOne-w) + int(b)*w) >> 8)
	if v == a && b > a {
		v++
	}
	return v
}

// Lerp moves c toward src by w/256. w is clamped to [0, WeightOne].
func Lerp(c, src RGB, w int) RGB {
	if w <= 0 {
		return c
	}
	if w >= WeightOne {
		return src
	}
	return RGB{
		R: lerpChannel(c.R, src.R, w),
		G: lerpChannel(c.G, src.G, w),
		B: lerpChannel(c.B, src.B, w),
	}
}

func scaleChannel(v, level uint8) uint8 {
	return uint8((int(v)*int(level) + 127) / 255)
}

// Scale dims c to level/255 of its brightness.
func Scale(c RGB, level uint8) RGB {
	switch level {
	case 255:
		return c
	case 0:
		return Black
	}
	return RGB{
		R: scaleChannel(c.R, level),
		G: scaleChannel(c.G, level),
		B: scaleChannel(c.B, level),
	}
}

func addChannel(a, b uint8) uint8 {
	sum := int(a) + int(b)
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}

// Add is additive blending with per-channel saturation.
func Add(c, src RGB) RGB {
	return RGB{
		R: addChannel(c.R, src.R),
		G: addChannel(c.G, src.G),
		B: addChannel(c.B, src.B),
	}
}

// Max returns the per-channel maximum.
func Max(c, src RGB) RGB {
	return RGB{
		R: max(c.R, src.R),
		G: max(c.G, src.G),
		B: max(c.B, src.B),
	}
}

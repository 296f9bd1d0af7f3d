package render

import "math"

// Scale returns a copy of f with every channel multiplied by level/full.
// Drivers without a hardware brightness register use it to emulate one.
// level <= 0 yields an all-off frame, level >= full an unchanged copy.
func Scale(f Frame, level, full int) Frame {
	out := make(Frame, len(f))
	if full <= 0 || level >= full {
		copy(out, f)
		return out
	}
	if level <= 0 {
		return out
	}
	s := float64(level) / float64(full)
	for i, c := range f {
		out[i] = Color{
			R: scaleChan(c.R, s),
			G: scaleChan(c.G, s),
			B: scaleChan(c.B, s),
		}
	}
	return out
}

func scaleChan(c uint8, s float64) uint8 {
	return uint8(math.Round(float64(c) * s))
}

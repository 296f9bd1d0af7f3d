package render

import "math"

// HSVToRGB converts hue (degrees), saturation and value (0..1) to a Color.
// Each channel is rounded to the nearest byte, and a hue outside [0,360)
// is treated as 0.
func HSVToRGB(h, s, v float64) Color {
	s = clamp01(s)
	v = clamp01(v)
	vb := round255(v)
	if s == 0 {
		return Color{vb, vb, vb}
	}

	hx := 0.0
	if h >= 0 && h < 360 {
		hx = h / 60
	}
	w := math.Floor(hx)
	f := hx - w
	p := round255((1 - s) * v)
	q := round255((1 - s*f) * v)
	t := round255((1 - s*(1-f)) * v)

	switch int(w) {
	case 0:
		return Color{vb, t, p}
	case 1:
		return Color{q, vb, p}
	case 2:
		return Color{p, vb, t}
	case 3:
		return Color{p, q, vb}
	case 4:
		return Color{t, p, vb}
	default:
		return Color{vb, p, q}
	}
}

func round255(x float64) uint8 {
	return uint8(math.Round(x * 255))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

package render

import (
	"math"

	"github.com/coreman2200/rainbowclock/internal/clock"
)

// DefaultStripLength is the pixel count of the stock strip.
const DefaultStripLength = 7

// Rainbow maps the minute of the hour onto a strip that fills from its last
// pixel towards its first. Pixel i always carries hue i*360/Length; only the
// number of lit pixels changes through the hour.
type Rainbow struct {
	Length int
}

// NewRainbow returns a mapper for a strip of n pixels.
func NewRainbow(n int) Rainbow { return Rainbow{Length: n} }

// LitCount is ceil(minute / (60/Length)), clamped to [0, Length].
// The division is done in floating point so minute 1 already lights a pixel.
func (r Rainbow) LitCount(minute int) int {
	if r.Length <= 0 {
		return 0
	}
	lit := int(math.Ceil(float64(minute) / (60.0 / float64(r.Length))))
	if lit < 0 {
		return 0
	}
	if lit > r.Length {
		return r.Length
	}
	return lit
}

// Hue returns the hue in degrees carried by pixel i.
func (r Rainbow) Hue(i int) float64 {
	return float64(i) * 360 / float64(r.Length)
}

// Map builds the frame for t.
func (r Rainbow) Map(t clock.Time) Frame {
	f := NewFrame(r.Length)
	lit := r.LitCount(t.Minute)
	for i := r.Length - 1; i >= r.Length-lit; i-- {
		f[i] = HSVToRGB(r.Hue(i), 1, 1)
	}
	return f
}

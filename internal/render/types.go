package render

// Color is one pixel as three 8-bit channel intensities.
type Color struct{ R, G, B uint8 }

// Off is a pixel with every channel at zero.
var Off = Color{}

// IsOff reports whether every channel is zero.
func (c Color) IsOff() bool { return c == Off }

// Frame is one color per strip pixel, index = physical position.
type Frame []Color

// NewFrame returns an all-off frame of n pixels.
func NewFrame(n int) Frame { return make(Frame, n) }

// Lit counts the pixels that are not off.
func (f Frame) Lit() int {
	n := 0
	for _, c := range f {
		if !c.IsOff() {
			n++
		}
	}
	return n
}

// RGB packs the frame as R,G,B byte triples, the layout LED drivers consume.
func (f Frame) RGB() []byte {
	rgb := make([]byte, len(f)*3)
	for i, c := range f {
		rgb[i*3+0] = c.R
		rgb[i*3+1] = c.G
		rgb[i*3+2] = c.B
	}
	return rgb
}

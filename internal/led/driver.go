// Package led drives addressable LED strips.
//
// Every driver takes a brightness level on the APA102's 5-bit global scale
// (0..MaxBrightness); drivers without a brightness register scale the pixel
// values in software instead.
package led

import (
	"fmt"
	"strings"

	"github.com/coreman2200/rainbowclock/internal/render"
)

// MaxBrightness is the top of the global brightness scale.
const MaxBrightness = 31

func checkBrightness(level int) error {
	if level < 0 || level > MaxBrightness {
		return fmt.Errorf("led: brightness %d out of range [0,%d]", level, MaxBrightness)
	}
	return nil
}

func checkLen(pixels []render.Color, n int) error {
	if len(pixels) != n {
		return fmt.Errorf("led: frame of %d pixels does not match strip of %d", len(pixels), n)
	}
	return nil
}

// ColorOrder is the channel order a chip expects on the wire, e.g. "BGR".
type ColorOrder [3]byte

// ParseColorOrder accepts any permutation of "RGB", case-insensitive.
func ParseColorOrder(s string) (ColorOrder, error) {
	var o ColorOrder
	u := strings.ToUpper(s)
	if len(u) != 3 || !strings.ContainsRune(u, 'R') || !strings.ContainsRune(u, 'G') || !strings.ContainsRune(u, 'B') {
		return o, fmt.Errorf("led: invalid color order %q", s)
	}
	copy(o[:], u)
	return o, nil
}

func (o ColorOrder) String() string { return string(o[:]) }

// put writes c into dst in channel order o.
func (o ColorOrder) put(dst []byte, c render.Color) {
	for i, ch := range o {
		switch ch {
		case 'R':
			dst[i] = c.R
		case 'G':
			dst[i] = c.G
		case 'B':
			dst[i] = c.B
		}
	}
}

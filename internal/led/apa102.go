package led

import (
	"fmt"
	"io"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/coreman2200/rainbowclock/internal/render"
)

// APA102Opts configures an APA102 (DotStar) strip.
type APA102Opts struct {
	NumPixels  int
	Speed      physic.Frequency // SPI clock, defaults to 1MHz
	ColorOrder ColorOrder       // defaults to BGR
}

// APA102 is an APA102 strip on an SPI port. Brightness is the chip's 5-bit
// global level, sent in every pixel header.
type APA102 struct {
	mu         sync.Mutex
	c          spi.Conn
	closer     io.Closer
	n          int
	order      ColorOrder
	brightness int
	buf        []byte
}

// NewAPA102 connects to p in SPI mode 0. If p is an io.Closer, Close
// releases it.
func NewAPA102(p spi.Port, o APA102Opts) (*APA102, error) {
	if o.NumPixels <= 0 {
		return nil, fmt.Errorf("apa102: invalid LED count: %d", o.NumPixels)
	}
	if o.Speed <= 0 {
		o.Speed = physic.MegaHertz
	}
	if o.ColorOrder == (ColorOrder{}) {
		o.ColorOrder = ColorOrder{'B', 'G', 'R'}
	}
	c, err := p.Connect(o.Speed, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("apa102: connect: %w", err)
	}
	d := &APA102{
		c:          c,
		n:          o.NumPixels,
		order:      o.ColorOrder,
		brightness: MaxBrightness,
		buf:        make([]byte, frameLen(o.NumPixels)),
	}
	if cl, ok := p.(io.Closer); ok {
		d.closer = cl
	}
	return d, nil
}

func (d *APA102) String() string { return fmt.Sprintf("apa102{%s}", d.c) }

// SetBrightness takes effect with the next Write.
func (d *APA102) SetBrightness(level int) error {
	if err := checkBrightness(level); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.brightness = level
	return nil
}

// Write sends one frame: a 32-bit start frame of zeros, a header plus three
// color bytes per pixel, and an end frame of ones.
func (d *APA102) Write(pixels []render.Color) error {
	if err := checkLen(pixels, d.n); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.c == nil {
		return fmt.Errorf("apa102: closed")
	}
	encodeAPA102(d.buf, pixels, byte(d.brightness), d.order)
	if err := d.c.Tx(d.buf, nil); err != nil {
		return fmt.Errorf("apa102: write: %w", err)
	}
	return nil
}

// Close releases the port. The strip keeps its last frame.
func (d *APA102) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.c = nil
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return err
}

// endLen is at least n/2 clock edges so the data reaches the last pixel.
func endLen(n int) int {
	if e := (n + 15) / 16; e > 4 {
		return e
	}
	return 4
}

func frameLen(n int) int { return 4 + 4*n + endLen(n) }

func encodeAPA102(dst []byte, pixels []render.Color, brightness byte, o ColorOrder) {
	for i := 0; i < 4; i++ {
		dst[i] = 0
	}
	off := 4
	for _, c := range pixels {
		dst[off] = 0xE0 | brightness&0x1F
		o.put(dst[off+1:off+4], c)
		off += 4
	}
	for ; off < len(dst); off++ {
		dst[off] = 0xFF
	}
}

package led

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"periph.io/x/extra/devices/screen"

	"github.com/coreman2200/rainbowclock/internal/render"
)

// drawer is the slice of periph's display.Drawer the console strip uses.
type drawer interface {
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// Console shows the strip as a row of colored cells on the terminal, for
// machines without an SPI port.
type Console struct {
	mu         sync.Mutex
	d          drawer
	n          int
	brightness int
	last       render.Frame
}

// NewConsole draws n pixels on stdout.
func NewConsole(n int) *Console {
	return newConsole(lineDrawer{screen.New(n)}, n)
}

// lineDrawer ends every screen frame with a newline so frames scroll.
type lineDrawer struct{ drawer }

func (l lineDrawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if err := l.drawer.Draw(r, src, sp); err != nil {
		return err
	}
	fmt.Printf("\n")
	return nil
}

func newConsole(d drawer, n int) *Console {
	return &Console{d: d, n: n, brightness: MaxBrightness}
}

func (c *Console) String() string { return fmt.Sprintf("console{%d}", c.n) }

func (c *Console) SetBrightness(level int) error {
	if err := checkBrightness(level); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.brightness = level
	return nil
}

func (c *Console) Write(pixels []render.Color) error {
	if err := checkLen(pixels, c.n); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.d == nil {
		return fmt.Errorf("console: closed")
	}
	f := render.Scale(pixels, c.brightness, MaxBrightness)
	im := image.NewNRGBA(image.Rect(0, 0, c.n, 1))
	for x, p := range f {
		im.SetNRGBA(x, 0, color.NRGBA{R: p.R, G: p.G, B: p.B, A: 255})
	}
	if err := c.d.Draw(im.Bounds(), im, image.Point{}); err != nil {
		return fmt.Errorf("console: draw: %w", err)
	}
	c.last = f
	return nil
}

// Last returns the most recent frame as drawn, after brightness scaling.
func (c *Console) Last() render.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(render.Frame(nil), c.last...)
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.d == nil {
		return nil
	}
	err := c.d.Halt()
	c.d = nil
	return err
}

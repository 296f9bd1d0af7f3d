// Package segment drives 4-digit alphanumeric segment displays.
package segment

import (
	"fmt"
	"io"
	"math"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ht16k33"
)

// DefaultAddr is the HT16K33 backpack address with no jumpers bridged.
const DefaultAddr uint16 = 0x70

// Digits on the alphanumeric backpack.
const Digits = 4

const (
	cmdDisplayOff = 0x80
	maxDimming    = 15
)

// GlyphError reports a character the clock face does not use.
type GlyphError struct{ Rune rune }

func (e *GlyphError) Error() string { return fmt.Sprintf("segment: no glyph for %q", e.Rune) }

// OverflowError reports text that needs more digits than the display has.
type OverflowError struct {
	Text   string
	Digits int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("segment: %q does not fit on %d digits", e.Text, e.Digits)
}

// HT16K33 is a 14-segment alphanumeric backpack on an I2C bus. Text goes
// through periph's alphanumeric layer; dimming, blanking and display off go
// to the controller directly.
type HT16K33 struct {
	mu     sync.Mutex
	dev    *ht16k33.Dev
	text   *ht16k33.Display
	raw    *i2c.Dev
	closer io.Closer
}

// NewHT16K33 starts the controller at addr on bus. If bus is an io.Closer,
// Close releases it.
func NewHT16K33(bus i2c.Bus, addr uint16) (*HT16K33, error) {
	dev, err := ht16k33.NewI2C(bus, addr)
	if err != nil {
		return nil, fmt.Errorf("ht16k33: init: %w", err)
	}
	text, err := ht16k33.NewAlphaNumericDisplay(bus, addr)
	if err != nil {
		return nil, fmt.Errorf("ht16k33: alphanumeric: %w", err)
	}
	d := &HT16K33{dev: dev, text: text, raw: &i2c.Dev{Bus: bus, Addr: addr}}
	if c, ok := bus.(io.Closer); ok {
		d.closer = c
	}
	return d, nil
}

func (d *HT16K33) String() string { return fmt.Sprintf("ht16k33{%s}", d.raw) }

// Configure sets brightness 0..1 on the controller's 16 dimming levels.
func (d *HT16K33) Configure(brightness float64) error {
	if brightness < 0 || brightness > 1 {
		return fmt.Errorf("ht16k33: brightness %v out of range [0,1]", brightness)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.dev.SetBrightness(int(math.Round(brightness * maxDimming))); err != nil {
		return fmt.Errorf("ht16k33: dimming: %w", err)
	}
	return nil
}

// Enable turns the display on without blinking, or off.
func (d *HT16K33) Enable(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var err error
	if on {
		err = d.dev.SetBlink(ht16k33.BlinkOff)
	} else {
		err = d.raw.Tx([]byte{cmdDisplayOff}, nil)
	}
	if err != nil {
		return fmt.Errorf("ht16k33: display on=%v: %w", on, err)
	}
	return nil
}

// Clear blanks every digit.
func (d *HT16K33) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.dev.Halt(); err != nil {
		return fmt.Errorf("ht16k33: clear: %w", err)
	}
	return nil
}

// Write shows text, which may hold up to Digits glyphs plus decimal points.
// The digits are cleared and rewritten on every call.
func (d *HT16K33) Write(text string) error {
	if err := check(text, Digits); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.text.WriteString(text); err != nil {
		return fmt.Errorf("ht16k33: write: %w", err)
	}
	return nil
}

// Close releases the bus. The display keeps its last content.
func (d *HT16K33) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return err
}

// check reports whether text fits on n digits. A '.' rides on the digit
// before it unless that digit already has one.
func check(text string, n int) error {
	used := 0
	dotted := true
	for _, r := range text {
		switch {
		case r == '.' && !dotted:
			dotted = true
			continue
		case r == '.', r == ' ', r == '-', r >= '0' && r <= '9', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		default:
			return &GlyphError{Rune: r}
		}
		if used == n {
			return &OverflowError{Text: text, Digits: n}
		}
		used++
		dotted = r == '.'
	}
	return nil
}

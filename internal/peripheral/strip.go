package peripheral

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/coreman2200/rainbowclock/internal/render"
)

// StripTransport is the contract of an addressable LED strip.
type StripTransport interface {
	SetBrightness(level int) error
	Write(pixels []render.Color) error
	Close() error
}

type stripDevice struct {
	t          StripTransport
	brightness int
	length     int
}

func (d *stripDevice) Configure() error { return d.t.SetBrightness(d.brightness) }

func (d *stripDevice) Render(f render.Frame) error { return d.t.Write(f) }

// Blank attempts both steps even when the first fails.
func (d *stripDevice) Blank() error {
	return errors.Join(
		d.t.SetBrightness(0),
		d.t.Write(render.NewFrame(d.length)),
	)
}

func (d *stripDevice) Close() error { return d.t.Close() }

// NewStrip returns a session that shows rainbow frames of length pixels on
// the transport returned by open.
func NewStrip(name string, open func() (StripTransport, error), brightness, length int, log zerolog.Logger) *Session[render.Frame] {
	return NewSession[render.Frame](name, func() (Device[render.Frame], error) {
		t, err := open()
		if err != nil {
			return nil, err
		}
		return &stripDevice{t: t, brightness: brightness, length: length}, nil
	}, log)
}

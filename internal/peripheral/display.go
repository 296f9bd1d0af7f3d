package peripheral

import "github.com/rs/zerolog"

// DisplayTransport is the contract of a segmented alphanumeric display.
type DisplayTransport interface {
	// Configure sets the brightness, 0..1.
	Configure(brightness float64) error
	Enable(on bool) error
	Clear() error
	Write(text string) error
	Close() error
}

type displayDevice struct {
	t          DisplayTransport
	brightness float64
}

func (d *displayDevice) Configure() error {
	if err := d.t.Configure(d.brightness); err != nil {
		return err
	}
	if err := d.t.Enable(true); err != nil {
		return err
	}
	return d.t.Clear()
}

func (d *displayDevice) Render(text string) error { return d.t.Write(text) }
func (d *displayDevice) Blank() error             { return d.t.Clear() }
func (d *displayDevice) Close() error             { return d.t.Close() }

// NewDisplay returns a session that shows clock faces on the transport
// returned by open.
func NewDisplay(name string, open func() (DisplayTransport, error), brightness float64, log zerolog.Logger) *Session[string] {
	return NewSession[string](name, func() (Device[string], error) {
		t, err := open()
		if err != nil {
			return nil, err
		}
		return &displayDevice{t: t, brightness: brightness}, nil
	}, log)
}

package led

import (
	"fmt"
	"io"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/nrzled"

	"github.com/coreman2200/rainbowclock/internal/render"
)

// NRZ is a WS2812 strip driven through nrzled over SPI. The chip has no
// brightness register, so brightness scales the pixels.
type NRZ struct {
	mu         sync.Mutex
	dev        *nrzled.Dev
	closer     io.Closer
	n          int
	brightness int
}

// NewNRZ opens n pixels on p at data rate freq (800kHz when zero).
func NewNRZ(p spi.Port, n int, freq physic.Frequency) (*NRZ, error) {
	if n <= 0 {
		return nil, fmt.Errorf("nrz: invalid LED count: %d", n)
	}
	if freq <= 0 {
		freq = 800 * physic.KiloHertz
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: n,
		Channels:  3,
		Freq:      freq,
	})
	if err != nil {
		return nil, fmt.Errorf("nrz: %w", err)
	}
	s := &NRZ{dev: d, n: n, brightness: MaxBrightness}
	if c, ok := p.(io.Closer); ok {
		s.closer = c
	}
	return s, nil
}

func (s *NRZ) String() string { return fmt.Sprintf("nrz{%s}", s.dev) }

func (s *NRZ) SetBrightness(level int) error {
	if err := checkBrightness(level); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brightness = level
	return nil
}

func (s *NRZ) Write(pixels []render.Color) error {
	if err := checkLen(pixels, s.n); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return fmt.Errorf("nrz: closed")
	}
	rgb := render.Scale(pixels, s.brightness, MaxBrightness).RGB()
	if _, err := s.dev.Write(rgb); err != nil {
		return fmt.Errorf("nrz: write: %w", err)
	}
	return nil
}

// Close halts the strip and releases the port.
func (s *NRZ) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return nil
	}
	err := s.dev.Halt()
	s.dev = nil
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
		s.closer = nil
	}
	return err
}

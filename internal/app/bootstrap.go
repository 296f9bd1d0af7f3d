package app

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/coreman2200/rainbowclock/internal/clock"
	"github.com/coreman2200/rainbowclock/internal/config"
	"github.com/coreman2200/rainbowclock/internal/led"
	"github.com/coreman2200/rainbowclock/internal/peripheral"
	"github.com/coreman2200/rainbowclock/internal/render"
	"github.com/coreman2200/rainbowclock/internal/segment"
	"github.com/coreman2200/rainbowclock/internal/tick"
)

// Buses opens named host buses. The zero value uses periph's registries,
// which need host.Init to have run.
type Buses struct {
	OpenI2C func(name string) (i2c.BusCloser, error)
	OpenSPI func(name string) (spi.PortCloser, error)
}

func (b Buses) openI2C(name string) (i2c.BusCloser, error) {
	if b.OpenI2C != nil {
		return b.OpenI2C(name)
	}
	return i2creg.Open(name)
}

func (b Buses) openSPI(name string) (spi.PortCloser, error) {
	if b.OpenSPI != nil {
		return b.OpenSPI(name)
	}
	return spireg.Open(name)
}

// Core is a wired clock ready to Start.
type Core struct {
	Controller *Controller
	Display    *peripheral.Session[string]
	Strip      *peripheral.Session[render.Frame]
}

// InitCore validates cfg and wires the clock with the real minute ticker.
// Hardware is not touched until Controller.Start.
func InitCore(cfg *config.Config, buses Buses, log zerolog.Logger) (*Core, error) {
	return initCore(cfg, buses, tick.NewMinute(), time.Now, log)
}

func initCore(cfg *config.Config, buses Buses, ticks tick.Source, now func() time.Time, log zerolog.Logger) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	display := peripheral.NewDisplay("display", DisplayOpener(cfg, buses, log), cfg.Display.Brightness, log)
	strip := peripheral.NewStrip("strip", StripOpener(cfg, buses, log), cfg.Strip.Brightness, cfg.Strip.Length, log)
	ctrl := NewController(
		clock.NewSource(loc, now),
		render.NewRainbow(cfg.Strip.Length),
		display,
		strip,
		ticks,
		log,
	)
	return &Core{Controller: ctrl, Display: display, Strip: strip}, nil
}

// DisplayOpener picks the display transport from cfg. With sim_only the
// simulated display is used; with fallback_sim a hardware failure falls back
// to it instead of leaving the display disabled.
func DisplayOpener(cfg *config.Config, buses Buses, log zerolog.Logger) func() (peripheral.DisplayTransport, error) {
	d := cfg.Display
	sim := func() (peripheral.DisplayTransport, error) { return segment.NewSim(log), nil }
	if cfg.SimOnly || d.Driver == "sim" {
		return sim
	}
	hw := func() (peripheral.DisplayTransport, error) {
		bus, err := buses.openI2C(d.Bus)
		if err != nil {
			return nil, fmt.Errorf("i2c %q: %w", d.Bus, err)
		}
		dev, err := segment.NewHT16K33(bus, d.Addr)
		if err != nil {
			_ = bus.Close()
			return nil, err
		}
		return dev, nil
	}
	return withFallback(cfg.FallbackSim, "display", d.Driver, hw, sim, log)
}

// StripOpener picks the strip transport from cfg, like DisplayOpener.
func StripOpener(cfg *config.Config, buses Buses, log zerolog.Logger) func() (peripheral.StripTransport, error) {
	s := cfg.Strip
	sim := func() (peripheral.StripTransport, error) { return led.NewConsole(s.Length), nil }
	if cfg.SimOnly || s.Driver == "sim" {
		return sim
	}
	hw := func() (peripheral.StripTransport, error) {
		port, err := buses.openSPI(s.Port)
		if err != nil {
			return nil, fmt.Errorf("spi %q: %w", s.Port, err)
		}
		var t peripheral.StripTransport
		switch s.Driver {
		case "ws2812":
			t, err = led.NewNRZ(port, s.Length, physic.Frequency(s.SpeedHz)*physic.Hertz)
		default:
			var order led.ColorOrder
			order, err = led.ParseColorOrder(s.ColorOrder)
			if err == nil {
				t, err = led.NewAPA102(port, led.APA102Opts{
					NumPixels:  s.Length,
					Speed:      physic.Frequency(s.SpeedHz) * physic.Hertz,
					ColorOrder: order,
				})
			}
		}
		if err != nil {
			_ = port.Close()
			return nil, err
		}
		return t, nil
	}
	return withFallback(cfg.FallbackSim, "strip", s.Driver, hw, sim, log)
}

func withFallback[T any](enabled bool, name, driver string, hw, sim func() (T, error), log zerolog.Logger) func() (T, error) {
	if !enabled {
		return hw
	}
	return func() (T, error) {
		t, err := hw()
		if err == nil {
			return t, nil
		}
		log.Warn().Err(err).
			Str("peripheral", name).
			Str("driver", driver).
			Msg("hardware init failed; falling back to SIM")
		return sim()
	}
}

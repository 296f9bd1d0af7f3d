// Command clocksim prints what the clock shows for a range of minutes, one
// JSON object per line, without touching hardware.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/rainbowclock/internal/clock"
	"github.com/coreman2200/rainbowclock/internal/led"
	"github.com/coreman2200/rainbowclock/internal/peripheral"
	"github.com/coreman2200/rainbowclock/internal/render"
)

type minuteOut struct {
	Time string     `json:"time"`
	Face string     `json:"face"`
	Lit  int        `json:"lit"`
	RGB  [][3]uint8 `json:"rgb"`
}

func main() {
	var (
		from    = flag.String("from", "00:00", "first minute, HH:MM")
		minutes = flag.Int("minutes", 60, "number of minutes to simulate")
		length  = flag.Int("length", render.DefaultStripLength, "strip length")
		console = flag.Bool("console", false, "also draw each frame on the terminal")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := run(os.Stdout, *from, *minutes, *length, *console); err != nil {
		log.Fatal().Err(err).Msg("clocksim")
	}
}

func run(out io.Writer, from string, minutes, length int, console bool) error {
	start, err := time.Parse("15:04", from)
	if err != nil {
		return fmt.Errorf("bad -from %q: %w", from, err)
	}
	if length < 1 || minutes < 0 {
		return fmt.Errorf("length must be positive and minutes non-negative: length=%d minutes=%d", length, minutes)
	}

	var strip *peripheral.Session[render.Frame]
	if console {
		strip = peripheral.NewStrip("console", func() (peripheral.StripTransport, error) {
			return led.NewConsole(length), nil
		}, led.MaxBrightness, length, log.Logger)
		strip.Initialize(render.NewFrame(length))
		defer strip.Shutdown()
	}

	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)

	rb := render.NewRainbow(length)
	for i := 0; i < minutes; i++ {
		t := clock.Of(start.Add(time.Duration(i) * time.Minute))
		f := rb.Map(t)
		m := minuteOut{Time: t.String(), Face: render.Face(t), Lit: f.Lit()}
		for _, c := range f {
			m.RGB = append(m.RGB, [3]uint8{c.R, c.G, c.B})
		}
		if err := enc.Encode(m); err != nil {
			_ = w.Flush()
			return fmt.Errorf("encode %s: %w", t, err)
		}
		if strip != nil {
			if err := w.Flush(); err != nil {
				return err
			}
			strip.Render(f)
		}
	}
	return w.Flush()
}

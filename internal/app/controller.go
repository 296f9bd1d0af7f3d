package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/coreman2200/rainbowclock/internal/clock"
	"github.com/coreman2200/rainbowclock/internal/peripheral"
	"github.com/coreman2200/rainbowclock/internal/render"
	"github.com/coreman2200/rainbowclock/internal/tick"
)

// Controller keeps the display and the strip in step with the wall clock.
type Controller struct {
	clock   *clock.Source
	rainbow render.Rainbow
	display *peripheral.Session[string]
	strip   *peripheral.Session[render.Frame]
	ticks   tick.Source
	log     zerolog.Logger

	mu          sync.Mutex
	started     bool
	stopped     bool
	unsubscribe func()
}

func NewController(
	src *clock.Source,
	rainbow render.Rainbow,
	display *peripheral.Session[string],
	strip *peripheral.Session[render.Frame],
	ticks tick.Source,
	log zerolog.Logger,
) *Controller {
	return &Controller{
		clock:   src,
		rainbow: rainbow,
		display: display,
		strip:   strip,
		ticks:   ticks,
		log:     log,
	}
}

// Start brings both outputs up showing the current time, then follows the
// minute ticks. Either output may come up disabled; the clock runs anyway.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.stopped {
		return
	}
	c.started = true

	now := c.clock.Now()
	c.display.Initialize(render.Face(now))
	c.strip.Initialize(c.rainbow.Map(now))
	c.log.Info().
		Stringer("time", now).
		Bool("display", c.display.Active()).
		Bool("strip", c.strip.Active()).
		Msg("clock started")

	c.unsubscribe = c.ticks.Subscribe(c.OnTick)
}

// OnTick renders the current minute on both outputs.
func (c *Controller) OnTick() {
	now := c.clock.Now()
	c.log.Debug().Stringer("time", now).Msg("tick")
	c.display.Render(render.Face(now))
	c.strip.Render(c.rainbow.Map(now))
}

// Stop ends tick delivery, waiting out a tick in progress, then blanks and
// releases both outputs. It is safe to call more than once.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true

	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.display.Shutdown()
	c.strip.Shutdown()
	c.log.Info().Msg("clock stopped")
}

// Package peripheral owns the lifecycle of the clock's optional outputs.
//
// A Session wraps one hardware handle and never lets a transport failure
// escape: every operation returns an Outcome and logs it.
package peripheral

import (
	"fmt"

	"github.com/rs/zerolog"
)

// State enumerates session states.
type State string

const (
	Uninitialized State = "uninitialized"
	Ready         State = "ready"
	Closed        State = "closed"
)

// Device is the capability set a Session drives.
type Device[V any] interface {
	// Configure applies the static configuration right after the handle is acquired.
	Configure() error
	// Render pushes one value to the hardware.
	Render(v V) error
	// Blank puts the hardware into its off state before release.
	Blank() error
	// Close releases the handle.
	Close() error
}

// Opener acquires a Device.
type Opener[V any] func() (Device[V], error)

// Outcome is the contained result of one session operation.
type Outcome struct {
	Op      string
	Err     error // *IOError, or nil
	Skipped bool  // no transport call was made

	// RenderErr is the failure of the first render after a successful
	// Initialize. The session is Ready regardless.
	RenderErr error
}

// OK reports whether the operation did not fail.
func (o Outcome) OK() bool { return o.Err == nil }

// Session drives one Device through Uninitialized -> Ready -> Closed.
// It is not safe for concurrent use; callers serialize access.
type Session[V any] struct {
	name  string
	open  Opener[V]
	dev   Device[V]
	state State
	log   zerolog.Logger
}

// NewSession returns an Uninitialized session named name.
func NewSession[V any](name string, open Opener[V], log zerolog.Logger) *Session[V] {
	return &Session[V]{
		name:  name,
		open:  open,
		state: Uninitialized,
		log:   log.With().Str("peripheral", name).Logger(),
	}
}

// Name returns the peripheral name used in logs and errors.
func (s *Session[V]) Name() string { return s.name }

// State returns the current state.
func (s *Session[V]) State() State { return s.state }

// Active reports whether the session holds a hardware handle.
func (s *Session[V]) Active() bool { return s.dev != nil }

// Initialize acquires and configures the device, then renders first.
// If acquisition or configuration fails the output stays disabled: the
// session keeps no handle and later renders are no-ops.
func (s *Session[V]) Initialize(first V) Outcome {
	if s.state != Uninitialized || s.dev != nil {
		return s.skip("initialize", "session already initialized")
	}

	var dev Device[V]
	if err := s.call("open", func() error {
		d, err := s.open()
		dev = d
		return err
	}); err != nil {
		s.log.Error().Err(err).Msg("cannot initialize")
		return Outcome{Op: "initialize", Err: err}
	}
	if dev == nil {
		err := s.wrap("open", fmt.Errorf("no device"))
		s.log.Error().Err(err).Msg("cannot initialize")
		return Outcome{Op: "initialize", Err: err}
	}

	if err := s.call("configure", dev.Configure); err != nil {
		s.log.Error().Err(err).Msg("error configuring")
		if cerr := s.call("close", dev.Close); cerr != nil {
			s.log.Warn().Err(cerr).Msg("error releasing unconfigured device")
		}
		return Outcome{Op: "initialize", Err: err}
	}

	s.dev = dev
	s.state = Ready
	s.log.Info().Msg("ready")
	r := s.Render(first)
	return Outcome{Op: "initialize", RenderErr: r.Err}
}

// Render pushes v to the device. A failure is logged and the session stays
// Ready; the next render retries implicitly.
func (s *Session[V]) Render(v V) Outcome {
	switch {
	case s.state == Closed:
		s.log.Warn().Msg("render on closed session ignored")
		return Outcome{Op: "render", Skipped: true}
	case s.dev == nil:
		return s.skip("render", "output disabled")
	}
	if err := s.call("write", func() error { return s.dev.Render(v) }); err != nil {
		s.log.Error().Err(err).Msg("error writing")
		return Outcome{Op: "render", Err: err}
	}
	s.log.Debug().Interface("value", v).Msg("rendered")
	return Outcome{Op: "render"}
}

// Shutdown blanks and releases the device if one is held, then moves to
// Closed. Failures are logged, never returned as errors to the caller.
// Calling it again is a no-op.
func (s *Session[V]) Shutdown() Outcome {
	if s.state == Closed {
		return Outcome{Op: "shutdown", Skipped: true}
	}
	dev := s.dev
	s.dev = nil
	s.state = Closed
	if dev == nil {
		return s.skip("shutdown", "no device held")
	}

	s.log.Info().Msg("disabling")
	var first error
	if err := s.call("blank", dev.Blank); err != nil {
		s.log.Error().Err(err).Msg("error blanking")
		first = err
	}
	if err := s.call("close", dev.Close); err != nil {
		s.log.Error().Err(err).Msg("error closing")
		if first == nil {
			first = err
		}
	}
	return Outcome{Op: "shutdown", Err: first}
}

func (s *Session[V]) skip(op, why string) Outcome {
	s.log.Debug().Str("op", op).Msg(why)
	return Outcome{Op: op, Skipped: true}
}

// call runs one transport operation and turns its error, or a panic raised
// by the transport, into an *IOError.
func (s *Session[V]) call(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = s.wrap(op, fmt.Errorf("panic: %v", r))
		}
	}()
	if e := fn(); e != nil {
		return s.wrap(op, e)
	}
	return nil
}

func (s *Session[V]) wrap(op string, err error) error {
	return &IOError{Peripheral: s.name, Op: op, Err: err}
}

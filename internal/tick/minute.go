// Package tick delivers minute-boundary notifications.
package tick

import (
	"sync"
	"time"
)

// Source notifies subscribers, one call at a time, from a single goroutine.
type Source interface {
	// Subscribe starts delivering to fn. The returned function stops delivery
	// and returns once any in-flight call to fn has finished.
	Subscribe(fn func()) (unsubscribe func())
}

// Minute fires once per wall-clock minute boundary.
type Minute struct {
	now   func() time.Time
	timer func(time.Duration) (<-chan time.Time, func() bool)
}

// NewMinute returns a Minute source on the real clock.
func NewMinute() *Minute {
	return &Minute{now: time.Now, timer: newTimer}
}

func newTimer(d time.Duration) (<-chan time.Time, func() bool) {
	t := time.NewTimer(d)
	return t.C, t.Stop
}

// Next returns the minute boundary strictly after t.
func Next(t time.Time) time.Time {
	return t.Truncate(time.Minute).Add(time.Minute)
}

func (m *Minute) Subscribe(fn func()) func() {
	quit := make(chan struct{})
	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			now := m.now()
			c, stop := m.timer(Next(now).Sub(now))
			select {
			case <-c:
				fn()
			case <-quit:
				stop()
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(quit) })
		wg.Wait()
	}
}

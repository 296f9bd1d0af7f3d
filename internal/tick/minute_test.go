package tick

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 29, 0, 0, time.UTC)
	assert.Equal(t, base.Add(time.Minute), Next(base))
	assert.Equal(t, base.Add(time.Minute), Next(base.Add(59*time.Second+999*time.Millisecond)))
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Next(time.Date(2024, 3, 1, 23, 59, 30, 0, time.UTC)))
}

// fakeTimers hands out channels the test fires by hand and records each wait
// and each stopped timer.
type fakeTimers struct {
	mu      sync.Mutex
	waits   []time.Duration
	stopped int
	chans   chan chan time.Time
}

func newFakeTimers() *fakeTimers {
	return &fakeTimers{chans: make(chan chan time.Time, 16)}
}

func (f *fakeTimers) timer(d time.Duration) (<-chan time.Time, func() bool) {
	c := make(chan time.Time, 1)
	f.mu.Lock()
	f.waits = append(f.waits, d)
	f.mu.Unlock()
	f.chans <- c
	return c, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.stopped++
		return true
	}
}

func (f *fakeTimers) next(t *testing.T) chan time.Time {
	select {
	case c := <-f.chans:
		return c
	case <-time.After(time.Second):
		t.Fatal("no timer armed")
		return nil
	}
}

func TestMinuteDelivers(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 29, 45, 0, time.UTC)
	fa := newFakeTimers()
	m := &Minute{now: func() time.Time { return now }, timer: fa.timer}

	got := make(chan struct{}, 4)
	stop := m.Subscribe(func() { got <- struct{}{} })
	defer stop()

	for i := 0; i < 3; i++ {
		fa.next(t) <- now
		select {
		case <-got:
		case <-time.After(time.Second):
			t.Fatalf("tick %d not delivered", i)
		}
	}

	fa.mu.Lock()
	require.NotEmpty(t, fa.waits)
	assert.Equal(t, 15*time.Second, fa.waits[0])
	fa.mu.Unlock()
}

func TestUnsubscribeWaitsForDelivery(t *testing.T) {
	fa := newFakeTimers()
	m := &Minute{now: time.Now, timer: fa.timer}

	entered := make(chan struct{})
	release := make(chan struct{})
	var done bool
	stop := m.Subscribe(func() {
		close(entered)
		<-release
		done = true
	})

	fa.next(t) <- time.Now()
	<-entered

	stopped := make(chan struct{})
	go func() {
		stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("unsubscribe returned during delivery")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	<-stopped
	assert.True(t, done)

	// Second call is a no-op.
	stop()
}

func TestNoDeliveryAfterUnsubscribe(t *testing.T) {
	fa := newFakeTimers()
	m := &Minute{now: time.Now, timer: fa.timer}

	calls := 0
	stop := m.Subscribe(func() { calls++ })
	c := fa.next(t)
	stop()
	c <- time.Now()
	assert.Zero(t, calls)

	fa.mu.Lock()
	defer fa.mu.Unlock()
	assert.Equal(t, 1, fa.stopped)
}

func TestNewTimerStops(t *testing.T) {
	c, stop := newTimer(time.Hour)
	assert.True(t, stop())
	select {
	case <-c:
		t.Fatal("stopped timer fired")
	default:
	}
}

package segment

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

func writes(r *i2ctest.Record) [][]byte {
	out := make([][]byte, len(r.Ops))
	for i, op := range r.Ops {
		out[i] = op.W
	}
	return out
}

// since returns the writes recorded after the first n operations.
func since(r *i2ctest.Record, n int) [][]byte {
	return writes(r)[n:]
}

func TestHT16K33Setup(t *testing.T) {
	bus := &i2ctest.Record{}
	d, err := NewHT16K33(bus, DefaultAddr)
	require.NoError(t, err)
	require.NotEmpty(t, bus.Ops)

	n := len(bus.Ops)
	require.NoError(t, d.Configure(0.5))
	assert.Equal(t, [][]byte{{0xE8}}, since(bus, n)) // round(0.5*15) = 8

	n = len(bus.Ops)
	require.NoError(t, d.Enable(true))
	assert.Equal(t, [][]byte{{0x81}}, since(bus, n))

	n = len(bus.Ops)
	require.NoError(t, d.Clear())
	cleared := since(bus, n)
	require.NotEmpty(t, cleared)
	for _, w := range cleared {
		for _, b := range w[1:] {
			assert.Zero(t, b)
		}
	}
	for _, op := range bus.Ops {
		assert.Equal(t, DefaultAddr, op.Addr)
	}
}

func TestHT16K33WriteFoldsDecimalPoint(t *testing.T) {
	bus := &i2ctest.Record{}
	d, err := NewHT16K33(bus, DefaultAddr)
	require.NoError(t, err)

	require.NoError(t, d.Write("10.30"))
	w := writes(bus)
	require.GreaterOrEqual(t, len(w), 4)
	// Column address, then the glyph low byte first: '1', '0'+dot, '3', '0'.
	assert.Equal(t, [][]byte{
		{0x00, 0x06, 0x00},
		{0x02, 0x3F, 0x4C},
		{0x04, 0x8F, 0x00},
		{0x06, 0x3F, 0x0C},
	}, w[len(w)-4:])
}

func TestHT16K33Disable(t *testing.T) {
	bus := &i2ctest.Record{}
	d, err := NewHT16K33(bus, 0x71)
	require.NoError(t, err)
	n := len(bus.Ops)
	require.NoError(t, d.Enable(false))
	require.Len(t, bus.Ops, n+1)
	assert.Equal(t, []byte{0x80}, bus.Ops[n].W)
	assert.Equal(t, uint16(0x71), bus.Ops[n].Addr)
}

func TestHT16K33Rejects(t *testing.T) {
	bus := &i2ctest.Record{}
	d, err := NewHT16K33(bus, DefaultAddr)
	require.NoError(t, err)
	n := len(bus.Ops)

	var ge *GlyphError
	assert.ErrorAs(t, d.Write("12:30"), &ge)
	assert.Equal(t, ':', ge.Rune)

	var oe *OverflowError
	assert.ErrorAs(t, d.Write("123.45"), &oe)

	assert.Error(t, d.Configure(1.5))
	assert.Len(t, bus.Ops, n)
}

func TestCheck(t *testing.T) {
	for _, ok := range []string{"", "9", "10.30", "23.59.", ".5", "1..", "-- 1"} {
		assert.NoError(t, check(ok, Digits), ok)
	}
	var oe *OverflowError
	assert.ErrorAs(t, check("1.....", Digits), &oe)
	assert.ErrorAs(t, check("1.....", Digits), &oe)
	var ge *GlyphError
	assert.ErrorAs(t, check("1:2", Digits), &ge)
}

// closingBus fails every transfer and records whether it was closed.
type closingBus struct {
	closed bool
}

func (b *closingBus) String() string                   { return "closing" }
func (b *closingBus) Tx(addr uint16, w, r []byte) error { return errors.New("nack") }
func (b *closingBus) SetSpeed(f physic.Frequency) error { return nil }
func (b *closingBus) Close() error                      { b.closed = true; return nil }

func TestHT16K33OpenFailure(t *testing.T) {
	_, err := NewHT16K33(&closingBus{}, DefaultAddr)
	assert.ErrorContains(t, err, "ht16k33")
}

func TestHT16K33CloseReleasesBus(t *testing.T) {
	bus := &closableRecord{}
	d, err := NewHT16K33(bus, DefaultAddr)
	require.NoError(t, err)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	assert.Equal(t, 1, bus.closes)
}

type closableRecord struct {
	i2ctest.Record
	closes int
}

func (c *closableRecord) Close() error { c.closes++; return nil }

func TestSimDisplay(t *testing.T) {
	s := NewSim(zerolog.Nop())
	require.NoError(t, s.Configure(0.5))
	require.NoError(t, s.Enable(true))
	require.NoError(t, s.Write("10.30"))
	assert.Equal(t, "10.30", s.Text())
	require.NoError(t, s.Clear())
	assert.Empty(t, s.Text())
	assert.Error(t, s.Write("10:30"))
	assert.NoError(t, s.Close())
}

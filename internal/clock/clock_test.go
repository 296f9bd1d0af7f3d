package clock

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceConvertsIntoLocation(t *testing.T) {
	berlin, err := time.LoadLocation(DefaultZone)
	require.NoError(t, err)

	// 08:30 UTC in January is 09:30 CET.
	fixed := time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)
	s := NewSource(berlin, func() time.Time { return fixed })

	assert.Equal(t, Time{Hour: 9, Minute: 30}, s.Now())
	assert.Equal(t, berlin, s.Location())
}

func TestSourceHandlesSummerTime(t *testing.T) {
	berlin, err := time.LoadLocation(DefaultZone)
	require.NoError(t, err)

	// 22:05 UTC in July is 00:05 CEST the next day.
	fixed := time.Date(2024, 7, 1, 22, 5, 0, 0, time.UTC)
	s := NewSource(berlin, func() time.Time { return fixed })

	assert.Equal(t, Time{Hour: 0, Minute: 5}, s.Now())
}

func TestSourceDefaults(t *testing.T) {
	s := NewSource(nil, nil)
	assert.Equal(t, time.UTC, s.Location())

	before := Of(time.Now().UTC())
	got := s.Now()
	assert.True(t, got.Hour >= 0 && got.Hour < 24)
	assert.True(t, got.Minute >= 0 && got.Minute < 60)
	// Only a minute rollover between the two reads may differ.
	if got != before {
		t.Logf("minute rolled over between reads: %v -> %v", before, got)
	}
}

func TestTimeString(t *testing.T) {
	assert.Equal(t, "07:04", Time{Hour: 7, Minute: 4}.String())
}

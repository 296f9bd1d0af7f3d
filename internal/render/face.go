package render

import (
	"fmt"

	"github.com/coreman2200/rainbowclock/internal/clock"
)

// Face formats t as "HH.MM". A period replaces the colon because segment
// character sets render '.' as the decimal point of the previous digit.
func Face(t clock.Time) string {
	return fmt.Sprintf("%02d.%02d", t.Hour, t.Minute)
}

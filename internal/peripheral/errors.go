package peripheral

import "fmt"

// IOError is a failed transport call on a peripheral. It is always contained
// by the session that owns the peripheral.
type IOError struct {
	Peripheral string
	Op         string
	Err        error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Peripheral, e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

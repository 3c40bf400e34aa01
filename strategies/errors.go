package strategies

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrOutOfRange is matched by *RangeError.
var ErrOutOfRange = errors.New("value out of range")

// RangeError reports an extra or tag outside the range a strategy can
// encode.
type RangeError struct {
	Value    int64
	Min, Max int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("strategies: %d outside [%d, %d]", e.Value, e.Min, e.Max)
}

func (e *RangeError) Is(target error) bool { return target == ErrOutOfRange }

// MisalignedError reports an address without the zero low bits a strategy
// needs for its tag.
type MisalignedError struct {
	Addr  uintptr
	Align uintptr
}

func (e *MisalignedError) Error() string {
	return fmt.Sprintf("strategies: address %#x is not %d-aligned (%d trailing zero bits)",
		e.Addr, e.Align, bits.TrailingZeros64(uint64(e.Addr)))
}

package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrNarrowBackend is matched by *WidthError.
	ErrNarrowBackend = errors.New("backend narrower than an address")

	// ErrAddressOverflow is matched by *OverflowError.
	ErrAddressOverflow = errors.New("address does not fit backend")

	// ErrSizeMismatch is matched by *SizeMismatchError.
	ErrSizeMismatch = errors.New("reinterpretation between types of different size")
)

// WidthError reports a backend that cannot represent host addresses.
type WidthError struct {
	Width int // bits in the backend
	Need  int // bits in a host address
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("backend: %d-bit backend cannot hold %d-bit addresses", e.Width, e.Need)
}

func (e *WidthError) Is(target error) bool { return target == ErrNarrowBackend }

// OverflowError reports an address that a strategy could not encode without
// losing bits.
type OverflowError struct {
	Addr  uintptr
	Width int // usable bits, or the backend width
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("backend: address %#x does not fit in %d bits", e.Addr, e.Width)
}

func (e *OverflowError) Is(target error) bool { return target == ErrAddressOverflow }

// SizeMismatchError reports a bit reinterpretation between types whose sizes
// differ.
type SizeMismatchError struct {
	From, To uintptr // sizes in bytes
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("backend: cannot reinterpret %d bytes as %d bytes", e.From, e.To)
}

func (e *SizeMismatchError) Is(target error) bool { return target == ErrSizeMismatch }

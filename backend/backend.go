// Package backend defines the fixed-width unsigned integers that hold a
// stuffed pointer.
//
// A backend value is an opaque bit container. It never carries a pointer's
// provenance itself: pointers placed in a backend are exposed through the
// provenance package first, and the backend only ever sees their addresses.
//
// Any backend used to store pointers must be at least as wide as uintptr on
// the host. The check happens at construction time (see MustHoldAddress)
// rather than being hardcoded into a fixed set of widths.
package backend

import (
	"unsafe"
)

// Integer is the set of Go integer kinds usable as a backend. Strategies that
// are generic over the backend width constrain themselves to Integer so they
// can use ordinary conversions and bit operators.
type Integer interface {
	~uint | ~uint32 | ~uint64 | ~uintptr
}

// Backend is the set of types a stuffed pointer can be stored in.
// Every member is strictly comparable, so backends compare with ==.
type Backend interface {
	~uint | ~uint32 | ~uint64 | ~uintptr | Uint128
}

// AddressWidth is the bit width of an address on the host platform.
const AddressWidth = int(unsafe.Sizeof(uintptr(0))) * 8

// Width returns the bit width of backend B.
func Width[B Backend]() int {
	var b B
	return int(unsafe.Sizeof(b)) * 8
}

// CheckWidth reports whether B can hold every address on the host.
func CheckWidth[B Backend]() error {
	if w := Width[B](); w < AddressWidth {
		return &WidthError{Width: w, Need: AddressWidth}
	}
	return nil
}

// MustHoldAddress panics with a *WidthError if B is narrower than an
// address. Choosing such a backend is a configuration error, not a runtime
// condition.
func MustHoldAddress[B Backend]() {
	if err := CheckWidth[B](); err != nil {
		panic(err)
	}
}

// FitAddr converts addr into the integer backend B. It panics with an
// *OverflowError when the address does not survive the conversion; it never
// truncates.
func FitAddr[B Integer](addr uintptr) B {
	b := B(addr)
	if uint64(b) != uint64(addr) {
		panic(&OverflowError{Addr: addr, Width: Width[B]()})
	}
	return b
}

// Bytes returns the in-memory bytes of *b in host byte order. The slice
// aliases b.
func Bytes[B Backend](b *B) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(b)), unsafe.Sizeof(*b))
}

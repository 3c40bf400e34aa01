package tagged

import (
	"github.com/chazu/stuff/backend"
	"github.com/chazu/stuff/strategies"
)

// LowBits keeps a 3-bit tag in the alignment bits of a pointer to 8-aligned
// memory.
type LowBits struct{}

const (
	lowTagBits         = 3
	lowTagMask uintptr = 1<<lowTagBits - 1
)

func (LowBits) Tag(data uintptr) uint8    { return uint8(data & lowTagMask) }
func (LowBits) Addr(data uintptr) uintptr { return data &^ lowTagMask }

// Set panics if addr is not 8-aligned or tag needs more than 3 bits.
func (LowBits) Set(addr uintptr, tag uint8) uintptr {
	if addr&lowTagMask != 0 {
		panic(&strategies.MisalignedError{Addr: addr, Align: 1 << lowTagBits})
	}
	if uintptr(tag) > lowTagMask {
		panic(&strategies.RangeError{Value: int64(tag), Min: 0, Max: int64(lowTagMask)})
	}
	return addr | uintptr(tag)
}

// HighBits keeps a 16-bit tag in the top of a 64-bit word, leaving 48 bits
// of address.
type HighBits struct{}

const (
	highAddrBits        = 48
	highAddrMask uint64 = 1<<highAddrBits - 1
)

func (HighBits) Tag(data uint64) uint16   { return uint16(data >> highAddrBits) }
func (HighBits) Addr(data uint64) uintptr { return uintptr(data & highAddrMask) }

// Set panics with a *backend.OverflowError if addr needs more than 48 bits.
func (HighBits) Set(addr uintptr, tag uint16) uint64 {
	a := uint64(addr)
	if a&^highAddrMask != 0 {
		panic(&backend.OverflowError{Addr: addr, Width: highAddrBits})
	}
	return uint64(tag)<<highAddrBits | a
}

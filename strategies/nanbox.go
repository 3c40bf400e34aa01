package strategies

import (
	"math"

	"github.com/chazu/stuff/backend"
)

// NaN-boxing constants
const (
	// Quiet NaN with the extra bit 50 set: 0x7FFC_0000_0000_0000.
	// No float64 we store has all of these bits set.
	qnan uint64 = 0x7FFC000000000000

	// Sign bit of an IEEE 754 double
	signBit uint64 = 0x8000000000000000

	// Every boxed pointer has these bits set
	ptrBox uint64 = signBit | qnan

	// All NaNs are stored as this pattern (math.NaN()).
	canonicalNaN uint64 = 0x7FF8000000000001

	// Addresses must fit below the box bits
	nanBoxAddrBits = 50
)

// NaNBox hides pointers in the negative quiet NaN space of a float64.
//
// Encoding scheme:
//   - Float: the IEEE 754 bits of the value. NaNs are stored as a single
//     canonical quiet NaN, so no float ever carries all of the box bits.
//   - Pointer: sign bit + quiet NaN + bit 50 + 50-bit address
type NaNBox struct{}

// IsExtra returns true unless all quiet NaN bits are set.
func (NaNBox) IsExtra(data uint64) bool {
	return data&qnan != qnan
}

func (NaNBox) EncodeExtra(f float64) uint64 {
	if math.IsNaN(f) {
		return canonicalNaN
	}
	return backend.Reinterpret[uint64](f)
}

func (NaNBox) DecodeExtra(data uint64) float64 {
	return backend.Reinterpret[float64](data)
}

// EncodePtr panics with a *backend.OverflowError if addr has any of the box
// bits set.
func (NaNBox) EncodePtr(addr uintptr) uint64 {
	a := uint64(addr)
	if a&ptrBox != 0 {
		panic(&backend.OverflowError{Addr: addr, Width: nanBoxAddrBits})
	}
	return ptrBox | a
}

func (NaNBox) DecodePtr(data uint64) uintptr {
	return uintptr(data &^ ptrBox)
}

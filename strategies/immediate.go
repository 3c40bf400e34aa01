package strategies

import (
	"fmt"
	"math"

	"github.com/chazu/stuff/backend"
)

// Immediate is a non-pointer value of a dynamically typed language, boxed in
// the NaN space of a float64. It is the extra type of ImmediateBox.
//
// Encoding scheme:
//   - Float: Native IEEE 754 double (if not a tagged NaN, it's a float)
//   - SmallInt: Quiet NaN + tagInt + 48-bit signed payload
//   - Special: Quiet NaN + tagSpecial + special value ID (nil/true/false)
//   - Symbol: Quiet NaN + tagSymbol + symbol ID
//
// Quiet NaN + tagObject is reserved for pointers stored by ImmediateBox and
// is never produced by the constructors below.
type Immediate uint64

// NaN-boxing constants
const (
	// Quiet NaN prefix: exponent all 1s, quiet bit set, sign bit 0
	// 0x7FF8_0000_0000_0000
	nanBits uint64 = 0x7FF8000000000000

	// Tag mask: 3 bits within the NaN mantissa space
	// 0x0007_0000_0000_0000
	tagMask uint64 = 0x0007000000000000

	// Payload mask: 48 bits for pointer/int/id
	// 0x0000_FFFF_FFFF_FFFF
	payloadMask uint64 = 0x0000FFFFFFFFFFFF

	// Tag values (shifted into position)
	tagObject  uint64 = 0x0001000000000000 // Heap object pointer
	tagInt     uint64 = 0x0002000000000000 // 48-bit signed integer
	tagSpecial uint64 = 0x0003000000000000 // nil, true, false
	tagSymbol  uint64 = 0x0004000000000000 // Interned symbol ID

	// Sign bit for 48-bit integer sign extension
	intSignBit uint64 = 0x0000800000000000

	// Mask for sign extension
	intSignExtend uint64 = 0xFFFF000000000000

	payloadBits = 48
)

// Special value payloads
const (
	specialNil   uint64 = 0
	specialTrue  uint64 = 1
	specialFalse uint64 = 2
)

// Pre-defined special values
const (
	Nil   Immediate = Immediate(nanBits | tagSpecial | specialNil)
	True  Immediate = Immediate(nanBits | tagSpecial | specialTrue)
	False Immediate = Immediate(nanBits | tagSpecial | specialFalse)
)

// SmallInt range (48-bit signed)
const (
	MaxSmallInt int64 = (1 << 47) - 1 // 140,737,488,355,327
	MinSmallInt int64 = -(1 << 47)    // -140,737,488,355,328
)

// ---------------------------------------------------------------------------
// Type checking
// ---------------------------------------------------------------------------

// IsFloat returns true if v represents a float64 value.
// A value is a float if it's not one of our tagged NaN values.
// This includes regular numbers, infinities, and "real" NaN values.
func (v Immediate) IsFloat() bool {
	bits := uint64(v)

	// Exponent not all 1s: a regular float
	if (bits & 0x7FF0000000000000) != 0x7FF0000000000000 {
		return true
	}

	// Infinity has mantissa == 0 (ignoring sign bit)
	if bits&0x000FFFFFFFFFFFFF == 0 {
		return true
	}

	// Signaling NaN, or negative quiet NaN: treat as float
	if (bits & (signBit | nanBits)) != nanBits {
		return true
	}

	// A quiet NaN with no tag bits is a "real" NaN
	return bits&tagMask == 0
}

func (v Immediate) hasTag(tag uint64) bool {
	return (uint64(v) & (signBit | nanBits | tagMask)) == (nanBits | tag)
}

// IsSmallInt returns true if v represents a small integer.
func (v Immediate) IsSmallInt() bool { return v.hasTag(tagInt) }

// IsSymbol returns true if v represents an interned symbol.
func (v Immediate) IsSymbol() bool { return v.hasTag(tagSymbol) }

// IsSpecial returns true if v is nil, true, or false.
func (v Immediate) IsSpecial() bool { return v.hasTag(tagSpecial) }

// IsNil returns true if v is the nil value.
func (v Immediate) IsNil() bool { return v == Nil }

// IsBool returns true if v is true or false.
func (v Immediate) IsBool() bool { return v == True || v == False }

// ---------------------------------------------------------------------------
// Float operations
// ---------------------------------------------------------------------------

// Float64 returns v as a float64.
// Panics if v is not a float.
func (v Immediate) Float64() float64 {
	if !v.IsFloat() {
		panic("Immediate.Float64: not a float")
	}
	return backend.Reinterpret[float64](uint64(v))
}

// FromFloat64 creates an Immediate from a float64. Every NaN becomes the same
// untagged quiet NaN.
func FromFloat64(f float64) Immediate {
	if math.IsNaN(f) {
		return Immediate(canonicalNaN)
	}
	return Immediate(backend.Reinterpret[uint64](f))
}

// ---------------------------------------------------------------------------
// SmallInt operations
// ---------------------------------------------------------------------------

// SmallInt returns v as an int64.
// Panics if v is not a small integer.
func (v Immediate) SmallInt() int64 {
	if !v.IsSmallInt() {
		panic("Immediate.SmallInt: not a small integer")
	}
	payload := uint64(v) & payloadMask

	// Sign extend from 48 bits to 64 bits
	if (payload & intSignBit) != 0 {
		payload |= intSignExtend
	}
	return int64(payload)
}

// FromSmallInt creates an Immediate from an int64.
// Panics with a *RangeError if n is outside the SmallInt range.
func FromSmallInt(n int64) Immediate {
	v, ok := TryFromSmallInt(n)
	if !ok {
		panic(&RangeError{Value: n, Min: MinSmallInt, Max: MaxSmallInt})
	}
	return v
}

// TryFromSmallInt creates an Immediate from an int64, returning false if out of range.
func TryFromSmallInt(n int64) (Immediate, bool) {
	if n > MaxSmallInt || n < MinSmallInt {
		return Nil, false
	}
	return Immediate(nanBits | tagInt | (uint64(n) & payloadMask)), true
}

// ---------------------------------------------------------------------------
// Symbol operations
// ---------------------------------------------------------------------------

// SymbolID returns the symbol ID encoded in v.
// Panics if v is not a symbol.
func (v Immediate) SymbolID() uint32 {
	if !v.IsSymbol() {
		panic("Immediate.SymbolID: not a symbol")
	}
	return uint32(uint64(v) & payloadMask)
}

// FromSymbolID creates an Immediate from a symbol ID.
func FromSymbolID(id uint32) Immediate {
	return Immediate(nanBits | tagSymbol | uint64(id))
}

// ---------------------------------------------------------------------------
// Boolean operations
// ---------------------------------------------------------------------------

// Bool returns v as a bool.
// Panics if v is not true or false.
func (v Immediate) Bool() bool {
	switch v {
	case True:
		return true
	case False:
		return false
	default:
		panic("Immediate.Bool: not a boolean")
	}
}

// FromBool creates an Immediate from a bool.
func FromBool(b bool) Immediate {
	if b {
		return True
	}
	return False
}

// IsTruthy returns true unless v is false or nil.
func (v Immediate) IsTruthy() bool {
	return v != False && v != Nil
}

func (v Immediate) String() string {
	switch {
	case v.IsFloat():
		return fmt.Sprint(v.Float64())
	case v.IsSmallInt():
		return fmt.Sprint(v.SmallInt())
	case v == Nil:
		return "nil"
	case v == True:
		return "true"
	case v == False:
		return "false"
	case v.IsSymbol():
		return fmt.Sprintf("#%d", v.SymbolID())
	default:
		return fmt.Sprintf("Immediate(%#x)", uint64(v))
	}
}

// ---------------------------------------------------------------------------
// Strategy
// ---------------------------------------------------------------------------

// ImmediateBox stores object pointers next to Immediates in a uint64:
// pointers are quiet NaN + tagObject + 48-bit address, everything else is an
// Immediate.
type ImmediateBox struct{}

// IsExtra returns false only for the object tag.
func (ImmediateBox) IsExtra(data uint64) bool {
	return !Immediate(data).hasTag(tagObject)
}

func (ImmediateBox) EncodeExtra(v Immediate) uint64 { return uint64(v) }

func (ImmediateBox) DecodeExtra(data uint64) Immediate { return Immediate(data) }

// EncodePtr panics with a *backend.OverflowError if addr needs more than
// 48 bits.
func (ImmediateBox) EncodePtr(addr uintptr) uint64 {
	a := uint64(addr)
	if a&^payloadMask != 0 {
		panic(&backend.OverflowError{Addr: addr, Width: payloadBits})
	}
	return nanBits | tagObject | a
}

func (ImmediateBox) DecodePtr(data uint64) uintptr {
	return uintptr(data & payloadMask)
}

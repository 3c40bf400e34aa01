package strategies

import "github.com/chazu/stuff/backend"

// Unit stores nothing but pointers. Its extra type carries no data and a
// Ptr built with it never reports holding extra data.
type Unit[B backend.Integer] struct{}

func (Unit[B]) IsExtra(B) bool           { return false }
func (Unit[B]) EncodeExtra(struct{}) B   { return 0 }
func (Unit[B]) DecodeExtra(B) struct{}   { return struct{}{} }
func (Unit[B]) EncodePtr(addr uintptr) B { return backend.FitAddr[B](addr) }
func (Unit[B]) DecodePtr(data B) uintptr { return uintptr(data) }

// Unit128 is Unit for the 128-bit backend.
type Unit128 struct{}

func (Unit128) IsExtra(backend.Uint128) bool         { return false }
func (Unit128) EncodeExtra(struct{}) backend.Uint128 { return backend.Uint128{} }
func (Unit128) DecodeExtra(backend.Uint128) struct{} { return struct{}{} }

func (Unit128) EncodePtr(addr uintptr) backend.Uint128 {
	return backend.U128From64(uint64(addr))
}

func (Unit128) DecodePtr(data backend.Uint128) uintptr {
	return uintptr(data.Lo)
}

// Sentinel is the extra type of MaxSentinel. It carries no data.
type Sentinel struct{}

func (Sentinel) String() string { return "sentinel" }

// MaxSentinel stores a pointer, or a Sentinel as the all-ones pattern.
type MaxSentinel[B backend.Integer] struct{}

func (MaxSentinel[B]) IsExtra(data B) bool      { return data == ^B(0) }
func (MaxSentinel[B]) EncodeExtra(Sentinel) B   { return ^B(0) }
func (MaxSentinel[B]) DecodeExtra(B) Sentinel   { return Sentinel{} }
func (MaxSentinel[B]) DecodePtr(data B) uintptr { return uintptr(data) }

// EncodePtr panics if addr does not fit B or is the all-ones pattern.
func (MaxSentinel[B]) EncodePtr(addr uintptr) B {
	data := backend.FitAddr[B](addr)
	if data == ^B(0) {
		panic(&backend.OverflowError{Addr: addr, Width: backend.Width[B]()})
	}
	return data
}

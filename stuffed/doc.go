// Package stuffed stores a pointer or some extra data in one fixed-width
// integer.
//
// This package contains:
//   - Strategy, the caller-supplied bit layout
//   - Ptr, the storage cell built on a Strategy and a backend
//   - CheckStrategy, a test helper for the Strategy contract
//
// A NaN-boxed value type is declared once as an alias:
//
//	type Value = stuffed.Ptr[Object, strategies.NaNBox, uint64, float64]
//
//	f := stuffed.FromExtra[Object, strategies.NaNBox, uint64](123.5)
//	o := stuffed.FromPtr[Object, strategies.NaNBox, uint64, float64](obj)
//
// Pointers pass through the provenance package on the way in and out, so the
// pointer returned by Ptr.Pointer is the pointer that was stored, not an
// integer turned back into one. A Ptr does not keep its pointee alive: once
// the pointee is collected, Pointer returns nil.
//
// No strategy is built in. Everything a Ptr returns is only as correct as its
// Strategy: if the strategy lets an extra and a pointer encode to the same
// bits, Ptr decodes the wrong variant without any error.
package stuffed

package backend

import "unsafe"

// Reinterpret copies the bits of v into a value of type To. Both types must
// have the same size; a mismatch panics with a *SizeMismatchError. This is a
// bit copy, never a numeric conversion: Reinterpret[uint64](1.0) is
// 0x3FF0000000000000, not 1.
//
// To and From should be plain data. Reinterpreting pointer-holding types
// hides pointers from the garbage collector.
func Reinterpret[To, From any](v From) To {
	var out To
	n := unsafe.Sizeof(out)
	if m := unsafe.Sizeof(v); m != n {
		panic(&SizeMismatchError{From: m, To: n})
	}
	if n == 0 {
		return out
	}
	// Byte-wise copy so neither side needs the other's alignment.
	copy(
		unsafe.Slice((*byte)(unsafe.Pointer(&out)), n),
		unsafe.Slice((*byte)(unsafe.Pointer(&v)), n),
	)
	return out
}

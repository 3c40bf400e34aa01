package stuffed

import "github.com/chazu/stuff/backend"

// Strategy describes how pointers and extra data share a backend of type B.
// E is the type of the extra data.
//
// Strategies are stateless. A Ptr calls the methods on the zero value of its
// strategy type, so implementations are usually empty structs.
//
// # Contract
//
// The compiler cannot check any of the following. A strategy that breaks
// them makes Ptr return the wrong variant or garbage, silently.
//
//   - IsExtra is total. It must classify every bit pattern of B.
//   - IsExtra(EncodeExtra(x)) is true for every legal x, and
//     IsExtra(EncodePtr(a)) is false for every address a that EncodePtr
//     accepts. The two codomains must be disjoint. This is the one
//     obligation everything else depends on.
//   - DecodeExtra(EncodeExtra(x)) is observably equal to x.
//   - DecodePtr(EncodePtr(a)) == a.
//   - EncodePtr panics (see backend.FitAddr) for an address it cannot
//     represent. It must never drop address bits.
//
// DecodeExtra is only called on values IsExtra accepted, and DecodePtr only
// on values it rejected. Implementations need not guard against other input.
//
// CheckStrategy checks these properties for sample inputs.
type Strategy[B backend.Backend, E any] interface {
	IsExtra(data B) bool
	EncodeExtra(extra E) B
	DecodeExtra(data B) E
	EncodePtr(addr uintptr) B
	DecodePtr(data B) uintptr
}

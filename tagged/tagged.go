// Package tagged packs a pointer together with a small tag in one backend
// value. Unlike stuffed.Ptr, a tagged.Ptr always holds a pointer; the tag
// rides along in bits the address does not use.
package tagged

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/chazu/stuff/backend"
	"github.com/chazu/stuff/provenance"
)

// Strategy places an address and a tag of type G in a backend B.
// Addr(Set(a, g)) must equal a and Tag(Set(a, g)) must equal g for every
// address and tag Set accepts; Set panics on anything else.
type Strategy[B backend.Backend, G any] interface {
	Tag(data B) G
	Addr(data B) uintptr
	Set(addr uintptr, tag G) B
}

// Ptr is a pointer to a T carrying a tag of type G.
type Ptr[T any, S Strategy[B, G], B backend.Backend, G any] struct {
	data B
}

// New tags p. Like stuffed.FromPtr it exposes p so Pointer can recover it,
// and panics if B or S cannot represent p's address. The Ptr does not keep
// *p alive.
func New[T any, S Strategy[B, G], B backend.Backend, G any](p *T, tag G) Ptr[T, S, B, G] {
	backend.MustHoldAddress[B]()
	var s S
	addr := provenance.Expose(p)
	return Ptr[T, S, B, G]{data: s.Set(addr, tag)}
}

// Pointer returns the tagged pointer, or nil once the pointee has been
// collected.
func (p Ptr[T, S, B, G]) Pointer() *T {
	var s S
	return provenance.Recover[T](s.Addr(p.data))
}

// Tag returns the tag.
func (p Ptr[T, S, B, G]) Tag() G {
	var s S
	return s.Tag(p.data)
}

// WithTag returns a copy of p with a different tag and the same pointer.
func (p Ptr[T, S, B, G]) WithTag(tag G) Ptr[T, S, B, G] {
	var s S
	return Ptr[T, S, B, G]{data: s.Set(s.Addr(p.data), tag)}
}

// Bits returns the raw backend value.
func (p Ptr[T, S, B, G]) Bits() B { return p.data }

// Hash returns a hash of the backend bits.
func (p Ptr[T, S, B, G]) Hash() uint64 {
	data := p.data
	return xxhash.Sum64(backend.Bytes(&data))
}

func (p Ptr[T, S, B, G]) String() string {
	var s S
	return fmt.Sprintf("tagged.Ptr{%#x, %v}", s.Addr(p.data), s.Tag(p.data))
}

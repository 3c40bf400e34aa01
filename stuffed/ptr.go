package stuffed

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/chazu/stuff/backend"
	"github.com/chazu/stuff/provenance"
)

// Ptr holds either a pointer to a T or an extra value of type E, packed into
// a backend B by strategy S.
//
// A Ptr is a plain value. Copying it copies the backend bits; == compares
// them. It does not own the pointee and never frees, finalizes or
// dereferences it.
type Ptr[T any, S Strategy[B, E], B backend.Backend, E any] struct {
	data B
}

// Word is a Ptr stored in a pointer-sized backend.
type Word[T any, S Strategy[uintptr, E], E any] = Ptr[T, S, uintptr, E]

// State is the variant a Ptr currently holds.
type State uint8

const (
	HoldingPointer State = iota
	HoldingExtra
)

func (s State) String() string {
	if s == HoldingExtra {
		return "extra"
	}
	return "pointer"
}

// FromExtra packs extra data.
func FromExtra[T any, S Strategy[B, E], B backend.Backend, E any](extra E) Ptr[T, S, B, E] {
	var s S
	return Ptr[T, S, B, E]{data: s.EncodeExtra(extra)}
}

// FromPtr packs p. The pointer is exposed through the provenance package so
// that Pointer can hand back the original pointer later. The Ptr does not
// keep *p alive; the caller must.
//
// FromPtr panics if B is narrower than an address or if the strategy cannot
// encode p's address. Both mean the wrong backend or strategy was chosen for
// the platform.
func FromPtr[T any, S Strategy[B, E], B backend.Backend, E any](p *T) Ptr[T, S, B, E] {
	backend.MustHoldAddress[B]()
	var s S
	addr := provenance.Expose(p)
	return Ptr[T, S, B, E]{data: s.EncodePtr(addr)}
}

// FromBits wraps raw backend bits, for example ones previously obtained from
// Bits. Pointers are only recoverable if their address is still exposed.
func FromBits[T any, S Strategy[B, E], B backend.Backend, E any](data B) Ptr[T, S, B, E] {
	return Ptr[T, S, B, E]{data: data}
}

// Bits returns the raw backend value.
func (p Ptr[T, S, B, E]) Bits() B { return p.data }

// IsExtra reports whether p holds extra data.
func (p Ptr[T, S, B, E]) IsExtra() bool {
	var s S
	return s.IsExtra(p.data)
}

// IsPointer reports whether p holds a pointer.
func (p Ptr[T, S, B, E]) IsPointer() bool { return !p.IsExtra() }

// State returns the variant p holds.
func (p Ptr[T, S, B, E]) State() State {
	if p.IsExtra() {
		return HoldingExtra
	}
	return HoldingPointer
}

// CopyExtra returns the extra data, or false if p holds a pointer.
func (p Ptr[T, S, B, E]) CopyExtra() (E, bool) {
	if !p.IsExtra() {
		var zero E
		return zero, false
	}
	return p.ExtraUnchecked(), true
}

// ExtraUnchecked decodes the extra data without consulting the strategy's
// classifier. The result is meaningless if p holds a pointer.
func (p Ptr[T, S, B, E]) ExtraUnchecked() E {
	var s S
	return s.DecodeExtra(p.data)
}

// Pointer returns the stored pointer, or false if p holds extra data.
// The pointer comes back as nil once its pointee has been collected or its
// address released from the provenance table.
func (p Ptr[T, S, B, E]) Pointer() (*T, bool) {
	if p.IsExtra() {
		return nil, false
	}
	return p.PointerUnchecked(), true
}

// PointerUnchecked recovers the pointer without consulting the strategy's
// classifier. The result is meaningless if p holds extra data.
func (p Ptr[T, S, B, E]) PointerUnchecked() *T {
	return provenance.Recover[T](p.addr())
}

func (p Ptr[T, S, B, E]) addr() uintptr {
	var s S
	return s.DecodePtr(p.data)
}

// Hash returns a hash of the decoded content: the re-encoded extra, or the
// address. Ptrs that are == or Equal hash equally.
func (p Ptr[T, S, B, E]) Hash() uint64 {
	var s S
	d := xxhash.New()
	if p.IsExtra() {
		data := s.EncodeExtra(s.DecodeExtra(p.data))
		d.Write([]byte{byte(HoldingExtra)})
		d.Write(backend.Bytes(&data))
	} else {
		addr := p.addr()
		d.Write([]byte{byte(HoldingPointer)})
		d.Write(backend.Bytes(&addr))
	}
	return d.Sum64()
}

func (p Ptr[T, S, B, E]) String() string {
	if e, ok := p.CopyExtra(); ok {
		return fmt.Sprintf("stuffed.Extra{%v}", e)
	}
	return fmt.Sprintf("stuffed.Ptr{%#x}", p.addr())
}

// Equal compares two Ptrs by content: extras with ==, pointers by address.
// Unlike ==, it sees through strategies that have several encodings for one
// extra value.
func Equal[T any, S Strategy[B, E], B backend.Backend, E comparable](a, b Ptr[T, S, B, E]) bool {
	ae, aExtra := a.CopyExtra()
	be, bExtra := b.CopyExtra()
	switch {
	case aExtra && bExtra:
		return ae == be
	case !aExtra && !bExtra:
		return a.addr() == b.addr()
	default:
		return false
	}
}

package stuffed

import (
	"errors"
	"fmt"

	"github.com/chazu/stuff/backend"
)

// ErrContract is matched by *ContractError.
var ErrContract = errors.New("strategy contract violated")

// Violation names the part of the Strategy contract that failed.
type Violation uint8

const (
	ExtraMisclassified Violation = iota + 1
	ExtraRoundTrip
	PointerMisclassified
	PointerRoundTrip
)

var violationNames = map[Violation]string{
	ExtraMisclassified:   "encoded extra classified as pointer",
	ExtraRoundTrip:       "extra does not survive encode/decode",
	PointerMisclassified: "encoded pointer classified as extra",
	PointerRoundTrip:     "address does not survive encode/decode",
}

func (v Violation) String() string {
	if s, ok := violationNames[v]; ok {
		return s
	}
	return fmt.Sprintf("Violation(%d)", uint8(v))
}

// ContractError describes the first contract violation CheckStrategy found.
type ContractError struct {
	Violation Violation
	Extra     any     // offending extra, if any
	Addr      uintptr // offending address, if any
	Bits      any     // backend value involved
}

func (e *ContractError) Error() string {
	switch e.Violation {
	case ExtraMisclassified, ExtraRoundTrip:
		return fmt.Sprintf("stuffed: %s: extra %v -> %v", e.Violation, e.Extra, e.Bits)
	case PointerMisclassified, PointerRoundTrip:
		return fmt.Sprintf("stuffed: %s: addr %#x -> %v", e.Violation, e.Addr, e.Bits)
	default:
		return fmt.Sprintf("stuffed: %s", e.Violation)
	}
}

func (e *ContractError) Is(target error) bool { return target == ErrContract }

// CheckStrategy exercises S against sample extras and addresses. eq decides
// whether a decoded extra matches the original. A nil eq compares with ==,
// which panics if E is not comparable.
//
// Addresses must be inside the strategy's encodable domain; EncodePtr is
// allowed to panic on anything else.
//
// IsExtra is pure, so the two classification checks together also rule out
// an extra and an address sharing a bit pattern.
func CheckStrategy[S Strategy[B, E], B backend.Backend, E any](extras []E, addrs []uintptr, eq func(a, b E) bool) error {
	if eq == nil {
		eq = func(a, b E) bool { return any(a) == any(b) }
	}
	var s S

	for _, x := range extras {
		data := s.EncodeExtra(x)
		if !s.IsExtra(data) {
			return &ContractError{Violation: ExtraMisclassified, Extra: x, Bits: data}
		}
		if got := s.DecodeExtra(data); !eq(got, x) {
			return &ContractError{Violation: ExtraRoundTrip, Extra: x, Bits: data}
		}
	}

	for _, a := range addrs {
		data := s.EncodePtr(a)
		if s.IsExtra(data) {
			return &ContractError{Violation: PointerMisclassified, Addr: a, Bits: data}
		}
		if got := s.DecodePtr(data); got != a {
			return &ContractError{Violation: PointerRoundTrip, Addr: a, Bits: data}
		}
	}
	return nil
}

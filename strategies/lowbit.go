package strategies

// Fixnum range of LowBit: one bit narrower than int.
const (
	MaxFixnum = int(^uint(0) >> 2)
	MinFixnum = -MaxFixnum - 1
)

// LowBit is low-bit tagging in a pointer-sized word: odd words hold a fixnum
// shifted left by one, even words hold the address of 2-aligned memory.
type LowBit struct{}

func (LowBit) IsExtra(data uintptr) bool { return data&1 == 1 }

// EncodeExtra panics with a *RangeError if n is outside
// [MinFixnum, MaxFixnum].
func (LowBit) EncodeExtra(n int) uintptr {
	if n > MaxFixnum || n < MinFixnum {
		panic(&RangeError{Value: int64(n), Min: int64(MinFixnum), Max: int64(MaxFixnum)})
	}
	return uintptr(n)<<1 | 1
}

func (LowBit) DecodeExtra(data uintptr) int {
	return int(data) >> 1
}

// EncodePtr panics with a *MisalignedError for odd addresses.
func (LowBit) EncodePtr(addr uintptr) uintptr {
	if addr&1 != 0 {
		panic(&MisalignedError{Addr: addr, Align: 2})
	}
	return addr
}

func (LowBit) DecodePtr(data uintptr) uintptr { return data }

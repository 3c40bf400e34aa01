package backend

import "fmt"

// Uint128 is a 128-bit unsigned backend. Go has no native 128-bit integer,
// so the value is kept as two 64-bit halves.
type Uint128 struct {
	Hi, Lo uint64
}

// U128From64 widens v to 128 bits.
func U128From64(v uint64) Uint128 { return Uint128{Lo: v} }

// MaxUint128 returns the all-ones value.
func MaxUint128() Uint128 { return Uint128{Hi: ^uint64(0), Lo: ^uint64(0)} }

func (u Uint128) And(v Uint128) Uint128    { return Uint128{u.Hi & v.Hi, u.Lo & v.Lo} }
func (u Uint128) Or(v Uint128) Uint128     { return Uint128{u.Hi | v.Hi, u.Lo | v.Lo} }
func (u Uint128) AndNot(v Uint128) Uint128 { return Uint128{u.Hi &^ v.Hi, u.Lo &^ v.Lo} }
func (u Uint128) Not() Uint128             { return Uint128{^u.Hi, ^u.Lo} }
func (u Uint128) IsZero() bool             { return u.Hi == 0 && u.Lo == 0 }

// Uint64 returns the low 64 bits and whether the high half was zero.
func (u Uint128) Uint64() (uint64, bool) {
	return u.Lo, u.Hi == 0
}

// Lsh shifts u left by n bits.
func (u Uint128) Lsh(n uint) Uint128 {
	switch {
	case n == 0:
		return u
	case n >= 128:
		return Uint128{}
	case n >= 64:
		return Uint128{Hi: u.Lo << (n - 64)}
	default:
		return Uint128{Hi: u.Hi<<n | u.Lo>>(64-n), Lo: u.Lo << n}
	}
}

// Rsh shifts u right by n bits.
func (u Uint128) Rsh(n uint) Uint128 {
	switch {
	case n == 0:
		return u
	case n >= 128:
		return Uint128{}
	case n >= 64:
		return Uint128{Lo: u.Hi >> (n - 64)}
	default:
		return Uint128{Hi: u.Hi >> n, Lo: u.Lo>>n | u.Hi<<(64-n)}
	}
}

func (u Uint128) String() string {
	if u.Hi == 0 {
		return fmt.Sprintf("%#x", u.Lo)
	}
	return fmt.Sprintf("%#x%016x", u.Hi, u.Lo)
}

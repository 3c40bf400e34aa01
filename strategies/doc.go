// Package strategies contains ready-made bit layouts for stuffed.Ptr.
//
// None of them is a default; pick the one whose layout matches the data:
//   - NaNBox: float64 extras, pointers in negative quiet NaN space
//   - ImmediateBox: floats, 48-bit ints, nil/true/false and symbols
//   - LowBit: fixnums in odd words, aligned pointers in even words
//   - Unit, Unit128: pointers only
//   - MaxSentinel: a pointer or a single all-ones marker
package strategies

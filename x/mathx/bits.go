package mathx

import "golang.org/x/exp/constraints"

// LowMask returns a value with the low width bits set.
func LowMask[T constraints.Unsigned](width uint8) T {
	var zero T
	if int(width) >= bitsOf(zero) {
		return ^zero
	}
	return T(1)<<width - 1
}

// Extract returns the width-bit field of v starting at shift.
func Extract[T constraints.Unsigned](v T, shift, width uint8) T {
	return (v >> shift) & LowMask[T](width)
}

// Insert replaces the width-bit field of v at shift with f.
// Bits of f above width are dropped.
func Insert[T constraints.Unsigned](v T, shift, width uint8, f T) T {
	m := LowMask[T](width) << shift
	return (v &^ m) | ((f << shift) & m)
}

func bitsOf[T constraints.Unsigned](v T) int {
	n := 0
	for x := ^v; x != 0; x >>= 1 {
		n++
	}
	return n
}

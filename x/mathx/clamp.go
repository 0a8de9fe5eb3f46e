package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SatSub returns a-b, floored at the zero value instead of wrapping.
func SatSub[T constraints.Unsigned](a, b T) T {
	if a <= b {
		return 0
	}
	return a - b
}

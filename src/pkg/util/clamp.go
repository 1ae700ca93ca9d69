package util

import (
	"cmp"
	"math"
)

// Clamp clamps val to the range [min, max] for any ordered type.
func Clamp[T cmp.Ordered](val, min, max T) T {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// RoundToByte rounds v half away from zero and saturates it to 0..255.
func RoundToByte(v float64) uint8 {
	return uint8(Clamp(math.Round(v), 0, 255))
}

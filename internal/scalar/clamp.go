// Package scalar holds the bounded-float helpers shared by agents and tribes.
package scalar

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Unit limits v to [0, 1].
func Unit[T constraints.Float](v T) T {
	return Clamp(v, 0, 1)
}

// Signed limits v to [-1, 1].
func Signed[T constraints.Float](v T) T {
	return Clamp(v, -1, 1)
}

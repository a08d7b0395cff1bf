package util

import "golang.org/x/exp/constraints"

func IfThenElse[T any](condition bool, a T, b T) T {
	if condition {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a T, b T) T {
	if a > b {
		return a
	}
	return b
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v T, lo T, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func MakeMatrix2D[T any](a int, b int) [][]T {
	matrix := make([][]T, a)
	for i := range matrix {
		matrix[i] = make([]T, b)
	}
	return matrix
}

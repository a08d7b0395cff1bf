package util

import (
	"math"
	"testing"
)

func matricesClose(a, b [][]float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if math.Abs(a[i][j]-b[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

func TestTransposeMatrix(t *testing.T) {
	m := [][]float64{{1, 2, 3}, {4, 5, 6}}
	mt := TransposeMatrix(m)
	if len(mt) != 3 || len(mt[0]) != 2 {
		t.Fatalf("transpose shape is %dx%d; want 3x2", len(mt), len(mt[0]))
	}
	if mt[2][1] != 6 || mt[0][1] != 4 {
		t.Errorf("transpose values wrong: %v", mt)
	}
}

func TestInvertMatrix3x3(t *testing.T) {
	m := [][]float64{
		{2, 0, 0},
		{0, 4, 0},
		{1, 0, 1},
	}
	inv, err := InvertMatrix3x3(m)
	if err != nil {
		t.Fatal(err)
	}
	product, err := MatrixMatrixMultiply(m, inv)
	if err != nil {
		t.Fatal(err)
	}
	identity := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	if !matricesClose(product, identity, 1e-12) {
		t.Errorf("m * inv(m) = %v; want identity", product)
	}
}

func TestInvertSingularMatrix(t *testing.T) {
	m := [][]float64{
		{1, 2, 3},
		{2, 4, 6},
		{0, 0, 1},
	}
	if _, err := InvertMatrix3x3(m); err == nil {
		t.Error("expected error for singular matrix")
	}
}

func TestMatrixVectorMultiply(t *testing.T) {
	m := [][]float64{{1, 0, 2}, {0, 3, 0}}
	v := []float64{1, 2, 3}
	out, err := MatrixVectorMultiply(m, v)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 7 || out[1] != 6 {
		t.Errorf("got %v; want [7 6]", out)
	}

	if _, err := MatrixVectorMultiply(m, []float64{1, 2}); err == nil {
		t.Error("expected error for size mismatch")
	}
}

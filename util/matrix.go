package util

import "errors"

// Small dense matrix helpers used by the color conversion code. Everything
// here works on [][]float64 in row-major order.

func TransposeMatrix(m [][]float64) [][]float64 {
	rows := len(m)
	cols := len(m[0])
	out := MakeMatrix2D[float64](cols, rows)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// InvertMatrix3x3 inverts a 3x3 matrix via the adjugate.
func InvertMatrix3x3(m [][]float64) ([][]float64, error) {
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	if det == 0 {
		return nil, errors.New("singular matrix")
	}
	inv := 1.0 / det
	out := MakeMatrix2D[float64](3, 3)
	out[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * inv
	out[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * inv
	out[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * inv
	out[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * inv
	out[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * inv
	out[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * inv
	out[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * inv
	out[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * inv
	out[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * inv
	return out, nil
}

func MatrixVectorMultiply(m [][]float64, v []float64) ([]float64, error) {
	if len(m[0]) != len(v) {
		return nil, errors.New("matrix and vector sizes do not match")
	}
	out := make([]float64, len(m))
	for i := range m {
		for j := range v {
			out[i] += m[i][j] * v[j]
		}
	}
	return out, nil
}

func MatrixMatrixMultiply(a [][]float64, b [][]float64) ([][]float64, error) {
	if len(a[0]) != len(b) {
		return nil, errors.New("matrix sizes do not match")
	}
	out := MakeMatrix2D[float64](len(a), len(b[0]))
	for i := range a {
		for j := range b[0] {
			for k := range b {
				out[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return out, nil
}

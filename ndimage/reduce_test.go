package ndimage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fillLinear writes v = x + 2y + 4z into a {2,2,2} scalar image.
func fillLinear(t *testing.T, img *Image) {
	t.Helper()
	for z := 0; z < 2; z++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				err := img.SetSample([]int{x, y, z}, 0, complex(float64(x+2*y+4*z), 0))
				assert.Nil(t, err)
			}
		}
	}
}

func TestMaximum(t *testing.T) {
	img, _ := New(DT_SFLOAT, []int{2, 2, 2}, 1)
	fillLinear(t, img)

	out, err := Maximum(img, []bool{false, false, true})
	assert.Nil(t, err)
	assert.Equal(t, []int{2, 2, 1}, out.Sizes())
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			v, _ := out.Sample([]int{x, y, 0}, 0)
			want := float64(x + 2*y + 4)
			if real(v) != want {
				t.Errorf("max at (%d,%d): got %v, want %v", x, y, real(v), want)
			}
		}
	}
}

func TestMaximumRejectsComplex(t *testing.T) {
	img, _ := New(DT_DCOMPLEX, []int{2}, 1)
	_, err := Maximum(img, []bool{true})
	assert.NotNil(t, err)
}

func TestMaximumRejectsBadProcessArray(t *testing.T) {
	img, _ := New(DT_SFLOAT, []int{2, 2}, 1)
	_, err := Maximum(img, []bool{true})
	assert.NotNil(t, err)
}

func TestMaximumAbsKeepsArgMaxValue(t *testing.T) {
	img, _ := New(DT_DCOMPLEX, []int{3}, 1)
	img.SetSample([]int{0}, 0, complex(0, 1))
	img.SetSample([]int{1}, 0, complex(3, 4))
	img.SetSample([]int{2}, 0, complex(-2, 0))

	out, err := MaximumAbs(img, []bool{true})
	assert.Nil(t, err)
	v, _ := out.Sample([]int{0}, 0)
	assert.Equal(t, complex(3, 4), v)
}

func TestMaximumAbsRealNegatives(t *testing.T) {
	img, _ := New(DT_SFLOAT, []int{2}, 1)
	img.SetSample([]int{0}, 0, complex(-5, 0))
	img.SetSample([]int{1}, 0, complex(3, 0))

	out, err := MaximumAbs(img, []bool{true})
	assert.Nil(t, err)
	v, _ := out.Sample([]int{0}, 0)
	assert.Equal(t, complex128(-5), v)
}

func TestMean(t *testing.T) {
	img, _ := New(DT_UINT8, []int{2, 2, 2}, 1)
	fillLinear(t, img)

	out, err := Mean(img, []bool{false, false, true})
	assert.Nil(t, err)
	assert.Equal(t, DT_DFLOAT, out.DataType())
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			v, _ := out.Sample([]int{x, y, 0}, 0)
			want := float64(x+2*y) + 2
			if real(v) != want {
				t.Errorf("mean at (%d,%d): got %v, want %v", x, y, real(v), want)
			}
		}
	}
}

func TestMeanComplex(t *testing.T) {
	img, _ := New(DT_DCOMPLEX, []int{2}, 1)
	img.SetSample([]int{0}, 0, complex(1, 2))
	img.SetSample([]int{1}, 0, complex(3, 6))

	out, err := Mean(img, []bool{true})
	assert.Nil(t, err)
	assert.Equal(t, DT_DCOMPLEX, out.DataType())
	v, _ := out.Sample([]int{0}, 0)
	assert.Equal(t, complex(2, 4), v)
}

func TestMeanMultipleDimensions(t *testing.T) {
	img, _ := New(DT_SFLOAT, []int{2, 2, 2}, 1)
	fillLinear(t, img)

	out, err := Mean(img, []bool{true, true, true})
	assert.Nil(t, err)
	v, _ := out.Sample([]int{0, 0, 0}, 0)
	assert.Equal(t, 3.5, real(v))
}

func TestReduceTensorImage(t *testing.T) {
	img, _ := New(DT_SFLOAT, []int{2, 2}, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetSample([]int{x, y}, 0, complex(float64(x), 0))
			img.SetSample([]int{x, y}, 1, complex(float64(10+y), 0))
		}
	}
	out, err := Maximum(img, []bool{true, false})
	assert.Nil(t, err)
	assert.Equal(t, 2, out.TensorElements())
	v, _ := out.Sample([]int{0, 1}, 0)
	assert.Equal(t, 1.0, real(v))
	v, _ = out.Sample([]int{0, 1}, 1)
	assert.Equal(t, 11.0, real(v))
}

package display

import (
	"math"
	"testing"

	"github.com/kpfaulkner/ndview-go/ndimage"
	"github.com/stretchr/testify/assert"
)

func TestClampCast(t *testing.T) {
	tests := []struct {
		input    float64
		expected uint8
	}{
		{-10, 0},
		{0, 0},
		{0.9, 0},
		{1, 1},
		{127.5, 127},
		{254.9, 254},
		{255, 255},
		{1000, 255},
		{math.NaN(), 0},
		{math.Inf(1), 255},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		if got := clampCast(tt.input); got != tt.expected {
			t.Errorf("clampCast(%v) = %d; want %d", tt.input, got, tt.expected)
		}
	}
}

func TestLinearScaling(t *testing.T) {
	p := newScalingParams(MappingManual, Limits{Lower: 10, Upper: 20})
	if got := p.mapValue(10); got != 0 {
		t.Errorf("lower bound maps to %d; want 0", got)
	}
	if got := p.mapValue(20); got != 255 {
		t.Errorf("upper bound maps to %d; want 255", got)
	}
	if got := p.mapValue(15); got != 127 {
		t.Errorf("midpoint maps to %d; want 127", got)
	}
	if got := p.mapValue(5); got != 0 {
		t.Errorf("below range maps to %d; want 0", got)
	}
	if got := p.mapValue(25); got != 255 {
		t.Errorf("above range maps to %d; want 255", got)
	}
}

func TestLogarithmicScaling(t *testing.T) {
	p := newScalingParams(MappingLogarithmic, Limits{Lower: 0, Upper: 100})
	low := p.mapValue(0)
	high := p.mapValue(100)
	assert.Equal(t, uint8(0), low)
	assert.InDelta(t, 255, float64(high), 1)

	// Monotonic, and the curve sits above the linear ramp.
	prev := uint8(0)
	for v := 0.0; v <= 100; v += 5 {
		b := p.mapValue(v)
		if b < prev {
			t.Fatalf("log mapping not monotonic at %v", v)
		}
		prev = b
	}
	linear := newScalingParams(MappingManual, Limits{Lower: 0, Upper: 100})
	if p.mapValue(10) <= linear.mapValue(10) {
		t.Error("log mapping should lift low values above the linear ramp")
	}
}

func TestModuloScaling(t *testing.T) {
	p := newScalingParams(MappingModulo, Limits{Lower: 0, Upper: 255})
	tests := []struct {
		input    float64
		expected uint8
	}{
		{0, 0},
		{1, 1},
		{255, 255},
		{256, 1},
		{510, 255},
		{511, 1},
		{-1, 254},
	}
	for _, tt := range tests {
		if got := p.mapValue(tt.input); got != tt.expected {
			t.Errorf("modulo(%v) = %d; want %d", tt.input, got, tt.expected)
		}
	}

	// Wrap invariance: byte(v) == byte(v + 255k) for v != 0.
	for _, v := range []float64{1, 17, 100, 254} {
		base := p.mapValue(v)
		for k := 1; k <= 3; k++ {
			if got := p.mapValue(v + float64(255*k)); got != base {
				t.Errorf("modulo(%v + 255*%d) = %d; want %d", v, k, got, base)
			}
		}
	}
}

func TestCastToUint8AllTypes(t *testing.T) {
	params := newScalingParams(MappingManual, Limits{Lower: 0, Upper: 255})
	for _, dtype := range []ndimage.DataType{
		ndimage.DT_UINT8, ndimage.DT_UINT16, ndimage.DT_UINT32, ndimage.DT_UINT64,
		ndimage.DT_INT8, ndimage.DT_INT16, ndimage.DT_INT32, ndimage.DT_INT64,
		ndimage.DT_SFLOAT, ndimage.DT_DFLOAT,
	} {
		img, err := ndimage.New(dtype, []int{3}, 1)
		assert.Nil(t, err)
		for ii, v := range []float64{0, 100, 127} {
			assert.Nil(t, img.SetSample([]int{ii}, 0, complex(v, 0)))
		}
		out, err := ndimage.New(ndimage.DT_UINT8, []int{3}, 1)
		assert.Nil(t, err)
		assert.Nil(t, castToUint8(img, out, false, params))
		for ii, want := range []float64{0, 100, 127} {
			v, _ := out.Sample([]int{ii}, 0)
			if real(v) != want {
				t.Errorf("%v sample %d: got %v, want %v", dtype, ii, real(v), want)
			}
		}
	}
}

func TestCastComplexMagnitudeAndPhase(t *testing.T) {
	img, _ := ndimage.New(ndimage.DT_DCOMPLEX, []int{1}, 1)
	img.SetSample([]int{0}, 0, complex(3, 4))
	params := newScalingParams(MappingManual, Limits{Lower: 0, Upper: 5})

	out, _ := ndimage.New(ndimage.DT_UINT8, []int{1}, 1)
	assert.Nil(t, castToUint8(img, out, false, params))
	v, _ := out.Sample([]int{0}, 0)
	assert.Equal(t, 255.0, real(v))

	assert.Nil(t, castToUint8(img, out, true, params))
	v, _ = out.Sample([]int{0}, 0)
	assert.Equal(t, float64(uint8(math.Atan2(4, 3)*51)), real(v))
}

func TestComplexReducer(t *testing.T) {
	v := complex(3.0, 4.0)
	assert.Equal(t, 5.0, complexReducer(ndimage.DT_DCOMPLEX, ComplexMagnitude)(v))
	assert.Equal(t, 3.0, complexReducer(ndimage.DT_DCOMPLEX, ComplexReal)(v))
	assert.Equal(t, 4.0, complexReducer(ndimage.DT_DCOMPLEX, ComplexImag)(v))
	assert.InDelta(t, math.Atan2(4, 3), complexReducer(ndimage.DT_DCOMPLEX, ComplexPhase)(v), 1e-12)
	// Real data types pass through regardless of mode.
	assert.Equal(t, 3.0, complexReducer(ndimage.DT_SFLOAT, ComplexMagnitude)(v))
}

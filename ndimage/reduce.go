package ndimage

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// reduction output geometry: reduced dimensions collapse to size 1, the
// others keep their extent. The result is dense, so an output sample's
// backing offset doubles as its linear index.
func reducedGeometry(img *Image, process []bool) ([]int, error) {
	if !img.IsForged() {
		return nil, errors.New("image not forged")
	}
	if len(process) != len(img.sizes) {
		return nil, fmt.Errorf("got %d process flags for a %d-dimensional image", len(process), len(img.sizes))
	}
	outSizes := make([]int, len(img.sizes))
	for ii, sz := range img.sizes {
		if process[ii] {
			outSizes[ii] = 1
		} else {
			outSizes[ii] = sz
		}
	}
	return outSizes, nil
}

// eachSpatialCoord walks all spatial coordinates, passing the coordinates and
// the backing offset of each pixel's first tensor element.
func (img *Image) eachSpatialCoord(fn func(coords []int, off int)) {
	nDims := len(img.sizes)
	coords := make([]int, nDims)
	off := img.offset
	for {
		fn(coords, off)
		ii := 0
		for ; ii < nDims; ii++ {
			coords[ii]++
			off += img.strides[ii]
			if coords[ii] < img.sizes[ii] {
				break
			}
			off -= coords[ii] * img.strides[ii]
			coords[ii] = 0
		}
		if ii == nDims {
			return
		}
	}
}

func reduce(img *Image, process []bool, outType DataType,
	init func(n int) ([]complex128, []float64),
	accumulate func(vals []complex128, keys []float64, idx int, v complex128),
	finish func(vals []complex128, idx int) complex128) (*Image, error) {

	outSizes, err := reducedGeometry(img, process)
	if err != nil {
		return nil, err
	}
	out, err := New(outType, outSizes, img.tensorLen)
	if err != nil {
		return nil, err
	}
	out.colorSpace = img.colorSpace
	n := out.NumberOfSamples()
	vals, keys := init(n)
	img.eachSpatialCoord(func(coords []int, off int) {
		outOff := 0
		for ii, c := range coords {
			if !process[ii] {
				outOff += c * out.strides[ii]
			}
		}
		for t := 0; t < img.tensorLen; t++ {
			idx := outOff + t*out.tensorStride
			accumulate(vals, keys, idx, img.readSample(off+t*img.tensorStride))
		}
	})
	for ii := 0; ii < n; ii++ {
		out.writeSample(ii, finish(vals, ii))
	}
	return out, nil
}

// Maximum reduces the dimensions flagged in process by taking the maximum
// sample value. Not defined for complex images; use MaximumAbs there.
func Maximum(img *Image, process []bool) (*Image, error) {
	if img.IsForged() && img.dtype.IsComplex() {
		return nil, errors.New("maximum is not defined for complex samples")
	}
	return reduce(img, process, img.dtype,
		func(n int) ([]complex128, []float64) {
			keys := make([]float64, n)
			for ii := range keys {
				keys[ii] = math.Inf(-1)
			}
			return make([]complex128, n), keys
		},
		func(vals []complex128, keys []float64, idx int, v complex128) {
			if real(v) > keys[idx] {
				keys[idx] = real(v)
				vals[idx] = v
			}
		},
		func(vals []complex128, idx int) complex128 { return vals[idx] })
}

// MaximumAbs reduces like Maximum but compares samples by magnitude, keeping
// the original (possibly complex) value at the arg-max position. This is the
// projection used for complex images, where a plain maximum is undefined.
func MaximumAbs(img *Image, process []bool) (*Image, error) {
	return reduce(img, process, img.dtype,
		func(n int) ([]complex128, []float64) {
			keys := make([]float64, n)
			for ii := range keys {
				keys[ii] = math.Inf(-1)
			}
			return make([]complex128, n), keys
		},
		func(vals []complex128, keys []float64, idx int, v complex128) {
			if m := cmplx.Abs(v); m > keys[idx] {
				keys[idx] = m
				vals[idx] = v
			}
		},
		func(vals []complex128, idx int) complex128 { return vals[idx] })
}

// Mean reduces the dimensions flagged in process by arithmetic mean. The
// result is dfloat, or dcomplex for complex input.
func Mean(img *Image, process []bool) (*Image, error) {
	outType := DT_DFLOAT
	if img.IsForged() && img.dtype.IsComplex() {
		outType = DT_DCOMPLEX
	}
	count := 1.0
	if img.IsForged() && len(process) == len(img.sizes) {
		for ii, p := range process {
			if p {
				count *= float64(img.sizes[ii])
			}
		}
	}
	return reduce(img, process, outType,
		func(n int) ([]complex128, []float64) {
			return make([]complex128, n), nil
		},
		func(vals []complex128, _ []float64, idx int, v complex128) {
			vals[idx] += v
		},
		func(vals []complex128, idx int) complex128 {
			return vals[idx] / complex(count, 0)
		})
}

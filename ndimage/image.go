package ndimage

import (
	"errors"
	"fmt"
)

// Image is an n-dimensional strided view over a typed sample buffer. Views
// created by At, PermuteDimensions and TensorElement share the backing slice
// with their source and never outlive it; they carry only their own geometry
// (sizes, strides, offset). Only reductions and color conversions allocate
// new sample data.
//
// The default layout interleaves tensor elements: the tensor stride is 1 and
// the stride of dimension 0 equals the number of tensor elements, with
// dimension 0 varying fastest.
type Image struct {
	sizes        []int
	strides      []int
	tensorLen    int
	tensorStride int
	offset       int
	dtype        DataType
	colorSpace   string
	data         any
}

// New creates a dense image with zeroed samples.
func New(dtype DataType, sizes []int, tensorElems int) (*Image, error) {
	if len(sizes) < 1 {
		return nil, errors.New("image must have at least one dimension")
	}
	if tensorElems < 1 {
		return nil, errors.New("image must have at least one tensor element")
	}
	n := tensorElems
	for _, sz := range sizes {
		if sz < 1 {
			return nil, fmt.Errorf("illegal image size %d", sz)
		}
		n *= sz
	}
	data := dtype.allocate(n)
	if data == nil {
		return nil, fmt.Errorf("unknown data type %v", dtype)
	}
	img := &Image{
		sizes:     append([]int(nil), sizes...),
		tensorLen: tensorElems,
		dtype:     dtype,
		data:      data,
	}
	img.setDefaultStrides()
	return img, nil
}

// NewFromData creates an image over an existing backing slice (one of the
// supported typed slices). The slice length must match the geometry exactly.
func NewFromData(sizes []int, tensorElems int, data any) (*Image, error) {
	dtype, ok := dataTypeOf(data)
	if !ok {
		return nil, fmt.Errorf("unsupported backing slice type %T", data)
	}
	if len(sizes) < 1 {
		return nil, errors.New("image must have at least one dimension")
	}
	if tensorElems < 1 {
		return nil, errors.New("image must have at least one tensor element")
	}
	n := tensorElems
	for _, sz := range sizes {
		if sz < 1 {
			return nil, fmt.Errorf("illegal image size %d", sz)
		}
		n *= sz
	}
	if lengthOf(data) != n {
		return nil, fmt.Errorf("backing slice has %d samples, geometry needs %d", lengthOf(data), n)
	}
	img := &Image{
		sizes:     append([]int(nil), sizes...),
		tensorLen: tensorElems,
		dtype:     dtype,
		data:      data,
	}
	img.setDefaultStrides()
	return img, nil
}

func (img *Image) setDefaultStrides() {
	img.strides = make([]int, len(img.sizes))
	img.tensorStride = 1
	stride := img.tensorLen
	for ii := range img.sizes {
		img.strides[ii] = stride
		stride *= img.sizes[ii]
	}
}

// IsForged reports whether the image has sample data.
func (img *Image) IsForged() bool {
	return img != nil && img.data != nil
}

func (img *Image) Dimensionality() int {
	return len(img.sizes)
}

func (img *Image) Size(dim int) int {
	return img.sizes[dim]
}

// Sizes returns a copy of the per-dimension sizes.
func (img *Image) Sizes() []int {
	return append([]int(nil), img.sizes...)
}

func (img *Image) Stride(dim int) int {
	return img.strides[dim]
}

func (img *Image) TensorElements() int {
	return img.tensorLen
}

func (img *Image) TensorStride() int {
	return img.tensorStride
}

func (img *Image) IsScalar() bool {
	return img.tensorLen == 1
}

func (img *Image) DataType() DataType {
	return img.dtype
}

func (img *Image) ColorSpace() string {
	return img.colorSpace
}

// SetColorSpace tags the image with a color space name. Purely a label; no
// sample data changes.
func (img *Image) SetColorSpace(name string) {
	img.colorSpace = name
}

// RawData returns the backing slice. Callers dispatching per data type switch
// on the concrete slice type and combine it with Offset and the strides.
func (img *Image) RawData() any {
	return img.data
}

// Offset returns the backing-slice index of the sample at the origin.
func (img *Image) Offset() int {
	return img.offset
}

// NumberOfSamples returns the total sample count of the view, tensor
// elements included.
func (img *Image) NumberOfSamples() int {
	n := img.tensorLen
	for _, sz := range img.sizes {
		n *= sz
	}
	return n
}

// sampleOffset computes the backing-slice index for the given spatial
// coordinates and tensor element.
func (img *Image) sampleOffset(coords []int, t int) (int, error) {
	if len(coords) != len(img.sizes) {
		return 0, fmt.Errorf("got %d coordinates for a %d-dimensional image", len(coords), len(img.sizes))
	}
	if t < 0 || t >= img.tensorLen {
		return 0, fmt.Errorf("tensor index %d out of range [0,%d)", t, img.tensorLen)
	}
	off := img.offset + t*img.tensorStride
	for ii, c := range coords {
		if c < 0 || c >= img.sizes[ii] {
			return 0, fmt.Errorf("coordinate %d out of range [0,%d) for dimension %d", c, img.sizes[ii], ii)
		}
		off += c * img.strides[ii]
	}
	return off, nil
}

// readSample returns the sample at a backing-slice index, widened to
// complex128. Binary samples read as 0 or 1.
func (img *Image) readSample(off int) complex128 {
	switch d := img.data.(type) {
	case []bool:
		if d[off] {
			return 1
		}
		return 0
	case []uint8:
		return complex(float64(d[off]), 0)
	case []uint16:
		return complex(float64(d[off]), 0)
	case []uint32:
		return complex(float64(d[off]), 0)
	case []uint64:
		return complex(float64(d[off]), 0)
	case []int8:
		return complex(float64(d[off]), 0)
	case []int16:
		return complex(float64(d[off]), 0)
	case []int32:
		return complex(float64(d[off]), 0)
	case []int64:
		return complex(float64(d[off]), 0)
	case []float32:
		return complex(float64(d[off]), 0)
	case []float64:
		return complex(d[off], 0)
	case []complex64:
		return complex128(d[off])
	case []complex128:
		return d[off]
	}
	return 0
}

// writeSample stores v at a backing-slice index, narrowing to the image's
// data type. Real types store the real part; binary stores real(v) != 0.
func (img *Image) writeSample(off int, v complex128) {
	switch d := img.data.(type) {
	case []bool:
		d[off] = real(v) != 0
	case []uint8:
		d[off] = uint8(real(v))
	case []uint16:
		d[off] = uint16(real(v))
	case []uint32:
		d[off] = uint32(real(v))
	case []uint64:
		d[off] = uint64(real(v))
	case []int8:
		d[off] = int8(real(v))
	case []int16:
		d[off] = int16(real(v))
	case []int32:
		d[off] = int32(real(v))
	case []int64:
		d[off] = int64(real(v))
	case []float32:
		d[off] = float32(real(v))
	case []float64:
		d[off] = real(v)
	case []complex64:
		d[off] = complex64(v)
	case []complex128:
		d[off] = v
	}
}

// Sample returns one sample, widened to complex128.
func (img *Image) Sample(coords []int, t int) (complex128, error) {
	if !img.IsForged() {
		return 0, errors.New("image not forged")
	}
	off, err := img.sampleOffset(coords, t)
	if err != nil {
		return 0, err
	}
	return img.readSample(off), nil
}

// SetSample stores one sample, narrowing to the image's data type.
func (img *Image) SetSample(coords []int, t int, v complex128) error {
	if !img.IsForged() {
		return errors.New("image not forged")
	}
	off, err := img.sampleOffset(coords, t)
	if err != nil {
		return err
	}
	img.writeSample(off, v)
	return nil
}

// eachSpatialOffset walks all spatial coordinates of the view (tensor
// excluded) and calls fn with the backing-slice offset of each pixel's first
// tensor element. Iteration order is dimension 0 fastest.
func (img *Image) eachSpatialOffset(fn func(off int)) {
	nDims := len(img.sizes)
	coords := make([]int, nDims)
	off := img.offset
	for {
		fn(off)
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

// EachSample calls fn once per sample (all tensor elements of all pixels),
// widened to complex128.
func (img *Image) EachSample(fn func(v complex128)) {
	img.eachSpatialOffset(func(off int) {
		for t := 0; t < img.tensorLen; t++ {
			fn(img.readSample(off + t*img.tensorStride))
		}
	})
}

// EachPixel calls fn once per pixel with its coordinates and all tensor
// samples widened to complex128. The two slices are reused between calls.
func (img *Image) EachPixel(fn func(coords []int, values []complex128)) {
	values := make([]complex128, img.tensorLen)
	img.eachSpatialCoord(func(coords []int, off int) {
		for t := 0; t < img.tensorLen; t++ {
			values[t] = img.readSample(off + t*img.tensorStride)
		}
		fn(coords, values)
	})
}

// Range selects samples along one dimension; Start and Stop are inclusive.
type Range struct {
	Start int
	Stop  int
}

// FullRange covers a whole dimension of the given size.
func FullRange(size int) Range {
	return Range{Start: 0, Stop: size - 1}
}

// At returns a zero-copy sub-view selected by one range per dimension.
func (img *Image) At(ranges []Range) (*Image, error) {
	if !img.IsForged() {
		return nil, errors.New("image not forged")
	}
	if len(ranges) != len(img.sizes) {
		return nil, fmt.Errorf("got %d ranges for a %d-dimensional image", len(ranges), len(img.sizes))
	}
	out := img.shallowCopy()
	for ii, r := range ranges {
		if r.Start < 0 || r.Stop >= img.sizes[ii] || r.Start > r.Stop {
			return nil, fmt.Errorf("range [%d,%d] out of bounds for dimension %d of size %d", r.Start, r.Stop, ii, img.sizes[ii])
		}
		out.offset += r.Start * img.strides[ii]
		out.sizes[ii] = r.Stop - r.Start + 1
	}
	return out, nil
}

// PermuteDimensions reorders (and possibly drops) dimensions. Every dimension
// not listed in order must have size 1; listed dimensions become the view's
// new dimensions, in the given order.
func (img *Image) PermuteDimensions(order []int) (*Image, error) {
	if !img.IsForged() {
		return nil, errors.New("image not forged")
	}
	if len(order) < 1 {
		return nil, errors.New("empty dimension order")
	}
	keep := make([]bool, len(img.sizes))
	for _, d := range order {
		if d < 0 || d >= len(img.sizes) {
			return nil, fmt.Errorf("illegal dimension %d", d)
		}
		if keep[d] {
			return nil, fmt.Errorf("dimension %d listed twice", d)
		}
		keep[d] = true
	}
	for ii, k := range keep {
		if !k && img.sizes[ii] != 1 {
			return nil, fmt.Errorf("cannot drop dimension %d of size %d", ii, img.sizes[ii])
		}
	}
	out := img.shallowCopy()
	out.sizes = make([]int, len(order))
	out.strides = make([]int, len(order))
	for ii, d := range order {
		out.sizes[ii] = img.sizes[d]
		out.strides[ii] = img.strides[d]
	}
	return out, nil
}

// View returns a header copy of the whole image: the backing slice is
// shared, the geometry and color space tag are independent. Mutating the
// view's metadata leaves the source untouched.
func (img *Image) View() *Image {
	return img.shallowCopy()
}

// TensorElement returns a zero-copy scalar view of one tensor element.
func (img *Image) TensorElement(t int) (*Image, error) {
	if !img.IsForged() {
		return nil, errors.New("image not forged")
	}
	if t < 0 || t >= img.tensorLen {
		return nil, fmt.Errorf("tensor index %d out of range [0,%d)", t, img.tensorLen)
	}
	out := img.shallowCopy()
	out.offset += t * img.tensorStride
	out.tensorLen = 1
	return out, nil
}

// Fill sets every sample of the view to v.
func (img *Image) Fill(v float64) error {
	if !img.IsForged() {
		return errors.New("image not forged")
	}
	cv := complex(v, 0)
	img.eachSpatialOffset(func(off int) {
		for t := 0; t < img.tensorLen; t++ {
			img.writeSample(off+t*img.tensorStride, cv)
		}
	})
	return nil
}

// CopyFrom copies samples from src into the view, converting to the
// destination data type. Shapes and tensor element counts must match.
func (img *Image) CopyFrom(src *Image) error {
	if !img.IsForged() || !src.IsForged() {
		return errors.New("image not forged")
	}
	if !sameSizes(img.sizes, src.sizes) || img.tensorLen != src.tensorLen {
		return errors.New("images have different shapes")
	}
	// Walk both views in lockstep; they have identical sizes so the
	// odometers stay in sync.
	dstOffsets := make([]int, 0, 64)
	img.eachSpatialOffset(func(off int) {
		dstOffsets = append(dstOffsets, off)
	})
	ii := 0
	src.eachSpatialOffset(func(off int) {
		dstOff := dstOffsets[ii]
		ii++
		for t := 0; t < img.tensorLen; t++ {
			img.writeSample(dstOff+t*img.tensorStride, src.readSample(off+t*src.tensorStride))
		}
	})
	return nil
}

// Real returns the real component of a complex image as a new float image.
// For real images it returns a dense copy.
func (img *Image) Real() (*Image, error) {
	return img.complexPart(func(v complex128) float64 { return real(v) })
}

// Imaginary returns the imaginary component of a complex image as a new
// float image. For real images the result is all zero.
func (img *Image) Imaginary() (*Image, error) {
	return img.complexPart(func(v complex128) float64 { return imag(v) })
}

func (img *Image) complexPart(part func(complex128) float64) (*Image, error) {
	if !img.IsForged() {
		return nil, errors.New("image not forged")
	}
	out, err := New(img.dtype.FloatType(), img.sizes, img.tensorLen)
	if err != nil {
		return nil, err
	}
	out.colorSpace = img.colorSpace
	ii := 0
	img.EachSample(func(v complex128) {
		out.writeSample(ii, complex(part(v), 0))
		ii++
	})
	return out, nil
}

// Float64Samples flattens the view into a dense []float64, taking real parts
// of complex samples. Used for range scans; reduce complex images first.
func (img *Image) Float64Samples() []float64 {
	out := make([]float64, 0, img.NumberOfSamples())
	img.EachSample(func(v complex128) {
		out = append(out, real(v))
	})
	return out
}

func (img *Image) shallowCopy() *Image {
	out := *img
	out.sizes = append([]int(nil), img.sizes...)
	out.strides = append([]int(nil), img.strides...)
	return &out
}

func sameSizes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for ii := range a {
		if a[ii] != b[ii] {
			return false
		}
	}
	return true
}

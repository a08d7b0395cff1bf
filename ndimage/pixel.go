package ndimage

import (
	"errors"
	"fmt"
)

// Pixel holds the tensor samples of a single pixel, widened to complex128,
// plus the data type tag of the image they came from.
type Pixel struct {
	dtype  DataType
	values []complex128
}

// NewPixel builds a pixel value, for probing an engine with values that do
// not come from an existing image.
func NewPixel(dtype DataType, values ...complex128) Pixel {
	return Pixel{dtype: dtype, values: append([]complex128(nil), values...)}
}

func (p Pixel) DataType() DataType {
	return p.dtype
}

func (p Pixel) TensorElements() int {
	return len(p.values)
}

// Value returns the tensor element at t, widened to complex128.
func (p Pixel) Value(t int) complex128 {
	return p.values[t]
}

// PixelAt reads all tensor elements at the given spatial coordinates.
func (img *Image) PixelAt(coords []int) (Pixel, error) {
	if !img.IsForged() {
		return Pixel{}, errors.New("image not forged")
	}
	if len(coords) != len(img.sizes) {
		return Pixel{}, fmt.Errorf("got %d coordinates for a %d-dimensional image", len(coords), len(img.sizes))
	}
	values := make([]complex128, img.tensorLen)
	for t := 0; t < img.tensorLen; t++ {
		v, err := img.Sample(coords, t)
		if err != nil {
			return Pixel{}, err
		}
		values[t] = v
	}
	return Pixel{dtype: img.dtype, values: values}, nil
}

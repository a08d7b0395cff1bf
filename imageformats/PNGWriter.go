package imageformats

import (
	"errors"
	goimage "image"
	gocolor "image/color"
	"image/png"
	"io"

	"github.com/kpfaulkner/ndview-go/ndimage"
)

// ToImage converts a display raster (1D or 2D, uint8, 1 or 3 tensor
// elements) to a stdlib image. 1D rasters become height-1 images.
func ToImage(img *ndimage.Image) (goimage.Image, error) {
	if !img.IsForged() {
		return nil, errors.New("image not forged")
	}
	if img.DataType() != ndimage.DT_UINT8 {
		return nil, errors.New("only uint8 rasters can be encoded")
	}
	if img.Dimensionality() > 2 {
		return nil, errors.New("only 1D and 2D rasters can be encoded")
	}
	channels := img.TensorElements()
	if channels != 1 && channels != 3 {
		return nil, errors.New("raster must have 1 or 3 channels")
	}
	data := img.RawData().([]uint8)
	width := img.Size(0)
	height := 1
	stride1 := 0
	if img.Dimensionality() == 2 {
		height = img.Size(1)
		stride1 = img.Stride(1)
	}
	stride0 := img.Stride(0)
	strideT := img.TensorStride()
	rowPtr := img.Offset()
	if channels == 1 {
		out := goimage.NewGray(goimage.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			ptr := rowPtr
			for x := 0; x < width; x++ {
				out.SetGray(x, y, gocolor.Gray{Y: data[ptr]})
				ptr += stride0
			}
			rowPtr += stride1
		}
		return out, nil
	}
	out := goimage.NewRGBA(goimage.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		ptr := rowPtr
		for x := 0; x < width; x++ {
			out.SetRGBA(x, y, gocolor.RGBA{
				R: data[ptr],
				G: data[ptr+strideT],
				B: data[ptr+2*strideT],
				A: 255,
			})
			ptr += stride0
		}
		rowPtr += stride1
	}
	return out, nil
}

// WritePNG encodes a display raster as PNG.
func WritePNG(img *ndimage.Image, output io.Writer) error {
	goImg, err := ToImage(img)
	if err != nil {
		return err
	}
	return png.Encode(output, goImg)
}

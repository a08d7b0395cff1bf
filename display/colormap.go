package display

import (
	"errors"
	"fmt"

	"github.com/kpfaulkner/ndview-go/ndimage"
)

// LookupTable maps a display byte to an RGB triplet.
type LookupTable [256][3]uint8

// labelColors cycle through the label color map; mapped values 1..255 pick
// (v-1) mod 16, value 0 is background black.
var labelColors = [16][3]uint8{
	{255, 0, 0},
	{0, 255, 0},
	{0, 0, 255},
	{255, 255, 0},
	{0, 255, 255},
	{255, 0, 255},
	{255, 128, 0},
	{128, 255, 0},
	{0, 128, 255},
	{128, 0, 255},
	{255, 0, 128},
	{0, 255, 128},
	{255, 128, 128},
	{128, 255, 128},
	{128, 128, 255},
	{128, 128, 0},
}

// ColorMapLut builds the lookup table for a named color map.
//
// "grey" is the identity map. "saturation" is grey with the two extreme
// bytes marked, blue at 0 and red at 255, so clipped pixels stand out.
// "label" cycles 16 distinct colors, keeping 0 black; it pairs with the
// modulo mapping mode.
func ColorMapLut(name string) (LookupTable, error) {
	var lut LookupTable
	switch name {
	case "grey", "gray":
		for ii := 0; ii < 256; ii++ {
			v := uint8(ii)
			lut[ii] = [3]uint8{v, v, v}
		}
	case "saturation":
		for ii := 0; ii < 256; ii++ {
			v := uint8(ii)
			lut[ii] = [3]uint8{v, v, v}
		}
		lut[0] = [3]uint8{0, 0, 255}
		lut[255] = [3]uint8{255, 0, 0}
	case "label", "labels":
		lut[0] = [3]uint8{0, 0, 0}
		for ii := 1; ii < 256; ii++ {
			lut[ii] = labelColors[(ii-1)%len(labelColors)]
		}
	default:
		return lut, fmt.Errorf("unknown color map %q", name)
	}
	return lut, nil
}

// ApplyColorMap maps a scalar uint8 image through lut, producing a 3-channel
// uint8 image of the same sizes.
func ApplyColorMap(img *ndimage.Image, lut LookupTable) (*ndimage.Image, error) {
	if !img.IsForged() {
		return nil, errors.New("image not forged")
	}
	if img.DataType() != ndimage.DT_UINT8 || !img.IsScalar() {
		return nil, errors.New("color maps apply to scalar uint8 images")
	}
	if img.Dimensionality() > 2 {
		return nil, errors.New("color maps apply to 1D and 2D rasters")
	}
	out, err := ndimage.New(ndimage.DT_UINT8, img.Sizes(), 3)
	if err != nil {
		return nil, err
	}
	data := img.RawData().([]uint8)
	outData := out.RawData().([]uint8)
	sg := geometryOf(img)
	og := geometryOf(out)
	inPtr := sg.offset
	outPtr := og.offset
	for jj := 0; jj < sg.height; jj++ {
		iPtr := inPtr
		oPtr := outPtr
		for ii := 0; ii < sg.width; ii++ {
			rgb := lut[data[iPtr]]
			for c := 0; c < 3; c++ {
				outData[oPtr+c*og.strideT] = rgb[c]
			}
			iPtr += sg.stride0
			oPtr += og.stride0
		}
		inPtr += sg.stride1
		outPtr += og.stride1
	}
	out.SetColorSpace("sRGB")
	return out, nil
}

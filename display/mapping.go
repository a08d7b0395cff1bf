package display

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/kpfaulkner/ndview-go/color"
	"github.com/kpfaulkner/ndview-go/ndimage"
	"github.com/kpfaulkner/ndview-go/util"
	"golang.org/x/exp/constraints"
)

const logRange = 1e3

var logScale = 255.0 / math.Log(logRange)

// scalingParams is the scalar transfer function: an {offset, scale} pair
// derived once from the range and mapping mode, plus the mode selectors.
type scalingParams struct {
	offset      float64
	scale       float64
	logarithmic bool
	useModulo   bool
}

func newScalingParams(mode MappingMode, rng Limits) scalingParams {
	p := scalingParams{
		logarithmic: mode == MappingLogarithmic,
		useModulo:   mode == MappingModulo,
	}
	if p.logarithmic {
		// Map the input linearly into [1, 1e3], take the log, scale to
		// [0, 255].
		p.scale = (logRange - 1.0) / (rng.Upper - rng.Lower)
		p.offset = 1.0 - rng.Lower*p.scale
	} else {
		p.scale = 255.0 / (rng.Upper - rng.Lower)
		p.offset = -rng.Lower * p.scale
	}
	return p
}

// clampCast saturates to [0, 255] and truncates. NaN maps to 0.
func clampCast(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func (p scalingParams) mapLinear(value float64) uint8 {
	return clampCast(value*p.scale + p.offset)
}

func (p scalingParams) mapLogarithmic(value float64) uint8 {
	return clampCast(math.Log(value*p.scale+p.offset) * logScale)
}

// mapModulo wraps integer values: 0 stays 0, everything else cycles through
// [1, 255]. Only reachable with the range pinned to {0, 255}.
func (p scalingParams) mapModulo(value float64) uint8 {
	scaled := int64(math.Floor(value))
	if scaled == 0 {
		return 0
	}
	m := (scaled - 1) % 255
	if m < 0 {
		m += 255
	}
	return uint8(m + 1)
}

func (p scalingParams) mapValue(value float64) uint8 {
	if p.logarithmic {
		return p.mapLogarithmic(value)
	}
	if p.useModulo {
		return p.mapModulo(value)
	}
	return p.mapLinear(value)
}

// updateOutput recomputes the byte-mapped output if any stage is dirty:
// refreshes the active range for computed mapping modes, then runs the
// per-datatype transfer kernel over the color-resolved slice.
func (e *Engine) updateOutput() error {
	if err := e.updateRgbSlice(); err != nil {
		return err
	}
	if !e.outputIsDirty {
		return nil
	}
	if e.mappingMode != MappingManual && e.mappingMode != MappingModulo {
		if err := e.computeLimits(true); err != nil {
			return err
		}
		if e.mappingMode == MappingBased {
			bound := util.Max(math.Abs(e.rng.Lower), math.Abs(e.rng.Upper))
			e.rng = Limits{Lower: -bound, Upper: bound}
		}
	}
	params := newScalingParams(e.mappingMode, e.rng)
	slice := e.rgbSlice
	usePhase := false
	if slice.DataType().IsComplex() {
		var err error
		switch e.complexMode {
		case ComplexPhase:
			usePhase = true
		case ComplexReal:
			if slice, err = slice.Real(); err != nil {
				return err
			}
		case ComplexImag:
			if slice, err = slice.Imaginary(); err != nil {
				return err
			}
		default:
			// Magnitude is taken inside the kernel.
		}
	}
	out, err := ndimage.New(ndimage.DT_UINT8, slice.Sizes(), slice.TensorElements())
	if err != nil {
		return err
	}
	if err := castToUint8(slice, out, usePhase, params); err != nil {
		return err
	}
	e.output = out
	e.outputIsDirty = false
	e.stats.OutputUpdates++
	return nil
}

// rasterGeometry flattens the 1D/2D loop bounds and strides of an image.
type rasterGeometry struct {
	width   int
	height  int
	stride0 int
	stride1 int
	telems  int
	strideT int
	offset  int
}

func geometryOf(img *ndimage.Image) rasterGeometry {
	g := rasterGeometry{
		width:   img.Size(0),
		height:  1,
		stride0: img.Stride(0),
		telems:  img.TensorElements(),
		strideT: img.TensorStride(),
		offset:  img.Offset(),
	}
	if img.Dimensionality() == 2 {
		g.height = img.Size(1)
		g.stride1 = img.Stride(1)
	}
	return g
}

// castToUint8 runs the transfer function over every sample of slice into
// out. One specialization per sample representation; the set is closed, so
// a type switch on the backing slice covers it.
func castToUint8(slice *ndimage.Image, out *ndimage.Image, usePhase bool, params scalingParams) error {
	outData, ok := out.RawData().([]uint8)
	if !ok {
		return errors.New("output image must be uint8")
	}
	sg := geometryOf(slice)
	og := geometryOf(out)
	switch d := slice.RawData().(type) {
	case []bool:
		castBinarySamples(d, sg, outData, og)
	case []uint8:
		castRealSamples(d, sg, outData, og, params)
	case []uint16:
		castRealSamples(d, sg, outData, og, params)
	case []uint32:
		castRealSamples(d, sg, outData, og, params)
	case []uint64:
		castRealSamples(d, sg, outData, og, params)
	case []int8:
		castRealSamples(d, sg, outData, og, params)
	case []int16:
		castRealSamples(d, sg, outData, og, params)
	case []int32:
		castRealSamples(d, sg, outData, og, params)
	case []int64:
		castRealSamples(d, sg, outData, og, params)
	case []float32:
		castRealSamples(d, sg, outData, og, params)
	case []float64:
		castRealSamples(d, sg, outData, og, params)
	case []complex64:
		castComplexSamples(d, sg, outData, og, usePhase, params)
	case []complex128:
		castComplexSamples(d, sg, outData, og, usePhase, params)
	default:
		return fmt.Errorf("unsupported sample type %T", slice.RawData())
	}
	return nil
}

func castRealSamples[T constraints.Integer | constraints.Float](data []T, sg rasterGeometry, out []uint8, og rasterGeometry, params scalingParams) {
	for kk := 0; kk < sg.telems; kk++ {
		slicePtr := sg.offset + kk*sg.strideT
		outPtr := og.offset + kk*og.strideT
		for jj := 0; jj < sg.height; jj++ {
			iPtr := slicePtr
			oPtr := outPtr
			for ii := 0; ii < sg.width; ii++ {
				out[oPtr] = params.mapValue(float64(data[iPtr]))
				iPtr += sg.stride0
				oPtr += og.stride0
			}
			slicePtr += sg.stride1
			outPtr += og.stride1
		}
	}
}

func castComplexSamples[T constraints.Complex](data []T, sg rasterGeometry, out []uint8, og rasterGeometry, usePhase bool, params scalingParams) {
	convert := cmplx.Abs
	if usePhase {
		convert = cmplx.Phase
	}
	for kk := 0; kk < sg.telems; kk++ {
		slicePtr := sg.offset + kk*sg.strideT
		outPtr := og.offset + kk*og.strideT
		for jj := 0; jj < sg.height; jj++ {
			iPtr := slicePtr
			oPtr := outPtr
			for ii := 0; ii < sg.width; ii++ {
				out[oPtr] = params.mapValue(convert(complex128(data[iPtr])))
				iPtr += sg.stride0
				oPtr += og.stride0
			}
			slicePtr += sg.stride1
			outPtr += og.stride1
		}
	}
}

// castBinarySamples bypasses the transfer function: true is 255, false is 0.
func castBinarySamples(data []bool, sg rasterGeometry, out []uint8, og rasterGeometry) {
	for kk := 0; kk < sg.telems; kk++ {
		slicePtr := sg.offset + kk*sg.strideT
		outPtr := og.offset + kk*og.strideT
		for jj := 0; jj < sg.height; jj++ {
			iPtr := slicePtr
			oPtr := outPtr
			for ii := 0; ii < sg.width; ii++ {
				out[oPtr] = util.IfThenElse[uint8](data[iPtr], 255, 0)
				iPtr += sg.stride0
				oPtr += og.stride0
			}
			slicePtr += sg.stride1
			outPtr += og.stride1
		}
	}
}

// MapSinglePixel puts one source-space pixel through the same channel
// resolution and transfer function as the full image, without touching the
// cached output. The pixel must have the source's tensor element count; the
// result has 1 byte for scalar sources, 3 otherwise.
func (e *Engine) MapSinglePixel(input ndimage.Pixel) ([]uint8, error) {
	if input.TensorElements() != e.image.TensorElements() {
		return nil, fmt.Errorf("pixel has %d tensor elements, image has %d",
			input.TensorElements(), e.image.TensorElements())
	}
	// The active range must reflect the current modes.
	if err := e.updateOutput(); err != nil {
		return nil, err
	}
	var rgb []complex128
	switch {
	case e.image.IsScalar():
		rgb = []complex128{input.Value(0)}
	case e.colorSpace == color.Canonical:
		rgb = []complex128{input.Value(0), input.Value(1), input.Value(2)}
	case e.colorSpace == "":
		rgb = make([]complex128, 3)
		for c, sel := range []int{e.red, e.green, e.blue} {
			if sel >= 0 {
				rgb[c] = input.Value(sel)
			}
		}
	default:
		values := make([]float64, input.TensorElements())
		for t := range values {
			values[t] = real(input.Value(t))
		}
		converted, err := e.csm.ConvertPixel(values, e.colorSpace)
		if err != nil {
			return nil, err
		}
		rgb = make([]complex128, 3)
		for c, v := range converted {
			rgb[c] = complex(v, 0)
		}
	}
	params := newScalingParams(e.mappingMode, e.rng)
	reduce := complexReducer(input.DataType(), e.complexMode)
	output := make([]uint8, len(rgb))
	if e.image.DataType().IsBinary() {
		for c, v := range rgb {
			output[c] = util.IfThenElse[uint8](real(v) != 0, 255, 0)
		}
		return output, nil
	}
	for c, v := range rgb {
		output[c] = params.mapValue(reduce(v))
	}
	return output, nil
}

// Package display implements the interactive display-mapping engine: it
// reduces an n-dimensional image of any sample type to a 1D or 2D 8-bit
// raster through a pipeline of cached stages (slice extraction, color
// resolution, range computation, byte mapping). Each stage carries a dirty
// flag so repeated queries between mutations do no work.
//
// The engine is single-threaded: callers that share one across goroutines
// must serialize access themselves.
package display

import (
	"errors"
	"fmt"

	"github.com/kpfaulkner/ndview-go/color"
	"github.com/kpfaulkner/ndview-go/ndimage"
	"github.com/kpfaulkner/ndview-go/options"
	"github.com/kpfaulkner/ndview-go/util"
	log "github.com/sirupsen/logrus"
)

// Stats counts recomputations of each cached pipeline stage. A query that
// hits clean caches increments nothing.
type Stats struct {
	SliceUpdates  int
	ColorUpdates  int
	RangeScans    int
	OutputUpdates int
}

// Engine holds the display state of one source image.
type Engine struct {
	// The source image and the cached pipeline stages. slice has the same
	// tensor elements as the source; rgbSlice has 1 or 3; output is uint8.
	image    *ndimage.Image
	slice    *ndimage.Image
	rgbSlice *ndimage.Image
	output   *ndimage.Image

	// One dirty flag per cached stage. A set flag implies the stages below
	// it are stale too.
	sizeIsDirty     bool
	sliceIsDirty    bool
	rgbSliceIsDirty bool
	outputIsDirty   bool

	colorSpace string
	csm        *color.Manager

	dim1       int
	dim2       int
	orthogonal []int
	twoDimOut  bool

	red         int
	green       int
	blue        int
	coordinates []int

	projectionMode ProjectionMode
	complexMode    ComplexMode
	mappingMode    MappingMode
	rng            Limits
	globalStretch  bool

	// Cached bounds, one entry per complex mode, separately for slice and
	// global scope. NaN bounds mean "not computed yet".
	sliceLimits  [numComplexModes]limitsLists
	globalLimits [numComplexModes]limitsLists

	stats Stats
}

// New creates an engine bound to img. csm may be nil, in which case color
// space tags on the image are ignored and tensor images are shown by direct
// channel selection. opts may be nil.
func New(img *ndimage.Image, csm *color.Manager, opts *options.DisplayOptions) (*Engine, error) {
	e := &Engine{}
	if err := e.bind(img, csm); err != nil {
		return nil, err
	}
	if opts != nil {
		if err := e.applyOptions(opts); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Engine) bind(img *ndimage.Image, csm *color.Manager) error {
	if !img.IsForged() {
		return errors.New("image not forged")
	}
	nDims := img.Dimensionality()
	if nDims < 1 {
		return errors.New("image must have at least one dimension")
	}
	e.image = img
	e.csm = csm
	e.colorSpace = img.ColorSpace()
	e.slice = nil
	e.rgbSlice = nil
	e.output = nil
	e.sizeIsDirty = true
	e.sliceIsDirty = true
	e.rgbSliceIsDirty = true
	e.outputIsDirty = true

	e.dim1 = 0
	e.dim2 = 1
	e.twoDimOut = nDims > 1
	if !e.twoDimOut {
		e.dim2 = e.dim1
	}
	e.fillOrthogonal()

	if e.colorSpace != "" {
		if e.csm == nil ||
			img.IsScalar() ||
			!e.csm.IsDefined(e.colorSpace) ||
			e.csm.NumberOfChannels(e.colorSpace) != img.TensorElements() {
			// Cannot be converted to the display color space; treat it as a
			// plain tensor image.
			log.Debugf("color space %q not displayable with %d tensor elements, using direct channel selection", e.colorSpace, img.TensorElements())
			e.colorSpace = ""
		}
	}
	e.red, e.green, e.blue = 0, -1, -1
	if e.colorSpace == "" {
		if !img.IsScalar() {
			e.green = 1
			if img.TensorElements() > 2 {
				e.blue = 2
			}
		}
	} else {
		e.green = 1
		e.blue = 2
	}

	e.projectionMode = ProjectionSlice
	e.complexMode = ComplexReal
	e.mappingMode = MappingManual
	e.rng = Limits{Lower: 0, Upper: 255}
	e.globalStretch = false
	if img.DataType().IsBinary() {
		e.rng = Limits{Lower: 0, Upper: 1}
	} else if img.DataType().IsComplex() {
		e.complexMode = ComplexMagnitude
	}
	e.coordinates = make([]int, nDims)
	e.invalidateSliceLimits()
	e.invalidateGlobalLimits()
	return nil
}

func (e *Engine) applyOptions(opts *options.DisplayOptions) error {
	if opts.Dim1 != nil || opts.Dim2 != nil {
		d1, d2 := e.dim1, e.dim2
		if opts.Dim1 != nil {
			d1 = *opts.Dim1
		}
		if opts.Dim2 != nil {
			d2 = *opts.Dim2
		}
		if err := e.SetDirection(d1, d2); err != nil {
			return err
		}
	}
	if opts.Projection != "" {
		mode, err := ParseProjectionMode(opts.Projection)
		if err != nil {
			return err
		}
		e.SetProjectionMode(mode)
	}
	if opts.Complex != "" {
		mode, err := ParseComplexMode(opts.Complex)
		if err != nil {
			return err
		}
		e.SetComplexMode(mode)
	}
	if opts.Range != "" {
		if err := e.SetRangeByName(opts.Range); err != nil {
			return err
		}
	}
	if opts.Red != nil || opts.Green != nil || opts.Blue != nil {
		red, green, blue := e.red, e.green, e.blue
		if opts.Red != nil {
			red = *opts.Red
		}
		if opts.Green != nil {
			green = *opts.Green
		}
		if opts.Blue != nil {
			blue = *opts.Blue
		}
		e.SetTensorElements(red, green, blue)
	}
	if opts.GlobalStretch != nil {
		e.SetGlobalStretch(*opts.GlobalStretch)
	}
	return nil
}

// Rebind binds the engine to a new source image, resetting all state and
// caches, including the global range cache. Recompute statistics survive.
func (e *Engine) Rebind(img *ndimage.Image) error {
	return e.bind(img, e.csm)
}

// Input returns the source image.
func (e *Engine) Input() *ndimage.Image {
	return e.image
}

func (e *Engine) fillOrthogonal() {
	nDims := e.image.Dimensionality()
	out := e.outputDims()
	e.orthogonal = make([]int, 0, nDims-out)
	for ii := 0; ii < nDims; ii++ {
		if ii != e.dim1 && ii != e.dim2 {
			e.orthogonal = append(e.orthogonal, ii)
		}
	}
}

func (e *Engine) outputDims() int {
	if e.twoDimOut {
		return 2
	}
	return 1
}

// SetDirection selects the two image dimensions shown along the x and y axes
// of the display. dim1 == dim2 produces a 1D output. Invalidates the slice
// even if the direction is unchanged: the contract is input-driven.
func (e *Engine) SetDirection(dim1 int, dim2 int) error {
	nDims := e.image.Dimensionality()
	if dim1 >= nDims || dim2 >= nDims || dim1 < 0 || dim2 < 0 {
		return fmt.Errorf("illegal display dimension (%d, %d) for a %d-dimensional image", dim1, dim2, nDims)
	}
	wasTwoDim := e.twoDimOut
	e.twoDimOut = dim1 != dim2
	if wasTwoDim != e.twoDimOut {
		e.sizeIsDirty = true
	} else if e.image.Size(e.dim1) != e.image.Size(dim1) || e.image.Size(e.dim2) != e.image.Size(dim2) {
		e.sizeIsDirty = true
	}
	e.dim1 = dim1
	e.dim2 = dim2
	e.sliceIsDirty = true
	// Projection is meaningless when the slice covers the whole image.
	if e.twoDimOut && nDims == 2 {
		e.projectionMode = ProjectionSlice
	}
	e.fillOrthogonal()
	return nil
}

// SetCoordinates sets the coordinates at which the slice is taken; one value
// per image dimension (values along the display dimensions are carried but
// unused). Errors if the array length or any coordinate is out of bounds,
// leaving the engine untouched.
func (e *Engine) SetCoordinates(coordinates []int) error {
	if len(coordinates) != len(e.coordinates) {
		return fmt.Errorf("got %d coordinates for a %d-dimensional image", len(coordinates), len(e.coordinates))
	}
	for ii, c := range coordinates {
		if c < 0 || c >= e.image.Size(ii) {
			return fmt.Errorf("coordinate %d out of range [0,%d) for dimension %d", c, e.image.Size(ii), ii)
		}
	}
	copy(e.coordinates, coordinates)
	if e.projectionMode == ProjectionSlice && e.image.Dimensionality() > e.outputDims() {
		e.sliceIsDirty = true
	}
	return nil
}

// SetTensorElements selects the tensor element shown in each output channel.
// Negative means "none" (channel filled with zero). Only has an effect for
// tensor images without a color space.
func (e *Engine) SetTensorElements(red int, green int, blue int) {
	n := e.image.TensorElements()
	if n > 1 && e.colorSpace == "" {
		e.red = clipTensorIndex(red, n)
		e.green = clipTensorIndex(green, n)
		e.blue = clipTensorIndex(blue, n)
		e.rgbSliceIsDirty = true
	}
}

func clipTensorIndex(idx int, n int) int {
	if idx >= n {
		return -1
	}
	return idx
}

// SetProjectionMode sets how non-display dimensions collapse. No effect when
// the slice already covers the whole image. Projections other than slice
// turn global stretch off; max projection forces the magnitude complex mode
// (the max of complex values is taken by magnitude).
func (e *Engine) SetProjectionMode(mode ProjectionMode) {
	if e.image.Dimensionality() > e.outputDims() {
		e.projectionMode = mode
		e.sliceIsDirty = true
		if mode != ProjectionSlice {
			e.globalStretch = false
		}
		if mode == ProjectionMax {
			e.complexMode = ComplexMagnitude
		}
	}
}

// SetComplexMode sets the complex-to-real reduction. No effect for
// non-complex images or when the projection mode is max.
func (e *Engine) SetComplexMode(mode ComplexMode) {
	if e.image.DataType().IsComplex() && e.projectionMode != ProjectionMax {
		e.complexMode = mode
		e.outputIsDirty = true
	}
}

// SetMappingMode sets the intensity mapping mode. No effect for binary
// images. Modulo mode pins the range to {0, 255}.
func (e *Engine) SetMappingMode(mode MappingMode) {
	if e.image.DataType().IsBinary() {
		return
	}
	e.mappingMode = mode
	e.outputIsDirty = true
	if mode == MappingModulo {
		e.rng = Limits{Lower: 0, Upper: 255}
	}
}

// SetRange sets explicit mapping bounds and forces manual mapping mode. No
// effect for binary images.
func (e *Engine) SetRange(rng Limits) {
	if e.image.DataType().IsBinary() {
		return
	}
	e.mappingMode = MappingManual
	e.rng = rng
	e.outputIsDirty = true
}

// SetRangeByName sets the mapping mode or an explicit range by name.
//
// Fixed ranges: "unit" [0,1]; "8bit"/"normal" [0,255]; "12bit" [0,4095];
// "16bit" [0,65535]; "s8bit" [-128,127]; "s12bit" [-2048,2047]; "s16bit"
// [-32768,32767]; "angle" [-pi,pi]; "orientation" [-pi/2,pi/2].
// Computed modes: "lin"/"linear"/"all", "percentile", "base"/"based",
// "log", "modulo"/"labels".
func (e *Engine) SetRangeByName(name string) error {
	switch name {
	case "unit":
		e.SetRange(Limits{0, 1})
	case "normal", "8bit":
		e.SetRange(Limits{0, 255})
	case "12bit":
		e.SetRange(Limits{0, 4095})
	case "16bit":
		e.SetRange(Limits{0, 65535})
	case "s8bit":
		e.SetRange(Limits{-128, 127})
	case "s12bit":
		e.SetRange(Limits{-2048, 2047})
	case "s16bit":
		e.SetRange(Limits{-32768, 32767})
	case "angle":
		e.SetRange(Limits{-pi, pi})
	case "orientation":
		e.SetRange(Limits{-pi / 2, pi / 2})
	case "lin", "linear", "all":
		e.SetMappingMode(MappingMaxMin)
	case "percentile":
		e.SetMappingMode(MappingPercentile)
	case "base", "based":
		e.SetMappingMode(MappingBased)
	case "log":
		e.SetMappingMode(MappingLogarithmic)
	case "modulo", "labels":
		e.SetMappingMode(MappingModulo)
	default:
		return fmt.Errorf("unknown range name %q", name)
	}
	return nil
}

// SetGlobalStretch selects whether the mapping range is computed over the
// whole image (true) or only the current slice (false). Only effective in
// slice projection mode; projections always stretch locally.
func (e *Engine) SetGlobalStretch(globalStretch bool) {
	if e.projectionMode == ProjectionSlice {
		e.globalStretch = globalStretch
		e.outputIsDirty = true
	}
}

// SetColorSpace declares the color space of the source image's channels.
// Empty clears the declaration (channels are then selected directly). The
// global range cache is cleared: after conversion a different sample set is
// measured.
func (e *Engine) SetColorSpace(name string) error {
	if name != "" {
		if e.csm == nil {
			return errors.New("no color space manager")
		}
		if !e.csm.IsDefined(name) {
			return fmt.Errorf("unknown color space %q", name)
		}
		if e.csm.NumberOfChannels(name) != e.image.TensorElements() {
			return fmt.Errorf("color space %q needs %d channels, image has %d",
				name, e.csm.NumberOfChannels(name), e.image.TensorElements())
		}
	}
	e.colorSpace = name
	if e.colorSpace != "" {
		e.green, e.blue = 1, 2
	}
	e.rgbSliceIsDirty = true
	e.invalidateGlobalLimits()
	return nil
}

// Direction returns the display dimensions; equal values mean 1D output.
func (e *Engine) Direction() (int, int) {
	return e.dim1, e.dim2
}

// Orthogonal returns the dimensions not displayed.
func (e *Engine) Orthogonal() []int {
	return append([]int(nil), e.orthogonal...)
}

func (e *Engine) Coordinates() []int {
	return append([]int(nil), e.coordinates...)
}

func (e *Engine) Sizes() []int {
	return e.image.Sizes()
}

func (e *Engine) Dimensionality() int {
	return e.image.Dimensionality()
}

func (e *Engine) RedTensorElement() int   { return e.red }
func (e *Engine) GreenTensorElement() int { return e.green }
func (e *Engine) BlueTensorElement() int  { return e.blue }

func (e *Engine) ProjectionMode() ProjectionMode { return e.projectionMode }
func (e *Engine) ComplexMode() ComplexMode       { return e.complexMode }
func (e *Engine) MappingMode() MappingMode       { return e.mappingMode }
func (e *Engine) GlobalStretch() bool            { return e.globalStretch }

// Range returns the currently active mapping bounds.
func (e *Engine) Range() Limits {
	return e.rng
}

// OutIsDirty reports whether the next Output call will recompute anything.
func (e *Engine) OutIsDirty() bool {
	return e.outputIsDirty || e.rgbSliceIsDirty || e.sliceIsDirty
}

// SliceIsDirty reports whether the next Output call will extract a new slice.
func (e *Engine) SliceIsDirty() bool {
	return e.sliceIsDirty
}

// SizeIsDirty reports whether the next Output call will produce an output of
// a different size (the slicing direction changed shape).
func (e *Engine) SizeIsDirty() bool {
	return e.sizeIsDirty
}

// Stats returns the recompute counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

func (e *Engine) ResetStats() {
	e.stats = Stats{}
}

// Slice returns the raw 1D/2D slice, recomputing it if dirty. Tensor
// channels are the source's, untouched.
func (e *Engine) Slice() (*ndimage.Image, error) {
	if err := e.updateSlice(); err != nil {
		return nil, err
	}
	return e.slice, nil
}

// Output returns the display raster: 1D/2D, uint8, 1 or 3 tensor elements.
// Recomputes whatever pipeline stages are dirty; a second call without
// intervening mutation returns the identical cached image.
func (e *Engine) Output() (*ndimage.Image, error) {
	if err := e.updateOutput(); err != nil {
		return nil, err
	}
	return e.output, nil
}

// Pixel returns the source intensities shown at display position (x, y).
// Coordinates are clamped to the slice; y is ignored for 1D output.
func (e *Engine) Pixel(x int, y int) (ndimage.Pixel, error) {
	if err := e.updateSlice(); err != nil {
		return ndimage.Pixel{}, err
	}
	x = util.Clamp(x, 0, e.slice.Size(0)-1)
	if e.slice.Dimensionality() == 1 {
		return e.slice.PixelAt([]int{x})
	}
	y = util.Clamp(y, 0, e.slice.Size(1)-1)
	return e.slice.PixelAt([]int{x, y})
}

// updateSlice recomputes the slice stage if dirty: either a zero-copy
// sub-view at the current coordinates, or a projection over the orthogonal
// dimensions, permuted so the surviving axes follow the display order.
func (e *Engine) updateSlice() error {
	if !e.sliceIsDirty {
		return nil
	}
	nDims := e.image.Dimensionality()
	outDims := e.outputDims()
	if nDims > outDims {
		var projected *ndimage.Image
		var err error
		switch e.projectionMode {
		case ProjectionMax:
			process := e.orthogonalMask()
			if e.image.DataType().IsComplex() {
				projected, err = ndimage.MaximumAbs(e.image, process)
			} else {
				projected, err = ndimage.Maximum(e.image, process)
			}
		case ProjectionMean:
			projected, err = ndimage.Mean(e.image, e.orthogonalMask())
		default:
			ranges := make([]ndimage.Range, nDims)
			for ii := 0; ii < nDims; ii++ {
				if ii == e.dim1 || ii == e.dim2 {
					ranges[ii] = ndimage.FullRange(e.image.Size(ii))
				} else {
					ranges[ii] = ndimage.Range{Start: e.coordinates[ii], Stop: e.coordinates[ii]}
				}
			}
			projected, err = e.image.At(ranges)
		}
		if err != nil {
			return err
		}
		order := []int{e.dim1}
		if e.dim1 != e.dim2 {
			order = append(order, e.dim2)
		}
		if e.slice, err = projected.PermuteDimensions(order); err != nil {
			return err
		}
	} else {
		// Header copy: updateRgbSlice retags the slice's color space, and
		// that must never touch the caller's image.
		e.slice = e.image.View()
	}
	e.sizeIsDirty = false
	e.sliceIsDirty = false
	e.rgbSliceIsDirty = true
	e.stats.SliceUpdates++
	return nil
}

func (e *Engine) orthogonalMask() []bool {
	process := make([]bool, e.image.Dimensionality())
	for ii := range process {
		process[ii] = ii != e.dim1 && ii != e.dim2
	}
	return process
}

// updateRgbSlice recomputes the color-resolved slice if dirty: the slice
// itself for scalar images, selected channels for tensor images without a
// color space, or a conversion into the canonical space otherwise. Always
// ends with 1 or 3 tensor elements.
func (e *Engine) updateRgbSlice() error {
	if err := e.updateSlice(); err != nil {
		return err
	}
	if !e.rgbSliceIsDirty {
		return nil
	}
	if e.colorSpace == "" {
		if e.slice.IsScalar() {
			e.rgbSlice = e.slice
		} else {
			rgb, err := ndimage.New(e.slice.DataType(), e.slice.Sizes(), 3)
			if err != nil {
				return err
			}
			for c, sel := range []int{e.red, e.green, e.blue} {
				channel, err := rgb.TensorElement(c)
				if err != nil {
					return err
				}
				if sel >= 0 {
					source, err := e.slice.TensorElement(sel)
					if err != nil {
						return err
					}
					if err := channel.CopyFrom(source); err != nil {
						return err
					}
				} else if err := channel.Fill(0); err != nil {
					return err
				}
			}
			e.rgbSlice = rgb
		}
	} else {
		e.slice.SetColorSpace(e.colorSpace)
		rgb, err := e.csm.Convert(e.slice, color.Canonical)
		if err != nil {
			return err
		}
		e.rgbSlice = rgb
	}
	e.rgbSliceIsDirty = false
	e.outputIsDirty = true
	e.invalidateSliceLimits()
	e.stats.ColorUpdates++
	return nil
}

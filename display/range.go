package display

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/kpfaulkner/ndview-go/color"
	"github.com/kpfaulkner/ndview-go/ndimage"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	lowerPercentile = 0.05
	upperPercentile = 0.95
)

func (e *Engine) invalidateSliceLimits() {
	for ii := range e.sliceLimits {
		e.sliceLimits[ii] = limitsLists{maxMin: unsetLimits, percentile: unsetLimits}
	}
}

func (e *Engine) invalidateGlobalLimits() {
	for ii := range e.globalLimits {
		e.globalLimits[ii] = limitsLists{maxMin: unsetLimits, percentile: unsetLimits}
	}
}

// computeLimits fills the cache cell for the current scope, complex mode and
// mapping mode, scanning the source image (global stretch) or the
// color-resolved slice (local stretch) if the cell is unset. If set is true
// the cell also becomes the active range. Never called in manual or modulo
// mapping mode.
func (e *Engine) computeLimits(set bool) error {
	var lims *Limits
	var tmp *ndimage.Image
	if e.globalStretch {
		cell := &e.globalLimits[e.complexMode]
		if e.mappingMode == MappingPercentile {
			lims = &cell.percentile
		} else {
			lims = &cell.maxMin
		}
		if math.IsNaN(lims.Lower) {
			tmp = e.image
			if e.colorSpace != "" && e.colorSpace != color.Canonical {
				// Global bounds measure the converted samples, matching what
				// the slice path sees downstream. Header copy so retagging
				// never touches the source image.
				view := e.image.View()
				view.SetColorSpace(e.colorSpace)
				var err error
				if tmp, err = e.csm.Convert(view, color.Canonical); err != nil {
					return err
				}
			}
		}
	} else {
		// Refresh first: recomputing the slice clears these cells.
		if err := e.updateRgbSlice(); err != nil {
			return err
		}
		cell := &e.sliceLimits[e.complexMode]
		if e.mappingMode == MappingPercentile {
			lims = &cell.percentile
		} else {
			lims = &cell.maxMin
		}
		if math.IsNaN(lims.Lower) {
			tmp = e.rgbSlice
		}
	}
	if tmp.IsForged() {
		*lims = e.scanLimits(tmp)
	}
	if set {
		e.rng = *lims
	}
	return nil
}

// scanLimits computes bounds over all samples of img, reducing complex
// samples per the current complex mode first. NaN bounds (degenerate data)
// fall back to 0 and 255 so they never reach the transfer function.
func (e *Engine) scanLimits(img *ndimage.Image) Limits {
	e.stats.RangeScans++
	if img.DataType().IsBinary() {
		return Limits{Lower: 0, Upper: 1}
	}
	reduce := complexReducer(img.DataType(), e.complexMode)
	samples := make([]float64, 0, img.NumberOfSamples())
	img.EachSample(func(v complex128) {
		samples = append(samples, reduce(v))
	})
	var lims Limits
	if e.mappingMode == MappingPercentile {
		sort.Float64s(samples)
		lims.Lower = stat.Quantile(lowerPercentile, stat.Empirical, samples, nil)
		lims.Upper = stat.Quantile(upperPercentile, stat.Empirical, samples, nil)
	} else {
		lims.Lower = floats.Min(samples)
		lims.Upper = floats.Max(samples)
	}
	if math.IsNaN(lims.Lower) || math.IsNaN(lims.Upper) {
		log.Debugf("degenerate sample bounds (%v, %v), applying fallbacks", lims.Lower, lims.Upper)
	}
	if math.IsNaN(lims.Lower) {
		lims.Lower = 0
	}
	if math.IsNaN(lims.Upper) {
		lims.Upper = 255
	}
	return lims
}

// complexReducer returns the complex-to-real reduction for the given data
// type and mode. Real samples pass through unchanged.
func complexReducer(dtype ndimage.DataType, mode ComplexMode) func(complex128) float64 {
	if !dtype.IsComplex() {
		return func(v complex128) float64 { return real(v) }
	}
	switch mode {
	case ComplexPhase:
		return func(v complex128) float64 { return cmplx.Phase(v) }
	case ComplexReal:
		return func(v complex128) float64 { return real(v) }
	case ComplexImag:
		return func(v complex128) float64 { return imag(v) }
	default:
		return func(v complex128) float64 { return cmplx.Abs(v) }
	}
}

// GetLimits returns the min/max bounds for the current scope and complex
// mode. If compute is true and they are unset, they are computed, without
// touching the active range.
func (e *Engine) GetLimits(compute bool) (Limits, error) {
	var lims *Limits
	if e.globalStretch {
		lims = &e.globalLimits[e.complexMode].maxMin
	} else {
		lims = &e.sliceLimits[e.complexMode].maxMin
	}
	if compute && math.IsNaN(lims.Lower) {
		saved := e.mappingMode
		e.mappingMode = MappingMaxMin
		err := e.computeLimits(false)
		e.mappingMode = saved
		if err != nil {
			return Limits{}, err
		}
	}
	return *lims, nil
}

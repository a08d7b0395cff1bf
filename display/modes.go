package display

import (
	"fmt"
	"math"
)

// ProjectionMode selects how the dimensions orthogonal to the display
// dimensions are collapsed.
type ProjectionMode uint8

const (
	ProjectionSlice ProjectionMode = iota // direct sub-indexing at the current coordinates
	ProjectionMax                         // maximum projection (by magnitude for complex images)
	ProjectionMean                        // mean projection
)

func (m ProjectionMode) String() string {
	switch m {
	case ProjectionMax:
		return "max"
	case ProjectionMean:
		return "mean"
	default:
		return "slice"
	}
}

func ParseProjectionMode(s string) (ProjectionMode, error) {
	switch s {
	case "slice":
		return ProjectionSlice, nil
	case "max":
		return ProjectionMax, nil
	case "mean":
		return ProjectionMean, nil
	}
	return 0, fmt.Errorf("unknown projection mode %q", s)
}

// ComplexMode selects the reduction of a complex sample to a real scalar.
type ComplexMode uint8

const (
	ComplexMagnitude ComplexMode = iota
	ComplexPhase
	ComplexReal
	ComplexImag

	numComplexModes = 4
)

func (m ComplexMode) String() string {
	switch m {
	case ComplexPhase:
		return "phase"
	case ComplexReal:
		return "real"
	case ComplexImag:
		return "imag"
	default:
		return "magnitude"
	}
}

func ParseComplexMode(s string) (ComplexMode, error) {
	switch s {
	case "abs", "magnitude":
		return ComplexMagnitude, nil
	case "phase":
		return ComplexPhase, nil
	case "real":
		return ComplexReal, nil
	case "imag":
		return ComplexImag, nil
	}
	return 0, fmt.Errorf("unknown complex mode %q", s)
}

// MappingMode selects the transfer function and how the active range is
// recomputed.
type MappingMode uint8

const (
	MappingManual      MappingMode = iota // the range is used as-is
	MappingMaxMin                         // min and max sample values become the display limits
	MappingPercentile                     // 5th and 95th percentiles become the display limits
	MappingBased                          // like MaxMin but 0 stays at the middle of the output range
	MappingLogarithmic                    // logarithmic mapping
	MappingModulo                         // integer values wrap modulo the output range
)

func (m MappingMode) String() string {
	switch m {
	case MappingMaxMin:
		return "lin"
	case MappingPercentile:
		return "percentile"
	case MappingBased:
		return "based"
	case MappingLogarithmic:
		return "log"
	case MappingModulo:
		return "modulo"
	default:
		return "manual"
	}
}

// Limits are the intensity mapping bounds: Lower maps to byte 0, Upper to 255.
type Limits struct {
	Lower float64
	Upper float64
}

const pi = math.Pi

var unsetLimits = Limits{Lower: math.NaN(), Upper: math.NaN()}

// limitsLists caches computed bounds per complex mode: one min/max pair and
// one percentile pair. NaN means not yet computed.
type limitsLists struct {
	maxMin     Limits
	percentile Limits
}

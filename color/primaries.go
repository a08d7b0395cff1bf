package color

import (
	"errors"

	"github.com/kpfaulkner/ndview-go/util"
)

// CIEXY is a chromaticity coordinate.
type CIEXY struct {
	X float64
	Y float64
}

// CIEPrimaries are the red/green/blue chromaticities of an RGB space.
type CIEPrimaries struct {
	Red   CIEXY
	Green CIEXY
	Blue  CIEXY
}

var (
	// sRGB / ITU-R BT.709 primaries and the D65 white point.
	PRI_SRGB = CIEPrimaries{
		Red:   CIEXY{X: 0.64, Y: 0.33},
		Green: CIEXY{X: 0.30, Y: 0.60},
		Blue:  CIEXY{X: 0.15, Y: 0.06},
	}
	WP_D65 = CIEXY{X: 0.3127, Y: 0.3290}
)

func validateXY(xy CIEXY) error {
	if xy.X < 0 || xy.X > 1 || xy.Y <= 0 || xy.Y > 1 {
		return errors.New("invalid chromaticity coordinate")
	}
	return nil
}

// XYZOf converts a chromaticity to an XYZ triple with Y normalized to 1.
func XYZOf(xy CIEXY) ([]float64, error) {
	if err := validateXY(xy); err != nil {
		return nil, err
	}
	invY := 1.0 / xy.Y
	return []float64{xy.X * invY, 1.0, (1.0 - xy.X - xy.Y) * invY}, nil
}

// PrimariesToXYZ computes the 3x3 matrix mapping linear RGB in [0,1] (in the
// given primaries, adapted to the given white point) to XYZ with white Y = 1.
func PrimariesToXYZ(primaries CIEPrimaries, wp CIEXY) ([][]float64, error) {
	r, errR := XYZOf(primaries.Red)
	g, errG := XYZOf(primaries.Green)
	b, errB := XYZOf(primaries.Blue)
	if errR != nil || errG != nil || errB != nil {
		return nil, errors.New("invalid primaries")
	}
	primariesMatrix := util.TransposeMatrix([][]float64{r, g, b})
	inversePrimaries, err := util.InvertMatrix3x3(primariesMatrix)
	if err != nil {
		return nil, err
	}
	w, err := XYZOf(wp)
	if err != nil {
		return nil, err
	}
	scale, err := util.MatrixVectorMultiply(inversePrimaries, w)
	if err != nil {
		return nil, err
	}
	diag := [][]float64{{scale[0], 0, 0}, {0, scale[1], 0}, {0, 0, scale[2]}}
	return util.MatrixMatrixMultiply(primariesMatrix, diag)
}

// XYZToRGBMatrix is the inverse: XYZ (white Y = 1) to linear RGB in [0,1].
func XYZToRGBMatrix(primaries CIEPrimaries, wp CIEXY) ([][]float64, error) {
	forward, err := PrimariesToXYZ(primaries, wp)
	if err != nil {
		return nil, err
	}
	return util.InvertMatrix3x3(forward)
}

// xyzToSRGB is the fixed XYZ -> linear RGB matrix for the canonical display
// space (sRGB primaries, D65).
var xyzToSRGB = mustXYZToRGB()

func mustXYZToRGB() [][]float64 {
	m, err := XYZToRGBMatrix(PRI_SRGB, WP_D65)
	if err != nil {
		panic(err)
	}
	return m
}

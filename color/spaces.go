package color

import "math"

// Value conventions: grey, RGB, sRGB, CMY and CMYK channels live in
// [0,255]; XYZ and the Y of Yxy have white at Y = 1; HSV has H in [0,360),
// S in [0,1] and V in [0,255].

const (
	// sRGB transfer function constants (IEC 61966-2-1).
	srgbA     = 0.055
	srgbGamma = 2.4
	srgbK0    = srgbA / (srgbGamma - 1)
	srgbPhi   = 12.923210180787853
)

// LinearToS applies the sRGB transfer function to a linear value in [0,1].
func LinearToS(in float64) float64 {
	if in <= srgbK0/srgbPhi {
		return in * srgbPhi
	}
	return (1+srgbA)*math.Pow(in, 1.0/srgbGamma) - srgbA
}

// SToLinear inverts the sRGB transfer function.
func SToLinear(in float64) float64 {
	if in <= srgbK0 {
		return in / srgbPhi
	}
	return math.Pow((in+srgbA)/(1+srgbA), srgbGamma)
}

// spaceDef describes one registered color space: its channel count and the
// per-pixel conversion into linear RGB in [0,255].
type spaceDef struct {
	name     string
	channels int
	toRGB    func(in []float64, out []float64)
}

func defaultSpaces() []spaceDef {
	return []spaceDef{
		{name: "grey", channels: 1, toRGB: func(in, out []float64) {
			out[0] = in[0]
			out[1] = in[0]
			out[2] = in[0]
		}},
		{name: "RGB", channels: 3, toRGB: func(in, out []float64) {
			copy(out, in[:3])
		}},
		{name: "sRGB", channels: 3, toRGB: func(in, out []float64) {
			out[0] = SToLinear(in[0]/255.0) * 255.0
			out[1] = SToLinear(in[1]/255.0) * 255.0
			out[2] = SToLinear(in[2]/255.0) * 255.0
		}},
		{name: "XYZ", channels: 3, toRGB: func(in, out []float64) {
			for i := 0; i < 3; i++ {
				out[i] = 255.0 * (xyzToSRGB[i][0]*in[0] + xyzToSRGB[i][1]*in[1] + xyzToSRGB[i][2]*in[2])
			}
		}},
		{name: "Yxy", channels: 3, toRGB: func(in, out []float64) {
			y := in[2]
			if y == 0 {
				out[0], out[1], out[2] = 0, 0, 0
				return
			}
			xyz := []float64{in[1] * in[0] / y, in[0], (1.0 - in[1] - y) * in[0] / y}
			for i := 0; i < 3; i++ {
				out[i] = 255.0 * (xyzToSRGB[i][0]*xyz[0] + xyzToSRGB[i][1]*xyz[1] + xyzToSRGB[i][2]*xyz[2])
			}
		}},
		{name: "CMY", channels: 3, toRGB: func(in, out []float64) {
			out[0] = 255.0 - in[0]
			out[1] = 255.0 - in[1]
			out[2] = 255.0 - in[2]
		}},
		{name: "CMYK", channels: 4, toRGB: func(in, out []float64) {
			k := in[3]
			out[0] = (255.0 - in[0]) * (255.0 - k) / 255.0
			out[1] = (255.0 - in[1]) * (255.0 - k) / 255.0
			out[2] = (255.0 - in[2]) * (255.0 - k) / 255.0
		}},
		{name: "HSV", channels: 3, toRGB: hsvToRGB},
	}
}

func hsvToRGB(in, out []float64) {
	h := math.Mod(in[0], 360.0)
	if h < 0 {
		h += 360.0
	}
	s := in[1]
	v := in[2]
	c := v * s
	hp := h / 60.0
	x := c * (1.0 - math.Abs(math.Mod(hp, 2.0)-1.0))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := v - c
	out[0] = r + m
	out[1] = g + m
	out[2] = b + m
}

var spaceAliases = map[string]string{
	"gray":       "grey",
	"grey":       "grey",
	"rgb":        "RGB",
	"srgb":       "sRGB",
	"xyz":        "XYZ",
	"yxy":        "Yxy",
	"cmy":        "CMY",
	"cmyk":       "CMYK",
	"hsv":        "HSV",
	"r'g'b'":     "sRGB",
	"grey-value": "grey",
}

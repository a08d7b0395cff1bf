// Package color converts tagged multi-channel images into the canonical
// display color space, sRGB. It covers the color spaces the display engine
// needs; it is not a full color management system.
package color

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kpfaulkner/ndview-go/ndimage"
)

// Canonical is the display color space every conversion targets.
const Canonical = "sRGB"

// Manager holds the registry of known color spaces.
type Manager struct {
	spaces map[string]spaceDef
}

func NewManager() *Manager {
	m := &Manager{spaces: make(map[string]spaceDef)}
	for _, def := range defaultSpaces() {
		m.spaces[def.name] = def
	}
	return m
}

func (m *Manager) lookup(name string) (spaceDef, bool) {
	if def, ok := m.spaces[name]; ok {
		return def, true
	}
	if canonical, ok := spaceAliases[strings.ToLower(name)]; ok {
		def, ok := m.spaces[canonical]
		return def, ok
	}
	return spaceDef{}, false
}

// IsDefined reports whether name (or an alias of it) is a known color space.
func (m *Manager) IsDefined(name string) bool {
	_, ok := m.lookup(name)
	return ok
}

// NumberOfChannels returns the channel count of a known color space, or 0.
func (m *Manager) NumberOfChannels(name string) int {
	def, ok := m.lookup(name)
	if !ok {
		return 0
	}
	return def.channels
}

// Convert converts img, tagged with a known color space, into the target
// space. Only the canonical space is supported as target. The result is a
// new dfloat image with 3 tensor elements; if the image is already in the
// target space it is returned unchanged.
func (m *Manager) Convert(img *ndimage.Image, target string) (*ndimage.Image, error) {
	if !img.IsForged() {
		return nil, errors.New("image not forged")
	}
	src, ok := m.lookup(img.ColorSpace())
	if !ok {
		return nil, fmt.Errorf("unknown color space %q", img.ColorSpace())
	}
	dst, ok := m.lookup(target)
	if !ok {
		return nil, fmt.Errorf("unknown color space %q", target)
	}
	if img.TensorElements() != src.channels {
		return nil, fmt.Errorf("color space %q needs %d channels, image has %d", src.name, src.channels, img.TensorElements())
	}
	if src.name == dst.name {
		return img, nil
	}
	if dst.name != Canonical {
		return nil, fmt.Errorf("conversion to %q is not supported, only %q", dst.name, Canonical)
	}
	if img.DataType().IsComplex() {
		return nil, errors.New("cannot color-convert complex samples")
	}
	out, err := ndimage.New(ndimage.DT_DFLOAT, img.Sizes(), 3)
	if err != nil {
		return nil, err
	}
	out.SetColorSpace(Canonical)
	in := make([]float64, src.channels)
	rgb := make([]float64, 3)
	var convErr error
	img.EachPixel(func(coords []int, values []complex128) {
		for c := range in {
			in[c] = real(values[c])
		}
		src.toRGB(in, rgb)
		for c := 0; c < 3; c++ {
			v := LinearToS(rgb[c]/255.0) * 255.0
			if err := out.SetSample(coords, c, complex(v, 0)); err != nil && convErr == nil {
				convErr = err
			}
		}
	})
	if convErr != nil {
		return nil, convErr
	}
	return out, nil
}

// ConvertPixel converts a single pixel's channel values from a known color
// space into the canonical space. Same validation as Convert.
func (m *Manager) ConvertPixel(values []float64, from string) ([]float64, error) {
	src, ok := m.lookup(from)
	if !ok {
		return nil, fmt.Errorf("unknown color space %q", from)
	}
	if len(values) != src.channels {
		return nil, fmt.Errorf("color space %q needs %d channels, got %d", src.name, src.channels, len(values))
	}
	rgb := make([]float64, 3)
	if src.name == Canonical {
		copy(rgb, values)
		return rgb, nil
	}
	src.toRGB(values, rgb)
	for c := 0; c < 3; c++ {
		rgb[c] = LinearToS(rgb[c]/255.0) * 255.0
	}
	return rgb, nil
}

package imageformats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/kpfaulkner/ndview-go/ndimage"
)

// ReadRaw reads headerless little-endian samples into a new image with the
// default layout. The reader must supply exactly sizes product * tensorElems
// samples of the given type; binary samples are one byte each, nonzero is
// true.
func ReadRaw(input io.Reader, dtype ndimage.DataType, sizes []int, tensorElems int) (*ndimage.Image, error) {
	img, err := ndimage.New(dtype, sizes, tensorElems)
	if err != nil {
		return nil, err
	}
	if dtype == ndimage.DT_BIN {
		data := img.RawData().([]bool)
		raw := make([]uint8, len(data))
		if _, err := io.ReadFull(input, raw); err != nil {
			return nil, fmt.Errorf("reading %d binary samples: %w", len(data), err)
		}
		for ii, v := range raw {
			data[ii] = v != 0
		}
		return img, nil
	}
	if err := binary.Read(input, binary.LittleEndian, img.RawData()); err != nil {
		return nil, fmt.Errorf("reading %d %s samples: %w", img.NumberOfSamples(), dtype, err)
	}
	// A well-formed file has nothing left over.
	var extra [1]byte
	if n, _ := input.Read(extra[:]); n != 0 {
		return nil, errors.New("trailing data after samples")
	}
	return img, nil
}

package ndimage

import "fmt"

// DataType is the runtime tag for the sample representation of an Image.
// The set is closed; everything that dispatches on it does so with a switch.
type DataType uint8

const (
	DT_BIN DataType = iota
	DT_UINT8
	DT_UINT16
	DT_UINT32
	DT_UINT64
	DT_INT8
	DT_INT16
	DT_INT32
	DT_INT64
	DT_SFLOAT
	DT_DFLOAT
	DT_SCOMPLEX
	DT_DCOMPLEX
)

var dataTypeNames = map[DataType]string{
	DT_BIN:      "bin",
	DT_UINT8:    "uint8",
	DT_UINT16:   "uint16",
	DT_UINT32:   "uint32",
	DT_UINT64:   "uint64",
	DT_INT8:     "int8",
	DT_INT16:    "int16",
	DT_INT32:    "int32",
	DT_INT64:    "int64",
	DT_SFLOAT:   "sfloat",
	DT_DFLOAT:   "dfloat",
	DT_SCOMPLEX: "scomplex",
	DT_DCOMPLEX: "dcomplex",
}

func (dt DataType) String() string {
	if name, ok := dataTypeNames[dt]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", uint8(dt))
}

// ParseDataType returns the data type named by s. Accepts the Go type names
// as aliases (float32, complex128, bool, ...).
func ParseDataType(s string) (DataType, error) {
	switch s {
	case "bin", "bool", "binary":
		return DT_BIN, nil
	case "uint8":
		return DT_UINT8, nil
	case "uint16":
		return DT_UINT16, nil
	case "uint32":
		return DT_UINT32, nil
	case "uint64":
		return DT_UINT64, nil
	case "int8":
		return DT_INT8, nil
	case "int16":
		return DT_INT16, nil
	case "int32":
		return DT_INT32, nil
	case "int64":
		return DT_INT64, nil
	case "sfloat", "float32":
		return DT_SFLOAT, nil
	case "dfloat", "float64":
		return DT_DFLOAT, nil
	case "scomplex", "complex64":
		return DT_SCOMPLEX, nil
	case "dcomplex", "complex128":
		return DT_DCOMPLEX, nil
	}
	return 0, fmt.Errorf("unknown data type %q", s)
}

func (dt DataType) IsBinary() bool {
	return dt == DT_BIN
}

func (dt DataType) IsComplex() bool {
	return dt == DT_SCOMPLEX || dt == DT_DCOMPLEX
}

func (dt DataType) IsFloat() bool {
	return dt == DT_SFLOAT || dt == DT_DFLOAT
}

func (dt DataType) IsInteger() bool {
	return dt.IsUnsigned() || dt.IsSigned()
}

func (dt DataType) IsUnsigned() bool {
	switch dt {
	case DT_UINT8, DT_UINT16, DT_UINT32, DT_UINT64:
		return true
	}
	return false
}

func (dt DataType) IsSigned() bool {
	switch dt {
	case DT_INT8, DT_INT16, DT_INT32, DT_INT64:
		return true
	}
	return false
}

func (dt DataType) IsReal() bool {
	return dt.IsInteger() || dt.IsFloat()
}

// SizeOf returns the number of bytes per sample.
func (dt DataType) SizeOf() int {
	switch dt {
	case DT_BIN, DT_UINT8, DT_INT8:
		return 1
	case DT_UINT16, DT_INT16:
		return 2
	case DT_UINT32, DT_INT32, DT_SFLOAT:
		return 4
	case DT_UINT64, DT_INT64, DT_DFLOAT, DT_SCOMPLEX:
		return 8
	case DT_DCOMPLEX:
		return 16
	}
	return 0
}

// FloatType returns the float type holding the real parts of dt. Used when
// extracting the real or imaginary component of a complex image.
func (dt DataType) FloatType() DataType {
	if dt == DT_SCOMPLEX || dt == DT_SFLOAT {
		return DT_SFLOAT
	}
	return DT_DFLOAT
}

// allocate returns a zeroed backing slice of n samples for dt.
func (dt DataType) allocate(n int) any {
	switch dt {
	case DT_BIN:
		return make([]bool, n)
	case DT_UINT8:
		return make([]uint8, n)
	case DT_UINT16:
		return make([]uint16, n)
	case DT_UINT32:
		return make([]uint32, n)
	case DT_UINT64:
		return make([]uint64, n)
	case DT_INT8:
		return make([]int8, n)
	case DT_INT16:
		return make([]int16, n)
	case DT_INT32:
		return make([]int32, n)
	case DT_INT64:
		return make([]int64, n)
	case DT_SFLOAT:
		return make([]float32, n)
	case DT_DFLOAT:
		return make([]float64, n)
	case DT_SCOMPLEX:
		return make([]complex64, n)
	case DT_DCOMPLEX:
		return make([]complex128, n)
	}
	return nil
}

// lengthOf returns the sample count of a backing slice, or -1 if the slice
// is not one of the supported kinds.
func lengthOf(data any) int {
	switch d := data.(type) {
	case []bool:
		return len(d)
	case []uint8:
		return len(d)
	case []uint16:
		return len(d)
	case []uint32:
		return len(d)
	case []uint64:
		return len(d)
	case []int8:
		return len(d)
	case []int16:
		return len(d)
	case []int32:
		return len(d)
	case []int64:
		return len(d)
	case []float32:
		return len(d)
	case []float64:
		return len(d)
	case []complex64:
		return len(d)
	case []complex128:
		return len(d)
	}
	return -1
}

// dataTypeOf returns the tag matching a backing slice.
func dataTypeOf(data any) (DataType, bool) {
	switch data.(type) {
	case []bool:
		return DT_BIN, true
	case []uint8:
		return DT_UINT8, true
	case []uint16:
		return DT_UINT16, true
	case []uint32:
		return DT_UINT32, true
	case []uint64:
		return DT_UINT64, true
	case []int8:
		return DT_INT8, true
	case []int16:
		return DT_INT16, true
	case []int32:
		return DT_INT32, true
	case []int64:
		return DT_INT64, true
	case []float32:
		return DT_SFLOAT, true
	case []float64:
		return DT_DFLOAT, true
	case []complex64:
		return DT_SCOMPLEX, true
	case []complex128:
		return DT_DCOMPLEX, true
	}
	return 0, false
}

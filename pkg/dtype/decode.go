package dtype

import (
	"math"

	pkgerrors "github.com/pkg/errors"
)

// Decode converts raw bytes into a typed slice ([]float32, []uint16, ...)
// according to t.
func (t Type) Decode(raw []byte) (any, error) {
	n, err := t.Count(raw)
	if err != nil {
		return nil, err
	}
	order := t.Order
	size := t.Size

	switch t.Kind {
	case Bool:
		out := make([]bool, n)
		for i := range out {
			out[i] = raw[i] != 0
		}
		return out, nil

	case Int:
		switch size {
		case 1:
			out := make([]int8, n)
			for i := range out {
				out[i] = int8(raw[i])
			}
			return out, nil
		case 2:
			out := make([]int16, n)
			for i := range out {
				out[i] = int16(order.Uint16(raw[i*size:]))
			}
			return out, nil
		case 4:
			out := make([]int32, n)
			for i := range out {
				out[i] = int32(order.Uint32(raw[i*size:]))
			}
			return out, nil
		case 8:
			out := make([]int64, n)
			for i := range out {
				out[i] = int64(order.Uint64(raw[i*size:]))
			}
			return out, nil
		}

	case Uint:
		switch size {
		case 1:
			out := make([]uint8, n)
			copy(out, raw)
			return out, nil
		case 2:
			out := make([]uint16, n)
			for i := range out {
				out[i] = order.Uint16(raw[i*size:])
			}
			return out, nil
		case 4:
			out := make([]uint32, n)
			for i := range out {
				out[i] = order.Uint32(raw[i*size:])
			}
			return out, nil
		case 8:
			out := make([]uint64, n)
			for i := range out {
				out[i] = order.Uint64(raw[i*size:])
			}
			return out, nil
		}

	case Float:
		switch size {
		case 4:
			out := make([]float32, n)
			for i := range out {
				out[i] = math.Float32frombits(order.Uint32(raw[i*size:]))
			}
			return out, nil
		case 8:
			out := make([]float64, n)
			for i := range out {
				out[i] = math.Float64frombits(order.Uint64(raw[i*size:]))
			}
			return out, nil
		}

	case Complex:
		half := size / 2
		switch size {
		case 8:
			out := make([]complex64, n)
			for i := range out {
				re := math.Float32frombits(order.Uint32(raw[i*size:]))
				im := math.Float32frombits(order.Uint32(raw[i*size+half:]))
				out[i] = complex(re, im)
			}
			return out, nil
		case 16:
			out := make([]complex128, n)
			for i := range out {
				re := math.Float64frombits(order.Uint64(raw[i*size:]))
				im := math.Float64frombits(order.Uint64(raw[i*size+half:]))
				out[i] = complex(re, im)
			}
			return out, nil
		}
	}

	return nil, pkgerrors.Wrapf(ErrUnsupported, "cannot decode %s", t)
}

// Float64At returns element i of a slice produced by Decode as a float64.
// Complex values yield their real part and booleans yield 0 or 1.
func Float64At(data any, i int) float64 {
	switch d := data.(type) {
	case []bool:
		if d[i] {
			return 1
		}
		return 0
	case []int8:
		return float64(d[i])
	case []int16:
		return float64(d[i])
	case []int32:
		return float64(d[i])
	case []int64:
		return float64(d[i])
	case []uint8:
		return float64(d[i])
	case []uint16:
		return float64(d[i])
	case []uint32:
		return float64(d[i])
	case []uint64:
		return float64(d[i])
	case []float32:
		return float64(d[i])
	case []float64:
		return d[i]
	case []complex64:
		return float64(real(d[i]))
	case []complex128:
		return real(d[i])
	default:
		panic("dtype: unsupported slice type")
	}
}

// Len returns the length of a slice produced by Decode, or -1 if data is not
// such a slice.
func Len(data any) int {
	switch d := data.(type) {
	case []bool:
		return len(d)
	case []int8:
		return len(d)
	case []int16:
		return len(d)
	case []int32:
		return len(d)
	case []int64:
		return len(d)
	case []uint8:
		return len(d)
	case []uint16:
		return len(d)
	case []uint32:
		return len(d)
	case []uint64:
		return len(d)
	case []float32:
		return len(d)
	case []float64:
		return len(d)
	case []complex64:
		return len(d)
	case []complex128:
		return len(d)
	default:
		return -1
	}
}

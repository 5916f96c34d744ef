// Package ndarray holds decoded calibration payloads as a flat, row-major
// typed slice plus a shape.
package ndarray

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/calibdb/pkg/dtype"
)

var (
	// ErrShape is returned when the element count does not fit the shape.
	ErrShape = errors.New("element count does not match shape")

	// ErrIndex is returned for out-of-range or wrong-rank indices.
	ErrIndex = errors.New("index out of range")
)

// Array is an n-dimensional view over a typed slice produced by dtype.Decode.
type Array struct {
	Type  dtype.Type
	Shape []int
	// Data is the flat row-major payload, e.g. []float32 for "<f4".
	Data any
}

// New wraps data with the given shape. An empty shape is a scalar.
func New(t dtype.Type, data any, shape []int) (*Array, error) {
	n := dtype.Len(data)
	if n < 0 {
		return nil, pkgerrors.Errorf("unsupported payload type %T", data)
	}
	want, err := Size(shape)
	if err != nil {
		return nil, err
	}
	if n != want {
		return nil, pkgerrors.Wrapf(ErrShape, "%d elements cannot be reshaped to %v", n, shape)
	}
	return &Array{
		Type:  t,
		Shape: append([]int(nil), shape...),
		Data:  data,
	}, nil
}

// FromBytes decodes raw according to t and reshapes the result.
func FromBytes(t dtype.Type, raw []byte, shape []int) (*Array, error) {
	data, err := t.Decode(raw)
	if err != nil {
		return nil, err
	}
	return New(t, data, shape)
}

// Size returns the number of elements a shape describes.
func Size(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, pkgerrors.Wrapf(ErrShape, "negative dimension in %v", shape)
		}
		n *= d
	}
	return n, nil
}

// Len returns the total number of elements.
func (a *Array) Len() int {
	return dtype.Len(a.Data)
}

// Ndim returns the number of dimensions.
func (a *Array) Ndim() int {
	return len(a.Shape)
}

// Offset converts an n-dimensional index into a flat offset.
func (a *Array) Offset(idx ...int) (int, error) {
	if len(idx) != len(a.Shape) {
		return 0, pkgerrors.Wrapf(ErrIndex, "got %d indices for %d dimensions", len(idx), len(a.Shape))
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= a.Shape[i] {
			return 0, pkgerrors.Wrapf(ErrIndex, "index %d is out of bounds for axis %d with size %d", x, i, a.Shape[i])
		}
		off = off*a.Shape[i] + x
	}
	return off, nil
}

// At returns the element at idx as a float64. It panics on a bad index.
func (a *Array) At(idx ...int) float64 {
	off, err := a.Offset(idx...)
	if err != nil {
		panic(err)
	}
	return dtype.Float64At(a.Data, off)
}

// Float64s returns a copy of the payload converted to float64.
func (a *Array) Float64s() []float64 {
	out := make([]float64, a.Len())
	for i := range out {
		out[i] = dtype.Float64At(a.Data, i)
	}
	return out
}

func (a *Array) String() string {
	return fmt.Sprintf("ndarray(%s, shape=%v)", a.Type, a.Shape)
}

// Package cell provides a length-prefixed binary codec for Go values.
//
// Every encodable unit is a Cell. Scalars have fixed-width (Int, Long, Float, Double) or variable-length (Bytes, String) cells,
// structs are encoded by Object, and key-value pairs by MultiMap. Cells of variable length carry a Length;
// an optional integer prefix holding their length which is back-patched once the payload has been written.
//
// Encode and Decode dispatch plain Go values to the right cell, so most callers never build cells themselves.
package cell

import (
	"fmt"
	"reflect"

	"github.com/stewi1014/oc/encio"
	"github.com/stewi1014/oc/types"
)

// Cell is an encodable and decodable value.
//
// Cells are not thread safe, and hold nothing more than the state of a single Encode or Decode call.
// Encode writes nothing for an absent value, with the exception of framed types,
// which write a zero length so the decoder can tell the value is absent.
//
// Decode reads exactly what Encode wrote, or returns an error.
// Errors are of the kinds in encio; ErrEncoding, ErrDecoding and ErrUnsupported. A failed Decode leaves the cell in an undefined state.
type Cell interface {
	Encode(w *encio.Writer, p *Params) error
	Decode(r *encio.Reader, p *Params) error

	// Absent reports whether the cell holds no value.
	Absent() bool
}

// scalar is implemented by cells that can hold plain Go values.
type scalar interface {
	Cell
	load(v reflect.Value) error
	store(v reflect.Value)
}

var cellType = reflect.TypeOf(new(Cell)).Elem()

type shape int

const (
	shapeUnsupported shape = iota
	shapeCell
	shapeMarshaler
	shapeScalar
	shapeMap
	shapeList
	shapePointer
	shapeInterface
	shapeObject
)

func shapeOf(ty reflect.Type) shape {
	if ty.Kind() == reflect.Interface {
		return shapeInterface
	}
	if ty.Implements(cellType) || (ty.Kind() != reflect.Ptr && reflect.PtrTo(ty).Implements(cellType)) {
		return shapeCell
	}
	if types.Marshalable(ty) {
		return shapeMarshaler
	}

	switch ty.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return shapeScalar
	case reflect.Slice:
		if ty.Elem().Kind() == reflect.Uint8 {
			return shapeScalar
		}
		return shapeList
	case reflect.Map:
		return shapeMap
	case reflect.Ptr:
		if !types.Supported(ty) {
			return shapeUnsupported
		}
		return shapePointer
	case reflect.Interface:
		return shapeInterface
	case reflect.Struct:
		return shapeObject
	}
	return shapeUnsupported
}

// newScalar returns the cell for a scalar type, configured from the tag of the current field.
func newScalar(ty reflect.Type, tag types.Tag) (scalar, error) {
	var s scalar
	switch ty.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		s = NewInt(1)
	case reflect.Int16, reflect.Uint16:
		s = NewInt(2)
	case reflect.Int32, reflect.Uint32:
		s = NewInt(4)
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		s = NewLong()
	case reflect.Float32:
		s = new(Float)
	case reflect.Float64:
		s = new(Double)
	case reflect.String:
		s = new(String)
	case reflect.Slice:
		s = new(Bytes)
	default:
		return nil, encio.NewError(encio.ErrUnsupported, fmt.Sprintf("%v is not a scalar", ty), "")
	}

	if tag.Width > 0 {
		switch s.(type) {
		case *Int, *Long:
			if tag.Width == 8 {
				s = NewLong()
			} else {
				s = NewInt(tag.Width)
			}
		}
	}

	lengthOf(s).applyTag(tag)
	return s, nil
}

func lengthOf(s scalar) *Length {
	switch s := s.(type) {
	case *Int:
		return &s.Length
	case *Long:
		return &s.Length
	case *Float:
		return &s.Length
	case *Double:
		return &s.Length
	case *Bytes:
		return &s.Length
	case *String:
		return &s.Length
	}
	panic(fmt.Sprintf("unknown scalar %T", s))
}

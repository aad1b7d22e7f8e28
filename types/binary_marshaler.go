package types

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/stewi1014/oc/encio"
)

var (
	// BinaryMarshalerType is the reflect.Type of encoding.BinaryMarshaler.
	BinaryMarshalerType = reflect.TypeOf(new(encoding.BinaryMarshaler)).Elem()

	// BinaryUnmarshalerType is the reflect.Type of encoding.BinaryUnmarshaler.
	BinaryUnmarshalerType = reflect.TypeOf(new(encoding.BinaryUnmarshaler)).Elem()
)

// ImplementsBinaryMarshaler returns a helpful error if the given type does not implement both
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler.
func ImplementsBinaryMarshaler(t reflect.Type) error {
	if !t.Implements(BinaryMarshalerType) {
		return encio.NewError(encio.ErrBadType, fmt.Sprintf("%v does not implement encoding.BinaryMarshaler", t), "")
	}
	if !t.Implements(BinaryUnmarshalerType) {
		return encio.NewError(encio.ErrBadType, fmt.Sprintf("%v does not implement encoding.BinaryUnmarshaler", t), "")
	}
	return nil
}

// Marshalable reports whether values of t can be encoded with their own binary marshalling methods.
// The unmarshaller must be implemented on *t, as it is decoded into a new value.
func Marshalable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface:
		return false
	}
	return ImplementsBinaryMarshaler(reflect.PtrTo(t)) == nil
}

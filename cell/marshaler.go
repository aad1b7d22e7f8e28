package cell

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/stewi1014/oc/encio"
)

// marshaler encodes types with their own encoding.BinaryMarshaler and encoding.BinaryUnmarshaler methods,
// such as time.Time, as byte strings.
type marshaler struct {
	Bytes
}

func (e *marshaler) encode(w *encio.Writer, v reflect.Value, p *Params) error {
	var m encoding.BinaryMarshaler
	switch {
	case v.CanAddr():
		m = v.Addr().Interface().(encoding.BinaryMarshaler)
	default:
		c := reflect.New(v.Type())
		c.Elem().Set(v)
		m = c.Interface().(encoding.BinaryMarshaler)
	}

	buff, err := m.MarshalBinary()
	if err != nil {
		return encio.Errorf(encio.ErrEncoding, err, fmt.Sprintf("marshalling %v", v.Type()))
	}
	if buff == nil {
		buff = []byte{}
	}

	e.applyTag(p.tag())
	e.Value = buff
	return e.Bytes.Encode(w, p)
}

// decode returns a new value of type ty, or an invalid value if it was absent.
func (e *marshaler) decode(r *encio.Reader, ty reflect.Type, p *Params) (reflect.Value, error) {
	e.applyTag(p.tag())
	if err := e.Bytes.Decode(r, p); err != nil || e.Absent() {
		return reflect.Value{}, err
	}

	v := reflect.New(ty)
	if err := v.Interface().(encoding.BinaryUnmarshaler).UnmarshalBinary(e.Value); err != nil {
		return reflect.Value{}, encio.Errorf(encio.ErrDecoding, err, fmt.Sprintf("unmarshalling %v", ty))
	}
	return v.Elem(), nil
}

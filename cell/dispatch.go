package cell

import (
	"fmt"
	"reflect"

	"github.com/stewi1014/oc/encio"
)

// Encode encodes v to w. If p is nil, NewParams() is used.
func Encode(w *encio.Writer, v interface{}, p *Params) error {
	if p == nil {
		p = NewParams()
	}
	return EncodeValue(w, reflect.ValueOf(v), p)
}

// Decode decodes from r into v, which must be a non-nil pointer. If p is nil, NewParams() is used.
// If the decoded value is absent, v is left untouched.
func Decode(r *encio.Reader, v interface{}, p *Params) error {
	if p == nil {
		p = NewParams()
	}

	ptr := reflect.ValueOf(v)
	if ptr.Kind() != reflect.Ptr {
		return encio.NewError(encio.ErrBadType, fmt.Sprintf("decoded values must be passed by reference (pointer), got %T", v), "")
	}
	if ptr.IsNil() {
		return encio.NewError(encio.ErrNilPointer, "cannot decode into nil pointer", "")
	}

	dv, err := DecodeValue(r, ptr.Elem().Type(), ptr.Elem(), p)
	if err != nil {
		return err
	}
	if dv.IsValid() {
		ptr.Elem().Set(dv)
	}
	return nil
}

// EncodeValue encodes v to w using the cell for its type.
// An invalid v is absent, and writes nothing.
func EncodeValue(w *encio.Writer, v reflect.Value, p *Params) error {
	if !v.IsValid() {
		return nil
	}

	ty := v.Type()
	switch shapeOf(ty) {
	case shapeCell:
		return asCell(v).Encode(w, p)

	case shapeMarshaler:
		return new(marshaler).encode(w, v, p)

	case shapeScalar:
		s, err := newScalar(ty, p.tag())
		if err != nil {
			return err
		}
		if err := s.load(v); err != nil {
			return err
		}
		return s.Encode(w, p)

	case shapeMap:
		return new(goMap).encode(w, v, p)

	case shapeList:
		return new(list).encode(w, v, p)

	case shapePointer:
		if v.IsNil() {
			return encodeNil(w, ty.Elem(), p)
		}
		return EncodeValue(w, v.Elem(), p)

	case shapeInterface:
		if v.IsNil() {
			return nil
		}
		return EncodeValue(w, v.Elem(), p)

	case shapeObject:
		return objectOf(v).Encode(w, p)
	}

	return encio.NewError(encio.ErrUnsupported, fmt.Sprintf("cannot encode %v", ty), "")
}

// encodeNil writes an absent value of type ty.
// Framed types write a zero length; scalars and binary marshalers write nothing.
func encodeNil(w *encio.Writer, ty reflect.Type, p *Params) error {
	switch shapeOf(ty) {
	case shapeObject:
		return (&Object{Type: ty}).Encode(w, p)
	case shapeMap:
		return new(goMap).encode(w, reflect.Zero(ty), p)
	case shapeList:
		return new(list).encode(w, reflect.Zero(ty), p)
	case shapeCell:
		return reflect.New(ty).Interface().(Cell).Encode(w, p)
	}
	return nil
}

// omitted reports whether encoding v writes nothing at all; an absent scalar, binary marshaler or interface.
func omitted(v reflect.Value) bool {
	for {
		if !v.IsValid() {
			return true
		}

		switch shapeOf(v.Type()) {
		case shapeInterface:
			if v.IsNil() {
				return true
			}
			v = v.Elem()
		case shapePointer:
			if v.IsNil() {
				s := shapeOf(v.Type().Elem())
				return s == shapeScalar || s == shapeMarshaler
			}
			v = v.Elem()
		case shapeCell:
			_, isScalar := asCell(v).(scalar)
			return isScalar && asCell(v).Absent()
		case shapeScalar:
			return v.Kind() == reflect.Slice && v.IsNil()
		default:
			return false
		}
	}
}

// asCell returns v, which implements Cell or whose pointer does, as a Cell.
// A nil pointer is replaced with an empty cell.
func asCell(v reflect.Value) Cell {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			v = reflect.New(v.Type().Elem())
		}
		return v.Interface().(Cell)
	}
	if v.CanAddr() {
		return v.Addr().Interface().(Cell)
	}
	c := reflect.New(v.Type())
	c.Elem().Set(v)
	return c.Interface().(Cell)
}

// objectOf returns an Object cell encoding the struct v.
func objectOf(v reflect.Value) *Object {
	if v.CanAddr() {
		return &Object{Value: v.Addr().Interface()}
	}
	c := reflect.New(v.Type())
	c.Elem().Set(v)
	return &Object{Value: c.Interface()}
}

// DecodeValue decodes a value of type ty from r.
// cur is the current value, which is decoded into where the type allows merging; it may be invalid.
// It returns an invalid value if the decoded value is absent.
func DecodeValue(r *encio.Reader, ty reflect.Type, cur reflect.Value, p *Params) (reflect.Value, error) {
	switch shapeOf(ty) {
	case shapeCell:
		return decodeCell(r, ty, cur, p)

	case shapeMarshaler:
		return new(marshaler).decode(r, ty, p)

	case shapeScalar:
		s, err := newScalar(ty, p.tag())
		if err != nil {
			return reflect.Value{}, err
		}
		if err := s.Decode(r, p); err != nil {
			return reflect.Value{}, err
		}
		if s.Absent() {
			return reflect.Value{}, nil
		}
		v := reflect.New(ty).Elem()
		s.store(v)
		return v, nil

	case shapeMap:
		return new(goMap).decode(r, ty, cur, p)

	case shapeList:
		return new(list).decode(r, ty, p)

	case shapePointer:
		var elem reflect.Value
		if cur.IsValid() && !cur.IsNil() {
			elem = cur.Elem()
		}
		v, err := DecodeValue(r, ty.Elem(), elem, p)
		if err != nil || !v.IsValid() {
			return reflect.Value{}, err
		}
		if elem.IsValid() {
			elem.Set(v)
			return cur, nil
		}
		ptr := reflect.New(ty.Elem())
		ptr.Elem().Set(v)
		return ptr, nil

	case shapeInterface:
		if !cur.IsValid() || cur.IsNil() {
			return reflect.Value{}, encio.Errorf(encio.ErrDecoding, encio.ErrBadType, fmt.Sprintf("cannot decode into %v without a concrete value to decode into", ty))
		}
		v, err := DecodeValue(r, cur.Elem().Type(), cur.Elem(), p)
		if err != nil || !v.IsValid() {
			return reflect.Value{}, err
		}
		out := reflect.New(ty).Elem()
		out.Set(v)
		return out, nil

	case shapeObject:
		o := &Object{Type: ty}
		if cur.IsValid() {
			c := reflect.New(ty)
			c.Elem().Set(cur)
			o.Value = c.Interface()
		}
		if err := o.Decode(r, p); err != nil || o.Absent() {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(o.Value).Elem(), nil
	}

	return reflect.Value{}, encio.NewError(encio.ErrUnsupported, fmt.Sprintf("cannot decode %v", ty), "")
}

// decodeCell decodes a type implementing Cell.
// Existing cells are decoded into, so prefixes and declared lengths set on them are kept.
func decodeCell(r *encio.Reader, ty reflect.Type, cur reflect.Value, p *Params) (reflect.Value, error) {
	var c reflect.Value
	switch {
	case ty.Kind() == reflect.Ptr && cur.IsValid() && !cur.IsNil():
		c = cur
	case ty.Kind() == reflect.Ptr:
		c = reflect.New(ty.Elem())
	default:
		c = reflect.New(ty)
		if cur.IsValid() {
			c.Elem().Set(cur)
		}
	}

	cell := c.Interface().(Cell)
	if err := cell.Decode(r, p); err != nil || cell.Absent() {
		return reflect.Value{}, err
	}

	if ty.Kind() == reflect.Ptr {
		return c, nil
	}
	return c.Elem(), nil
}

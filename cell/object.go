package cell

import (
	"fmt"
	"reflect"

	"github.com/stewi1014/oc/encio"
	"github.com/stewi1014/oc/types"
	"go.uber.org/zap"
)

// Object is a cell for structs. Its fields are encoded in order, each through the dispatcher.
//
// With auto-length framing the object is prefixed by the byte length of its fields.
// A nil Value is encoded as a zero length, and a decoded length of zero or less leaves the object absent;
// nothing is allocated and no field is touched.
type Object struct {
	Length

	// Value is a pointer to the struct. When decoding, it is decoded into, or allocated from Type if nil.
	Value interface{}

	// Type is the struct type to allocate when decoding without a Value.
	Type reflect.Type

	// Fields overrides the field order given by Params.Cache.
	Fields []*types.Field

	absent bool
}

// Absent implements Cell.
// It reports whether the last decode found an absent object, or whether there is no Value to encode.
func (e *Object) Absent() bool {
	if e.absent {
		return true
	}
	if e.Value == nil {
		return true
	}
	v := reflect.ValueOf(e.Value)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

func (e *Object) fields(ty reflect.Type, p *Params) ([]*types.Field, error) {
	if e.Fields != nil {
		return e.Fields, nil
	}
	return p.cache().Fields(ty, p.log())
}

// Encode implements Cell.
func (e *Object) Encode(w *encio.Writer, p *Params) error {
	if !p.SkipObjectLength {
		e.autoPrefix(p)
	}
	p.SkipObjectLength = false

	if err := e.begin(w); err != nil {
		return err
	}
	start := w.Len()

	if !e.Absent() {
		v := reflect.ValueOf(e.Value)
		if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
			return encio.NewError(encio.ErrBadType, fmt.Sprintf("Object value must be a pointer to a struct, got %T", e.Value), "")
		}

		if err := e.encodeFields(w, v.Elem(), p); err != nil {
			return err
		}
	}

	return e.end(w, p, w.Len()-start)
}

func (e *Object) encodeFields(w *encio.Writer, obj reflect.Value, p *Params) error {
	fields, err := e.fields(obj.Type(), p)
	if err != nil {
		return err
	}

	parent := p.Field
	defer func() { p.Field = parent }()

	for _, f := range fields {
		p.Field = f
		if err := EncodeValue(w, f.Get(obj), p); err != nil {
			return err
		}
	}
	return nil
}

// Decode implements Cell.
// Fields are merged into an existing Value; fields that decode as absent are left untouched.
// Bytes left over inside the object's length, such as fields unknown to this type, are skipped.
func (e *Object) Decode(r *encio.Reader, p *Params) error {
	if !p.SkipObjectLength {
		e.autoPrefix(p)
	}
	p.SkipObjectLength = false
	e.absent = false

	src := r
	if e.Prefix != nil || e.Declared > 0 {
		n, dynamic, err := e.resolve(r, p, 0)
		if err != nil {
			return err
		}
		if dynamic && n <= 0 {
			e.absent = true
			return nil
		}

		if src, err = r.Limit(n); err != nil {
			return err
		}
	}

	obj, err := e.instance()
	if err != nil {
		return err
	}

	if err := e.decodeFields(src, obj, p); err != nil {
		return err
	}

	if src != r && src.Available() > 0 {
		p.log().Warn("skipping trailing bytes in object",
			zap.Stringer("type", obj.Type()),
			zap.Int("bytes", src.Available()),
		)
	}
	return nil
}

// instance returns the struct to decode into, allocating it if needed.
func (e *Object) instance() (reflect.Value, error) {
	if e.Value != nil {
		v := reflect.ValueOf(e.Value)
		if v.Kind() != reflect.Ptr || v.Type().Elem().Kind() != reflect.Struct {
			return reflect.Value{}, encio.NewError(encio.ErrDecoding, fmt.Sprintf("cannot decode into %T, want a pointer to a struct", e.Value), "")
		}
		if v.IsNil() {
			v = reflect.New(v.Type().Elem())
			e.Value = v.Interface()
		}
		return v.Elem(), nil
	}

	ty := e.Type
	if ty != nil && ty.Kind() == reflect.Ptr {
		ty = ty.Elem()
	}
	if ty == nil || ty.Kind() != reflect.Struct {
		return reflect.Value{}, encio.NewError(encio.ErrDecoding, fmt.Sprintf("cannot construct an instance of %v", e.Type), "")
	}

	v := reflect.New(ty)
	e.Value = v.Interface()
	return v.Elem(), nil
}

func (e *Object) decodeFields(r *encio.Reader, obj reflect.Value, p *Params) error {
	fields, err := e.fields(obj.Type(), p)
	if err != nil {
		return err
	}

	parent := p.Field
	defer func() { p.Field = parent }()

	for _, f := range fields {
		p.Field = f
		v, err := DecodeValue(r, f.Type, f.Get(obj), p)
		if err != nil {
			return err
		}
		if v.IsValid() {
			f.Set(obj, v)
		}
	}
	return nil
}

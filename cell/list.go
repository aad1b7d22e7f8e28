package cell

import (
	"fmt"
	"reflect"

	"github.com/stewi1014/oc/encio"
)

// list encodes slices as a block of elements, framed by the number of elements the same way maps are.
type list struct {
	Length
}

func (e *list) encode(w *encio.Writer, v reflect.Value, p *Params) error {
	e.autoPrefix(p)
	if err := e.begin(w); err != nil {
		return err
	}
	w.MoveToEnd()

	parent := p.swapField(nil)
	defer p.swapField(parent)

	n := v.Len()
	for i := 0; i < n; i++ {
		if omitted(v.Index(i)) {
			return encio.NewError(encio.ErrEncoding, fmt.Sprintf("element %v of %v is absent, and cannot be counted", i, v.Type()), "")
		}
		if err := EncodeValue(w, v.Index(i), p); err != nil {
			return err
		}
	}

	return e.end(w, p, n)
}

// decode returns a new slice of type ty, or an invalid value if it was absent.
// Elements that decode as absent are left as zero values.
func (e *list) decode(r *encio.Reader, ty reflect.Type, p *Params) (reflect.Value, error) {
	e.autoPrefix(p)
	count := -1
	if e.Prefix != nil || e.Declared > 0 {
		n, dynamic, err := e.resolve(r, p, 0)
		if err != nil {
			return reflect.Value{}, err
		}
		if dynamic && n <= 0 {
			return reflect.Value{}, nil
		}
		count = n
	}

	parent := p.swapField(nil)
	defer p.swapField(parent)

	capacity := count
	if capacity < 0 {
		capacity = 0
	}
	s := reflect.MakeSlice(ty, 0, capacity)
	for i := 0; count < 0 && r.Available() > 0 || i < count; i++ {
		v, err := DecodeValue(r, ty.Elem(), reflect.Value{}, p)
		if err != nil {
			return reflect.Value{}, err
		}
		if !v.IsValid() {
			v = reflect.Zero(ty.Elem())
		}
		s = reflect.Append(s, v)
	}
	return s, nil
}

package cell

// Integer cells

import (
	"fmt"
	"reflect"

	"github.com/stewi1014/oc/encio"
)

// NewInt returns an Int cell of the given width; 1, 2 or 4 bytes.
func NewInt(width int) *Int {
	return &Int{Length: Length{Declared: width}}
}

// Int is a cell for integers of up to 4 bytes. Declared is the width, defaulting to 4.
// Integers are written in the Params' byte order, and read back sign-extended.
type Int struct {
	Length
	Value *int32
}

// Absent implements Cell.
func (e *Int) Absent() bool { return e.Value == nil }

func (e *Int) width() int {
	if e.Declared > 0 {
		return e.Declared
	}
	return 4
}

func (e *Int) bytes(p *Params) ([]byte, error) {
	w := e.width()
	if w != 1 && w != 2 && w != 4 {
		return nil, encio.NewError(encio.ErrEncoding, fmt.Sprintf("unsupported declared width %v for Int", w), "")
	}

	buff := make([]byte, w)
	return buff, encio.PutInt(p.order(), buff, int64(*e.Value))
}

// Encode implements Cell.
// Nothing is written if Value is nil.
func (e *Int) Encode(w *encio.Writer, p *Params) error {
	if e.Value == nil {
		return nil
	}

	buff, err := e.bytes(p)
	if err != nil {
		return err
	}
	return e.writePayload(w, p, buff)
}

// Decode implements Cell.
func (e *Int) Decode(r *encio.Reader, p *Params) error {
	buff, _, err := e.readPayload(r, p, e.width())
	if err != nil {
		return err
	}
	if buff == nil {
		e.Value = nil
		return nil
	}

	n, err := encio.Int(p.order(), buff)
	if err != nil {
		return err
	}
	if n != int64(int32(n)) {
		return encio.NewError(encio.ErrDecoding, fmt.Sprintf("%v does not fit in Int", n), "")
	}

	v := int32(n)
	e.Value = &v
	return nil
}

func (e *Int) load(v reflect.Value) error {
	n := intValue(v)
	if err := encio.CheckWidth(e.width(), n); err != nil {
		return err
	}
	i := int32(n)
	e.Value = &i
	return nil
}

func (e *Int) store(v reflect.Value) {
	setInt(v, int64(*e.Value))
}

// NewLong returns a new Long cell.
func NewLong() *Long {
	return &Long{Length: Length{Declared: 8}}
}

// Long is a cell for 8 byte integers.
type Long struct {
	Length
	Value *int64
}

// Absent implements Cell.
func (e *Long) Absent() bool { return e.Value == nil }

// Encode implements Cell.
// Nothing is written if Value is nil.
func (e *Long) Encode(w *encio.Writer, p *Params) error {
	if e.Value == nil {
		return nil
	}

	if e.Declared > 0 && e.Declared != 8 {
		return encio.NewError(encio.ErrEncoding, fmt.Sprintf("unsupported declared width %v for Long", e.Declared), "")
	}

	buff := make([]byte, 8)
	if err := encio.PutInt(p.order(), buff, *e.Value); err != nil {
		return err
	}
	return e.writePayload(w, p, buff)
}

// Decode implements Cell.
// Dynamic lengths of 1, 2 or 4 bytes are accepted and sign-extended.
func (e *Long) Decode(r *encio.Reader, p *Params) error {
	buff, _, err := e.readPayload(r, p, 8)
	if err != nil {
		return err
	}
	if buff == nil {
		e.Value = nil
		return nil
	}

	n, err := encio.Int(p.order(), buff)
	if err != nil {
		return err
	}

	e.Value = &n
	return nil
}

func (e *Long) load(v reflect.Value) error {
	n := intValue(v)
	e.Value = &n
	return nil
}

func (e *Long) store(v reflect.Value) {
	setInt(v, *e.Value)
}

// intValue returns the integer held by v, a bool, int or uint kind.
func intValue(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return 1
		}
		return 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	default:
		return v.Int()
	}
}

// setInt sets v, a bool, int or uint kind, truncating n to fit.
func setInt(v reflect.Value, n int64) {
	switch v.Kind() {
	case reflect.Bool:
		v.SetBool(n != 0)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(uint64(n))
	default:
		v.SetInt(n)
	}
}

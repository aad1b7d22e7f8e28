package cell

import (
	"reflect"

	"github.com/stewi1014/oc/encio"
)

// Bytes is a cell for byte strings.
// Its length is variable; without a prefix or a declared length, decoding consumes the rest of the reader.
// A nil Value writes nothing at all.
type Bytes struct {
	Length
	Value []byte
}

// Absent implements Cell.
func (e *Bytes) Absent() bool { return e.Value == nil }

// Encode implements Cell.
func (e *Bytes) Encode(w *encio.Writer, p *Params) error {
	if e.Value == nil {
		return nil
	}

	e.autoPrefix(p)
	return e.writePayload(w, p, e.Value)
}

// Decode implements Cell.
// Reading nothing from the end of the reader leaves Value nil.
func (e *Bytes) Decode(r *encio.Reader, p *Params) error {
	e.autoPrefix(p)
	buff, _, err := e.readPayload(r, p, 0)
	if err != nil {
		return err
	}

	if buff == nil {
		e.Value = nil
		return nil
	}

	e.Value = buff
	return nil
}

func (e *Bytes) load(v reflect.Value) error {
	if v.IsNil() {
		e.Value = nil
		return nil
	}
	e.Value = v.Bytes()
	return nil
}

func (e *Bytes) store(v reflect.Value) {
	v.SetBytes(e.Value)
}

// String is a cell for strings. It is encoded the same as Bytes.
type String struct {
	Length
	Value *string
}

// Absent implements Cell.
func (e *String) Absent() bool { return e.Value == nil }

// Encode implements Cell.
func (e *String) Encode(w *encio.Writer, p *Params) error {
	if e.Value == nil {
		return nil
	}

	e.autoPrefix(p)
	return e.writePayload(w, p, []byte(*e.Value))
}

// Decode implements Cell.
// Reading nothing from the end of the reader leaves Value nil.
func (e *String) Decode(r *encio.Reader, p *Params) error {
	e.autoPrefix(p)
	buff, _, err := e.readPayload(r, p, 0)
	if err != nil {
		return err
	}

	if buff == nil {
		e.Value = nil
		return nil
	}

	str := string(buff)
	e.Value = &str
	return nil
}

func (e *String) load(v reflect.Value) error {
	str := v.String()
	e.Value = &str
	return nil
}

func (e *String) store(v reflect.Value) {
	v.SetString(*e.Value)
}

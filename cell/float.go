package cell

// Float type cells

import (
	"fmt"
	"math"
	"reflect"

	"github.com/stewi1014/oc/encio"
)

// Float is a cell for float32s. It is written as the 4 byte integer holding its IEEE-754 bits.
type Float struct {
	Length
	Value *float32
}

// Absent implements Cell.
func (e *Float) Absent() bool { return e.Value == nil }

// Encode implements Cell.
// Nothing is written if Value is nil.
func (e *Float) Encode(w *encio.Writer, p *Params) error {
	if e.Value == nil {
		return nil
	}

	buff := make([]byte, 4)
	p.order().PutUint32(buff, math.Float32bits(*e.Value))
	return e.writePayload(w, p, buff)
}

// Decode implements Cell.
func (e *Float) Decode(r *encio.Reader, p *Params) error {
	buff, _, err := e.readPayload(r, p, 4)
	if err != nil {
		return err
	}
	if buff == nil {
		e.Value = nil
		return nil
	}
	if len(buff) != 4 {
		return encio.NewError(encio.ErrDecoding, fmt.Sprintf("cannot convert %v bytes to a Float", len(buff)), "")
	}

	f := math.Float32frombits(p.order().Uint32(buff))
	e.Value = &f
	return nil
}

func (e *Float) load(v reflect.Value) error {
	f := float32(v.Float())
	e.Value = &f
	return nil
}

func (e *Float) store(v reflect.Value) {
	v.SetFloat(float64(*e.Value))
}

// Double is a cell for float64s. It is written as the 8 byte integer holding its IEEE-754 bits.
type Double struct {
	Length
	Value *float64
}

// Absent implements Cell.
func (e *Double) Absent() bool { return e.Value == nil }

// Encode implements Cell.
// Nothing is written if Value is nil.
func (e *Double) Encode(w *encio.Writer, p *Params) error {
	if e.Value == nil {
		return nil
	}

	buff := make([]byte, 8)
	p.order().PutUint64(buff, math.Float64bits(*e.Value))
	return e.writePayload(w, p, buff)
}

// Decode implements Cell.
func (e *Double) Decode(r *encio.Reader, p *Params) error {
	buff, _, err := e.readPayload(r, p, 8)
	if err != nil {
		return err
	}
	if buff == nil {
		e.Value = nil
		return nil
	}
	if len(buff) != 8 {
		return encio.NewError(encio.ErrDecoding, fmt.Sprintf("cannot convert %v bytes to a Double", len(buff)), "")
	}

	f := math.Float64frombits(p.order().Uint64(buff))
	e.Value = &f
	return nil
}

func (e *Double) load(v reflect.Value) error {
	f := v.Float()
	e.Value = &f
	return nil
}

func (e *Double) store(v reflect.Value) {
	v.SetFloat(*e.Value)
}

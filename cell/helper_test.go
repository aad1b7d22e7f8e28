package cell_test

import (
	"encoding/binary"
	"testing"

	"github.com/maxatome/go-testdeep/td"
	"github.com/stewi1014/oc/cell"
	"github.com/stewi1014/oc/encio"
)

var orders = []binary.ByteOrder{binary.BigEndian, binary.LittleEndian}

func params(order binary.ByteOrder) *cell.Params {
	p := cell.NewParams()
	p.Order = order
	return p
}

func ptr[T any](v T) *T {
	return &v
}

func encode(t testing.TB, v interface{}, p *cell.Params) []byte {
	t.Helper()
	w := encio.NewWriter()
	td.CmpNoError(t, cell.Encode(w, v, p))
	return w.Bytes()
}

// roundTrip encodes in, decodes into out and checks every byte was read.
func roundTrip(t testing.TB, in, out interface{}, p *cell.Params) []byte {
	t.Helper()
	buff := encode(t, in, p)

	r := encio.NewReader(buff)
	td.CmpNoError(t, cell.Decode(r, out, p))
	td.Cmp(t, r.Available(), 0, "data remaining in buffer")
	return buff
}

package cell_test

import (
	"testing"

	"github.com/maxatome/go-testdeep/td"
	"github.com/stewi1014/oc/cell"
	"github.com/stewi1014/oc/encio"
)

func bare() *cell.Params {
	p := cell.NewParams()
	p.AutoLength = false
	return p
}

func TestDynamicLength(t *testing.T) {
	in := &cell.Bytes{Length: cell.Length{Prefix: cell.NewInt(1)}, Value: []byte("abc")}
	w := encio.NewWriter()
	td.CmpNoError(t, in.Encode(w, bare()))
	td.Cmp(t, w.Bytes(), []byte{3, 'a', 'b', 'c'})

	out := &cell.Bytes{Length: cell.Length{Prefix: cell.NewInt(1)}}
	r := encio.NewReader(append(w.Bytes(), 'd'))
	td.CmpNoError(t, out.Decode(r, bare()))
	td.Cmp(t, out.Value, []byte("abc"))
	td.Cmp(t, r.Available(), 1)
}

func TestSpecifiedLength(t *testing.T) {
	in := &cell.Bytes{Length: cell.Length{Declared: 3}, Value: []byte("abc")}
	w := encio.NewWriter()
	td.CmpNoError(t, in.Encode(w, cell.NewParams()))
	td.Cmp(t, w.Bytes(), []byte("abc"), "no prefix is added to cells with a declared length")

	out := &cell.Bytes{Length: cell.Length{Declared: 3}}
	r := encio.NewReader([]byte("abcdef"))
	td.CmpNoError(t, out.Decode(r, cell.NewParams()))
	td.Cmp(t, out.Value, []byte("abc"))
	td.Cmp(t, r.Available(), 3)

	in.Value = []byte("abcd")
	td.CmpErrorIs(t, in.Encode(encio.NewWriter(), cell.NewParams()), encio.ErrEncoding)
}

func TestAvailableLength(t *testing.T) {
	out := new(cell.String)
	r := encio.NewReader([]byte("the rest"))
	td.CmpNoError(t, out.Decode(r, bare()))
	td.Cmp(t, *out.Value, "the rest")
	td.Cmp(t, r.Available(), 0)

	out = new(cell.String)
	td.CmpNoError(t, out.Decode(encio.NewReader(nil), bare()))
	td.Cmp(t, out.Absent(), true, "nothing left is absent")
}

func TestLengthPriority(t *testing.T) {
	out := &cell.Bytes{Length: cell.Length{Declared: 1, Prefix: cell.NewInt(1)}}
	td.CmpNoError(t, out.Decode(encio.NewReader([]byte{3, 'a', 'b', 'c'}), bare()))
	td.Cmp(t, out.Value, []byte("abc"), "prefix wins over declared length")
}

func TestAutoLength(t *testing.T) {
	in := &cell.Bytes{Value: []byte("abc")}
	w := encio.NewWriter()
	td.CmpNoError(t, in.Encode(w, cell.NewParams()))
	td.Cmp(t, w.Bytes(), []byte{0, 0, 0, 3, 'a', 'b', 'c'})
	td.Cmp(t, in.Prefix, td.NotNil(), "auto length attaches a prefix")

	// Zero length with a prefix is present and empty.
	out := new(cell.Bytes)
	td.CmpNoError(t, out.Decode(encio.NewReader([]byte{0, 0, 0, 0}), cell.NewParams()))
	td.Cmp(t, out.Value, []byte{})
	td.Cmp(t, out.Absent(), false)
}

func TestLengthPosition(t *testing.T) {
	w := encio.NewWriter()
	td.CmpNoError(t, encio.Write([]byte{1, 2, 3}, w))

	b := &cell.Bytes{Value: []byte("x")}
	td.CmpNoError(t, b.Encode(w, cell.NewParams()))
	td.Cmp(t, b.Position(), 3)
	td.Cmp(t, b.Prefix.Position(), 3)
}

func TestLengthTooBig(t *testing.T) {
	out := new(cell.Bytes)
	err := out.Decode(encio.NewReader([]byte{0x7f, 0xff, 0xff, 0xff}), cell.NewParams())
	td.CmpErrorIs(t, err, encio.ErrDecoding)
}

func TestPrefixWidths(t *testing.T) {
	for _, width := range []int{1, 2, 4} {
		in := &cell.String{Length: cell.Length{Prefix: cell.NewInt(width)}, Value: ptr("hello")}
		w := encio.NewWriter()
		td.CmpNoError(t, in.Encode(w, cell.NewParams()))
		td.Cmp(t, w.Len(), width+5)

		out := &cell.String{Length: cell.Length{Prefix: cell.NewInt(width)}}
		td.CmpNoError(t, out.Decode(encio.NewReader(w.Bytes()), cell.NewParams()))
		td.Cmp(t, *out.Value, "hello")
	}
}

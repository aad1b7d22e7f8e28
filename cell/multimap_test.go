package cell_test

import (
	"reflect"
	"testing"

	"github.com/maxatome/go-testdeep/td"
	"github.com/stewi1014/oc/cell"
	"github.com/stewi1014/oc/encio"
	"github.com/stewi1014/oc/types"
)

func TestMultiMap(t *testing.T) {
	m := cell.NewMultiMap[string, int32]()
	m.Put("k", 1)
	m.Put("k", 2)
	m.Put("k2", 3)

	v, ok := m.Get("k")
	td.Cmp(t, ok, true)
	td.Cmp(t, v, int32(2))
	td.Cmp(t, m.GetAll("k"), []int32{1, 2})
	td.Cmp(t, m.Keys(), []string{"k", "k2"})
	td.Cmp(t, m.Len(), 3)
	td.Cmp(t, m.Map(), map[string]int32{"k": 2, "k2": 3})

	_, ok = m.Get("missing")
	td.Cmp(t, ok, false)
}

func TestMultiMapRoundTrip(t *testing.T) {
	for _, order := range orders {
		t.Run(order.String(), func(t *testing.T) {
			in := cell.NewMultiMap[string, int32]()
			in.Put("k", 1)
			in.Put("k", 2)
			in.Put("k2", 3)

			out := cell.NewMultiMap[string, int32]()
			roundTrip(t, in, out, params(order))

			v, _ := out.Get("k")
			td.Cmp(t, v, int32(2))
			td.Cmp(t, out.GetAll("k"), []int32{1, 2})
			td.Cmp(t, out.GetAll("k2"), []int32{3})
			td.Cmp(t, out.Keys(), []string{"k", "k2"})
			td.Cmp(t, out.Absent(), false)
		})
	}
}

func TestMultiMapWire(t *testing.T) {
	m := cell.NewMultiMap[string, int32]()
	m.Put("k", 1)
	m.Put("k", 2)

	td.Cmp(t, encode(t, m, cell.NewParams()), []byte{
		0, 0, 0, 2, // entries
		0, 0, 0, 1, 'k', 0, 0, 0, 1,
		0, 0, 0, 1, 'k', 0, 0, 0, 2,
	})
}

func TestMultiMapEmpty(t *testing.T) {
	buff := encode(t, cell.NewMultiMap[string, int32](), cell.NewParams())
	td.Cmp(t, buff, []byte{0, 0, 0, 0})

	m := cell.NewMultiMap[string, int32]()
	td.CmpNoError(t, m.Decode(encio.NewReader(buff), cell.NewParams()))
	td.Cmp(t, m.Absent(), true)
	td.Cmp(t, m.Len(), 0)
}

func TestMultiMapCountMismatch(t *testing.T) {
	buff := encode(t, func() *cell.MultiMap[string, int32] {
		m := cell.NewMultiMap[string, int32]()
		m.Put("a", 1)
		return m
	}(), cell.NewParams())

	// Claim two entries where there is one.
	buff[3] = 2
	m := cell.NewMultiMap[string, int32]()
	td.CmpErrorIs(t, m.Decode(encio.NewReader(buff), cell.NewParams()), encio.ErrDecoding)
}

func TestMultiMapAvailable(t *testing.T) {
	p := cell.NewParams()
	p.AutoLength = false

	in := cell.NewMultiMap[int16, int16]()
	in.Put(1, 2)
	in.Put(1, 3)
	buff := encode(t, in, p)
	td.Cmp(t, buff, []byte{0, 1, 0, 2, 0, 1, 0, 3})

	out := cell.NewMultiMap[int16, int16]()
	td.CmpNoError(t, out.Decode(encio.NewReader(buff), p))
	td.Cmp(t, out.GetAll(1), []int16{2, 3})
}

type Inventory struct {
	Owner string
	Items *cell.MultiMap[string, int64]
}

func TestMultiMapField(t *testing.T) {
	in := &Inventory{Owner: "me", Items: cell.NewMultiMap[string, int64]()}
	in.Items.Put("apple", 1)
	in.Items.Put("apple", 5)

	out := new(Inventory)
	roundTrip(t, in, out, cell.NewParams())
	td.Cmp(t, out.Owner, "me")
	td.Cmp(t, out.Items.GetAll("apple"), []int64{1, 5})

	// A nil multimap is framed as absent.
	out = &Inventory{Items: cell.NewMultiMap[string, int64]()}
	out.Items.Put("pear", 2)
	roundTrip(t, &Inventory{Owner: "you"}, out, cell.NewParams())
	td.Cmp(t, out.Owner, "you")
	td.Cmp(t, out.Items.GetAll("pear"), []int64{2})
}

func TestMapRoundTrip(t *testing.T) {
	in := map[string][]int32{
		"a": {1, 2, 3},
		"b": nil,
		"c": {},
	}
	out := map[string][]int32{"old": {9}}
	roundTrip(t, in, &out, cell.NewParams())

	// Empty values decode as absent, and their entries are dropped.
	td.Cmp(t, out, map[string][]int32{
		"old": {9},
		"a":   {1, 2, 3},
	})
}

func TestMapNullScalars(t *testing.T) {
	in := map[string]*int32{"a": nil, "b": ptr(int32(2))}
	buff := encode(t, in, cell.NewParams())
	td.Cmp(t, buff, []byte{
		0, 0, 0, 1, // entries
		0, 0, 0, 1, 'b', 0, 0, 0, 2,
	})

	var out map[string]*int32
	roundTrip(t, in, &out, cell.NewParams())
	td.Cmp(t, out, map[string]*int32{"b": ptr(int32(2))})

	m := cell.NewMultiMap[string, *int32]()
	m.Put("a", nil)
	m.Put("b", ptr(int32(3)))
	m.Put("a", ptr(int32(4)))

	mout := cell.NewMultiMap[string, *int32]()
	roundTrip(t, m, mout, cell.NewParams())
	td.Cmp(t, mout.Keys(), []string{"a", "b"})
	td.Cmp(t, mout.GetAll("a"), []*int32{ptr(int32(4))})
	td.Cmp(t, mout.Len(), 2)

	td.Cmp(t, encode(t, map[string]interface{}{"x": nil}, cell.NewParams()), []byte{0, 0, 0, 0})
}

func TestErasedMapTypes(t *testing.T) {
	type Erased struct {
		Items map[string]interface{}
	}

	buff := encode(t, &Erased{Items: map[string]interface{}{"n": int32(1)}}, cell.NewParams())
	td.Cmp(t, buff, []byte{
		0, 0, 0, 13,
		0, 0, 0, 1,
		0, 0, 0, 1, 'n', 0, 0, 0, 1,
	})

	err := cell.Decode(encio.NewReader(buff), new(Erased), cell.NewParams())
	td.CmpErrorIs(t, err, encio.ErrDecoding)
	td.Cmp(t, err.Error(), td.Contains("cannot resolve map element types"))
}

// Bag holds values of a type known only to its Describe method.
type Bag struct {
	Items map[string]interface{}
	Tally *cell.MultiMap[string, any]
}

func (b *Bag) Describe() []*types.Field {
	return []*types.Field{
		types.NewField("items", reflect.TypeOf(map[string]interface{}(nil)),
			func(obj interface{}) interface{} { return obj.(*Bag).Items },
			func(obj, v interface{}) { obj.(*Bag).Items = v.(map[string]interface{}) },
		).WithParams(reflect.TypeOf(""), reflect.TypeOf(int32(0))),
		types.NewField("tally", reflect.TypeOf(new(cell.MultiMap[string, any])),
			func(obj interface{}) interface{} { return obj.(*Bag).Tally },
			func(obj, v interface{}) { obj.(*Bag).Tally = v.(*cell.MultiMap[string, any]) },
		).WithParams(reflect.TypeOf(""), reflect.TypeOf("")),
	}
}

func TestDescribedMapTypes(t *testing.T) {
	in := &Bag{
		Items: map[string]interface{}{"n": int32(1), "m": int32(-2)},
		Tally: cell.NewMultiMap[string, any](),
	}
	in.Tally.Put("x", "one")
	in.Tally.Put("x", "two")

	out := new(Bag)
	roundTrip(t, in, out, cell.NewParams())
	td.Cmp(t, out.Items, in.Items)
	td.Cmp(t, out.Tally.GetAll("x"), []any{"one", "two"})
}

func BenchmarkMultiMapEncode(b *testing.B) {
	p := cell.NewParams()
	w := encio.NewWriter()
	m := cell.NewMultiMap[string, int64]()
	for _, k := range []string{"a", "b", "c", "d"} {
		m.Put(k, 1)
		m.Put(k, 2)
	}

	for i := 0; i < b.N; i++ {
		w.Reset()
		if err := m.Encode(w, p); err != nil {
			b.Fatal(err)
		}
	}
}

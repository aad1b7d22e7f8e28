package cell

import (
	"fmt"
	"reflect"

	"github.com/stewi1014/oc/encio"
	"github.com/stewi1014/oc/types"
)

// NewMultiMap returns a new, empty MultiMap.
func NewMultiMap[K comparable, V any]() *MultiMap[K, V] {
	return new(MultiMap[K, V])
}

// MultiMap is a map cell that keeps every value put under a key.
// Get returns the last value put, and GetAll every value in the order they were put.
// The zero value is an empty map ready to use.
//
// Every value in the history is encoded, as a key-value pair, in the order keys were first put.
// Unlike other cells, its length prefix counts entries rather than bytes.
type MultiMap[K comparable, V any] struct {
	Length

	values  map[K]V
	history map[K][]V
	keys    []K

	absent bool
}

// Put sets the value of k to v, and appends v to the history of k.
func (m *MultiMap[K, V]) Put(k K, v V) {
	if m.values == nil {
		m.values = make(map[K]V)
		m.history = make(map[K][]V)
	}

	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
	m.history[k] = append(m.history[k], v)
}

// Get returns the last value put under k.
func (m *MultiMap[K, V]) Get(k K) (V, bool) {
	v, ok := m.values[k]
	return v, ok
}

// GetAll returns every value put under k, oldest first.
func (m *MultiMap[K, V]) GetAll(k K) []V {
	return m.history[k]
}

// Keys returns the keys in the order they were first put.
func (m *MultiMap[K, V]) Keys() []K {
	return m.keys
}

// Len returns the number of entries; every value in the history of every key.
func (m *MultiMap[K, V]) Len() (n int) {
	for _, vals := range m.history {
		n += len(vals)
	}
	return
}

// Map returns the last value of every key.
func (m *MultiMap[K, V]) Map() map[K]V {
	return m.values
}

// TypeParams implements types.Generic.
func (m *MultiMap[K, V]) TypeParams() []reflect.Type {
	return []reflect.Type{reflect.TypeOf(new(K)).Elem(), reflect.TypeOf(new(V)).Elem()}
}

// Absent implements Cell. It reports whether the last decode found an absent map.
func (m *MultiMap[K, V]) Absent() bool { return m.absent }

// Encode implements Cell.
func (m *MultiMap[K, V]) Encode(w *encio.Writer, p *Params) error {
	return encodeEntries(&m.Length, w, p, func(entry func(k, v reflect.Value) error) error {
		for _, k := range m.keys {
			for _, v := range m.history[k] {
				if err := entry(reflect.ValueOf(&k).Elem(), reflect.ValueOf(&v).Elem()); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Decode implements Cell.
// Key and value types are taken from Params.Field if it has them, else from K and V.
// Decoded entries are put on top of existing ones.
func (m *MultiMap[K, V]) Decode(r *encio.Reader, p *Params) error {
	kt, vt := m.TypeParams()[0], m.TypeParams()[1]
	if p.Field != nil && len(p.Field.Params) == 2 {
		kt, vt = p.Field.Params[0], p.Field.Params[1]
	}

	absent, err := decodeEntries(&m.Length, r, p, kt, vt, func(k, v reflect.Value) error {
		key, ok := k.Interface().(K)
		if !ok {
			return encio.NewError(encio.ErrDecoding, fmt.Sprintf("decoded key of type %v is not a %v", k.Type(), kt), "")
		}
		val, ok := v.Interface().(V)
		if !ok {
			return encio.NewError(encio.ErrDecoding, fmt.Sprintf("decoded value of type %v is not a %v", v.Type(), vt), "")
		}
		m.Put(key, val)
		return nil
	})
	m.absent = absent
	return err
}

// encodeEntries writes a block of key-value pairs, given by each, framed by the number of entries.
func encodeEntries(l *Length, w *encio.Writer, p *Params, each func(entry func(k, v reflect.Value) error) error) error {
	l.autoPrefix(p)
	if err := l.begin(w); err != nil {
		return err
	}

	// An enclosing back-patch may have left a cursor behind.
	w.MoveToEnd()

	parent := p.swapField(nil)
	defer p.swapField(parent)

	var n int
	err := each(func(k, v reflect.Value) error {
		// Pairs with an absent key or value are dropped by the decoder, so they aren't written or counted.
		if omitted(k) || omitted(v) {
			return nil
		}
		if err := EncodeValue(w, k, p); err != nil {
			return err
		}
		if err := EncodeValue(w, v, p); err != nil {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		return err
	}

	return l.end(w, p, n)
}

// decodeEntries reads a block written by encodeEntries, calling put with each decoded pair.
// Pairs where the key or value is absent are dropped.
func decodeEntries(l *Length, r *encio.Reader, p *Params, kt, vt reflect.Type, put func(k, v reflect.Value) error) (absent bool, err error) {
	if kt == nil || vt == nil || kt.Kind() == reflect.Interface || vt.Kind() == reflect.Interface {
		return false, encio.NewError(encio.ErrDecoding, fmt.Sprintf("cannot resolve map element types, have %v and %v", kt, vt), "")
	}

	l.autoPrefix(p)
	count := -1
	if l.Prefix != nil || l.Declared > 0 {
		n, dynamic, err := l.resolve(r, p, 0)
		if err != nil {
			return false, err
		}
		if dynamic && n <= 0 {
			return true, nil
		}
		count = n
	}

	parent := p.swapField(nil)
	defer p.swapField(parent)

	for i := 0; count < 0 && r.Available() > 0 || i < count; i++ {
		k, err := DecodeValue(r, kt, reflect.Value{}, p)
		if err != nil {
			return false, err
		}
		v, err := DecodeValue(r, vt, reflect.Value{}, p)
		if err != nil {
			return false, err
		}

		if k.IsValid() && v.IsValid() {
			if err := put(k, v); err != nil {
				return false, err
			}
		}
	}
	return false, nil
}

// goMap adapts a Go map to the entry block codec.
type goMap struct {
	Length
}

func (e *goMap) encode(w *encio.Writer, v reflect.Value, p *Params) error {
	return encodeEntries(&e.Length, w, p, func(entry func(k, v reflect.Value) error) error {
		if v.IsNil() {
			return nil
		}
		iter := v.MapRange()
		for iter.Next() {
			if err := entry(iter.Key(), iter.Value()); err != nil {
				return err
			}
		}
		return nil
	})
}

// decode returns the decoded map, or an invalid value if it was absent.
// Entries are added to cur if it is a non-nil map.
func (e *goMap) decode(r *encio.Reader, ty reflect.Type, cur reflect.Value, p *Params) (reflect.Value, error) {
	params := types.TypeParams(ty)
	if p.Field != nil && len(p.Field.Params) == 2 && p.Field.Type == ty {
		params = p.Field.Params
	}
	kt, vt := params[0], params[1]

	m := cur
	if !m.IsValid() || m.IsNil() {
		m = reflect.MakeMap(ty)
	}

	absent, err := decodeEntries(&e.Length, r, p, kt, vt, func(k, v reflect.Value) error {
		// Concrete element types given by a field are wrapped in the map's interface types.
		m.SetMapIndex(convert(k, ty.Key()), convert(v, ty.Elem()))
		return nil
	})
	if err != nil || absent {
		return reflect.Value{}, err
	}
	return m, nil
}

// convert returns v as a value of type ty, wrapping it in an interface if ty is one.
func convert(v reflect.Value, ty reflect.Type) reflect.Value {
	if v.Type() == ty {
		return v
	}
	out := reflect.New(ty).Elem()
	out.Set(v)
	return out
}

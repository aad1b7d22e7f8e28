// Package types describes the serialisable fields of composite types,
// and caches those descriptions for the lifetime of the process.
package types

import (
	"reflect"
)

var (
	// DescribableType is the reflect.Type of Describable.
	DescribableType = reflect.TypeOf(new(Describable)).Elem()

	// GenericType is the reflect.Type of Generic.
	GenericType = reflect.TypeOf(new(Generic)).Elem()

	// BytesType is the reflect.Type of []byte.
	BytesType = reflect.TypeOf([]byte(nil))
)

// Describable is implemented by types that list their own serialisable fields,
// instead of having them found with reflection.
// Describe is called once, on a pointer to a new zero value, and the result is cached.
// The order of the returned fields is the order they are encoded in.
type Describable interface {
	Describe() []*Field
}

// Generic is implemented by container types that know their element types at runtime,
// such that a decoder can create keys and values for them.
// TypeParams is called on a zero value, and must not depend on its contents.
type Generic interface {
	TypeParams() []reflect.Type
}

// Supported returns false for types which have no encoding.
// Struct fields of these types are skipped.
func Supported(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Uintptr,
		reflect.Complex64, reflect.Complex128, reflect.Array, reflect.Invalid:
		return false
	case reflect.Ptr:
		return t.Elem().Kind() != reflect.Ptr && Supported(t.Elem())
	}
	return true
}

// TypeParams returns the element types of t.
// They are the key and value types of maps, the element type of slices, and whatever Generic types return.
// It returns nil if t has none.
func TypeParams(t reflect.Type) []reflect.Type {
	switch {
	case t.Kind() == reflect.Interface:
		return nil
	case t.Implements(GenericType):
		v := reflect.Zero(t)
		if t.Kind() == reflect.Ptr {
			v = reflect.New(t.Elem())
		}
		return v.Interface().(Generic).TypeParams()
	case reflect.PtrTo(t).Implements(GenericType):
		return reflect.New(t).Interface().(Generic).TypeParams()
	}

	switch t.Kind() {
	case reflect.Map:
		return []reflect.Type{t.Key(), t.Elem()}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return nil
		}
		return []reflect.Type{t.Elem()}
	case reflect.Ptr:
		return TypeParams(t.Elem())
	}
	return nil
}

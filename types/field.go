package types

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/stewi1014/oc/encio"
)

const (
	// StructTag is the struct tag read for field options.
	//
	//	`oc:"-"`                    skips the field.
	//	`oc:"name"`                 renames the field in descriptions and logs.
	//	`oc:",width=2"`             sets the byte width of an integer field; 1, 2, 4 or 8.
	//	`oc:",prefix=2"`            gives a variable-length field a length prefix of the given width. prefix=0 removes it.
	//	`oc:",length=16"`           fixes the byte length of a variable-length field.
	StructTag = "oc"
)

// Tag holds the options parsed from a field's struct tag.
type Tag struct {
	Skip bool
	Name string

	// Width is the integer width in bytes, or 0 for the type's default.
	Width int

	// Prefix is the length prefix width in bytes, 0 for none, or -1 for the default.
	Prefix int

	// Length is the declared byte length, or -1 if unset.
	Length int
}

// DefaultTag is the Tag of an untagged field.
var DefaultTag = Tag{Prefix: -1, Length: -1}

// ParseTag parses the value of a StructTag.
func ParseTag(str string) (Tag, error) {
	tag := DefaultTag
	if str == "-" {
		tag.Skip = true
		return tag, nil
	}

	parts := strings.Split(str, ",")
	tag.Name = parts[0]

	for _, part := range parts[1:] {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return DefaultTag, fmt.Errorf("option %q has no value", part)
		}

		n, err := strconv.Atoi(val)
		if err != nil {
			return DefaultTag, fmt.Errorf("option %q: %w", part, err)
		}

		switch key {
		case "width":
			if n != 1 && n != 2 && n != 4 && n != 8 {
				return DefaultTag, fmt.Errorf("width %v is not 1, 2, 4 or 8", n)
			}
			tag.Width = n
		case "prefix":
			if n != 0 && n != 1 && n != 2 && n != 4 {
				return DefaultTag, fmt.Errorf("prefix %v is not 0, 1, 2 or 4", n)
			}
			tag.Prefix = n
		case "length":
			if n < 0 {
				return DefaultTag, fmt.Errorf("negative length %v", n)
			}
			tag.Length = n
		default:
			return DefaultTag, fmt.Errorf("unknown option %q", key)
		}
	}

	return tag, nil
}

// Field describes a single serialisable member of a composite type.
// Fields are immutable once created, and are shared between all encoders and decoders of their type.
type Field struct {
	Name string
	Type reflect.Type

	// Params are the element types of the field, see TypeParams.
	// Map decoding needs them when the field's own type doesn't carry them.
	Params []reflect.Type

	Tag Tag

	get func(obj reflect.Value) reflect.Value
	set func(obj, v reflect.Value)
}

// NewField returns a Field for use in Describe methods.
// obj is always a pointer to the described struct. get may return nil for a nil value.
func NewField(name string, ty reflect.Type, get func(obj interface{}) interface{}, set func(obj, v interface{})) *Field {
	return &Field{
		Name:   name,
		Type:   ty,
		Params: TypeParams(ty),
		Tag:    DefaultTag,
		get: func(obj reflect.Value) reflect.Value {
			v := get(obj.Addr().Interface())
			if v == nil {
				return reflect.Zero(ty)
			}
			if ty.Kind() == reflect.Interface {
				out := reflect.New(ty).Elem()
				out.Set(reflect.ValueOf(v))
				return out
			}
			return reflect.ValueOf(v)
		},
		set: func(obj, v reflect.Value) {
			set(obj.Addr().Interface(), v.Interface())
		},
	}
}

// WithTag returns a copy of f with options parsed from tag, in StructTag format.
// It panics if tag doesn't parse.
func (f *Field) WithTag(tag string) *Field {
	parsed, err := ParseTag(tag)
	if err != nil {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("field %v: %v", f.Name, err), ""))
	}
	if parsed.Name == "" {
		parsed.Name = f.Name
	}

	n := *f
	n.Name = parsed.Name
	n.Tag = parsed
	return &n
}

// WithParams returns a copy of f with its element types replaced.
// It lets fields with interface-typed containers be decoded.
func (f *Field) WithParams(params ...reflect.Type) *Field {
	n := *f
	n.Params = params
	return &n
}

// Get returns the field's value in obj, an addressable struct value.
func (f *Field) Get(obj reflect.Value) reflect.Value {
	return f.get(obj)
}

// Set sets the field's value in obj, an addressable struct value.
func (f *Field) Set(obj, v reflect.Value) {
	f.set(obj, v)
}

// String implements fmt.Stringer.
func (f *Field) String() string {
	return f.Name + " " + f.Type.String()
}

func structField(sf reflect.StructField, tag Tag) *Field {
	index := sf.Index
	name := sf.Name
	if tag.Name != "" {
		name = tag.Name
	}

	return &Field{
		Name:   name,
		Type:   sf.Type,
		Params: TypeParams(sf.Type),
		Tag:    tag,
		get: func(obj reflect.Value) reflect.Value {
			return obj.FieldByIndex(index)
		},
		set: func(obj, v reflect.Value) {
			obj.FieldByIndex(index).Set(v)
		},
	}
}

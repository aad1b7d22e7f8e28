package types

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/stewi1014/oc/encio"
	"go.uber.org/zap"
)

// Default is the process-wide Cache.
var Default = NewCache()

// NewCache returns a new, empty Cache.
func NewCache() *Cache {
	return new(Cache)
}

// Cache maps struct types to their ordered field descriptions.
// Descriptions are computed once per type, on first use, and are never invalidated.
// It is safe for concurrent use; callers racing on the same type may both compute the description,
// but only the first stored is ever returned.
type Cache struct {
	fields sync.Map // map[reflect.Type][]*Field
}

// Fields returns the serialisable fields of ty, a struct or pointer to struct type.
// The returned slice must not be modified.
// Problems found while describing ty are logged to log, or encio.Logger if it is nil.
// They are only logged once, by the first call to describe ty.
func (c *Cache) Fields(ty reflect.Type, log *zap.Logger) ([]*Field, error) {
	if log == nil {
		log = encio.Logger
	}
	if ty.Kind() == reflect.Ptr {
		ty = ty.Elem()
	}

	if f, ok := c.fields.Load(ty); ok {
		return f.([]*Field), nil
	}

	fields, err := describe(ty, log)
	if err != nil {
		return nil, err
	}

	f, loaded := c.fields.LoadOrStore(ty, fields)
	if !loaded {
		log.Debug("described type", zap.Stringer("type", ty), zap.Int("fields", len(fields)))
	}
	return f.([]*Field), nil
}

func describe(ty reflect.Type, log *zap.Logger) ([]*Field, error) {
	if ty.Kind() != reflect.Struct {
		return nil, encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not a struct", ty), "")
	}

	if reflect.PtrTo(ty).Implements(DescribableType) {
		fields := reflect.New(ty).Interface().(Describable).Describe()
		for i, f := range fields {
			if f == nil || f.get == nil || f.set == nil {
				return nil, encio.NewError(encio.ErrBadType, fmt.Sprintf("field %v from %v.Describe() has no accessors", i, ty), "")
			}
		}
		return fields, nil
	}

	return structFields(ty, log), nil
}

// structFields returns the fields of ty in declaration order.
func structFields(ty reflect.Type, log *zap.Logger) []*Field {
	fields := make([]*Field, 0, ty.NumField())
	for i := 0; i < ty.NumField(); i++ {
		sf := ty.Field(i)

		tag := DefaultTag
		if str, tagged := sf.Tag.Lookup(StructTag); tagged {
			parsed, err := ParseTag(str)
			if err != nil {
				log.Warn("ignoring struct tag",
					zap.Stringer("type", ty),
					zap.String("field", sf.Name),
					zap.Error(err),
				)
			} else {
				tag = parsed
			}
		}

		if tag.Skip {
			continue
		}

		if sf.PkgPath != "" {
			// Not exported
			if tag != DefaultTag {
				log.Warn("unexported fields cannot be encoded", zap.Stringer("type", ty), zap.String("field", sf.Name))
			}
			continue
		}

		if !Supported(sf.Type) {
			log.Warn("skipping field of unsupported type",
				zap.Stringer("type", ty),
				zap.String("field", sf.Name),
				zap.Stringer("fieldType", sf.Type),
			)
			continue
		}

		fields = append(fields, structField(sf, tag))
	}

	return fields
}

package cell

import (
	"encoding/binary"
	"fmt"

	"github.com/stewi1014/oc/encio"
	"github.com/stewi1014/oc/types"
	"go.uber.org/zap"
)

// NewParams returns Params for big-endian, auto-length framed encoding using the default descriptor cache.
func NewParams() *Params {
	return &Params{
		Order:      binary.BigEndian,
		AutoLength: true,
		Cache:      types.Default,
	}
}

// Params is the configuration and context of a single Encode or Decode call.
// The same settings *must* be used by the encoder and decoder of a stream; the wire format does not describe itself.
//
// Params are modified during a call, and must not be shared between concurrent calls.
type Params struct {
	// Order is the byte order of all integers, floats and length prefixes. Nil means big-endian.
	Order binary.ByteOrder

	// AutoLength enables auto-length framing; objects, maps, lists and variable-length scalars
	// are given a 4-byte length prefix when they don't have one already.
	AutoLength bool

	// SkipObjectLength suppresses the auto-length framing of the next object only.
	// It is cleared once that object has been encoded or decoded.
	SkipObjectLength bool

	// Field is the struct field currently being encoded or decoded, or nil.
	// Codecs use it for struct tag options and to recover the element types of containers.
	Field *types.Field

	// Cache provides the field descriptions of objects. Nil means types.Default.
	Cache *types.Cache

	// Logger receives warnings, including those about struct types described for the first time. Nil means encio.Logger.
	Logger *zap.Logger
}

// String returns a string unique to the given configuration, for debugging.
// Format is Params(options, order, field).
// Options are
// - a for AutoLength
// - s for SkipObjectLength
func (p *Params) String() string {
	if p == nil {
		return "Params()"
	}

	var opts string
	if p.AutoLength {
		opts += "a"
	}
	if p.SkipObjectLength {
		opts += "s"
	}

	str := fmt.Sprintf("Params(%v, %v", opts, p.order())
	if p.Field != nil {
		str += ", " + p.Field.String()
	}
	return str + ")"
}

func (p *Params) order() binary.ByteOrder {
	if p.Order == nil {
		return binary.BigEndian
	}
	return p.Order
}

func (p *Params) cache() *types.Cache {
	if p.Cache == nil {
		return types.Default
	}
	return p.Cache
}

func (p *Params) log() *zap.Logger {
	if p.Logger == nil {
		return encio.Logger
	}
	return p.Logger
}

func (p *Params) tag() types.Tag {
	if p.Field == nil {
		return types.DefaultTag
	}
	return p.Field.Tag
}

// swapField sets the current field, returning the previous one.
func (p *Params) swapField(f *types.Field) *types.Field {
	old := p.Field
	p.Field = f
	return old
}

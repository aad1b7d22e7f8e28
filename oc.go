// Package oc is a compact binary encoding for Go values, where composite values are framed by a length prefix.
//
// The wire format carries no type information or field names; fields are written in order,
// integers and floats at fixed widths, and objects, maps, lists and byte strings behind a 4-byte length.
// The decoder must know the type it is decoding into, and use the same Config as the encoder.
//
// A nil pointer to a composite type is written as a zero length, and decodes as absent, leaving the destination untouched.
// Nil pointers to scalars are not written at all, so they can only be decoded from the end of an object.
//
// oc/cell provides the cells that make up the encoding, for building custom codecs.
//
// oc/types describes the fields of structs, and caches the descriptions.
//
// oc/encio provides io and error types for encoding and related tasks.
package oc

import (
	"github.com/stewi1014/oc/cell"
	"github.com/stewi1014/oc/encio"
	"go.uber.org/zap"
)

// Marshal returns the encoding of v.
func Marshal(v interface{}, config *Config) ([]byte, error) {
	config = config.copyAndFill()

	w := encio.NewWriter()
	if err := cell.Encode(w, v, config.params()); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Unmarshal decodes buff into v, which must be a non-nil pointer.
// Bytes left over after v has been decoded are logged and ignored.
func Unmarshal(buff []byte, v interface{}, config *Config) error {
	config = config.copyAndFill()

	r := encio.NewReader(buff)
	if err := cell.Decode(r, v, config.params()); err != nil {
		return err
	}

	if r.Available() > 0 {
		config.Logger.Warn("unmarshal left trailing bytes", zap.Int("bytes", r.Available()))
	}
	return nil
}

package oc

import (
	"io"
	"sync"

	"github.com/stewi1014/oc/cell"
	"github.com/stewi1014/oc/encio"
)

// RecordPrefix is the width in bytes of the length written before each record in a stream.
const RecordPrefix = 4

// NewEncoder returns a new Encoder writing to w.
func NewEncoder(w io.Writer, config *Config) *Encoder {
	return &Encoder{
		w:      w,
		config: config.copyAndFill(),
		record: encio.NewWriter(),
		frame:  encio.NewWriter(),
	}
}

// Encoder writes a stream of records, each the encoding of one value preceded by its length.
// It is safe for concurrent use; records are never interleaved.
type Encoder struct {
	w      io.Writer
	config *Config
	mutex  sync.Mutex
	record *encio.Writer
	frame  *encio.Writer
}

// Encode writes v to the stream as a single record.
func (e *Encoder) Encode(v interface{}) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.record.Reset()
	e.frame.Reset()

	p := e.config.params()
	if err := cell.Encode(e.record, v, p); err != nil {
		return err
	}

	// Records of absent values are empty, not missing.
	buff := e.record.Bytes()
	if buff == nil {
		buff = []byte{}
	}

	frame := &cell.Bytes{
		Length: cell.Length{Prefix: cell.NewInt(RecordPrefix)},
		Value:  buff,
	}
	if err := frame.Encode(e.frame, p); err != nil {
		return err
	}

	_, err := e.frame.WriteTo(e.w)
	return err
}

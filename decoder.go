package oc

import (
	"fmt"
	"io"
	"sync"

	"github.com/stewi1014/oc/cell"
	"github.com/stewi1014/oc/encio"
)

// NewDecoder returns a new Decoder reading from r.
func NewDecoder(r io.Reader, config *Config) *Decoder {
	return &Decoder{
		r:      r,
		config: config.copyAndFill(),
		header: make([]byte, RecordPrefix),
	}
}

// Decoder reads a stream of records written by an Encoder.
// It is safe for concurrent use.
type Decoder struct {
	r      io.Reader
	config *Config
	mutex  sync.Mutex
	header []byte
	buff   []byte
}

// Decode reads the next record into v, which must be a non-nil pointer.
// An empty record, such as that of a nil scalar, leaves v untouched.
//
// io.EOF is returned if the stream ends cleanly before a record.
func (d *Decoder) Decode(v interface{}) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if n, err := io.ReadFull(d.r, d.header); err != nil {
		switch {
		case n == 0 && err == io.EOF:
			return io.EOF
		case err == io.ErrUnexpectedEOF:
			return encio.Errorf(encio.ErrDecoding, io.ErrUnexpectedEOF, fmt.Sprintf("want %v byte record header but only got %v", RecordPrefix, n))
		default:
			return encio.NewIOError(err, "reading record header")
		}
	}

	n, err := encio.Int(d.config.Order, d.header)
	if err != nil {
		return err
	}
	if n < 0 || uint64(n) > uint64(encio.TooBig) {
		return encio.Errorf(encio.ErrDecoding, encio.ErrMalformed, fmt.Sprintf("bad record length %v", n))
	}

	if cap(d.buff) < int(n) {
		d.buff = make([]byte, n)
	}
	d.buff = d.buff[:n]
	if err := encio.Read(d.buff, d.r); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	// Records are copied out of buff, so it can be reused.
	r := encio.NewReader(d.buff)
	if err := cell.Decode(r, v, d.config.params()); err != nil {
		return err
	}

	if r.Available() > 0 {
		return encio.Errorf(encio.ErrDecoding, encio.ErrMalformed, fmt.Sprintf("%v bytes left over in record", r.Available()))
	}
	return nil
}

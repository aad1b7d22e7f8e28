package encio

import (
	"fmt"
	"io"
	"sync"
)

// NewWriter returns a new, empty Writer.
func NewWriter() *Writer {
	return &Writer{cursor: -1}
}

// Writer is an in-memory output stream that appends by default, but can be moved back to an earlier offset
// to overwrite bytes already written; the basis of length back-patching.
//
// Writes and patches hold the same mutex, so SetCursor, Write, MoveToEnd sequences done through Patch
// are never interleaved with another writer's bytes.
// Callers using SetCursor and MoveToEnd directly must not share the Writer.
type Writer struct {
	mutex  sync.Mutex
	buff   []byte
	cursor int // -1 when appending
}

// Write implements io.Writer.
// It appends, or if a cursor is set, overwrites from the cursor onwards, growing the buffer if the write runs past its end.
func (w *Writer) Write(buff []byte) (int, error) {
	w.mutex.Lock()
	n := w.write(buff)
	w.mutex.Unlock()
	return n, nil
}

// WriteByte implements io.ByteWriter
func (w *Writer) WriteByte(b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

// mutex must be held
func (w *Writer) write(buff []byte) int {
	if w.cursor < 0 {
		w.buff = append(w.buff, buff...)
		return len(buff)
	}

	end := w.cursor + len(buff)
	if end > len(w.buff) {
		w.buff = append(w.buff, make([]byte, end-len(w.buff))...)
	}
	n := copy(w.buff[w.cursor:], buff)
	w.cursor += n
	return n
}

// Len returns the number of bytes in the stream. It is unaffected by the cursor.
func (w *Writer) Len() int {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return len(w.buff)
}

// SetCursor makes subsequent writes overwrite from pos. Nothing after pos is truncated.
func (w *Writer) SetCursor(pos int) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.setCursor(pos)
}

// mutex must be held
func (w *Writer) setCursor(pos int) error {
	if pos < 0 || pos > len(w.buff) {
		return NewError(ErrBadType, fmt.Sprintf("cursor %v is outside of the %v byte stream", pos, len(w.buff)), "")
	}
	w.cursor = pos
	return nil
}

// MoveToEnd returns the Writer to append mode.
func (w *Writer) MoveToEnd() {
	w.mutex.Lock()
	w.cursor = -1
	w.mutex.Unlock()
}

// Patch overwrites the bytes at pos with buff, then returns to append mode.
// It is atomic with regards to other calls on the Writer.
func (w *Writer) Patch(pos int, buff []byte) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if pos+len(buff) > len(w.buff) {
		return NewError(ErrBadType, fmt.Sprintf("patch of %v bytes at %v runs past the %v byte stream", len(buff), pos, len(w.buff)), "")
	}
	if err := w.setCursor(pos); err != nil {
		return err
	}
	w.write(buff)
	w.cursor = -1
	return nil
}

// Bytes returns the written bytes. The slice is only valid until the next write.
func (w *Writer) Bytes() []byte {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.buff
}

// Reset empties the Writer, keeping its allocation.
func (w *Writer) Reset() {
	w.mutex.Lock()
	w.buff = w.buff[:0]
	w.cursor = -1
	w.mutex.Unlock()
}

// WriteTo implements io.WriterTo, flushing the whole stream to dst in a single write.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err := Write(w.buff, dst); err != nil {
		return 0, err
	}
	return int64(len(w.buff)), nil
}

// NewReader returns a Reader reading buff.
func NewReader(buff []byte) *Reader {
	return &Reader{buff: buff}
}

// Reader is a bounded input stream. It operates similar to bytes.Reader,
// but can hand out child Readers limited to a number of its bytes.
type Reader struct {
	buff    []byte
	off     int
	limited bool
}

// Read implements io.Reader.
// A read shorter than buff returns io.EOF along with the bytes that were available.
func (r *Reader) Read(buff []byte) (int, error) {
	n := copy(buff, r.buff[r.off:])
	r.off += n
	if n < len(buff) {
		return n, io.EOF
	}
	return n, nil
}

// ReadByte implements io.ByteReader
func (r *Reader) ReadByte() (byte, error) {
	if r.Available() == 0 {
		return 0, io.EOF
	}
	by := r.buff[r.off]
	r.off++
	return by, nil
}

// Available returns the number of unread bytes.
func (r *Reader) Available() int {
	return len(r.buff) - r.off
}

// Limited reports whether r was returned by Limit; its end is the end of an enclosing value.
func (r *Reader) Limited() bool {
	return r.limited
}

// Limit returns a Reader over the next n bytes, and advances r past them.
// If fewer than n bytes are available, it returns an ErrDecoding Error and r is not advanced.
func (r *Reader) Limit(n int) (*Reader, error) {
	if n < 0 || n > r.Available() {
		return nil, Errorf(ErrDecoding, io.ErrUnexpectedEOF, fmt.Sprintf("want %v bytes but only got %v", n, r.Available()))
	}
	child := &Reader{buff: r.buff[r.off : r.off+n], limited: true}
	r.off += n
	return child, nil
}

// Skip discards the next n bytes.
func (r *Reader) Skip(n int) error {
	if n < 0 || n > r.Available() {
		return Errorf(ErrDecoding, io.ErrUnexpectedEOF, fmt.Sprintf("cannot skip %v bytes, only %v available", n, r.Available()))
	}
	r.off += n
	return nil
}

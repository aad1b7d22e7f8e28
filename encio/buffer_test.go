package encio_test

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/maxatome/go-testdeep/td"
	"github.com/stewi1014/oc/encio"
)

func TestWriterAppend(t *testing.T) {
	w := encio.NewWriter()

	td.CmpNoError(t, encio.Write([]byte{1, 2, 3}, w))
	td.CmpNoError(t, w.WriteByte(4))

	td.Cmp(t, w.Len(), 4)
	td.Cmp(t, w.Bytes(), []byte{1, 2, 3, 4})
}

func TestWriterCursor(t *testing.T) {
	w := encio.NewWriter()
	td.CmpNoError(t, encio.Write([]byte{0, 0, 0, 0, 5, 6}, w))

	td.CmpNoError(t, w.SetCursor(1))
	td.CmpNoError(t, encio.Write([]byte{9, 9}, w))
	td.Cmp(t, w.Bytes(), []byte{0, 9, 9, 0, 5, 6}, "overwrite must not truncate")

	w.MoveToEnd()
	td.CmpNoError(t, encio.Write([]byte{7}, w))
	td.Cmp(t, w.Bytes(), []byte{0, 9, 9, 0, 5, 6, 7})
}

func TestWriterCursorPastEnd(t *testing.T) {
	w := encio.NewWriter()
	td.CmpNoError(t, encio.Write([]byte{1, 2}, w))

	td.CmpNoError(t, w.SetCursor(1))
	td.CmpNoError(t, encio.Write([]byte{3, 4, 5}, w))
	td.Cmp(t, w.Bytes(), []byte{1, 3, 4, 5})

	td.CmpErrorIs(t, w.SetCursor(5), encio.ErrBadType)
	td.CmpErrorIs(t, w.SetCursor(-1), encio.ErrBadType)
}

func TestWriterPatch(t *testing.T) {
	w := encio.NewWriter()
	td.CmpNoError(t, encio.Write(make([]byte, 4), w))
	td.CmpNoError(t, encio.Write([]byte("payload"), w))

	td.CmpNoError(t, w.Patch(0, []byte{0, 0, 0, 7}))
	td.CmpNoError(t, encio.Write([]byte{1}, w))

	td.Cmp(t, w.Bytes(), append(append([]byte{0, 0, 0, 7}, "payload"...), 1))
	td.CmpErrorIs(t, w.Patch(11, []byte{1, 2}), encio.ErrBadType)
}

// Patches are atomic with regards to concurrent appends; every appended byte lands at the end.
func TestWriterPatchConcurrent(t *testing.T) {
	w := encio.NewWriter()
	td.CmpNoError(t, encio.Write(make([]byte, 4), w))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if err := w.Patch(0, []byte{1, 2, 3, 4}); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if err := encio.Write([]byte{0xff}, w); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	wg.Wait()

	buff := w.Bytes()
	td.Cmp(t, len(buff), 1004)
	td.Cmp(t, buff[:4], []byte{1, 2, 3, 4})
	td.Cmp(t, bytes.Count(buff[4:], []byte{0xff}), 1000)
}

func TestWriterWriteTo(t *testing.T) {
	w := encio.NewWriter()
	td.CmpNoError(t, encio.Write([]byte("hello"), w))

	buff := new(bytes.Buffer)
	n, err := w.WriteTo(buff)
	td.CmpNoError(t, err)
	td.Cmp(t, n, int64(5))
	td.Cmp(t, buff.String(), "hello")

	w.Reset()
	td.Cmp(t, w.Len(), 0)
}

func TestReader(t *testing.T) {
	r := encio.NewReader([]byte{1, 2, 3, 4, 5})
	td.Cmp(t, r.Available(), 5)

	buff := make([]byte, 2)
	td.CmpNoError(t, encio.Read(buff, r))
	td.Cmp(t, buff, []byte{1, 2})
	td.Cmp(t, r.Available(), 3)

	by, err := r.ReadByte()
	td.CmpNoError(t, err)
	td.Cmp(t, by, byte(3))

	n, err := r.Read(make([]byte, 4))
	td.Cmp(t, n, 2)
	td.Cmp(t, err, io.EOF)
	td.Cmp(t, r.Available(), 0)
}

func TestReaderShortRead(t *testing.T) {
	r := encio.NewReader([]byte{1, 2, 3})

	err := encio.Read(make([]byte, 4), r)
	td.CmpErrorIs(t, err, encio.ErrDecoding)
	td.CmpErrorIs(t, err, io.ErrUnexpectedEOF)
	td.Cmp(t, err.Error(), td.Contains("want 4 bytes but only got 3"))
}

func TestReaderLimit(t *testing.T) {
	r := encio.NewReader([]byte{1, 2, 3, 4, 5})

	child, err := r.Limit(3)
	td.CmpNoError(t, err)
	td.Cmp(t, child.Available(), 3)
	td.Cmp(t, r.Available(), 2)

	buff := make([]byte, 3)
	td.CmpNoError(t, encio.Read(buff, child))
	td.Cmp(t, buff, []byte{1, 2, 3})
	td.CmpErrorIs(t, encio.Read(buff[:1], child), encio.ErrDecoding)

	_, err = r.Limit(3)
	td.CmpErrorIs(t, err, encio.ErrDecoding)

	td.CmpNoError(t, r.Skip(1))
	td.Cmp(t, r.Available(), 1)
	td.CmpErrorIs(t, r.Skip(2), encio.ErrDecoding)
}

package cell

import (
	"fmt"

	"github.com/stewi1014/oc/encio"
	"github.com/stewi1014/oc/types"
)

// DefaultPrefix is the width in bytes of the length prefixes added by auto-length framing.
const DefaultPrefix = 4

// Length is the length-prefix state embedded in every cell.
//
// Exactly one of three strategies decides how many bytes (or, for maps and lists, entries) a cell consumes when decoding,
// in priority order;
// 1. Dynamic: Prefix is set; its value is read first.
// 2. Specified: Declared is positive.
// 3. Available: everything left on the reader. Only valid for the last cell read.
//
// Once Prefix is set, the cell never works out its own length.
type Length struct {
	// Declared is the explicit byte length of the cell, or 0 if unset.
	// For integer cells it is the width.
	Declared int

	// Prefix is the length cell. Nil means the cell is fixed-width or consumes the rest of the reader.
	Prefix *Int

	// bare stops auto-length framing from adding a prefix.
	bare bool

	pos int
}

// Position returns the offset in the stream at which the cell's bytes, including its prefix, began in the last encode.
func (l *Length) Position() int {
	return l.pos
}

// autoPrefix attaches a prefix if auto-length framing is on and the length isn't otherwise known.
func (l *Length) autoPrefix(p *Params) {
	if p.AutoLength && l.Prefix == nil && l.Declared <= 0 && !l.bare {
		l.Prefix = NewInt(DefaultPrefix)
	}
}

// applyTag sets the length options of a struct field's tag.
func (l *Length) applyTag(tag types.Tag) {
	if tag.Length > 0 {
		l.Declared = tag.Length
		l.bare = true
	}
	switch {
	case tag.Prefix == 0:
		l.bare = true
	case tag.Prefix > 0:
		l.Prefix = NewInt(tag.Prefix)
	}
}

// begin records the cell's position and writes a placeholder for the prefix, if there is one.
// It must be followed by end once the payload has been written.
func (l *Length) begin(w *encio.Writer) error {
	l.pos = w.Len()
	if l.Prefix == nil {
		return nil
	}

	l.Prefix.pos = l.pos
	return encio.Write(make([]byte, l.Prefix.width()), w)
}

// end back-patches the placeholder written by begin with n, the measured payload length.
func (l *Length) end(w *encio.Writer, p *Params, n int) error {
	if l.Prefix == nil {
		return nil
	}

	v := int32(n)
	l.Prefix.Value = &v

	buff, err := l.Prefix.bytes(p)
	if err != nil {
		return err
	}

	return w.Patch(l.Prefix.pos, buff)
}

// writePayload writes the prefix, if there is one, immediately followed by payload.
// There is no placeholder; the length is already known.
func (l *Length) writePayload(w *encio.Writer, p *Params, payload []byte) error {
	l.pos = w.Len()
	if l.Prefix == nil && l.Declared > 0 && len(payload) != l.Declared {
		return encio.NewError(encio.ErrEncoding, fmt.Sprintf("declared length is %v but have %v bytes", l.Declared, len(payload)), "")
	}
	if l.Prefix != nil {
		v := int32(len(payload))
		l.Prefix.Value = &v
		if err := l.Prefix.Encode(w, p); err != nil {
			return err
		}
	}

	return encio.Write(payload, w)
}

// resolve returns how many bytes or entries the cell consumes, and whether the count came from the prefix.
// def is used when Declared is unset; if it is also <= 0, the available strategy is used.
// The prefix value is returned as read; callers decide what non-positive values mean.
func (l *Length) resolve(r *encio.Reader, p *Params, def int) (n int, dynamic bool, err error) {
	switch {
	case l.Prefix != nil:
		if err := l.Prefix.Decode(r, p); err != nil {
			return 0, true, err
		}
		if l.Prefix.Value == nil {
			return 0, true, encio.Errorf(encio.ErrDecoding, encio.ErrMalformed, "missing length prefix")
		}
		n = int(*l.Prefix.Value)
		if n > 0 && uintptr(n) > encio.TooBig {
			return 0, true, encio.Errorf(encio.ErrDecoding, encio.ErrMalformed, fmt.Sprintf("length %v is too big", n))
		}
		return n, true, nil
	case l.Declared > 0:
		return l.Declared, false, nil
	case def > 0:
		return def, false, nil
	default:
		return r.Available(), false, nil
	}
}

// readPayload reads the cell's bytes using the first applicable strategy.
// It returns nil bytes for an absent cell; one at the end of a limited reader,
// or one using the available strategy with nothing left to read.
func (l *Length) readPayload(r *encio.Reader, p *Params, def int) ([]byte, bool, error) {
	if r.Available() == 0 && (r.Limited() || l.Prefix == nil && l.Declared <= 0 && def <= 0) {
		return nil, false, nil
	}

	n, dynamic, err := l.resolve(r, p, def)
	if err != nil {
		return nil, dynamic, err
	}
	if n < 0 {
		return nil, dynamic, encio.Errorf(encio.ErrDecoding, encio.ErrMalformed, fmt.Sprintf("negative length %v", n))
	}

	buff := make([]byte, n)
	return buff, dynamic, encio.Read(buff, r)
}

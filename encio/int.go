package encio

import (
	"encoding/binary"
	"fmt"
)

// PutInt writes n into buff using the given byte order. The width is len(buff), and must be 1, 2, 4 or 8.
// n must fit in the width as either a signed or an unsigned number.
func PutInt(order binary.ByteOrder, buff []byte, n int64) error {
	if err := CheckWidth(len(buff), n); err != nil {
		return err
	}

	switch len(buff) {
	case 1:
		buff[0] = uint8(n)
	case 2:
		order.PutUint16(buff, uint16(n))
	case 4:
		order.PutUint32(buff, uint32(n))
	case 8:
		order.PutUint64(buff, uint64(n))
	}
	return nil
}

// Int reads a sign-extended integer from buff using the given byte order.
// The width is len(buff), and must be 1, 2, 4 or 8.
func Int(order binary.ByteOrder, buff []byte) (int64, error) {
	switch len(buff) {
	case 1:
		return int64(int8(buff[0])), nil
	case 2:
		return int64(int16(order.Uint16(buff))), nil
	case 4:
		return int64(int32(order.Uint32(buff))), nil
	case 8:
		return int64(order.Uint64(buff)), nil
	default:
		return 0, NewError(ErrDecoding, fmt.Sprintf("cannot convert %v bytes to an integer", len(buff)), "")
	}
}

// CheckWidth returns an ErrEncoding Error if n cannot be represented in width bytes.
// Numbers are accepted if they fit either as signed or as unsigned, so uint8(255) fits in a single byte.
func CheckWidth(width int, n int64) error {
	switch width {
	case 8:
		return nil
	case 1, 2, 4:
		bits := uint(width * 8)
		min := -int64(1) << (bits - 1)
		max := int64(1)<<bits - 1
		if n < min || n > max {
			return NewError(ErrEncoding, fmt.Sprintf("%v does not fit in %v bytes", n, width), "")
		}
		return nil
	default:
		return NewError(ErrEncoding, fmt.Sprintf("unsupported integer width %v", width), "")
	}
}

package vtpbf

import (
	"encoding/binary"
	"errors"
)

// ErrTruncated is returned when the buffer ends mid-field.
var ErrTruncated = errors.New("vtpbf: truncated message")

// Reader walks a protobuf wire-format byte string one field at a time.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential field reads.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Done reports whether the reader has consumed the whole buffer.
func (r *Reader) Done() bool { return r.pos >= len(r.buf) }

// ReadTag reads the next field's (field number, wire type) pair.
func (r *Reader) ReadTag() (field int, wireType int, err error) {
	v, err := r.readVarint()
	if err != nil {
		return 0, 0, err
	}
	return int(v >> 3), int(v & 0x7), nil
}

func (r *Reader) readVarint() (uint64, error) {
	v, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		return 0, ErrTruncated
	}
	r.pos += n
	return v, nil
}

// ReadVarint reads a plain varint-encoded field value.
func (r *Reader) ReadVarint() (uint64, error) { return r.readVarint() }

// ReadSint64 reads a zigzag-encoded sint64 field value.
func (r *Reader) ReadSint64() (int64, error) {
	v, err := r.readVarint()
	if err != nil {
		return 0, err
	}
	return zigZagDecode64(v), nil
}

// ReadFixed32 reads a little-endian 32-bit field value.
func (r *Reader) ReadFixed32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadFixed64 reads a little-endian 64-bit field value.
func (r *Reader) ReadFixed64() (uint64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadBytes reads a length-delimited field's raw payload.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.readVarint()
	if err != nil {
		return nil, err
	}
	end := r.pos + int(n)
	if end < r.pos || end > len(r.buf) {
		return nil, ErrTruncated
	}
	b := r.buf[r.pos:end]
	r.pos = end
	return b, nil
}

// ReadString reads a length-delimited field as a string.
func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadPackedVarints reads a packed repeated-varint field's full contents.
func (r *Reader) ReadPackedVarints() ([]int32, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	inner := NewReader(b)
	var out []int32
	for !inner.Done() {
		v, err := inner.readVarint()
		if err != nil {
			return nil, err
		}
		out = append(out, int32(uint32(v)))
	}
	return out, nil
}

// Skip discards the value of a field whose wire type is already known,
// used for fields the caller's schema does not recognize.
func (r *Reader) Skip(wireType int) error {
	switch wireType {
	case WireVarint:
		_, err := r.readVarint()
		return err
	case WireFixed64:
		_, err := r.ReadFixed64()
		return err
	case WireBytes:
		_, err := r.ReadBytes()
		return err
	case WireFixed32:
		_, err := r.ReadFixed32()
		return err
	default:
		return errors.New("vtpbf: unsupported wire type")
	}
}

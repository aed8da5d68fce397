package mmd

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Cursor reads little-endian values from a fixed byte slice.
// A failed read leaves the offset unchanged.
type Cursor struct {
	data   []byte
	offset int
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

func (c *Cursor) Offset() int {
	return c.offset
}

func (c *Cursor) Size() int {
	return len(c.data)
}

func (c *Cursor) Remaining() int {
	return len(c.data) - c.offset
}

func (c *Cursor) check(n int) error {
	if n < 0 || n > c.Remaining() {
		return fmt.Errorf("need %d bytes at offset %d, %d left: %w", n, c.offset, c.Remaining(), ErrTruncated)
	}
	return nil
}

// Read returns the next n bytes without copying.
func (c *Cursor) Read(n int) ([]byte, error) {
	if err := c.check(n); err != nil {
		return nil, err
	}
	b := c.data[c.offset : c.offset+n]
	c.offset += n
	return b, nil
}

func (c *Cursor) Skip(n int) error {
	if err := c.check(n); err != nil {
		return err
	}
	c.offset += n
	return nil
}

// Seek implements io.Seeker over the underlying slice. Seeking past the end fails.
func (c *Cursor) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(c.offset) + offset
	case io.SeekEnd:
		abs = int64(len(c.data)) + offset
	default:
		return int64(c.offset), fmt.Errorf("seek: invalid whence %d", whence)
	}
	if abs < 0 || abs > int64(len(c.data)) {
		return int64(c.offset), fmt.Errorf("seek to %d of %d: %w", abs, len(c.data), ErrTruncated)
	}
	c.offset = int(abs)
	return abs, nil
}

func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

func (c *Cursor) ReadFloat32() (float32, error) {
	v, err := c.ReadUint32()
	return math.Float32frombits(v), err
}

func (c *Cursor) ReadVector3() (Vector3, error) {
	b, err := c.Read(12)
	if err != nil {
		return Vector3{}, err
	}
	return Vector3{
		X: math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Z: math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}, nil
}

func (c *Cursor) ReadVector4() (Vector4, error) {
	b, err := c.Read(16)
	if err != nil {
		return Vector4{}, err
	}
	return Vector4{
		X: math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Z: math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
		W: math.Float32frombits(binary.LittleEndian.Uint32(b[12:])),
	}, nil
}

// ReadIndex reads a signed index of sz bytes (1, 2 or 4).
func (c *Cursor) ReadIndex(sz int) (int, error) {
	b, err := c.readIndexBytes(sz)
	if err != nil {
		return 0, err
	}
	switch sz {
	case 1:
		return int(int8(b[0])), nil
	case 2:
		return int(int16(binary.LittleEndian.Uint16(b))), nil
	default:
		return int(int32(binary.LittleEndian.Uint32(b))), nil
	}
}

func (c *Cursor) readIndexBytes(sz int) ([]byte, error) {
	if sz != 1 && sz != 2 && sz != 4 {
		return nil, fmt.Errorf("index size %d: %w", sz, ErrUnsupportedFormat)
	}
	return c.Read(sz)
}

// Writer is an append-only little-endian buffer.
type Writer struct {
	buf []byte
}

func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) ensureCapacity(n int) {
	need := len(w.buf) + n
	if need <= cap(w.buf) {
		return
	}
	c := cap(w.buf)
	if c == 0 {
		c = 64
	}
	for c < need {
		c *= 2
	}
	nb := make([]byte, len(w.buf), c)
	copy(nb, w.buf)
	w.buf = nb
}

func (w *Writer) Write(p []byte) (int, error) {
	w.ensureCapacity(len(p))
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func (w *Writer) WriteUint8(v uint8) {
	w.ensureCapacity(1)
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteUint16(v uint16) {
	w.ensureCapacity(2)
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) WriteUint32(v uint32) {
	w.ensureCapacity(4)
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

func (w *Writer) WriteVector3(v Vector3) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
	w.WriteFloat32(v.Z)
}

func (w *Writer) WriteVector4(v Vector4) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
	w.WriteFloat32(v.Z)
	w.WriteFloat32(v.W)
}

// WriteIndex writes a signed index of sz bytes.
func (w *Writer) WriteIndex(sz int, v int) {
	switch sz {
	case 1:
		w.WriteUint8(uint8(int8(v)))
	case 2:
		w.WriteUint16(uint16(int16(v)))
	default:
		w.WriteInt32(int32(v))
	}
}

// WriteFixedString writes s into a NUL padded field of n bytes, truncating if needed.
func (w *Writer) WriteFixedString(s []byte, n int) {
	w.ensureCapacity(n)
	if len(s) > n {
		s = s[:n]
	}
	w.buf = append(w.buf, s...)
	for i := len(s); i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}

package mmd

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRead(t *testing.T) {
	w := NewWriter(0)
	w.WriteUint8(7)
	w.WriteUint16(0x1234)
	w.WriteInt32(-5)
	w.WriteFloat32(1.5)
	w.WriteVector3(Vector3{X: 1, Y: 2, Z: 3})
	w.WriteIndex(1, -1)
	w.WriteIndex(2, 300)
	w.WriteIndex(4, -70000)

	c := NewCursor(w.Bytes())
	u8, err := c.ReadUint8()
	require.NoError(t, err)
	assert.EqualValues(t, 7, u8)
	u16, _ := c.ReadUint16()
	assert.EqualValues(t, 0x1234, u16)
	i32, _ := c.ReadInt32()
	assert.EqualValues(t, -5, i32)
	f, _ := c.ReadFloat32()
	assert.Equal(t, float32(1.5), f)
	v, _ := c.ReadVector3()
	assert.Equal(t, Vector3{X: 1, Y: 2, Z: 3}, v)

	idx, _ := c.ReadIndex(1)
	assert.Equal(t, -1, idx)
	idx, _ = c.ReadIndex(2)
	assert.Equal(t, 300, idx)
	idx, _ = c.ReadIndex(4)
	assert.Equal(t, -70000, idx)
	assert.Equal(t, 0, c.Remaining())
	assert.Equal(t, w.Len(), c.Offset())
}

func TestCursorTruncated(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})
	_, err := c.ReadUint32()
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, 0, c.Offset(), "failed read must not advance")

	_, err = c.Read(-1)
	assert.ErrorIs(t, err, ErrTruncated)

	require.NoError(t, c.Skip(2))
	_, err = c.ReadUint16()
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, 2, c.Offset())

	_, err = c.ReadIndex(3)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestCursorSeek(t *testing.T) {
	c := NewCursor(make([]byte, 10))
	pos, err := c.Seek(4, io.SeekStart)
	require.NoError(t, err)
	assert.EqualValues(t, 4, pos)
	pos, _ = c.Seek(-1, io.SeekEnd)
	assert.EqualValues(t, 9, pos)
	pos, _ = c.Seek(-3, io.SeekCurrent)
	assert.EqualValues(t, 6, pos)

	_, err = c.Seek(11, io.SeekStart)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, 6, c.Offset())
	_, err = c.Seek(0, 7)
	assert.Error(t, err)
}

func TestWriterGrowth(t *testing.T) {
	w := NewWriter(0)
	for i := 0; i < 100; i++ {
		w.WriteUint32(uint32(i))
	}
	assert.Equal(t, 400, w.Len())
	assert.GreaterOrEqual(t, cap(w.Bytes()), 400)

	c := NewCursor(w.Bytes())
	require.NoError(t, c.Skip(99*4))
	v, _ := c.ReadUint32()
	assert.EqualValues(t, 99, v)
}

func TestFixedString(t *testing.T) {
	w := NewWriter(0)
	w.WriteFixedString(EncodeShiftJIS("左足ＩＫ"), 15)
	w.WriteFixedString([]byte("a very long bone name"), 15)
	require.Equal(t, 30, w.Len())

	c := NewCursor(w.Bytes())
	s, err := c.readFixedString(15)
	require.NoError(t, err)
	assert.Equal(t, "左足ＩＫ", s)
	s, _ = c.readFixedString(15)
	assert.Equal(t, "a very long bon", s)
}

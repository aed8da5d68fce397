package mmd

import (
	"bytes"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func textEncoding(h *Header) encoding.Encoding {
	if h.UTF8() {
		return unicode.UTF8
	}
	return utf16le
}

// decodeText converts a PMX text field to a Go string.
func decodeText(h *Header, b []byte) string {
	s, _, err := transform.Bytes(textEncoding(h).NewDecoder(), b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

func encodeText(h *Header, s string) []byte {
	b, _, err := transform.Bytes(textEncoding(h).NewEncoder(), []byte(s))
	if err != nil {
		return []byte(s)
	}
	return b
}

// DecodeShiftJIS decodes a NUL terminated fixed-width Shift-JIS field.
func DecodeShiftJIS(b []byte) string {
	b = bytes.SplitN(b, []byte{0}, 2)[0]
	utf8Data, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), b)
	if err != nil {
		return string(b)
	}
	return string(utf8Data)
}

// EncodeShiftJIS encodes s for fixed-width name fields.
func EncodeShiftJIS(s string) []byte {
	b, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(s))
	if err != nil {
		return []byte(s)
	}
	return b
}

func (c *Cursor) readText(h *Header) (string, error) {
	n, err := c.ReadInt32()
	if err != nil {
		return "", err
	}
	b, err := c.Read(int(n))
	if err != nil {
		c.offset -= 4
		return "", err
	}
	return decodeText(h, b), nil
}

func (c *Cursor) skipText() error {
	n, err := c.ReadInt32()
	if err != nil {
		return err
	}
	if err := c.Skip(int(n)); err != nil {
		c.offset -= 4
		return err
	}
	return nil
}

func (c *Cursor) readFixedString(n int) (string, error) {
	b, err := c.Read(n)
	if err != nil {
		return "", err
	}
	return DecodeShiftJIS(b), nil
}

func (w *Writer) writeText(h *Header, s string) {
	b := encodeText(h, s)
	w.WriteInt32(int32(len(b)))
	w.Write(b)
}

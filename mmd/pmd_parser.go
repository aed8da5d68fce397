package mmd

import (
	"fmt"
	"io"

	"github.com/binzume/mmdrig/internal/logger"
	"go.uber.org/zap"
)

const (
	pmdVertexSize   = 38
	pmdMaterialSize = 70
	pmdCommentSize  = 256
)

// ReadPMDHeader reads the magic, version, model name and comment.
func ReadPMDHeader(c *Cursor) (*Header, error) {
	format, err := c.Read(3)
	if err != nil {
		return nil, err
	}
	if string(format) != "Pmd" {
		return nil, fmt.Errorf("pmd magic %q: %w", format, ErrUnsupportedFormat)
	}
	h := &Header{Format: append([]byte(nil), format...)}
	if h.Version, err = c.ReadFloat32(); err != nil {
		return nil, err
	}
	if err := c.Skip(pmdNameSize + pmdCommentSize); err != nil {
		return nil, err
	}
	return h, nil
}

func (c *Cursor) skipRecords32(size int) error {
	n, err := c.ReadUint32()
	if err != nil {
		return err
	}
	if err := c.Skip(int(n) * size); err != nil {
		c.offset -= 4
		return err
	}
	return nil
}

// LocatePMDBones returns the offset of the bone section (its uint16 count).
func LocatePMDBones(data []byte) (int, error) {
	c := NewCursor(data)
	if _, err := ReadPMDHeader(c); err != nil {
		return 0, fmt.Errorf("pmd header: %w", err)
	}
	if err := c.skipRecords32(pmdVertexSize); err != nil {
		return 0, fmt.Errorf("pmd vertices: %w", err)
	}
	if err := c.skipRecords32(2); err != nil {
		return 0, fmt.Errorf("pmd faces: %w", err)
	}
	if err := c.skipRecords32(pmdMaterialSize); err != nil {
		return 0, fmt.Errorf("pmd materials: %w", err)
	}
	return c.Offset(), nil
}

// PreparsePMDBones checks that count records of fixed size fit in data.
func PreparsePMDBones(data []byte) (int, int, error) {
	c := NewCursor(data)
	n, err := c.ReadUint16()
	if err != nil {
		return 0, 0, err
	}
	if err := c.Skip(int(n) * PMDBoneRecordSize); err != nil {
		return 0, 0, fmt.Errorf("%d pmd bones: %w", n, err)
	}
	return c.Offset(), int(n), nil
}

// ReadPMDBones decodes a bone section previously validated by PreparsePMDBones.
func ReadPMDBones(data []byte) ([]*PMDBone, error) {
	c := NewCursor(data)
	n, err := c.ReadUint16()
	if err != nil {
		return nil, err
	}
	bones := make([]*PMDBone, n)
	for i := range bones {
		rec, err := c.Read(PMDBoneRecordSize)
		if err != nil {
			return nil, fmt.Errorf("pmd bone %d: %w", i, err)
		}
		if bones[i], err = decodePMDBone(rec); err != nil {
			return nil, fmt.Errorf("pmd bone %d: %w", i, err)
		}
	}
	return bones, nil
}

func decodePMDBone(rec []byte) (*PMDBone, error) {
	c := NewCursor(rec)
	var b PMDBone
	var err error
	if b.Name, err = c.readFixedString(pmdNameSize); err != nil {
		return nil, err
	}
	if b.ParentID, err = c.ReadIndex(2); err != nil {
		return nil, err
	}
	if b.ChildID, err = c.ReadIndex(2); err != nil {
		return nil, err
	}
	if b.Type, err = c.ReadUint8(); err != nil {
		return nil, err
	}
	if b.TargetID, err = c.ReadIndex(2); err != nil {
		return nil, err
	}
	if b.Pos, err = c.ReadVector3(); err != nil {
		return nil, err
	}
	return &b, nil
}

// LocatePMDEnglishBoneNames skips the IK, morph and display sections that follow
// the bone section ending at offset. It returns the offset of the English bone
// name table, or -1 when the file has no English block.
func LocatePMDEnglishBoneNames(data []byte, offset int) (int, error) {
	c := NewCursor(data)
	if _, err := c.Seek(int64(offset), io.SeekStart); err != nil {
		return -1, err
	}
	// IK
	n, err := c.ReadUint16()
	if err != nil {
		return -1, fmt.Errorf("pmd ik: %w", err)
	}
	for i := 0; i < int(n); i++ {
		if err := c.Skip(4); err != nil {
			return -1, fmt.Errorf("pmd ik %d: %w", i, err)
		}
		chain, err := c.ReadUint8()
		if err != nil {
			return -1, fmt.Errorf("pmd ik %d: %w", i, err)
		}
		if err := c.Skip(2 + 4 + int(chain)*2); err != nil {
			return -1, fmt.Errorf("pmd ik %d: %w", i, err)
		}
	}
	// morphs
	if n, err = c.ReadUint16(); err != nil {
		return -1, fmt.Errorf("pmd morphs: %w", err)
	}
	for i := 0; i < int(n); i++ {
		if err := c.Skip(pmdNameSize); err != nil {
			return -1, fmt.Errorf("pmd morph %d: %w", i, err)
		}
		verts, err := c.ReadUint32()
		if err != nil {
			return -1, fmt.Errorf("pmd morph %d: %w", i, err)
		}
		if err := c.Skip(1 + int(verts)*16); err != nil {
			return -1, fmt.Errorf("pmd morph %d: %w", i, err)
		}
	}
	// morph display list
	m, err := c.ReadUint8()
	if err != nil {
		return -1, fmt.Errorf("pmd morph display: %w", err)
	}
	if err := c.Skip(int(m) * 2); err != nil {
		return -1, fmt.Errorf("pmd morph display: %w", err)
	}
	// bone display group names
	if m, err = c.ReadUint8(); err != nil {
		return -1, fmt.Errorf("pmd bone display names: %w", err)
	}
	if err := c.Skip(int(m) * 50); err != nil {
		return -1, fmt.Errorf("pmd bone display names: %w", err)
	}
	if err := c.skipRecords32(3); err != nil {
		return -1, fmt.Errorf("pmd bone display: %w", err)
	}
	if c.Remaining() == 0 {
		return -1, nil
	}
	english, err := c.ReadUint8()
	if err != nil || english == 0 {
		return -1, err
	}
	if err := c.Skip(pmdNameSize + pmdCommentSize); err != nil {
		return -1, fmt.Errorf("pmd english header: %w", err)
	}
	return c.Offset(), nil
}

// ParsePMDBones locates, validates and decodes the bones of a whole PMD file,
// including English names when present.
func ParsePMDBones(data []byte) ([]*PMDBone, error) {
	offset, err := LocatePMDBones(data)
	if err != nil {
		return nil, err
	}
	size, count, err := PreparsePMDBones(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("pmd bones: %w", err)
	}
	bones, err := ReadPMDBones(data[offset : offset+size])
	if err != nil {
		return nil, fmt.Errorf("pmd bones: %w", err)
	}
	en, err := LocatePMDEnglishBoneNames(data, offset+size)
	if err != nil {
		logger.Log.Debug("pmd english names unavailable", zap.Error(err))
		return bones, nil
	}
	if en >= 0 {
		c := NewCursor(data)
		if _, err := c.Seek(int64(en), io.SeekStart); err != nil {
			logger.Log.Debug("pmd english names unavailable", zap.Error(err))
			return bones, nil
		}
		for i, b := range bones {
			name, err := c.readFixedString(pmdNameSize)
			if err != nil {
				logger.Log.Debug("pmd english bone names truncated", zap.Int("at", i))
				break
			}
			b.NameEn = name
		}
	}
	logger.Log.Debug("pmd bones parsed", zap.Int("count", count))
	return bones, nil
}

// WritePMDBones writes a uint16 count followed by fixed-size bone records.
func WritePMDBones(w *Writer, bones []*PMDBone) {
	w.WriteUint16(uint16(len(bones)))
	for _, b := range bones {
		w.WriteFixedString(EncodeShiftJIS(b.Name), pmdNameSize)
		w.WriteIndex(2, b.ParentID)
		w.WriteIndex(2, b.ChildID)
		w.WriteUint8(b.Type)
		w.WriteIndex(2, b.TargetID)
		w.WriteVector3(b.Pos)
	}
}

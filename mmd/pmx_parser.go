package mmd

import (
	"fmt"

	"github.com/binzume/mmdrig/internal/logger"
	"go.uber.org/zap"
)

// see also:
// https://gist.github.com/felixjones/f8a06bd48f9da9a4539f

// ReadPMXHeader reads the magic, version, attribute bytes and the four model texts.
func ReadPMXHeader(c *Cursor) (*Header, error) {
	format, err := c.Read(4)
	if err != nil {
		return nil, err
	}
	if string(format) != "PMX " {
		return nil, fmt.Errorf("pmx magic %q: %w", format, ErrUnsupportedFormat)
	}
	h := &Header{Format: append([]byte(nil), format...)}
	if h.Version, err = c.ReadFloat32(); err != nil {
		return nil, err
	}
	n, err := c.ReadUint8()
	if err != nil {
		return nil, err
	}
	info, err := c.Read(int(n))
	if err != nil {
		return nil, err
	}
	h.Info = append([]byte(nil), info...)
	if n <= byte(AttrBoneIndexSz) {
		return nil, fmt.Errorf("pmx header has %d attributes: %w", n, ErrUnsupportedFormat)
	}
	switch h.BoneIndexSize() {
	case 1, 2, 4:
	default:
		return nil, fmt.Errorf("bone index size %d: %w", h.BoneIndexSize(), ErrUnsupportedFormat)
	}
	for i := 0; i < 4; i++ {
		if err := c.skipText(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (c *Cursor) readCount() (int, error) {
	n, err := c.ReadInt32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		c.offset -= 4
		return 0, fmt.Errorf("negative count %d at offset %d: %w", n, c.offset, ErrUnsupportedFormat)
	}
	return int(n), nil
}

func (c *Cursor) skipPMXVertices(h *Header) error {
	n, err := c.readCount()
	if err != nil {
		return err
	}
	boneSz := h.BoneIndexSize()
	base := 12 + 12 + 8 + 16*int(h.attr(AttrExtUV))
	for i := 0; i < n; i++ {
		if err := c.Skip(base); err != nil {
			return err
		}
		weightType, err := c.ReadUint8()
		if err != nil {
			return err
		}
		var sz int
		switch weightType {
		case 0: // BDEF1
			sz = boneSz
		case 1: // BDEF2
			sz = boneSz*2 + 4
		case 2, 4: // BDEF4, QDEF
			sz = boneSz*4 + 16
		case 3: // SDEF
			sz = boneSz*2 + 4 + 36
		default:
			return fmt.Errorf("vertex %d weight type %d: %w", i, weightType, ErrUnsupportedFormat)
		}
		if err := c.Skip(sz + 4); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cursor) skipPMXMaterials(h *Header) error {
	n, err := c.readCount()
	if err != nil {
		return err
	}
	texSz := int(h.attr(AttrTexIndexSz))
	for i := 0; i < n; i++ {
		if err := c.skipText(); err != nil {
			return err
		}
		if err := c.skipText(); err != nil {
			return err
		}
		if err := c.Skip(16 + 12 + 4 + 12 + 1 + 16 + 4 + texSz*2 + 1); err != nil {
			return err
		}
		toonType, err := c.ReadUint8()
		if err != nil {
			return err
		}
		toonSz := 1
		if toonType == 0 {
			toonSz = texSz
		}
		if err := c.Skip(toonSz); err != nil {
			return err
		}
		if err := c.skipText(); err != nil {
			return err
		}
		if err := c.Skip(4); err != nil {
			return err
		}
	}
	return nil
}

// LocatePMXBones parses the header and skips the vertex, face, texture and
// material sections. It returns the header and the offset of the bone section.
func LocatePMXBones(data []byte) (*Header, int, error) {
	c := NewCursor(data)
	h, err := ReadPMXHeader(c)
	if err != nil {
		return nil, 0, fmt.Errorf("pmx header: %w", err)
	}
	if err := c.skipPMXVertices(h); err != nil {
		return nil, 0, fmt.Errorf("pmx vertices: %w", err)
	}
	faces, err := c.readCount()
	if err != nil {
		return nil, 0, fmt.Errorf("pmx faces: %w", err)
	}
	if err := c.Skip(faces * int(h.attr(AttrVertIndexSz))); err != nil {
		return nil, 0, fmt.Errorf("pmx faces: %w", err)
	}
	textures, err := c.readCount()
	if err != nil {
		return nil, 0, fmt.Errorf("pmx textures: %w", err)
	}
	for i := 0; i < textures; i++ {
		if err := c.skipText(); err != nil {
			return nil, 0, fmt.Errorf("pmx textures: %w", err)
		}
	}
	if err := c.skipPMXMaterials(h); err != nil {
		return nil, 0, fmt.Errorf("pmx materials: %w", err)
	}
	return h, c.Offset(), nil
}

// PreparsePMXBones walks the bone section at the start of data without
// allocating. It returns the section size in bytes and the bone count.
func PreparsePMXBones(data []byte, h *Header) (int, int, error) {
	c := NewCursor(data)
	n, err := c.readCount()
	if err != nil {
		return 0, 0, err
	}
	idx := h.BoneIndexSize()
	for i := 0; i < n; i++ {
		if err := c.skipText(); err != nil {
			return 0, 0, fmt.Errorf("bone %d name: %w", i, err)
		}
		if err := c.skipText(); err != nil {
			return 0, 0, fmt.Errorf("bone %d english name: %w", i, err)
		}
		if err := c.Skip(12 + idx + 4); err != nil {
			return 0, 0, fmt.Errorf("bone %d: %w", i, err)
		}
		flags, err := c.ReadUint16()
		if err != nil {
			return 0, 0, fmt.Errorf("bone %d flags: %w", i, err)
		}
		sz := 12
		if flags&BoneFlagTailIndex != 0 {
			sz = idx
		}
		if flags&(BoneFlagInheritRotation|BoneFlagInheritTranslation) != 0 {
			sz += idx + 4
		}
		if flags&BoneFlagFixedAxis != 0 {
			sz += 12
		}
		if flags&BoneFlagLocalAxis != 0 {
			sz += 24
		}
		if flags&BoneFlagExternalParent != 0 {
			sz += 4
		}
		if err := c.Skip(sz); err != nil {
			return 0, 0, fmt.Errorf("bone %d: %w", i, err)
		}
		if flags&BoneFlagEnableIK == 0 {
			continue
		}
		if err := c.Skip(idx + 4 + 4); err != nil {
			return 0, 0, fmt.Errorf("bone %d ik: %w", i, err)
		}
		links, err := c.readCount()
		if err != nil {
			return 0, 0, fmt.Errorf("bone %d ik links: %w", i, err)
		}
		for j := 0; j < links; j++ {
			if err := c.Skip(idx); err != nil {
				return 0, 0, fmt.Errorf("bone %d ik link %d: %w", i, j, err)
			}
			hasLimit, err := c.ReadUint8()
			if err != nil {
				return 0, 0, fmt.Errorf("bone %d ik link %d: %w", i, j, err)
			}
			if hasLimit != 0 {
				if err := c.Skip(24); err != nil {
					return 0, 0, fmt.Errorf("bone %d ik link %d limit: %w", i, j, err)
				}
			}
		}
	}
	return c.Offset(), n, nil
}

// ReadPMXBones decodes a bone section previously validated by PreparsePMXBones.
func ReadPMXBones(data []byte, h *Header) ([]*Bone, error) {
	c := NewCursor(data)
	n, err := c.readCount()
	if err != nil {
		return nil, err
	}
	bones := make([]*Bone, n)
	for i := 0; i < n; i++ {
		b, err := c.readPMXBone(h)
		if err != nil {
			return nil, fmt.Errorf("bone %d: %w", i, err)
		}
		bones[i] = b
	}
	return bones, nil
}

func (c *Cursor) readPMXBone(h *Header) (*Bone, error) {
	idx := h.BoneIndexSize()
	var b Bone
	var err error
	if b.Name, err = c.readText(h); err != nil {
		return nil, err
	}
	if b.NameEn, err = c.readText(h); err != nil {
		return nil, err
	}
	if b.Pos, err = c.ReadVector3(); err != nil {
		return nil, err
	}
	if b.ParentID, err = c.ReadIndex(idx); err != nil {
		return nil, err
	}
	layer, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}
	b.Layer = int(layer)
	if b.Flags, err = c.ReadUint16(); err != nil {
		return nil, err
	}

	if b.Flags&^BoneFlagAll != 0 {
		logger.Log.Warn("unsupported bone flags", zap.String("bone", b.Name), zap.Uint16("flags", b.Flags&^BoneFlagAll))
	}

	if b.Flags&BoneFlagTailIndex != 0 {
		if b.TailID, err = c.ReadIndex(idx); err != nil {
			return nil, err
		}
	} else {
		b.TailID = -1
		if b.TailPos, err = c.ReadVector3(); err != nil {
			return nil, err
		}
	}

	b.InheritParentID = -1
	if b.Flags&(BoneFlagInheritRotation|BoneFlagInheritTranslation) != 0 {
		if b.InheritParentID, err = c.ReadIndex(idx); err != nil {
			return nil, err
		}
		if b.InheritParentInfluence, err = c.ReadFloat32(); err != nil {
			return nil, err
		}
	}

	if b.Flags&BoneFlagFixedAxis != 0 {
		if b.FixedAxis, err = c.ReadVector3(); err != nil {
			return nil, err
		}
	}

	if b.Flags&BoneFlagLocalAxis != 0 {
		if b.LocalAxisX, err = c.ReadVector3(); err != nil {
			return nil, err
		}
		if b.LocalAxisZ, err = c.ReadVector3(); err != nil {
			return nil, err
		}
	}

	if b.Flags&BoneFlagExternalParent != 0 {
		key, err := c.ReadInt32()
		if err != nil {
			return nil, err
		}
		b.ExternalParentKey = int(key)
	}

	b.IK.TargetID = -1
	if b.Flags&BoneFlagEnableIK != 0 {
		if b.IK.TargetID, err = c.ReadIndex(idx); err != nil {
			return nil, err
		}
		loop, err := c.ReadInt32()
		if err != nil {
			return nil, err
		}
		b.IK.Loop = int(loop)
		if b.IK.LimitRad, err = c.ReadFloat32(); err != nil {
			return nil, err
		}
		links, err := c.readCount()
		if err != nil {
			return nil, err
		}
		for i := 0; i < links; i++ {
			var l Link
			if l.TargetID, err = c.ReadIndex(idx); err != nil {
				return nil, err
			}
			hasLimit, err := c.ReadUint8()
			if err != nil {
				return nil, err
			}
			l.HasLimit = hasLimit != 0
			if l.HasLimit {
				if l.LimitMin, err = c.ReadVector3(); err != nil {
					return nil, err
				}
				if l.LimitMax, err = c.ReadVector3(); err != nil {
					return nil, err
				}
			}
			b.IK.Links = append(b.IK.Links, &l)
		}
	}

	return &b, nil
}

// ParsePMXBones locates, validates and decodes the bones of a whole PMX file.
func ParsePMXBones(data []byte) (*Header, []*Bone, error) {
	h, offset, err := LocatePMXBones(data)
	if err != nil {
		return nil, nil, err
	}
	section := data[offset:]
	size, count, err := PreparsePMXBones(section, h)
	if err != nil {
		return nil, nil, fmt.Errorf("pmx bones: %w", err)
	}
	bones, err := ReadPMXBones(section[:size], h)
	if err != nil {
		return nil, nil, fmt.Errorf("pmx bones: %w", err)
	}
	logger.Log.Debug("pmx bones parsed", zap.Int("count", count), zap.Int("bytes", size))
	return h, bones, nil
}

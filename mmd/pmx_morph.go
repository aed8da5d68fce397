package mmd

import "fmt"

// PMX morph kinds. Only bone morphs are decoded, the others are skipped.
const (
	MorphTypeGroup    = 0
	MorphTypeVertex   = 1
	MorphTypeBone     = 2
	MorphTypeUV       = 3
	MorphTypeExtUV4   = 7
	MorphTypeMaterial = 8
	MorphTypeFlip     = 9
	MorphTypeImpulse  = 10
)

type BoneMorphOffset struct {
	BoneID      int
	Translation Vector3
	Rotation    Vector4
}

// BoneMorph is a PMX morph that offsets bones.
type BoneMorph struct {
	Name    string
	NameEn  string
	Panel   uint8
	Offsets []*BoneMorphOffset
}

// morphOffsetSize is the record size of one offset of a non-bone morph.
func morphOffsetSize(h *Header, kind uint8) (int, error) {
	switch {
	case kind == MorphTypeGroup, kind == MorphTypeFlip:
		return int(h.attr(AttrMorphIndexSz)) + 4, nil
	case kind == MorphTypeVertex:
		return int(h.attr(AttrVertIndexSz)) + 12, nil
	case kind >= MorphTypeUV && kind <= MorphTypeExtUV4:
		return int(h.attr(AttrVertIndexSz)) + 16, nil
	case kind == MorphTypeMaterial:
		return int(h.attr(AttrMatIndexSz)) + 1 + 28*4, nil
	case kind == MorphTypeImpulse:
		return int(h.attr(AttrRBIndexSz)) + 1 + 24, nil
	}
	return 0, fmt.Errorf("morph type %d: %w", kind, ErrUnsupportedFormat)
}

// ReadPMXBoneMorphs decodes the morph section at the start of data and keeps
// the bone morphs. Empty data means the file has no morph section.
func ReadPMXBoneMorphs(data []byte, h *Header) ([]*BoneMorph, error) {
	if len(data) == 0 {
		return nil, nil
	}
	c := NewCursor(data)
	n, err := c.readCount()
	if err != nil {
		return nil, err
	}
	var morphs []*BoneMorph
	for i := 0; i < n; i++ {
		m, err := c.readPMXMorph(h)
		if err != nil {
			return nil, fmt.Errorf("morph %d: %w", i, err)
		}
		if m != nil {
			morphs = append(morphs, m)
		}
	}
	return morphs, nil
}

// readPMXMorph returns nil for morphs that do not move bones.
func (c *Cursor) readPMXMorph(h *Header) (*BoneMorph, error) {
	var m BoneMorph
	var err error
	if m.Name, err = c.readText(h); err != nil {
		return nil, err
	}
	if m.NameEn, err = c.readText(h); err != nil {
		return nil, err
	}
	if m.Panel, err = c.ReadUint8(); err != nil {
		return nil, err
	}
	kind, err := c.ReadUint8()
	if err != nil {
		return nil, err
	}
	n, err := c.readCount()
	if err != nil {
		return nil, err
	}

	if kind != MorphTypeBone {
		sz, err := morphOffsetSize(h, kind)
		if err != nil {
			return nil, err
		}
		return nil, c.Skip(n * sz)
	}

	idx := h.BoneIndexSize()
	if err := c.check(n * (idx + 28)); err != nil {
		return nil, err
	}
	m.Offsets = make([]*BoneMorphOffset, n)
	for i := range m.Offsets {
		o := &BoneMorphOffset{}
		if o.BoneID, err = c.ReadIndex(idx); err != nil {
			return nil, err
		}
		if o.Translation, err = c.ReadVector3(); err != nil {
			return nil, err
		}
		if o.Rotation, err = c.ReadVector4(); err != nil {
			return nil, err
		}
		m.Offsets[i] = o
	}
	return &m, nil
}

// ParsePMXBoneMorphs reads the bone morphs that follow the bone section.
func ParsePMXBoneMorphs(data []byte) ([]*BoneMorph, error) {
	h, offset, err := LocatePMXBones(data)
	if err != nil {
		return nil, err
	}
	size, _, err := PreparsePMXBones(data[offset:], h)
	if err != nil {
		return nil, fmt.Errorf("pmx bones: %w", err)
	}
	morphs, err := ReadPMXBoneMorphs(data[offset+size:], h)
	if err != nil {
		return nil, fmt.Errorf("pmx morphs: %w", err)
	}
	return morphs, nil
}

// WritePMXBoneMorphs writes a morph section holding only bone morphs.
func WritePMXBoneMorphs(w *Writer, h *Header, morphs []*BoneMorph) {
	idx := h.BoneIndexSize()
	w.WriteInt32(int32(len(morphs)))
	for _, m := range morphs {
		w.writeText(h, m.Name)
		w.writeText(h, m.NameEn)
		w.WriteUint8(m.Panel)
		w.WriteUint8(MorphTypeBone)
		w.WriteInt32(int32(len(m.Offsets)))
		for _, o := range m.Offsets {
			w.WriteIndex(idx, o.BoneID)
			w.WriteVector3(o.Translation)
			w.WriteVector4(o.Rotation)
		}
	}
}

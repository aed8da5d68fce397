package mmd

import (
	"github.com/binzume/mmdrig/internal/logger"
	"go.uber.org/zap"
)

// WritePMXHeader writes the magic, version, attributes and model texts.
func WritePMXHeader(w *Writer, h *Header, name, comment string) {
	w.Write([]byte("PMX "))
	w.WriteFloat32(h.Version)
	w.WriteUint8(uint8(len(h.Info)))
	w.Write(h.Info)
	w.writeText(h, name)
	w.writeText(h, "")
	w.writeText(h, comment)
	w.writeText(h, "")
}

// WritePMXSkeleton writes a PMX file holding only bones. The vertex, face,
// texture and material sections are empty and the file ends after the bones.
func WritePMXSkeleton(w *Writer, h *Header, name string, bones []*Bone) {
	WritePMXHeader(w, h, name, "")
	for i := 0; i < 4; i++ {
		w.WriteInt32(0)
	}
	WritePMXBones(w, h, bones)
}

// WritePMXBones writes a bone section in the layout read by ReadPMXBones.
func WritePMXBones(w *Writer, h *Header, bones []*Bone) {
	w.WriteInt32(int32(len(bones)))
	for _, b := range bones {
		writePMXBone(w, h, b)
	}
}

func writePMXBone(w *Writer, h *Header, b *Bone) {
	idx := h.BoneIndexSize()
	w.writeText(h, b.Name)
	w.writeText(h, b.NameEn)
	w.WriteVector3(b.Pos)
	w.WriteIndex(idx, b.ParentID)
	w.WriteInt32(int32(b.Layer))
	w.WriteUint16(b.Flags)

	if b.Flags&^BoneFlagAll != 0 {
		logger.Log.Warn("unsupported bone flags", zap.String("bone", b.Name), zap.Uint16("flags", b.Flags&^BoneFlagAll))
	}

	if b.Flags&BoneFlagTailIndex != 0 {
		w.WriteIndex(idx, b.TailID)
	} else {
		w.WriteVector3(b.TailPos)
	}

	if b.Flags&(BoneFlagInheritRotation|BoneFlagInheritTranslation) != 0 {
		w.WriteIndex(idx, b.InheritParentID)
		w.WriteFloat32(b.InheritParentInfluence)
	}

	if b.Flags&BoneFlagFixedAxis != 0 {
		w.WriteVector3(b.FixedAxis)
	}

	if b.Flags&BoneFlagLocalAxis != 0 {
		w.WriteVector3(b.LocalAxisX)
		w.WriteVector3(b.LocalAxisZ)
	}

	if b.Flags&BoneFlagExternalParent != 0 {
		w.WriteInt32(int32(b.ExternalParentKey))
	}

	if b.Flags&BoneFlagEnableIK != 0 {
		w.WriteIndex(idx, b.IK.TargetID)
		w.WriteInt32(int32(b.IK.Loop))
		w.WriteFloat32(b.IK.LimitRad)
		w.WriteInt32(int32(len(b.IK.Links)))
		for _, l := range b.IK.Links {
			w.WriteIndex(idx, l.TargetID)
			if l.HasLimit {
				w.WriteUint8(1)
				w.WriteVector3(l.LimitMin)
				w.WriteVector3(l.LimitMax)
			} else {
				w.WriteUint8(0)
			}
		}
	}
}

// RepackPMXBones returns a copy of data whose bone section is replaced by bones.
// Every other section is kept byte for byte.
func RepackPMXBones(data []byte, bones []*Bone) ([]byte, error) {
	h, offset, err := LocatePMXBones(data)
	if err != nil {
		return nil, err
	}
	size, _, err := PreparsePMXBones(data[offset:], h)
	if err != nil {
		return nil, err
	}
	w := NewWriter(len(data))
	w.Write(data[:offset])
	WritePMXBones(w, h, bones)
	w.Write(data[offset+size:])
	return w.Bytes(), nil
}

// WritePMDSkeleton writes a PMD file holding only bones, with empty IK, morph and
// display sections. English bone names are written when english is set.
func WritePMDSkeleton(w *Writer, name string, bones []*PMDBone, english bool) {
	w.Write([]byte("Pmd"))
	w.WriteFloat32(1)
	w.WriteFixedString(EncodeShiftJIS(name), pmdNameSize)
	w.WriteFixedString(nil, pmdCommentSize)
	w.WriteUint32(0) // vertices
	w.WriteUint32(0) // faces
	w.WriteUint32(0) // materials
	WritePMDBones(w, bones)
	w.WriteUint16(0) // ik
	w.WriteUint16(0) // morphs
	w.WriteUint8(0)
	w.WriteUint8(0)
	w.WriteUint32(0)
	if !english {
		w.WriteUint8(0)
		return
	}
	w.WriteUint8(1)
	w.WriteFixedString([]byte(name), pmdNameSize)
	w.WriteFixedString(nil, pmdCommentSize)
	for _, b := range bones {
		w.WriteFixedString([]byte(b.NameEn), pmdNameSize)
	}
}

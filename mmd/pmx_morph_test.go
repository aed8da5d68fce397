package mmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBoneMorphs() []*BoneMorph {
	return []*BoneMorph{
		{Name: "腕上げ", NameEn: "arm up", Panel: 4, Offsets: []*BoneMorphOffset{
			{BoneID: 1, Translation: Vector3{Y: 0.5}, Rotation: Vector4{Z: 0.38268343, W: 0.9238795}},
			{BoneID: 0, Rotation: Vector4{W: 1}},
		}},
	}
}

// writeVertexMorph writes a one-offset vertex morph, which readers skip.
func writeVertexMorph(w *Writer, h *Header, name string) {
	w.writeText(h, name)
	w.writeText(h, "")
	w.WriteUint8(3)
	w.WriteUint8(MorphTypeVertex)
	w.WriteInt32(1)
	w.WriteIndex(int(h.attr(AttrVertIndexSz)), 7)
	w.WriteVector3(Vector3{X: 1})
}

func TestPMXBoneMorphs(t *testing.T) {
	h := NewPMXHeader(2)
	w := NewWriter(0)
	WritePMXSkeleton(w, h, "model", testBones())
	WritePMXBoneMorphs(w, h, testBoneMorphs())

	morphs, err := ParsePMXBoneMorphs(w.Bytes())
	require.NoError(t, err)
	assert.Equal(t, testBoneMorphs(), morphs)
}

func TestPMXBoneMorphsSkipOtherKinds(t *testing.T) {
	h := NewPMXHeader(1)
	w := NewWriter(0)
	w.WriteInt32(3)
	writeVertexMorph(w, h, "smile")
	m := testBoneMorphs()[0]
	w.writeText(h, m.Name)
	w.writeText(h, m.NameEn)
	w.WriteUint8(m.Panel)
	w.WriteUint8(MorphTypeBone)
	w.WriteInt32(int32(len(m.Offsets)))
	for _, o := range m.Offsets {
		w.WriteIndex(1, o.BoneID)
		w.WriteVector3(o.Translation)
		w.WriteVector4(o.Rotation)
	}
	writeVertexMorph(w, h, "blink")

	morphs, err := ReadPMXBoneMorphs(w.Bytes(), h)
	require.NoError(t, err)
	assert.Equal(t, testBoneMorphs(), morphs)
}

func TestPMXWithoutMorphSection(t *testing.T) {
	w := NewWriter(0)
	WritePMXSkeleton(w, NewPMXHeader(2), "model", testBones())

	morphs, err := ParsePMXBoneMorphs(w.Bytes())
	require.NoError(t, err)
	assert.Empty(t, morphs)
}

func TestPMXBoneMorphErrors(t *testing.T) {
	h := NewPMXHeader(2)
	w := NewWriter(0)
	WritePMXBoneMorphs(w, h, testBoneMorphs())
	data := w.Bytes()

	_, err := ReadPMXBoneMorphs(data[:len(data)-3], h)
	assert.ErrorIs(t, err, ErrTruncated)

	w = NewWriter(0)
	w.WriteInt32(1)
	w.writeText(h, "x")
	w.writeText(h, "")
	w.WriteUint8(0)
	w.WriteUint8(11)
	w.WriteInt32(0)
	_, err = ReadPMXBoneMorphs(w.Bytes(), h)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	w = NewWriter(0)
	w.WriteInt32(-1)
	_, err = ReadPMXBoneMorphs(w.Bytes(), h)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

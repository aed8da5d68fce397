package mmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPMDBones() []*PMDBone {
	return []*PMDBone{
		{Name: "センター", NameEn: "center", ParentID: -1, ChildID: 1, Type: 1},
		{Name: "左足", NameEn: "leg_L", ParentID: 0, ChildID: -1, Type: 0, Pos: Vector3{X: 1, Y: 2, Z: 3}},
		{Name: "左足ＩＫ", NameEn: "leg IK_L", ParentID: 0, ChildID: 1, Type: 2, TargetID: 1, Pos: Vector3{Y: -1}},
	}
}

func TestPMDRoundTrip(t *testing.T) {
	w := NewWriter(0)
	WritePMDSkeleton(w, "モデル", testPMDBones(), true)

	bones, err := ParsePMDBones(w.Bytes())
	require.NoError(t, err)
	assert.Equal(t, testPMDBones(), bones)
}

func TestPMDWithoutEnglishNames(t *testing.T) {
	w := NewWriter(0)
	WritePMDSkeleton(w, "モデル", testPMDBones(), false)

	bones, err := ParsePMDBones(w.Bytes())
	require.NoError(t, err)
	require.Len(t, bones, 3)
	assert.Equal(t, "左足", bones[1].Name)
	assert.Empty(t, bones[1].NameEn)
}

func TestPMDBoneRecordSize(t *testing.T) {
	w := NewWriter(0)
	WritePMDBones(w, testPMDBones())
	assert.Equal(t, 2+3*PMDBoneRecordSize, w.Len())

	size, count, err := PreparsePMDBones(w.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, w.Len(), size)

	_, _, err = PreparsePMDBones(w.Bytes()[:w.Len()-1])
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestLocatePMDEnglishBoneNames(t *testing.T) {
	w := NewWriter(0)
	WritePMDSkeleton(w, "model", testPMDBones(), true)
	data := w.Bytes()

	offset, err := LocatePMDBones(data)
	require.NoError(t, err)
	assert.Equal(t, 3+4+20+256+12, offset)

	size, _, err := PreparsePMDBones(data[offset:])
	require.NoError(t, err)
	en, err := LocatePMDEnglishBoneNames(data, offset+size)
	require.NoError(t, err)
	assert.Equal(t, len(data)-3*20, en)

	_, err = LocatePMDEnglishBoneNames(data, len(data)+1)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestPMDHeaderErrors(t *testing.T) {
	_, err := ParsePMDBones([]byte("PMX 1234"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	w := NewWriter(0)
	WritePMDSkeleton(w, "model", testPMDBones(), false)
	_, err = ParsePMDBones(w.Bytes()[:300])
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecodePMDBoneShortRecord(t *testing.T) {
	w := NewWriter(0)
	WritePMDBones(w, testPMDBones()[1:2])
	rec := w.Bytes()[2:]
	require.Len(t, rec, PMDBoneRecordSize)

	b, err := decodePMDBone(rec)
	require.NoError(t, err)
	assert.Equal(t, Vector3{X: 1, Y: 2, Z: 3}, b.Pos)

	for _, n := range []int{0, pmdNameSize, PMDBoneRecordSize - 1} {
		_, err := decodePMDBone(rec[:n])
		assert.ErrorIs(t, err, ErrTruncated, "record of %d bytes", n)
	}
}

package mmd

import "errors"

var (
	// ErrTruncated is returned when a read or seek would run past the end of the data.
	ErrTruncated = errors.New("mmd: data truncated")
	// ErrUnsupportedFormat is returned for unknown magic or header values.
	ErrUnsupportedFormat = errors.New("mmd: unsupported format")
)

type Vector3 struct {
	X float32
	Y float32
	Z float32
}

type Vector4 struct {
	X float32
	Y float32
	Z float32
	W float32
}

type Header struct {
	Format  []byte
	Version float32
	Info    []byte
}

// NewPMXHeader returns a PMX 2.0 header using UTF-8 text and the given bone index width.
func NewPMXHeader(boneIndexSize byte) *Header {
	return &Header{
		Format:  []byte("PMX "),
		Version: 2,
		Info:    []byte{1, 0, 2, 1, 1, boneIndexSize, 1, 1},
	}
}

func (h *Header) attr(a int) byte {
	if a < len(h.Info) {
		return h.Info[a]
	}
	return 0
}

// BoneIndexSize is the width in bytes of a bone reference (1, 2 or 4).
func (h *Header) BoneIndexSize() int {
	return int(h.attr(AttrBoneIndexSz))
}

// UTF8 reports whether strings are UTF-8. Otherwise they are UTF-16LE.
func (h *Header) UTF8() bool {
	return h.attr(AttrStringEncoding) != 0
}

type Link struct {
	TargetID int
	HasLimit bool
	LimitMin Vector3
	LimitMax Vector3
}

// Bone is a PMX bone record as stored in the file. References are raw indices.
type Bone struct {
	Name     string
	NameEn   string
	Pos      Vector3
	ParentID int
	Layer    int
	Flags    uint16
	TailID   int
	TailPos  Vector3

	InheritParentID        int
	InheritParentInfluence float32

	FixedAxis Vector3

	LocalAxisX Vector3
	LocalAxisZ Vector3

	ExternalParentKey int

	IK struct {
		TargetID int
		Loop     int
		LimitRad float32
		Links    []*Link
	}
}

const (
	BoneFlagTailIndex    uint16 = 1
	BoneFlagRotatable    uint16 = 2
	BoneFlagTranslatable uint16 = 4
	BoneFlagVisible      uint16 = 8
	BoneFlagEnabled      uint16 = 16
	BoneFlagEnableIK     uint16 = 32

	BoneFlagInheritRotation    uint16 = 256
	BoneFlagInheritTranslation uint16 = 512
	BoneFlagFixedAxis          uint16 = 1024
	BoneFlagLocalAxis          uint16 = 2048
	BoneFlagPhysicsMode        uint16 = 4096
	BoneFlagExternalParent     uint16 = 8192

	BoneFlagAll uint16 = (31 | 32 | 256 | 512 | 1024 | 2048 | 4096 | 8192)
)

// PMDBoneRecordSize is the fixed size of a PMD bone record.
const PMDBoneRecordSize = 39

const pmdNameSize = 20

// PMDBone is a PMD bone record as stored in the file.
type PMDBone struct {
	Name     string
	NameEn   string
	ParentID int
	ChildID  int
	Type     uint8
	TargetID int
	Pos      Vector3
}

const (
	AttrStringEncoding int = iota
	AttrExtUV
	AttrVertIndexSz
	AttrTexIndexSz
	AttrMatIndexSz
	AttrBoneIndexSz
	AttrMorphIndexSz
	AttrRBIndexSz
)

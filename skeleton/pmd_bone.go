package skeleton

import (
	"github.com/binzume/mmdrig/geom"
	"github.com/binzume/mmdrig/mmd"
	"github.com/binzume/mmdrig/physics"
)

type PMDBoneType uint8

const (
	PMDBoneRotate PMDBoneType = iota
	PMDBoneRotateAndMove
	PMDBoneIKRoot
	PMDBoneUnknown
	PMDBoneIKJoint
	PMDBoneUnderRotate
	PMDBoneIKEffector
	PMDBoneInvisible
	PMDBoneTwist
	PMDBoneFollowRotate
)

// PMDBone is a bone loaded from a PMD model. Its capabilities derive from its type.
type PMDBone struct {
	model *PMDModel

	index       int
	name        string
	englishName string
	boneType    PMDBoneType
	ikEnabled   bool

	origin           geom.Vector3
	offset           geom.Vector3
	localTranslation geom.Vector3
	rotation         geom.Quaternion
	fixedAxis        geom.Vector3

	worldTransform geom.Transform
	localTransform geom.Transform

	parentIndex int
	targetIndex int
	childIndex  int

	body physics.RigidBody
}

func newPMDBone(model *PMDModel, raw *mmd.PMDBone) *PMDBone {
	b := &PMDBone{
		model:          model,
		index:          -1,
		name:           raw.Name,
		englishName:    raw.NameEn,
		boneType:       PMDBoneType(raw.Type),
		ikEnabled:      true,
		rotation:       geom.IdentityQuaternion(),
		worldTransform: *geom.NewTransform(),
		localTransform: *geom.NewTransform(),
		parentIndex:    raw.ParentID,
		targetIndex:    raw.TargetID,
		childIndex:     raw.ChildID,
	}
	b.origin = flipZ(raw.Pos)
	b.offset = b.origin
	return b
}

func (b *PMDBone) Index() int           { return b.index }
func (b *PMDBone) Name() string         { return b.name }
func (b *PMDBone) EnglishName() string  { return b.englishName }
func (b *PMDBone) Type() PMDBoneType    { return b.boneType }
func (b *PMDBone) Origin() geom.Vector3 { return b.origin }
func (b *PMDBone) Offset() geom.Vector3 { return b.offset }

func (b *PMDBone) IsInverseKinematicsEnabled() bool {
	return b.ikEnabled
}

func (b *PMDBone) LocalTransform() geom.Transform     { return b.localTransform }
func (b *PMDBone) SetLocalTransform(t geom.Transform) { b.localTransform = t }
func (b *PMDBone) WorldTransform() geom.Transform     { return b.worldTransform }
func (b *PMDBone) LocalRotation() geom.Quaternion     { return b.rotation }
func (b *PMDBone) LocalTranslation() geom.Vector3     { return b.localTranslation }

func (b *PMDBone) SetLocalRotation(q geom.Quaternion) {
	if b.rotation != q {
		b.rotation = q
		b.model.emit(b, ChangeRotation)
	}
}

func (b *PMDBone) SetLocalTranslation(v geom.Vector3) {
	if b.localTranslation != v {
		b.localTranslation = v
		b.model.emit(b, ChangeTranslation)
	}
}

func (b *PMDBone) SetInverseKinematicsEnable(enable bool) {
	if b.ikEnabled != enable {
		b.ikEnabled = enable
		b.model.emit(b, ChangeIKEnable)
	}
}

func (b *PMDBone) UpdateLocalTransform() {
	b.localTransform = localTransformOf(&b.worldTransform, &b.origin)
}

func (b *PMDBone) LocalAxes() [3]geom.Vector3 {
	return identityAxes()
}

// FixedAxis is the direction towards the child bone for twist bones.
func (b *PMDBone) FixedAxis() geom.Vector3 {
	return b.fixedAxis
}

// DestinationOrigin returns the parent's origin, or zero for a root bone.
func (b *PMDBone) DestinationOrigin() geom.Vector3 {
	if p := b.model.bone(b.parentIndex); p != nil {
		return p.origin
	}
	return geom.Vector3{}
}

func (b *PMDBone) EffectorBones() []Bone {
	return nil
}

func (b *PMDBone) IsMovable() bool {
	switch b.boneType {
	case PMDBoneRotateAndMove, PMDBoneIKRoot, PMDBoneIKJoint:
		return true
	}
	return false
}

func (b *PMDBone) IsRotatable() bool {
	switch b.boneType {
	case PMDBoneRotate, PMDBoneRotateAndMove, PMDBoneIKRoot, PMDBoneIKJoint, PMDBoneUnderRotate, PMDBoneTwist:
		return true
	}
	return false
}

func (b *PMDBone) IsInteractive() bool        { return b.IsRotatable() }
func (b *PMDBone) IsVisible() bool            { return b.IsRotatable() }
func (b *PMDBone) HasFixedAxis() bool         { return b.boneType == PMDBoneTwist }
func (b *PMDBone) HasLocalAxis() bool         { return false }
func (b *PMDBone) HasInverseKinematics() bool { return b.boneType == PMDBoneIKRoot }

func (b *PMDBone) ParentBone() Bone {
	if p := b.model.bone(b.parentIndex); p != nil {
		return p
	}
	return nil
}

// EffectorBone is the target bone of IK roots.
func (b *PMDBone) EffectorBone() Bone {
	if b.boneType != PMDBoneIKRoot {
		return nil
	}
	if t := b.model.bone(b.targetIndex); t != nil {
		return t
	}
	return nil
}

func (b *PMDBone) Body() physics.RigidBody        { return b.body }
func (b *PMDBone) SetBody(body physics.RigidBody) { b.body = body }

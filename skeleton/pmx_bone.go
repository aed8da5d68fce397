package skeleton

import (
	"github.com/binzume/mmdrig/geom"
	"github.com/binzume/mmdrig/mmd"
	"github.com/binzume/mmdrig/physics"
)

// IKConstraint is one joint of an IK chain. Limits are in model space.
type IKConstraint struct {
	JointIndex int
	HasLimit   bool
	Lower      geom.Vector3
	Upper      geom.Vector3
}

// PMXBone is a bone loaded from a PMX model. Cross references are indices into
// the owning model's bone slice.
type PMXBone struct {
	model *PMXModel

	index       int
	name        string
	englishName string
	flags       uint16
	layer       int
	coefficient float32
	ikEnabled   bool

	origin           geom.Vector3
	offsetFromParent geom.Vector3

	localTranslation         geom.Vector3
	localMorphTranslation    geom.Vector3
	localInherentTranslation geom.Vector3
	localRotation            geom.Quaternion
	localMorphRotation       geom.Quaternion
	localInherentRotation    geom.Quaternion
	jointRotation            geom.Quaternion

	worldTransform geom.Transform
	localTransform geom.Transform

	destinationOrigin geom.Vector3
	fixedAxis         geom.Vector3
	axisX             geom.Vector3
	axisZ             geom.Vector3
	externalParentKey int

	numIteration int
	angleLimit   float32
	constraints  []IKConstraint

	parentIndex      int
	destinationIndex int
	effectorIndex    int
	inherentIndex    int

	body physics.RigidBody
}

func newPMXBone(model *PMXModel, raw *mmd.Bone) *PMXBone {
	b := &PMXBone{
		model:                 model,
		index:                 -1,
		name:                  raw.Name,
		englishName:           raw.NameEn,
		flags:                 raw.Flags,
		layer:                 raw.Layer,
		coefficient:           1,
		ikEnabled:             true,
		localRotation:         geom.IdentityQuaternion(),
		localMorphRotation:    geom.IdentityQuaternion(),
		localInherentRotation: geom.IdentityQuaternion(),
		jointRotation:         geom.IdentityQuaternion(),
		worldTransform:        *geom.NewTransform(),
		localTransform:        *geom.NewTransform(),
		externalParentKey:     raw.ExternalParentKey,
		parentIndex:           raw.ParentID,
		destinationIndex:      -1,
		effectorIndex:         -1,
		inherentIndex:         -1,
	}
	b.origin = flipZ(raw.Pos)
	b.offsetFromParent = b.origin
	b.worldTransform.Origin = b.origin

	if b.flags&mmd.BoneFlagTailIndex != 0 {
		b.destinationIndex = raw.TailID
	} else {
		b.destinationOrigin = flipZ(raw.TailPos)
	}
	if b.flags&(mmd.BoneFlagInheritRotation|mmd.BoneFlagInheritTranslation) != 0 {
		b.inherentIndex = raw.InheritParentID
		b.coefficient = raw.InheritParentInfluence
	}
	if b.flags&mmd.BoneFlagFixedAxis != 0 {
		b.fixedAxis = vec3(raw.FixedAxis)
	}
	if b.flags&mmd.BoneFlagLocalAxis != 0 {
		b.axisX = flipZ(raw.LocalAxisX)
		b.axisZ = flipZ(raw.LocalAxisZ)
	}
	if b.flags&mmd.BoneFlagEnableIK != 0 {
		b.effectorIndex = raw.IK.TargetID
		b.numIteration = raw.IK.Loop
		b.angleLimit = raw.IK.LimitRad
		for _, l := range raw.IK.Links {
			c := IKConstraint{JointIndex: l.TargetID, HasLimit: l.HasLimit}
			if l.HasLimit {
				c.Lower, c.Upper = convertLimits(vec3(l.LimitMin), vec3(l.LimitMax))
			}
			b.constraints = append(b.constraints, c)
		}
	}
	return b
}

// convertLimits maps file-space angle limits to the right-handed model space.
func convertLimits(lower, upper geom.Vector3) (geom.Vector3, geom.Vector3) {
	return geom.Vector3{X: -upper.X, Y: -upper.Y, Z: lower.Z},
		geom.Vector3{X: -lower.X, Y: -lower.Y, Z: upper.Z}
}

func vec3(v mmd.Vector3) geom.Vector3 {
	return geom.Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

// flipZ converts a left-handed file position to model space.
func flipZ(v mmd.Vector3) geom.Vector3 {
	p := vec3(v)
	return *p.FlipZ()
}

func (b *PMXBone) Index() int          { return b.index }
func (b *PMXBone) Name() string        { return b.name }
func (b *PMXBone) EnglishName() string { return b.englishName }
func (b *PMXBone) Layer() int          { return b.layer }
func (b *PMXBone) Flags() uint16       { return b.flags }

func (b *PMXBone) Origin() geom.Vector3 {
	return b.origin
}

// OffsetFromParent is origin minus the parent's origin, fixed at load time.
func (b *PMXBone) OffsetFromParent() geom.Vector3 {
	return b.offsetFromParent
}

func (b *PMXBone) Coefficient() float32             { return b.coefficient }
func (b *PMXBone) Constraints() []IKConstraint      { return b.constraints }
func (b *PMXBone) JointRotation() geom.Quaternion   { return b.jointRotation }
func (b *PMXBone) NumIteration() int                { return b.numIteration }
func (b *PMXBone) AngleLimit() float32              { return b.angleLimit }
func (b *PMXBone) ExternalParentKey() int           { return b.externalParentKey }
func (b *PMXBone) IsInverseKinematicsEnabled() bool { return b.ikEnabled }

// TransformAfterPhysics reports whether the bone is updated after the physics step.
func (b *PMXBone) TransformAfterPhysics() bool {
	return b.flags&mmd.BoneFlagPhysicsMode != 0
}

func (b *PMXBone) LocalTransform() geom.Transform     { return b.localTransform }
func (b *PMXBone) SetLocalTransform(t geom.Transform) { b.localTransform = t }
func (b *PMXBone) WorldTransform() geom.Transform     { return b.worldTransform }
func (b *PMXBone) LocalRotation() geom.Quaternion     { return b.localRotation }
func (b *PMXBone) LocalTranslation() geom.Vector3     { return b.localTranslation }

func (b *PMXBone) SetLocalRotation(q geom.Quaternion) {
	if b.localRotation != q {
		b.localRotation = q
		b.model.emit(b, ChangeRotation)
	}
}

func (b *PMXBone) SetLocalTranslation(v geom.Vector3) {
	if b.localTranslation != v {
		b.localTranslation = v
		b.model.emit(b, ChangeTranslation)
	}
}

func (b *PMXBone) SetInverseKinematicsEnable(enable bool) {
	if b.ikEnabled != enable {
		b.ikEnabled = enable
		b.model.emit(b, ChangeIKEnable)
	}
}

// UpdateLocalTransform refreshes the cached local transform from the world transform.
func (b *PMXBone) UpdateLocalTransform() {
	b.localTransform = localTransformOf(&b.worldTransform, &b.origin)
}

func (b *PMXBone) LocalAxes() [3]geom.Vector3 {
	if !b.HasLocalAxis() {
		return identityAxes()
	}
	axisY := b.axisZ.Cross(&b.axisX)
	axisZ := b.axisX.Cross(axisY)
	return [3]geom.Vector3{b.axisX, *axisY, *axisZ}
}

func (b *PMXBone) FixedAxis() geom.Vector3 {
	return b.fixedAxis
}

// DestinationOrigin is the world position the bone points at.
func (b *PMXBone) DestinationOrigin() geom.Vector3 {
	if d := b.model.bone(b.destinationIndex); d != nil {
		return d.worldTransform.Origin
	}
	return *b.worldTransform.Origin.Add(&b.destinationOrigin)
}

// EffectorBones returns the joint bones of the IK chain.
func (b *PMXBone) EffectorBones() []Bone {
	var bones []Bone
	for _, c := range b.constraints {
		if j := b.model.bone(c.JointIndex); j != nil {
			bones = append(bones, j)
		}
	}
	return bones
}

func (b *PMXBone) IsMovable() bool            { return b.flags&mmd.BoneFlagTranslatable != 0 }
func (b *PMXBone) IsRotatable() bool          { return b.flags&mmd.BoneFlagRotatable != 0 }
func (b *PMXBone) IsInteractive() bool        { return b.flags&mmd.BoneFlagEnabled != 0 }
func (b *PMXBone) IsVisible() bool            { return b.flags&mmd.BoneFlagVisible != 0 }
func (b *PMXBone) HasFixedAxis() bool         { return b.flags&mmd.BoneFlagFixedAxis != 0 }
func (b *PMXBone) HasLocalAxis() bool         { return b.flags&mmd.BoneFlagLocalAxis != 0 }
func (b *PMXBone) HasInverseKinematics() bool { return b.flags&mmd.BoneFlagEnableIK != 0 }

func (b *PMXBone) hasInherentRotation() bool {
	return b.flags&mmd.BoneFlagInheritRotation != 0
}

func (b *PMXBone) hasInherentTranslation() bool {
	return b.flags&mmd.BoneFlagInheritTranslation != 0
}

func (b *PMXBone) ParentBone() Bone {
	if p := b.model.bone(b.parentIndex); p != nil {
		return p
	}
	return nil
}

func (b *PMXBone) EffectorBone() Bone {
	if e := b.model.bone(b.effectorIndex); e != nil {
		return e
	}
	return nil
}

func (b *PMXBone) Body() physics.RigidBody        { return b.body }
func (b *PMXBone) SetBody(body physics.RigidBody) { b.body = body }

// ResetIKLink clears the IK delta left by the previous solve.
func (b *PMXBone) ResetIKLink() {
	b.jointRotation = geom.IdentityQuaternion()
}

// MergeMorph applies a bone morph scaled by weight.
func (b *PMXBone) MergeMorph(position geom.Vector3, rotation geom.Quaternion, weight float32) {
	b.localMorphTranslation = *position.Scale(weight)
	id := geom.IdentityQuaternion()
	b.localMorphRotation = *id.Slerp(&rotation, weight)
}

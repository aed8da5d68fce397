package skeleton

import "github.com/binzume/mmdrig/geom"

// PerformTransform composes inherited, local, morph and IK rotations and
// translations, then updates the world transform from the parent's.
func (b *PMXBone) PerformTransform() {
	rotation := geom.IdentityQuaternion()
	var position geom.Vector3
	src := b.model.bone(b.inherentIndex)

	if b.hasInherentRotation() {
		if src != nil {
			if src.hasInherentRotation() {
				rotation = *rotation.Mul(&src.localInherentRotation)
			} else {
				rotation = *rotation.Mul(src.localRotation.Mul(&src.localMorphRotation))
			}
		}
		if !geom.FuzzyZero(b.coefficient - 1) {
			id := geom.IdentityQuaternion()
			rotation = *id.Slerp(&rotation, b.coefficient)
		}
		if src != nil && src.HasInverseKinematics() {
			rotation = *rotation.Mul(&src.jointRotation)
		}
		b.localInherentRotation = *rotation.Mul(&b.localRotation).Mul(&b.localMorphRotation).Normalize()
	}
	rotation = *rotation.Mul(&b.localRotation).Mul(&b.localMorphRotation).Mul(&b.jointRotation).Normalize()

	if b.hasInherentTranslation() {
		if src != nil {
			if src.hasInherentTranslation() {
				position = *position.Add(&src.localInherentTranslation)
			} else {
				position = *position.Add(&src.localTranslation).Add(&src.localMorphTranslation)
			}
		}
		if !geom.FuzzyZero(b.coefficient - 1) {
			position = *position.Scale(b.coefficient)
		}
		b.localInherentTranslation = position
	}
	position = *position.Add(&b.localTranslation).Add(&b.localMorphTranslation)

	b.updateWorldTransform(&position, &rotation)
}

func (b *PMXBone) updateWorldTransform(translation *geom.Vector3, rotation *geom.Quaternion) {
	b.worldTransform = geom.Transform{Rotation: *rotation, Origin: *b.offsetFromParent.Add(translation)}
	if p := b.model.bone(b.parentIndex); p != nil {
		b.worldTransform = *p.worldTransform.Mul(&b.worldTransform)
	}
}

// updateWorldTransformSimple ignores inheritance, morphs and IK deltas.
func (b *PMXBone) updateWorldTransformSimple() {
	b.updateWorldTransform(&b.localTranslation, &b.localRotation)
}

// PerformTransform applies the PMD bone type rules and refreshes the local transform.
func (b *PMDBone) PerformTransform() {
	rotation := b.rotation
	switch {
	case b.boneType == PMDBoneUnderRotate && b.model.bone(b.targetIndex) != nil:
		rotation = *b.rotation.Mul(&b.model.bone(b.targetIndex).rotation)
	case b.boneType == PMDBoneFollowRotate && b.model.bone(b.childIndex) != nil:
		id := geom.IdentityQuaternion()
		rotation = *id.Slerp(&b.rotation, float32(b.targetIndex)*0.01)
	}
	b.worldTransform = geom.Transform{Rotation: rotation, Origin: *b.offset.Add(&b.localTranslation)}
	if p := b.model.bone(b.parentIndex); p != nil {
		b.worldTransform = *p.worldTransform.Mul(&b.worldTransform)
	}
	b.UpdateLocalTransform()
}

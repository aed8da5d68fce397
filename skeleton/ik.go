package skeleton

import (
	"github.com/binzume/mmdrig/geom"
	"github.com/chewxy/math32"
)

// SolveInverseKinematics rotates the joint bones so that the effector
// approaches this bone's position, using cyclic coordinate descent.
// The effector's own local rotation is left unchanged.
func (b *PMXBone) SolveInverseKinematics() {
	if !b.HasInverseKinematics() || !b.ikEnabled {
		return
	}
	effector := b.model.bone(b.effectorIndex)
	if effector == nil {
		return
	}

	rootPosition := b.worldTransform.Origin
	originalRotation := effector.localRotation
	halfOfIteration := b.numIteration / 2

	for i := 0; i < b.numIteration; i++ {
		constrained := i < halfOfIteration
		for j := range b.constraints {
			c := &b.constraints[j]
			joint := b.model.bone(c.JointIndex)
			if joint == nil {
				continue
			}

			inv := joint.worldTransform.Inverse()
			localRoot := inv.ApplyTo(&rootPosition).SafeNormalize()
			localEffector := inv.ApplyTo(&effector.worldTransform.Origin).SafeNormalize()
			dot := localRoot.Dot(localEffector)
			if geom.FuzzyZero(1 - dot) {
				break
			}
			axis := localEffector.Cross(localRoot).SafeNormalize()

			if geom.ExtendedFuzzyZero(1 - dot) {
				dot = 1
			} else if geom.ExtendedFuzzyZero(1 + dot) {
				dot = -1
			}
			limit := b.angleLimit * float32(j+1) * 2
			angle := geom.Clamp(math32.Acos(dot), -limit, limit)
			delta := *geom.NewQuaternionFromAxisAngle(axis, angle)

			var rotation geom.Quaternion
			if c.HasLimit && constrained {
				if i == 0 {
					if hinge, ok := hingeAxis(c); ok {
						delta = *geom.NewQuaternionFromAxisAngle(&hinge, angle)
					}
				}
				delta = clampJointRotation(&delta, &joint.localRotation, c)
				rotation = *delta.Mul(&joint.localRotation)
			} else if i == 0 {
				rotation = *delta.Mul(&joint.localRotation)
			} else {
				rotation = *joint.localRotation.Mul(&delta)
			}
			joint.SetLocalRotation(rotation)
			joint.jointRotation = delta

			for k := j; k >= 0; k-- {
				if jb := b.model.bone(b.constraints[k].JointIndex); jb != nil {
					jb.updateWorldTransformSimple()
				}
			}
			effector.updateWorldTransformSimple()
		}
	}

	effector.SetLocalRotation(originalRotation)
}

// hingeAxis returns the coordinate axis of a limit that is zero on the other two axes.
func hingeAxis(c *IKConstraint) (geom.Vector3, bool) {
	lo, up := &c.Lower, &c.Upper
	switch {
	case geom.FuzzyZero(lo.Y) && geom.FuzzyZero(up.Y) && geom.FuzzyZero(lo.Z) && geom.FuzzyZero(up.Z):
		return geom.Vector3{X: 1}, true
	case geom.FuzzyZero(lo.X) && geom.FuzzyZero(up.X) && geom.FuzzyZero(lo.Z) && geom.FuzzyZero(up.Z):
		return geom.Vector3{Y: 1}, true
	case geom.FuzzyZero(lo.X) && geom.FuzzyZero(up.X) && geom.FuzzyZero(lo.Y) && geom.FuzzyZero(up.Y):
		return geom.Vector3{Z: 1}, true
	}
	return geom.Vector3{}, false
}

// clampJointRotation limits delta so that delta applied on top of local stays
// within the constraint, axis by axis in ZYX Euler angles.
func clampJointRotation(delta, local *geom.Quaternion, c *IKConstraint) geom.Quaternion {
	d := geom.NewEulerFromQuaternion(delta, geom.RotationOrderZYX)
	l := geom.NewEulerFromQuaternion(local, geom.RotationOrderZYX)
	x := clampAngle(c.Lower.X, c.Upper.X, d.X+l.X, d.X)
	y := clampAngle(c.Lower.Y, c.Upper.Y, d.Y+l.Y, d.Y)
	z := clampAngle(c.Lower.Z, c.Upper.Z, d.Z+l.Z, d.Z)
	return *geom.NewEuler(x, y, z, geom.RotationOrderZYX).ToQuaternion()
}

// clampAngle returns 0 for a zero range, the violated bound when result is
// out of range, and source otherwise.
func clampAngle(min, max, result, source float32) float32 {
	switch {
	case geom.FuzzyZero(min) && geom.FuzzyZero(max):
		return 0
	case result < min:
		return min
	case result > max:
		return max
	}
	return source
}

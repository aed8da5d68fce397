package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformMul(t *testing.T) {
	parent := NewTransformFromRotationOrigin(
		NewQuaternionFromAxisAngle(NewVector3(0, 0, 1), math.Pi/2), NewVector3(0, 1, 0))
	child := NewTransformFromRotationOrigin(&Quaternion{W: 1}, NewVector3(1, 0, 0))

	world := parent.Mul(child)
	assert.InDelta(t, 0, world.Origin.X, 1e-6)
	assert.InDelta(t, 2, world.Origin.Y, 1e-6)
	assert.InDelta(t, 0, world.Origin.Z, 1e-6)

	p := NewVector3(0.5, -1, 2)
	m := parent.Matrix().Mul(child.Matrix())
	assert.InDelta(t, 0, m.ApplyTo(p).Sub(world.ApplyTo(p)).Len(), 1e-5)
}

func TestTransformInverse(t *testing.T) {
	tr := NewTransformFromRotationOrigin(
		NewEuler(0.3, -0.2, 1.1, RotationOrderZYX).ToQuaternion(), NewVector3(3, -2, 5))
	id := tr.Inverse().Mul(tr)

	assert.InDelta(t, 0, id.Origin.Len(), 1e-5)
	assert.InDelta(t, 1, Abs(id.Rotation.W), 1e-5)
}

func TestQuaternionFromAxisAngle(t *testing.T) {
	q := NewQuaternionFromAxisAngle(NewVector3(0, 0, 0), 1.5)
	assert.Equal(t, IdentityQuaternion(), *q, "zero axis must not rotate")

	q = NewQuaternionFromAxisAngle(NewVector3(0, 2, 0), math.Pi)
	v := q.ApplyTo(NewVector3(1, 0, 0))
	assert.InDelta(t, -1, v.X, 1e-6)
	assert.InDelta(t, 0, v.Z, 1e-6)
}

func TestQuaternionSlerp(t *testing.T) {
	id := IdentityQuaternion()
	target := NewQuaternionFromAxisAngle(NewVector3(1, 0, 0), math.Pi/2)

	assert.InDelta(t, 0, id.Slerp(target, 0).Sub(&id).Len(), 1e-6)
	half := id.Slerp(target, 0.5)
	expected := NewQuaternionFromAxisAngle(NewVector3(1, 0, 0), math.Pi/4)
	assert.InDelta(t, 0, half.Sub(expected).Len(), 1e-6)

	// shorter arc even when the target is on the other hemisphere
	neg := target.Scale(-1)
	assert.InDelta(t, 0, id.Slerp(neg, 0.5).Sub(expected).Len(), 1e-6)
}

func TestFuzzyZero(t *testing.T) {
	assert.True(t, FuzzyZero(0))
	assert.True(t, FuzzyZero(1e-8))
	assert.False(t, FuzzyZero(1e-5))
	assert.True(t, ExtendedFuzzyZero(1e-6))
	assert.Equal(t, Element(2), Clamp(3, -2, 2))
}

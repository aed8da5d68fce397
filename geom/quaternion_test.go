package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// sameRotation compares unit quaternions up to sign.
func sameRotation(t *testing.T, expected, actual *Quaternion) {
	t.Helper()
	assert.InDelta(t, 1, Abs(expected.Dot(actual)), 1e-5, "expected %v, got %v", expected, actual)
}

func TestAxisAngleZeroAxis(t *testing.T) {
	for _, angle := range []Element{0, 1, -math.Pi} {
		q := NewQuaternionFromAxisAngle(&Vector3{}, angle)
		assert.Equal(t, IdentityQuaternion(), *q)
	}
}

func TestAxisAngleUnnormalizedAxis(t *testing.T) {
	q := NewQuaternionFromAxisAngle(NewVector3(0, 0, 5), math.Pi/2)
	assert.InDelta(t, 1, q.Len(), 1e-6)
	v := q.ApplyTo(NewVector3(1, 0, 0))
	assert.InDelta(t, 0, v.X, 1e-6)
	assert.InDelta(t, 1, v.Y, 1e-6)
}

func TestSlerpEnds(t *testing.T) {
	from := NewQuaternionFromAxisAngle(NewVector3(1, 0, 0), 0.3)
	to := NewQuaternionFromAxisAngle(NewVector3(0, 1, 1), 1.2)

	assert.InDelta(t, 0, from.Slerp(to, 0).Sub(from).Len(), 1e-6)
	assert.InDelta(t, 0, from.Slerp(to, 1).Sub(to).Len(), 1e-6)
}

func TestSlerpHalfway(t *testing.T) {
	id := IdentityQuaternion()
	axis := NewVector3(0, 0, 1)
	to := NewQuaternionFromAxisAngle(axis, 1)

	half := id.Slerp(to, 0.5)
	sameRotation(t, NewQuaternionFromAxisAngle(axis, 0.5), half)
	assert.InDelta(t, 1, half.Len(), 1e-6)
}

func TestSlerpShorterArc(t *testing.T) {
	id := IdentityQuaternion()
	axis := NewVector3(0, 1, 0)
	// same rotation as +pi/2, stored with a negative dot against identity
	to := NewQuaternionFromAxisAngle(axis, math.Pi/2).Scale(-1)
	assert.Less(t, id.Dot(to), Element(0))

	half := id.Slerp(to, 0.5)
	sameRotation(t, NewQuaternionFromAxisAngle(axis, math.Pi/4), half)
}

func TestSlerpIdentical(t *testing.T) {
	q := NewQuaternionFromAxisAngle(NewVector3(1, 1, 0), 0.8)
	r := q.Slerp(q, 0.4)
	assert.InDelta(t, 0, r.Sub(q).Len(), 1e-5)
}

func TestApplyToMatchesMatrix(t *testing.T) {
	rotations := []*Quaternion{
		NewQuaternionFromAxisAngle(NewVector3(1, 0, 0), math.Pi/3),
		NewQuaternionFromAxisAngle(NewVector3(-1, 2, 0.5), 2.2),
		NewEuler(0.4, -0.1, 0.2, RotationOrderZYX).ToQuaternion(),
	}
	points := []*Vector3{NewVector3(1, 2, 3), NewVector3(-4, 0, 0.5)}
	for _, q := range rotations {
		m := NewRotationMatrix4FromQuaternion(q)
		for _, p := range points {
			assert.InDelta(t, 0, q.ApplyTo(p).Sub(m.ApplyTo(p)).Len(), 1e-5, "q=%v p=%v", q, p)
		}
	}
}

func TestFlipZRotation(t *testing.T) {
	// mirroring a rotation mirrors the points it moves
	q := NewQuaternionFromAxisAngle(NewVector3(1, 2, 3), 0.9)
	p := NewVector3(0.5, -1, 2)

	mirrored := q.FlipZ().ApplyTo(p.FlipZ())
	assert.InDelta(t, 0, mirrored.Sub(q.ApplyTo(p).FlipZ()).Len(), 1e-5)
}

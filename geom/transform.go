package geom

// Transform is a rigid transform: a rotation followed by a translation.
type Transform struct {
	Rotation Quaternion
	Origin   Vector3
}

func NewTransform() *Transform {
	return &Transform{Rotation: IdentityQuaternion()}
}

func NewTransformFromRotationOrigin(rot *Quaternion, origin *Vector3) *Transform {
	return &Transform{Rotation: *rot, Origin: *origin}
}

// Mul returns t * t2, i.e. t2 expressed in the space of t.
func (t *Transform) Mul(t2 *Transform) *Transform {
	return &Transform{
		Rotation: *t.Rotation.Mul(&t2.Rotation),
		Origin:   *t.ApplyTo(&t2.Origin),
	}
}

func (t *Transform) Inverse() *Transform {
	inv := t.Rotation.Inverse()
	return &Transform{
		Rotation: *inv,
		Origin:   *inv.ApplyTo(t.Origin.Negate()),
	}
}

// ApplyTo transforms the point v.
func (t *Transform) ApplyTo(v *Vector3) *Vector3 {
	return t.Rotation.ApplyTo(v).Add(&t.Origin)
}

func (t *Transform) Matrix() *Matrix4 {
	m := NewRotationMatrix4FromQuaternion(&t.Rotation)
	m[12] = t.Origin.X
	m[13] = t.Origin.Y
	m[14] = t.Origin.Z
	return m
}

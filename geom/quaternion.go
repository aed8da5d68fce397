package geom

import "github.com/chewxy/math32"

type Vector4 struct {
	X Element
	Y Element
	Z Element
	W Element
}

type Quaternion = Vector4

func NewVector4(x, y, z, w float32) *Vector4 {
	return &Vector4{X: x, Y: y, Z: z, W: w}
}

func NewQuaternion(x, y, z, w float32) *Vector4 {
	return &Vector4{X: x, Y: y, Z: z, W: w}
}

func NewQuaternionFromArray(arr [4]Element) *Vector4 {
	return &Vector4{X: arr[0], Y: arr[1], Z: arr[2], W: arr[3]}
}

// IdentityQuaternion returns the no-rotation quaternion.
func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

// NewQuaternionFromAxisAngle returns a rotation of angle radians around axis.
// A zero axis yields the identity.
func NewQuaternionFromAxisAngle(axis *Vector3, angle Element) *Quaternion {
	d := axis.Len()
	if d < Epsilon {
		return &Quaternion{W: 1}
	}
	s := math32.Sin(angle*0.5) / d
	return &Quaternion{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: math32.Cos(angle * 0.5)}
}

func (v *Vector4) Add(v2 *Vector4) *Vector4 {
	return &Vector4{X: v.X + v2.X, Y: v.Y + v2.Y, Z: v.Z + v2.Z, W: v.W + v2.W}
}

func (v *Vector4) Sub(v2 *Vector4) *Vector4 {
	return &Vector4{X: v.X - v2.X, Y: v.Y - v2.Y, Z: v.Z - v2.Z, W: v.W - v2.W}
}

func (v *Vector4) Scale(s Element) *Vector4 {
	return &Vector4{X: v.X * s, Y: v.Y * s, Z: v.Z * s, W: v.W * s}
}

func (v *Vector4) Dot(v2 *Vector4) Element {
	return v.X*v2.X + v.Y*v2.Y + v.Z*v2.Z + v.W*v2.W
}

func (v *Vector4) Len() Element {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W)
}

func (v *Vector4) LenSqr() Element {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W
}

func (v *Vector4) Normalize() *Vector4 {
	l := v.Len()
	if l > 0 {
		v.X /= l
		v.Y /= l
		v.Z /= l
		v.W /= l
	} else {
		v.W = 1
	}
	return v
}

// Inverse returns the conjugate. It is the inverse for unit quaternions.
func (v *Vector4) Inverse() *Vector4 {
	return &Vector4{X: -v.X, Y: -v.Y, Z: -v.Z, W: v.W}
}

// Returns Hamilton product
func (a *Vector4) Mul(b *Vector4) *Vector4 {
	return &Vector4{
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z, // 1
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y, // i
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X, // j
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W, // k
	}
}

// ApplyTo rotates v.
func (q *Vector4) ApplyTo(v *Vector3) *Vector3 {
	// t = 2 * cross(q.xyz, v); v' = v + w*t + cross(q.xyz, t)
	u := Vector3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Slerp interpolates from q to q2 along the shorter arc.
func (q *Vector4) Slerp(q2 *Vector4, t Element) *Vector4 {
	magnitude := math32.Sqrt(q.LenSqr() * q2.LenSqr())
	if magnitude == 0 {
		return &Vector4{X: q.X, Y: q.Y, Z: q.Z, W: q.W}
	}
	product := q.Dot(q2) / magnitude
	if math32.Abs(product) >= 1 {
		return &Vector4{X: q.X, Y: q.Y, Z: q.Z, W: q.W}
	}
	var sign Element = 1
	if product < 0 {
		sign = -1
	}
	theta := math32.Acos(sign * product)
	s1 := math32.Sin(sign * t * theta)
	d := 1 / math32.Sin(theta)
	s0 := math32.Sin((1 - t) * theta)
	return &Vector4{
		X: (q.X*s0 + q2.X*s1) * d,
		Y: (q.Y*s0 + q2.Y*s1) * d,
		Z: (q.Z*s0 + q2.Z*s1) * d,
		W: (q.W*s0 + q2.W*s1) * d,
	}
}

// FlipZ mirrors a rotation across the XY plane.
func (q *Vector4) FlipZ() *Vector4 {
	return &Vector4{X: -q.X, Y: -q.Y, Z: q.Z, W: q.W}
}

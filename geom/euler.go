package geom

import "math"

// RotationOrder names the axis sequence of an intrinsic rotation. ZYX is the
// order joint limits are expressed in.
type RotationOrder int

const (
	RotationOrderXYZ RotationOrder = iota
	RotationOrderYXZ
	RotationOrderZXY
	RotationOrderZYX
)

type EulerAngles struct {
	Vector3
	Order RotationOrder
}

// term is a signed rotation matrix element, row and column counted from 1.
type term struct {
	row, col int
	sign     float64
}

func (t term) of(m *Matrix4) float64 {
	return t.sign * float64(m[(t.col-1)*4+t.row-1])
}

// eulerLayout tells how one order is read back from a rotation matrix. mid is
// the axis bounded to [-pi/2, pi/2]. Near gimbal lock the lock axis absorbs
// the whole rotation and the remaining axis is zero.
type eulerLayout struct {
	mid, first, last int
	sin              term
	firstY, firstX   term
	lastY, lastX     term
	lock             int
	lockY, lockX     term

	// quaternion composition signs for the x, y, z and w cross terms
	signs [4]float64
}

var eulerLayouts = [...]eulerLayout{
	RotationOrderXYZ: {
		mid: 1, first: 0, last: 2, sin: term{1, 3, 1},
		firstY: term{2, 3, -1}, firstX: term{3, 3, 1},
		lastY: term{1, 2, -1}, lastX: term{1, 1, 1},
		lock: 0, lockY: term{3, 2, 1}, lockX: term{2, 2, 1},
		signs: [4]float64{1, -1, 1, -1},
	},
	RotationOrderYXZ: {
		mid: 0, first: 1, last: 2, sin: term{2, 3, -1},
		firstY: term{1, 3, 1}, firstX: term{3, 3, 1},
		lastY: term{2, 1, 1}, lastX: term{2, 2, 1},
		lock: 1, lockY: term{3, 1, -1}, lockX: term{1, 1, 1},
		signs: [4]float64{1, -1, -1, 1},
	},
	RotationOrderZXY: {
		mid: 0, first: 1, last: 2, sin: term{3, 2, 1},
		firstY: term{3, 1, -1}, firstX: term{3, 3, 1},
		lastY: term{1, 2, -1}, lastX: term{2, 2, 1},
		lock: 2, lockY: term{2, 1, 1}, lockX: term{1, 1, 1},
		signs: [4]float64{-1, 1, 1, -1},
	},
	RotationOrderZYX: {
		mid: 1, first: 0, last: 2, sin: term{3, 1, -1},
		firstY: term{3, 2, 1}, firstX: term{3, 3, 1},
		lastY: term{2, 1, 1}, lastX: term{1, 1, 1},
		lock: 2, lockY: term{1, 2, -1}, lockX: term{2, 2, 1},
		signs: [4]float64{-1, 1, -1, 1},
	},
}

func NewEuler(x, y, z float32, order RotationOrder) *EulerAngles {
	return &EulerAngles{Vector3: Vector3{x, y, z}, Order: order}
}

func NewEulerFromQuaternion(q *Quaternion, order RotationOrder) *EulerAngles {
	return NewEulerFromMatrix4(NewRotationMatrix4FromQuaternion(q), order)
}

func NewEulerFromMatrix4(mat *Matrix4, order RotationOrder) *EulerAngles {
	const eps = 0.00000001
	ret := &EulerAngles{Order: order}
	if int(order) < 0 || int(order) >= len(eulerLayouts) {
		return ret
	}
	l := &eulerLayouts[order]

	var angles [3]float64
	s := l.sin.of(mat)
	angles[l.mid] = math.Asin(math.Max(-1, math.Min(s, 1)))
	if math.Abs(s) < 1-eps {
		angles[l.first] = math.Atan2(l.firstY.of(mat), l.firstX.of(mat))
		angles[l.last] = math.Atan2(l.lastY.of(mat), l.lastX.of(mat))
	} else {
		angles[l.lock] = math.Atan2(l.lockY.of(mat), l.lockX.of(mat))
	}
	ret.X, ret.Y, ret.Z = Element(angles[0]), Element(angles[1]), Element(angles[2])
	return ret
}

func (v *EulerAngles) ToQuaternion() *Quaternion {
	if int(v.Order) < 0 || int(v.Order) >= len(eulerLayouts) {
		return &Quaternion{0, 0, 0, 1}
	}
	sign := eulerLayouts[v.Order].signs
	cx, sx := math.Cos(float64(v.X/2)), math.Sin(float64(v.X/2))
	cy, sy := math.Cos(float64(v.Y/2)), math.Sin(float64(v.Y/2))
	cz, sz := math.Cos(float64(v.Z/2)), math.Sin(float64(v.Z/2))
	return &Quaternion{
		X: float32(sx*cy*cz + sign[0]*cx*sy*sz),
		Y: float32(cx*sy*cz + sign[1]*sx*cy*sz),
		Z: float32(cx*cy*sz + sign[2]*sx*sy*cz),
		W: float32(cx*cy*cz + sign[3]*sx*sy*sz),
	}
}

// Package skeleton implements bone hierarchies, per-frame transform
// composition and the CCD inverse kinematics solver for MMD models.
package skeleton

import (
	"github.com/binzume/mmdrig/geom"
	"github.com/binzume/mmdrig/physics"
)

// Bone is the capability set shared by every bone variant.
type Bone interface {
	Index() int
	Name() string
	EnglishName() string

	LocalTransform() geom.Transform
	SetLocalTransform(t geom.Transform)
	WorldTransform() geom.Transform
	UpdateLocalTransform()

	LocalRotation() geom.Quaternion
	SetLocalRotation(q geom.Quaternion)
	LocalTranslation() geom.Vector3
	SetLocalTranslation(v geom.Vector3)
	SetInverseKinematicsEnable(enable bool)

	LocalAxes() [3]geom.Vector3
	FixedAxis() geom.Vector3
	DestinationOrigin() geom.Vector3
	EffectorBones() []Bone

	IsMovable() bool
	IsRotatable() bool
	IsInteractive() bool
	IsVisible() bool
	HasFixedAxis() bool
	HasLocalAxis() bool
	HasInverseKinematics() bool

	ParentBone() Bone
	EffectorBone() Bone
	Body() physics.RigidBody
	SetBody(body physics.RigidBody)
}

// Model is a named collection of bones.
type Model interface {
	Bones() []Bone
	FindBone(name string) Bone
	OnChange(fn func(ChangeEvent))
}

type ChangeKind int

const (
	ChangeTranslation ChangeKind = iota
	ChangeRotation
	ChangeIKEnable
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeTranslation:
		return "translation"
	case ChangeRotation:
		return "rotation"
	case ChangeIKEnable:
		return "ik-enable"
	}
	return "unknown"
}

// ChangeEvent is delivered when a bone's local state actually changes.
type ChangeEvent struct {
	Bone Bone
	Kind ChangeKind
}

type notifier struct {
	handlers []func(ChangeEvent)
}

func (n *notifier) OnChange(fn func(ChangeEvent)) {
	n.handlers = append(n.handlers, fn)
}

func (n *notifier) emit(b Bone, kind ChangeKind) {
	for _, h := range n.handlers {
		h(ChangeEvent{Bone: b, Kind: kind})
	}
}

// BoneBody returns the rigid body attached to b, following the effector
// chain until a bone with a body is found.
func BoneBody(b Bone) physics.RigidBody {
	seen := map[Bone]bool{}
	for b != nil && !seen[b] {
		if body := b.Body(); body != nil {
			return body
		}
		seen[b] = true
		b = b.EffectorBone()
	}
	return nil
}

func identityAxes() [3]geom.Vector3 {
	return [3]geom.Vector3{{X: 1}, {Y: 1}, {Z: 1}}
}

// localTransformOf returns world * translate(-origin), the transform that maps
// bind-pose positions to their current location.
func localTransformOf(world *geom.Transform, origin *geom.Vector3) geom.Transform {
	return *world.Mul(&geom.Transform{Rotation: geom.IdentityQuaternion(), Origin: *origin.Negate()})
}

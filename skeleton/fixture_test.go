package skeleton

import (
	"github.com/binzume/mmdrig/mmd"
)

const defaultFlags = mmd.BoneFlagRotatable | mmd.BoneFlagTranslatable | mmd.BoneFlagVisible | mmd.BoneFlagEnabled

func rawBone(name string, x, y, z float32, parent int) *mmd.Bone {
	b := &mmd.Bone{
		Name:            name,
		Pos:             mmd.Vector3{X: x, Y: y, Z: z},
		ParentID:        parent,
		Flags:           defaultFlags,
		TailID:          -1,
		InheritParentID: -1,
	}
	b.IK.TargetID = -1
	return b
}

func rawIKBone(name string, x, y, z float32, parent, effector, loop int, limit float32, links ...*mmd.Link) *mmd.Bone {
	b := rawBone(name, x, y, z, parent)
	b.Flags |= mmd.BoneFlagEnableIK
	b.IK.TargetID = effector
	b.IK.Loop = loop
	b.IK.LimitRad = limit
	b.IK.Links = links
	return b
}

// legBones is a three bone leg along -Y with an IK handle at the ankle.
func legBones(loop int, limit float32, kneeLink *mmd.Link) []*mmd.Bone {
	return []*mmd.Bone{
		rawBone("hip", 0, 3, 0, -1),
		rawBone("knee", 0, 2, 0, 0),
		rawBone("ankle", 0, 1, 0, 1),
		rawIKBone("legIK", 0, 1, 0, -1, 2, loop, limit, kneeLink, &mmd.Link{TargetID: 0}),
	}
}

type recorder struct {
	events []ChangeEvent
}

func (r *recorder) record(e ChangeEvent) {
	r.events = append(r.events, e)
}

package skeleton

import (
	"testing"

	"github.com/binzume/mmdrig/geom"
	"github.com/binzume/mmdrig/mmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawMorphs() []*mmd.BoneMorph {
	return []*mmd.BoneMorph{{
		Name: "lift",
		Offsets: []*mmd.BoneMorphOffset{
			{BoneID: 1, Translation: mmd.Vector3{Y: 2, Z: 1}, Rotation: mmd.Vector4{X: 0.1, Y: 0.2, Z: 0.3, W: 0.9}},
			{BoneID: 9, Rotation: mmd.Vector4{W: 1}},
		},
	}}
}

func TestSetBoneMorphs(t *testing.T) {
	model, err := NewPMXModel(legBones(10, 1, &mmd.Link{TargetID: 1}))
	require.NoError(t, err)
	model.SetBoneMorphs(rawMorphs())

	morph := model.BoneMorph("lift")
	require.NotNil(t, morph)
	require.Len(t, morph.Offsets, 1)
	assert.Same(t, model.Bone(1), morph.Offsets[0].Bone)
	assert.Equal(t, geom.Vector3{Y: 2, Z: -1}, morph.Offsets[0].Translation)
	assert.Equal(t, geom.Quaternion{X: -0.1, Y: -0.2, Z: 0.3, W: 0.9}, morph.Offsets[0].Rotation)

	assert.False(t, model.ApplyMorph("missing", 1))
	assert.Nil(t, model.BoneMorph("missing"))
}

func TestApplyMorph(t *testing.T) {
	model, err := NewPMXModel(legBones(10, 1, &mmd.Link{TargetID: 1}))
	require.NoError(t, err)
	model.SetBoneMorphs([]*mmd.BoneMorph{{
		Name:    "shift",
		Offsets: []*mmd.BoneMorphOffset{{BoneID: 0, Translation: mmd.Vector3{X: 4}, Rotation: mmd.Vector4{W: 1}}},
	}})

	model.FindBone("legIK").SetInverseKinematicsEnable(false)

	require.True(t, model.ApplyMorph("shift", 0.25))
	model.Update(nil, 0)
	assertVector(t, geom.Vector3{X: 1, Y: 3}, model.Bone(0).WorldTransform().Origin)
	// children follow the morphed hip
	assertVector(t, geom.Vector3{X: 1, Y: 2}, model.Bone(1).WorldTransform().Origin)
}

func TestApplyMotionMorphs(t *testing.T) {
	model, err := NewPMXModel(legBones(10, 1, &mmd.Link{TargetID: 1}))
	require.NoError(t, err)
	model.SetBoneMorphs([]*mmd.BoneMorph{{
		Name:    "shift",
		Offsets: []*mmd.BoneMorphOffset{{BoneID: 0, Translation: mmd.Vector3{X: 4}, Rotation: mmd.Vector4{W: 1}}},
	}})
	anim := &mmd.Animation{Morph: []*mmd.AnimationMorphSample{
		{Target: "shift", Frame: 0, Value: 0.5},
		{Target: "shift", Frame: 20, Value: 1},
		{Target: "blink", Frame: 0, Value: 1},
	}}

	assert.Equal(t, 0, ApplyMotion(model, anim, 10))
	model.Update(nil, 0)
	assertVector(t, geom.Vector3{X: 2, Y: 3}, model.Bone(0).WorldTransform().Origin)

	ApplyMotion(model, anim, 20)
	model.Update(nil, 0)
	assertVector(t, geom.Vector3{X: 4, Y: 3}, model.Bone(0).WorldTransform().Origin)
}

func TestLoadPMXModelMorphs(t *testing.T) {
	h := mmd.NewPMXHeader(2)
	w := mmd.NewWriter(0)
	mmd.WritePMXSkeleton(w, h, "leg", legBones(10, 1, &mmd.Link{TargetID: 1}))
	mmd.WritePMXBoneMorphs(w, h, rawMorphs())

	model, err := LoadPMXModel(w.Bytes())
	require.NoError(t, err)
	require.NotNil(t, model.BoneMorph("lift"))
	assert.Len(t, model.BoneMorph("lift").Offsets, 1)

	// a broken morph section leaves the skeleton usable
	model, err = LoadPMXModel(w.Bytes()[:w.Len()-5])
	require.NoError(t, err)
	assert.Len(t, model.Bones(), 4)
	assert.Nil(t, model.BoneMorph("lift"))
}

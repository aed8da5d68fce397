package skeleton

import (
	"errors"
	"testing"

	"github.com/binzume/mmdrig/geom"
	"github.com/binzume/mmdrig/mmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPMXModel(t *testing.T) {
	model, err := NewPMXModel(legBones(10, 1, &mmd.Link{TargetID: 1}))
	require.NoError(t, err)

	bones := model.PMXBones()
	require.Len(t, bones, 4)
	for i, b := range bones {
		assert.Equal(t, i, b.Index())
	}
	assert.Same(t, bones[1], model.FindBone("knee"))
	assert.Nil(t, model.FindBone("elbow"))
	assert.Nil(t, model.Bone(4))
	assert.Nil(t, model.Bone(-1))

	assert.Equal(t, "hip", bones[1].ParentBone().Name())
	assert.Nil(t, bones[0].ParentBone())
	assert.Equal(t, "ankle", bones[3].EffectorBone().Name())
	assert.Len(t, bones[3].EffectorBones(), 2)
}

func TestResolveOffsets(t *testing.T) {
	raw := []*mmd.Bone{
		rawBone("root", 1, 2, 3, -1),
		rawBone("child", 1, 5, 7, 0),
	}
	model, err := NewPMXModel(raw)
	require.NoError(t, err)

	root, child := model.Bone(0), model.Bone(1)
	assert.Equal(t, geom.Vector3{X: 1, Y: 2, Z: -3}, root.Origin())
	assert.Equal(t, root.Origin(), root.OffsetFromParent())
	assert.Equal(t, geom.Vector3{X: 0, Y: 3, Z: -4}, child.OffsetFromParent())

	model.Update(nil, 0)
	model.Update(nil, 0)
	assert.Equal(t, geom.Vector3{X: 0, Y: 3, Z: -4}, child.OffsetFromParent())
	world := child.WorldTransform()
	assert.InDelta(t, 0, world.Origin.Sub(ptr(child.Origin())).Len(), 1e-6)
}

func TestResolveOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		bones func() []*mmd.Bone
		field string
	}{
		{
			name: "parent",
			bones: func() []*mmd.Bone {
				return []*mmd.Bone{rawBone("a", 0, 0, 0, -1), rawBone("b", 0, 0, 0, 5)}
			},
			field: "parent",
		},
		{
			name: "destination",
			bones: func() []*mmd.Bone {
				b := rawBone("a", 0, 0, 0, -1)
				b.Flags |= mmd.BoneFlagTailIndex
				b.TailID = 1
				return []*mmd.Bone{b}
			},
			field: "destination",
		},
		{
			name: "inherit",
			bones: func() []*mmd.Bone {
				b := rawBone("a", 0, 0, 0, -1)
				b.Flags |= mmd.BoneFlagInheritRotation
				b.InheritParentID = 3
				b.InheritParentInfluence = 1
				return []*mmd.Bone{b}
			},
			field: "inherit",
		},
		{
			name: "effector",
			bones: func() []*mmd.Bone {
				return []*mmd.Bone{rawIKBone("ik", 0, 0, 0, -1, 9, 1, 1)}
			},
			field: "effector",
		},
		{
			name: "joint",
			bones: func() []*mmd.Bone {
				return legBones(10, 1, &mmd.Link{TargetID: 4})
			},
			field: "joint",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := NewPMXModel(tt.bones())
			assert.Nil(t, model)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrReferenceOutOfRange))

			var refErr *ReferenceError
			require.True(t, errors.As(err, &refErr))
			assert.Equal(t, tt.field, refErr.Field)
			assert.GreaterOrEqual(t, refErr.Index, refErr.Count)
		})
	}
}

func TestResolveNegativeIndexIsNone(t *testing.T) {
	b := rawBone("a", 0, 0, 0, -2)
	model, err := NewPMXModel([]*mmd.Bone{b})
	require.NoError(t, err)
	assert.Nil(t, model.Bone(0).ParentBone())
}

func TestResolveCycle(t *testing.T) {
	model, err := NewPMXModel([]*mmd.Bone{
		rawBone("a", 0, 0, 0, 1),
		rawBone("b", 0, 0, 0, 0),
	})
	assert.Nil(t, model)
	assert.ErrorIs(t, err, ErrCyclicReference)

	_, err = NewPMXModel([]*mmd.Bone{rawBone("self", 0, 0, 0, 0)})
	assert.ErrorIs(t, err, ErrCyclicReference)

	a := rawBone("a", 0, 0, 0, -1)
	a.Flags |= mmd.BoneFlagInheritRotation
	a.InheritParentID = 1
	b := rawBone("b", 0, 0, 0, -1)
	b.Flags |= mmd.BoneFlagInheritRotation
	b.InheritParentID = 0
	_, err = NewPMXModel([]*mmd.Bone{a, b})
	assert.ErrorIs(t, err, ErrCyclicReference)
}

func TestLoadPMXModel(t *testing.T) {
	for _, h := range []*mmd.Header{mmd.NewPMXHeader(2), utf16Header()} {
		w := mmd.NewWriter(0)
		mmd.WritePMXSkeleton(w, h, "leg", legBones(40, 0.5, &mmd.Link{TargetID: 1}))

		model, err := LoadPMXModel(w.Bytes())
		require.NoError(t, err)
		require.Len(t, model.Bones(), 4)
		ik := model.Bone(3)
		assert.Equal(t, "legIK", ik.Name())
		assert.Equal(t, 40, ik.NumIteration())
		assert.Equal(t, float32(0.5), ik.AngleLimit())
		assert.True(t, ik.HasInverseKinematics())
	}

	w := mmd.NewWriter(0)
	mmd.WritePMXSkeleton(w, mmd.NewPMXHeader(1), "bad", []*mmd.Bone{rawBone("a", 0, 0, 0, 7)})
	_, err := LoadPMXModel(w.Bytes())
	assert.ErrorIs(t, err, ErrReferenceOutOfRange)
}

func TestLimitConversion(t *testing.T) {
	knee := &mmd.Link{
		TargetID: 1,
		HasLimit: true,
		LimitMin: mmd.Vector3{X: -3, Y: -0.5, Z: -0.25},
		LimitMax: mmd.Vector3{X: -0.1, Y: 0.75, Z: 0.5},
	}
	model, err := NewPMXModel(legBones(10, 1, knee))
	require.NoError(t, err)

	c := model.Bone(3).Constraints()[0]
	assert.True(t, c.HasLimit)
	assert.Equal(t, geom.Vector3{X: 0.1, Y: -0.75, Z: -0.25}, c.Lower)
	assert.Equal(t, geom.Vector3{X: 3, Y: 0.5, Z: 0.5}, c.Upper)
}

func utf16Header() *mmd.Header {
	h := mmd.NewPMXHeader(4)
	h.Info[mmd.AttrStringEncoding] = 0
	return h
}

func ptr(v geom.Vector3) *geom.Vector3 {
	return &v
}

package skeleton

import (
	"github.com/binzume/mmdrig/geom"
	"github.com/binzume/mmdrig/internal/logger"
	"github.com/binzume/mmdrig/mmd"
	"go.uber.org/zap"
)

type BoneMorphOffset struct {
	Bone        *PMXBone
	Translation geom.Vector3
	Rotation    geom.Quaternion
}

// BoneMorph moves a fixed set of bones, scaled by the morph weight.
type BoneMorph struct {
	Name    string
	Offsets []BoneMorphOffset
}

// SetBoneMorphs converts raw bone morphs to model space. Offsets that name a
// missing bone are dropped.
func (m *PMXModel) SetBoneMorphs(raw []*mmd.BoneMorph) {
	m.morphs = map[string]*BoneMorph{}
	for _, r := range raw {
		morph := &BoneMorph{Name: r.Name}
		for _, o := range r.Offsets {
			b := m.bone(o.BoneID)
			if b == nil {
				logger.Log.Warn("morph bone out of range", zap.String("morph", r.Name), zap.Int("bone", o.BoneID))
				continue
			}
			q := geom.Quaternion{X: o.Rotation.X, Y: o.Rotation.Y, Z: o.Rotation.Z, W: o.Rotation.W}
			morph.Offsets = append(morph.Offsets, BoneMorphOffset{
				Bone:        b,
				Translation: flipZ(o.Translation),
				Rotation:    *q.FlipZ(),
			})
		}
		m.morphs[r.Name] = morph
	}
}

func (m *PMXModel) BoneMorph(name string) *BoneMorph {
	return m.morphs[name]
}

// ApplyMorph merges the named bone morph at weight into its bones. It reports
// whether the model has such a morph.
func (m *PMXModel) ApplyMorph(name string, weight float32) bool {
	morph, ok := m.morphs[name]
	if !ok {
		return false
	}
	for _, o := range morph.Offsets {
		o.Bone.MergeMorph(o.Translation, o.Rotation, weight)
	}
	return true
}

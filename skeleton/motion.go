package skeleton

import (
	"github.com/binzume/mmdrig/geom"
	"github.com/binzume/mmdrig/internal/logger"
	"github.com/binzume/mmdrig/mmd"
	"go.uber.org/zap"
)

// ApplyMotion sets each animated bone to its latest keyframe at or before
// frame. Keyframes are not interpolated. Morph keys drive the bone morphs of
// models that have them. It returns the number of bones set.
func ApplyMotion(model Model, anim *mmd.Animation, frame int) int {
	applied := 0
	for name, ch := range anim.BoneChannels() {
		s := ch.At(frame)
		if s == nil {
			continue
		}
		b := model.FindBone(name)
		if b == nil {
			logger.Log.Debug("motion bone not in model", zap.String("bone", name))
			continue
		}
		b.SetLocalTranslation(flipZ(s.Position))
		q := geom.Quaternion{X: s.Rotation.X, Y: s.Rotation.Y, Z: s.Rotation.Z, W: s.Rotation.W}
		b.SetLocalRotation(*q.FlipZ())
		applied++
	}
	if m, ok := model.(morpher); ok {
		applyMorphs(m, anim, frame)
	}
	return applied
}

type morpher interface {
	ApplyMorph(name string, weight float32) bool
}

func applyMorphs(m morpher, anim *mmd.Animation, frame int) {
	for name, ch := range anim.MorphChannels() {
		if s := ch.At(frame); s != nil && !m.ApplyMorph(name, s.Value) {
			logger.Log.Debug("motion morph not in model", zap.String("morph", name))
		}
	}
}

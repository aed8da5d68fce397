package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/mmdrig/internal/logger"
	"github.com/binzume/mmdrig/mmd"
	"github.com/binzume/mmdrig/physics"
	"github.com/binzume/mmdrig/skeleton"
	"go.uber.org/zap"
)

type rig interface {
	skeleton.Model
	Update(world physics.World, dt float32)
}

func loadRig(path string, data []byte) (rig, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pmx":
		model, err := skeleton.LoadPMXModel(data)
		if err != nil {
			return nil, err
		}
		before, after := model.Schedule()
		logger.Log.Debug("pmx schedule", zap.Int("before_physics", len(before)), zap.Int("after_physics", len(after)))
		return model, nil
	case ".pmd":
		model, err := skeleton.LoadPMDModel(data)
		if err != nil {
			return nil, err
		}
		return model, nil
	}
	return nil, fmt.Errorf("unsupported input type: %v", filepath.Ext(path))
}

func loadAnimation(path string) (*mmd.Animation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	anim, err := mmd.ParseVMD(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	logger.Log.Info("motion loaded", zap.String("name", anim.Name),
		zap.Int("bone_keys", len(anim.Bone)), zap.Int("morph_keys", len(anim.Morph)), zap.Int("last_frame", anim.MaxFrame()))
	return anim, nil
}

func repack(data []byte, output string) error {
	_, bones, err := mmd.ParsePMXBones(data)
	if err != nil {
		return err
	}
	out, err := mmd.RepackPMXBones(data, bones)
	if err != nil {
		return err
	}
	return os.WriteFile(output, out, 0644)
}

// subStepWorld splits every frame step into maxSubSteps simulation steps.
type subStepWorld struct {
	physics.World
	maxSubSteps int
}

func (w *subStepWorld) StepSimulation(dt float32) {
	w.World.StepSimulations(dt, w.maxSubSteps)
}

func (w *subStepWorld) steps() int {
	if n, ok := w.World.(*physics.NullWorld); ok {
		return n.Steps
	}
	return 0
}

func dumpBones(w io.Writer, model skeleton.Model) {
	for _, b := range model.Bones() {
		parent := -1
		if p := b.ParentBone(); p != nil {
			parent = p.Index()
		}
		t := b.WorldTransform()
		fmt.Fprintf(w, "%3d %-20s %-20s parent=%3d pos=(%.3f, %.3f, %.3f) ik=%v\n",
			b.Index(), b.Name(), b.EnglishName(), parent, t.Origin.X, t.Origin.Y, t.Origin.Z, b.HasInverseKinematics())
	}
}

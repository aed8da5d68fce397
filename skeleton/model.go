package skeleton

import (
	"github.com/binzume/mmdrig/internal/logger"
	"github.com/binzume/mmdrig/physics"
	"go.uber.org/zap"
)

// PMXModel owns the bones of a PMX model and their update schedule.
type PMXModel struct {
	notifier
	bones  []*PMXBone
	byName map[string]*PMXBone
	morphs map[string]*BoneMorph

	beforePhysics []*PMXBone
	afterPhysics  []*PMXBone
}

func (m *PMXModel) bone(i int) *PMXBone {
	if i < 0 || i >= len(m.bones) {
		return nil
	}
	return m.bones[i]
}

// Bone returns the bone at index i, or nil.
func (m *PMXModel) Bone(i int) *PMXBone {
	return m.bone(i)
}

// PMXBones returns the bones in index order.
func (m *PMXModel) PMXBones() []*PMXBone {
	return m.bones
}

func (m *PMXModel) Bones() []Bone {
	bones := make([]Bone, len(m.bones))
	for i, b := range m.bones {
		bones[i] = b
	}
	return bones
}

func (m *PMXModel) FindBone(name string) Bone {
	if b, ok := m.byName[name]; ok {
		return b
	}
	return nil
}

// Schedule returns the bones updated before and after the physics step, in update order.
func (m *PMXModel) Schedule() (before, after []*PMXBone) {
	return m.beforePhysics, m.afterPhysics
}

// Update runs one frame: IK links are reset, the before-physics bones are
// transformed and solved, world is stepped, then the after-physics bones
// follow. world may be nil.
func (m *PMXModel) Update(world physics.World, dt float32) {
	for _, b := range m.bones {
		b.ResetIKLink()
	}
	updatePMXBones(m.beforePhysics)
	if world != nil {
		world.StepSimulation(dt)
	}
	updatePMXBones(m.afterPhysics)
	for _, b := range m.bones {
		b.UpdateLocalTransform()
	}
}

func updatePMXBones(bones []*PMXBone) {
	for _, b := range bones {
		b.PerformTransform()
		if b.HasInverseKinematics() && b.ikEnabled {
			b.SolveInverseKinematics()
		}
	}
}

// PMDModel owns the bones of a PMD model.
type PMDModel struct {
	notifier
	bones  []*PMDBone
	byName map[string]*PMDBone
	order  []*PMDBone
}

func (m *PMDModel) bone(i int) *PMDBone {
	if i < 0 || i >= len(m.bones) {
		return nil
	}
	return m.bones[i]
}

// Bone returns the bone at index i, or nil.
func (m *PMDModel) Bone(i int) *PMDBone {
	return m.bone(i)
}

func (m *PMDModel) Bones() []Bone {
	bones := make([]Bone, len(m.bones))
	for i, b := range m.bones {
		bones[i] = b
	}
	return bones
}

func (m *PMDModel) FindBone(name string) Bone {
	if b, ok := m.byName[name]; ok {
		return b
	}
	return nil
}

// Schedule returns the bones in update order.
func (m *PMDModel) Schedule() []*PMDBone {
	return m.order
}

// Update transforms every bone parent first, then steps world if it is not nil.
func (m *PMDModel) Update(world physics.World, dt float32) {
	for _, b := range m.order {
		b.PerformTransform()
	}
	if world != nil {
		world.StepSimulation(dt)
	}
}

func indexByName[T interface{ Name() string }](bones []T) map[string]T {
	byName := make(map[string]T, len(bones))
	for _, b := range bones {
		if _, dup := byName[b.Name()]; dup {
			logger.Log.Debug("duplicate bone name", zap.String("bone", b.Name()))
			continue
		}
		byName[b.Name()] = b
	}
	return byName
}

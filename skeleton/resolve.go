package skeleton

import (
	"fmt"

	"github.com/binzume/mmdrig/internal/logger"
	"github.com/binzume/mmdrig/mmd"
	"go.uber.org/zap"
)

// NewPMXModel builds a model from raw bone records. All references are
// resolved and checked; on error no model is returned.
func NewPMXModel(raw []*mmd.Bone) (*PMXModel, error) {
	m := &PMXModel{}
	bones := make([]*PMXBone, len(raw))
	for i, r := range raw {
		bones[i] = newPMXBone(m, r)
	}
	if err := resolvePMXBones(bones); err != nil {
		return nil, err
	}
	m.bones = bones
	m.byName = indexByName(bones)
	m.beforePhysics, m.afterPhysics = SortPMXBones(bones)
	logger.Log.Debug("pmx schedule",
		zap.Int("bones", len(bones)),
		zap.Int("before_physics", len(m.beforePhysics)),
		zap.Int("after_physics", len(m.afterPhysics)))
	return m, nil
}

// LoadPMXModel parses the bone section of a PMX file and builds a model. Bone
// morphs are loaded when the morph section is readable.
func LoadPMXModel(data []byte) (*PMXModel, error) {
	_, raw, err := mmd.ParsePMXBones(data)
	if err != nil {
		return nil, err
	}
	m, err := NewPMXModel(raw)
	if err != nil {
		return nil, err
	}
	morphs, err := mmd.ParsePMXBoneMorphs(data)
	if err != nil {
		logger.Log.Warn("pmx bone morphs skipped", zap.Error(err))
	}
	m.SetBoneMorphs(morphs)
	return m, nil
}

func checkReference(bone int, field string, index, count int) error {
	if index >= count {
		return &ReferenceError{Bone: bone, Field: field, Index: index, Count: count}
	}
	return nil
}

func resolvePMXBones(bones []*PMXBone) error {
	n := len(bones)
	for i, b := range bones {
		if err := checkReference(i, "parent", b.parentIndex, n); err != nil {
			return err
		}
		if err := checkReference(i, "destination", b.destinationIndex, n); err != nil {
			return err
		}
		if err := checkReference(i, "effector", b.effectorIndex, n); err != nil {
			return err
		}
		if err := checkReference(i, "inherit", b.inherentIndex, n); err != nil {
			return err
		}
		for _, c := range b.constraints {
			if err := checkReference(i, "joint", c.JointIndex, n); err != nil {
				return err
			}
		}
	}
	if err := checkAcyclic(n, func(i int) int { return bones[i].parentIndex }); err != nil {
		return fmt.Errorf("parent chain: %w", err)
	}
	if err := checkAcyclic(n, func(i int) int { return bones[i].inherentIndex }); err != nil {
		return fmt.Errorf("inherit chain: %w", err)
	}
	for i, b := range bones {
		if b.parentIndex >= 0 {
			b.offsetFromParent = *b.origin.Sub(&bones[b.parentIndex].origin)
		}
		b.index = i
	}
	return nil
}

// checkAcyclic fails if following next from any index revisits an index.
// next returns a negative value at the end of a chain.
func checkAcyclic(n int, next func(int) int) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]uint8, n)
	var path []int
	for i := 0; i < n; i++ {
		path = path[:0]
		j := i
		for j >= 0 && state[j] == unvisited {
			state[j] = visiting
			path = append(path, j)
			j = next(j)
		}
		if j >= 0 && state[j] == visiting {
			return fmt.Errorf("bone %d: %w", j, ErrCyclicReference)
		}
		for _, k := range path {
			state[k] = done
		}
	}
	return nil
}

// NewPMDModel builds a model from raw PMD bone records.
func NewPMDModel(raw []*mmd.PMDBone) (*PMDModel, error) {
	m := &PMDModel{}
	bones := make([]*PMDBone, len(raw))
	for i, r := range raw {
		bones[i] = newPMDBone(m, r)
	}
	if err := resolvePMDBones(bones); err != nil {
		return nil, err
	}
	m.bones = bones
	m.byName = indexByName(bones)
	m.order = SortPMDBones(bones)
	return m, nil
}

// LoadPMDModel parses the bone section of a PMD file and builds a model.
func LoadPMDModel(data []byte) (*PMDModel, error) {
	raw, err := mmd.ParsePMDBones(data)
	if err != nil {
		return nil, err
	}
	return NewPMDModel(raw)
}

func resolvePMDBones(bones []*PMDBone) error {
	n := len(bones)
	for i, b := range bones {
		if err := checkReference(i, "parent", b.parentIndex, n); err != nil {
			return err
		}
		if err := checkReference(i, "child", b.childIndex, n); err != nil {
			return err
		}
		// follow-rotate bones store a coefficient in the target field
		if b.boneType != PMDBoneFollowRotate {
			if err := checkReference(i, "target", b.targetIndex, n); err != nil {
				return err
			}
		}
	}
	if err := checkAcyclic(n, func(i int) int { return bones[i].parentIndex }); err != nil {
		return fmt.Errorf("parent chain: %w", err)
	}
	for i, b := range bones {
		if b.parentIndex >= 0 {
			b.offset = *b.origin.Sub(&bones[b.parentIndex].origin)
		}
		if b.boneType == PMDBoneTwist && b.childIndex >= 0 {
			b.fixedAxis = *bones[b.childIndex].origin.Sub(&b.origin).SafeNormalize()
		}
		b.index = i
	}
	return nil
}

// Package pose reads and writes bone pose snapshots: the local translation and
// rotation of every bone, keyed by bone name.
package pose

import (
	"bytes"
	"fmt"

	"github.com/binzume/mmdrig/geom"
	"github.com/binzume/mmdrig/internal/logger"
	"github.com/binzume/mmdrig/mmd"
	"github.com/binzume/mmdrig/physics"
	"github.com/binzume/mmdrig/skeleton"
	"github.com/chewxy/math32"
	"go.uber.org/zap"
)

// StepSeconds is the physics step used while ramping into an imported pose.
const StepSeconds = 1.0 / 60.0

// BoneState is the pose of one bone.
type BoneState struct {
	Name        string
	Translation geom.Vector3
	Rotation    geom.Quaternion
}

// Export writes the pose of every bone in index order.
func Export(model skeleton.Model) []byte {
	bones := model.Bones()
	w := mmd.NewWriter(4096)
	w.WriteUint32(uint32(len(bones)))
	for _, b := range bones {
		name := []byte(b.Name())
		w.WriteUint32(uint32(len(name) + 1))
		w.Write(name)
		w.WriteUint8(0)
		t := b.LocalTranslation()
		w.WriteVector3(mmd.Vector3{X: t.X, Y: t.Y, Z: t.Z})
		r := b.LocalRotation()
		w.WriteVector4(mmd.Vector4{X: r.X, Y: r.Y, Z: r.Z, W: r.W})
	}
	return w.Bytes()
}

// Parse decodes a pose snapshot without applying it.
func Parse(data []byte) ([]BoneState, error) {
	c := mmd.NewCursor(data)
	n, err := c.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("pose bone count: %w", err)
	}
	// every record is at least 32 bytes
	if int64(n)*32 > int64(c.Remaining()) {
		return nil, fmt.Errorf("pose declares %d bones: %w", n, mmd.ErrTruncated)
	}
	states := make([]BoneState, n)
	for i := range states {
		if err := readBoneState(c, &states[i]); err != nil {
			return nil, fmt.Errorf("pose bone %d: %w", i, err)
		}
	}
	return states, nil
}

func readBoneState(c *mmd.Cursor, s *BoneState) error {
	size, err := c.ReadUint32()
	if err != nil {
		return err
	}
	name, err := c.Read(int(size))
	if err != nil {
		return err
	}
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	s.Name = string(name)
	t, err := c.ReadVector3()
	if err != nil {
		return err
	}
	r, err := c.ReadVector4()
	if err != nil {
		return err
	}
	s.Translation = geom.Vector3{X: t.X, Y: t.Y, Z: t.Z}
	s.Rotation = geom.Quaternion{X: r.X, Y: r.Y, Z: r.Z, W: r.W}
	return nil
}

// Import applies a pose snapshot to model. The whole snapshot is decoded
// first, so a malformed one leaves the model untouched. When world is not nil
// the pose is approached in steps of roughly one unit or one degree, stepping
// the simulation after each, so that attached bodies follow smoothly.
func Import(data []byte, model skeleton.Model, world physics.World) error {
	states, err := Parse(data)
	if err != nil {
		return err
	}

	loop := rampSteps(states)
	for i := 1; i < loop; i++ {
		for _, s := range states {
			b := model.FindBone(s.Name)
			if b == nil {
				continue
			}
			b.SetLocalTranslation(geom.Vector3{
				X: s.Translation.X / float32(loop) * float32(i),
				Y: s.Translation.Y / float32(loop) * float32(i),
				Z: s.Translation.Z / float32(loop) * float32(i),
			})
			b.SetLocalRotation(geom.Quaternion{
				X: s.Rotation.X / float32(loop) * float32(i),
				Y: s.Rotation.Y / float32(loop) * float32(i),
				Z: s.Rotation.Z / float32(loop) * float32(i),
				W: s.Rotation.W / float32(loop) * float32(i),
			})
		}
		if world != nil {
			world.StepSimulation(StepSeconds)
		}
	}

	applied := 0
	for _, s := range states {
		b := model.FindBone(s.Name)
		if b == nil {
			logger.Log.Debug("pose bone not in model", zap.String("bone", s.Name))
			continue
		}
		b.SetLocalTranslation(s.Translation)
		b.SetLocalRotation(s.Rotation)
		applied++
	}
	if world != nil {
		world.StepSimulation(StepSeconds)
	}
	logger.Log.Debug("pose imported",
		zap.Int("bones", len(states)), zap.Int("applied", applied), zap.Int("ramp_steps", loop))
	return nil
}

// rampSteps is the largest translation component in units or rotation
// component in degrees, truncated.
func rampSteps(states []BoneState) int {
	var maximum float32
	for _, s := range states {
		for _, v := range []float32{s.Translation.X, s.Translation.Y, s.Translation.Z} {
			maximum = math32.Max(maximum, math32.Abs(v))
		}
		for _, v := range []float32{s.Rotation.X, s.Rotation.Y, s.Rotation.Z, s.Rotation.W} {
			maximum = math32.Max(maximum, math32.Abs(v)*180/math32.Pi)
		}
	}
	return int(maximum)
}

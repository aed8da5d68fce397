package converter

import (
	"sort"

	"github.com/binzume/mmdrig/geom"
	"github.com/binzume/mmdrig/internal/logger"
	"github.com/binzume/mmdrig/mmd"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

// MotionFPS is the frame rate of VMD keyframe numbers.
const MotionFPS = 30

func keysEquals(a, b []*mmd.AnimationBoneSample) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Frame != b[i].Frame {
			return false
		}
	}
	return true
}

func isDefaultRotations(samples [][4]float32) bool {
	for _, q := range samples {
		if q != [4]float32{0, 0, 0, 1} {
			return false
		}
	}
	return true
}

func isZeroPositions(samples []*mmd.AnimationBoneSample) bool {
	for _, s := range samples {
		if s.Position != (mmd.Vector3{}) {
			return false
		}
	}
	return true
}

func (m *skeletonToGltf) addSampler(a *gltf.Animation, node, keysAcc, samplesAcc uint32, path gltf.TRSProperty) {
	a.Samplers = append(a.Samplers, &gltf.AnimationSampler{
		Input:         gltf.Index(keysAcc),
		Output:        gltf.Index(samplesAcc),
		Interpolation: gltf.InterpolationLinear,
	})
	a.Channels = append(a.Channels, &gltf.Channel{
		Sampler: gltf.Index(uint32(len(a.Samplers) - 1)),
		Target: gltf.ChannelTarget{
			Node: gltf.Index(node),
			Path: path,
		},
	})
}

// AddMotion appends the bone keyframes of anim as a glTF animation. It must be
// called after Convert. Channels for bones missing from the skeleton are dropped.
func (m *skeletonToGltf) AddMotion(anim *mmd.Animation) {
	a := gltf.Animation{Name: anim.Name}

	channels := anim.BoneChannels()
	names := make([]string, 0, len(channels))
	for name := range channels {
		names = append(names, name)
	}
	sort.Strings(names)

	var prevCh *mmd.BoneChannel
	var prevKeysAcc uint32
	for _, name := range names {
		channel := channels[name]
		n, ok := m.NodeByBone[name]
		if !ok {
			logger.Log.Debug("motion bone not in skeleton", zap.String("bone", name))
			continue
		}

		var keysAcc uint32
		if prevCh != nil && keysEquals(channel.Samples, prevCh.Samples) {
			keysAcc = prevKeysAcc
		} else {
			keys := make([]float32, len(channel.Samples))
			for i, s := range channel.Samples {
				keys[i] = float32(s.Frame) / MotionFPS
			}
			keysAcc = modeler.WriteAccessor(m.Document, gltf.TargetArrayBuffer, keys)
		}

		rotations := make([][4]float32, len(channel.Samples))
		for i, s := range channel.Samples {
			q := geom.Quaternion{X: s.Rotation.X, Y: s.Rotation.Y, Z: s.Rotation.Z, W: s.Rotation.W}
		r := q.FlipZ()
		rotations[i] = [4]float32{r.X, r.Y, r.Z, r.W}
		}
		if !isDefaultRotations(rotations) {
			m.addSampler(&a, n, keysAcc, modeler.WriteTangent(m.Document, rotations), gltf.TRSRotation)
		}

		if !isZeroPositions(channel.Samples) {
			rest := m.restTranslations[n]
			translations := make([][3]float32, len(channel.Samples))
			for i, s := range channel.Samples {
				translations[i] = [3]float32{
					rest[0] + s.Position.X*m.Scale,
					rest[1] + s.Position.Y*m.Scale,
					rest[2] - s.Position.Z*m.Scale,
				}
			}
			m.addSampler(&a, n, keysAcc, modeler.WritePosition(m.Document, translations), gltf.TRSTranslation)
		}

		prevCh = channel
		prevKeysAcc = keysAcc
	}

	if len(a.Channels) > 0 {
		m.Animations = append(m.Animations, &a)
	}
	logger.Log.Debug("gltf motion", zap.String("name", anim.Name), zap.Int("channels", len(a.Channels)))
}

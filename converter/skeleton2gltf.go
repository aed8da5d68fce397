package converter

import (
	"errors"

	"github.com/binzume/mmdrig/geom"
	"github.com/binzume/mmdrig/internal/logger"
	"github.com/binzume/mmdrig/skeleton"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

var ErrNoBones = errors.New("converter: model has no bones")

type SkeletonToGLTFOption struct {
	Scale float32 // Default: 0.08
	Name  string
}

type skeletonToGltf struct {
	*SkeletonToGLTFOption
	*gltf.Document
	NodeByBone map[string]uint32

	restTranslations map[uint32][3]float32
}

func NewSkeletonToGLTFConverter(options *SkeletonToGLTFOption) *skeletonToGltf {
	if options == nil {
		options = &SkeletonToGLTFOption{}
	}
	if options.Scale == 0 {
		options.Scale = 0.08
	}
	return &skeletonToGltf{
		SkeletonToGLTFOption: options,
		Document:             gltf.NewDocument(),
		NodeByBone:           map[string]uint32{},
		restTranslations:     map[uint32][3]float32{},
	}
}

// SkeletonToGLTF exports the current pose of model as a node hierarchy with a skin.
func SkeletonToGLTF(model skeleton.Model, options *SkeletonToGLTFOption) (*gltf.Document, error) {
	return NewSkeletonToGLTFConverter(options).Convert(model)
}

func (m *skeletonToGltf) scaled(v *geom.Vector3) [3]float32 {
	return [3]float32{v.X * m.Scale, v.Y * m.Scale, v.Z * m.Scale}
}

func (m *skeletonToGltf) addMatrices(mat [][4][4]float32) uint32 {
	a := make([][4]float32, len(mat)*4)
	for i, m := range mat {
		a[i*4+0] = m[0]
		a[i*4+1] = m[1]
		a[i*4+2] = m[2]
		a[i*4+3] = m[3]
	}
	acc := modeler.WriteTangent(m.Document, a)
	m.Accessors[acc].Type = gltf.AccessorMat4
	m.Accessors[acc].Count /= 4
	m.BufferViews[*m.Accessors[acc].BufferView].ByteStride *= 4
	return acc
}

// bindOrigin is the rest position of a bone in model space.
func bindOrigin(b skeleton.Bone) geom.Vector3 {
	if o, ok := b.(interface{ Origin() geom.Vector3 }); ok {
		return o.Origin()
	}
	return geom.Vector3{}
}

func (m *skeletonToGltf) addBoneNodes(bones []skeleton.Bone) []uint32 {
	nodeOf := map[skeleton.Bone]uint32{}
	joints := make([]uint32, len(bones))
	for i, b := range bones {
		n := uint32(len(m.Nodes))
		nodeOf[b] = n
		joints[i] = n
		if _, dup := m.NodeByBone[b.Name()]; !dup {
			m.NodeByBone[b.Name()] = n
		}
		node := &gltf.Node{
			Name:        b.Name(),
			Translation: [3]float32{0, 0, 0},
			Rotation:    [4]float32{0, 0, 0, 1},
			Scale:       [3]float32{1, 1, 1},
		}
		if en := b.EnglishName(); en != "" {
			node.Extras = map[string]interface{}{"englishName": en}
		}
		m.Nodes = append(m.Nodes, node)
	}

	for _, b := range bones {
		n := nodeOf[b]
		node := m.Nodes[n]
		world := b.WorldTransform()
		origin := bindOrigin(b)
		rel := &world
		parent := b.ParentBone()
		if pn, ok := nodeOf[parent]; parent != nil && ok {
			pw := parent.WorldTransform()
			rel = pw.Inverse().Mul(&world)
			m.Nodes[pn].Children = append(m.Nodes[pn].Children, n)
			po := bindOrigin(parent)
			m.restTranslations[n] = m.scaled(origin.Sub(&po))
		} else {
			m.Scenes[0].Nodes = append(m.Scenes[0].Nodes, n)
			m.restTranslations[n] = m.scaled(&origin)
		}
		node.Translation = m.scaled(&rel.Origin)
		r := rel.Rotation.Normalize()
		node.Rotation = [4]float32{r.X, r.Y, r.Z, r.W}
	}
	return joints
}

func (m *skeletonToGltf) addSkin(bones []skeleton.Bone, joints []uint32) uint32 {
	invmats := make([][4][4]float32, len(joints))
	for i, b := range bones {
		o := bindOrigin(b)
		bind := geom.Transform{Rotation: geom.IdentityQuaternion(), Origin: *o.Scale(m.Scale)}
		invmats[i] = bind.Inverse().Matrix().ToArray2D()
	}
	m.Skins = append(m.Skins, &gltf.Skin{
		Name:                m.Name,
		Joints:              joints,
		InverseBindMatrices: gltf.Index(m.addMatrices(invmats)),
	})
	return uint32(len(m.Skins) - 1)
}

// Convert adds one node per bone and a skin binding all of them.
func (m *skeletonToGltf) Convert(model skeleton.Model) (*gltf.Document, error) {
	bones := model.Bones()
	if len(bones) == 0 {
		return nil, ErrNoBones
	}
	joints := m.addBoneNodes(bones)
	m.addSkin(bones, joints)
	if m.Name != "" {
		m.Scenes[0].Name = m.Name
	}
	logger.Log.Debug("gltf skeleton", zap.Int("nodes", len(m.Nodes)), zap.Int("roots", len(m.Scenes[0].Nodes)))
	return m.Document, nil
}

package skeleton

import (
	"github.com/binzume/mmdrig/geom"
	"github.com/binzume/mmdrig/physics"
)

const assetScaleMin = 0.01

// AssetModel is a static accessory without a skeleton. Its placement is
// exposed through a synthetic root bone and a scale bone.
type AssetModel struct {
	notifier
	Position    geom.Vector3
	Rotation    geom.Quaternion
	ScaleFactor float32

	root  *AssetRootBone
	scale *AssetScaleBone
}

func NewAssetModel() *AssetModel {
	m := &AssetModel{Rotation: geom.IdentityQuaternion(), ScaleFactor: 1}
	m.root = &AssetRootBone{model: m}
	m.scale = &AssetScaleBone{model: m, position: geom.Vector3{X: 1, Y: 1, Z: 1}}
	m.root.updateTransform()
	return m
}

func (m *AssetModel) Bones() []Bone {
	return []Bone{m.root, m.scale}
}

func (m *AssetModel) FindBone(name string) Bone {
	switch name {
	case m.root.Name():
		return m.root
	case m.scale.Name():
		return m.scale
	}
	return nil
}

func (m *AssetModel) RootBone() *AssetRootBone   { return m.root }
func (m *AssetModel) ScaleBone() *AssetScaleBone { return m.scale }

// assetBone holds the defaults shared by the synthetic bones.
type assetBone struct {
	body physics.RigidBody
}

func (b *assetBone) Index() int                             { return -1 }
func (b *assetBone) EnglishName() string                    { return "" }
func (b *assetBone) SetLocalTransform(geom.Transform)       {}
func (b *assetBone) UpdateLocalTransform()                  {}
func (b *assetBone) SetInverseKinematicsEnable(enable bool) {}
func (b *assetBone) LocalAxes() [3]geom.Vector3             { return identityAxes() }
func (b *assetBone) FixedAxis() geom.Vector3                { return geom.Vector3{} }
func (b *assetBone) DestinationOrigin() geom.Vector3        { return geom.Vector3{} }
func (b *assetBone) EffectorBones() []Bone                  { return nil }
func (b *assetBone) IsMovable() bool                        { return true }
func (b *assetBone) IsRotatable() bool                      { return false }
func (b *assetBone) IsInteractive() bool                    { return true }
func (b *assetBone) IsVisible() bool                        { return false }
func (b *assetBone) HasFixedAxis() bool                     { return false }
func (b *assetBone) HasLocalAxis() bool                     { return false }
func (b *assetBone) HasInverseKinematics() bool             { return false }
func (b *assetBone) ParentBone() Bone                       { return nil }
func (b *assetBone) EffectorBone() Bone                     { return nil }
func (b *assetBone) Body() physics.RigidBody                { return b.body }
func (b *assetBone) SetBody(body physics.RigidBody)         { b.body = body }

// AssetRootBone moves and rotates the whole asset.
type AssetRootBone struct {
	assetBone
	model          *AssetModel
	worldTransform geom.Transform
}

func (b *AssetRootBone) Name() string { return "RootBoneAsset" }

func (b *AssetRootBone) updateTransform() {
	b.worldTransform = geom.Transform{Rotation: b.model.Rotation, Origin: b.model.Position}
}

func (b *AssetRootBone) LocalTransform() geom.Transform { return b.worldTransform }
func (b *AssetRootBone) WorldTransform() geom.Transform { return b.worldTransform }
func (b *AssetRootBone) LocalRotation() geom.Quaternion { return b.model.Rotation }
func (b *AssetRootBone) LocalTranslation() geom.Vector3 { return b.model.Position }

func (b *AssetRootBone) SetLocalTranslation(v geom.Vector3) {
	if b.model.Position != v {
		b.model.Position = v
		b.updateTransform()
		b.model.emit(b, ChangeTranslation)
	}
}

func (b *AssetRootBone) SetLocalRotation(q geom.Quaternion) {
	if b.model.Rotation != q {
		b.model.Rotation = q
		b.updateTransform()
		b.model.emit(b, ChangeRotation)
	}
}

// AssetScaleBone exposes the asset scale as a translation. Each axis is kept
// at or above 0.01 and the scale factor is their mean.
type AssetScaleBone struct {
	assetBone
	model    *AssetModel
	position geom.Vector3
}

func (b *AssetScaleBone) Name() string                   { return "ScaleBoneAsset" }
func (b *AssetScaleBone) LocalTransform() geom.Transform { return *geom.NewTransform() }
func (b *AssetScaleBone) WorldTransform() geom.Transform { return *geom.NewTransform() }
func (b *AssetScaleBone) LocalRotation() geom.Quaternion { return geom.IdentityQuaternion() }
func (b *AssetScaleBone) LocalTranslation() geom.Vector3 { return b.position }
func (b *AssetScaleBone) SetLocalRotation(geom.Quaternion) {}

func (b *AssetScaleBone) SetLocalTranslation(v geom.Vector3) {
	v.X = max32(v.X, assetScaleMin)
	v.Y = max32(v.Y, assetScaleMin)
	v.Z = max32(v.Z, assetScaleMin)
	if b.position != v {
		b.position = v
		b.model.ScaleFactor = (v.X + v.Y + v.Z) / 3
		b.model.emit(b, ChangeTranslation)
	}
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

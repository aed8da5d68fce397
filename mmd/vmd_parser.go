package mmd

import (
	"fmt"
	"sort"
)

const (
	vmdMagic         = "Vocaloid Motion Data 0002"
	vmdMagicSize     = 30
	vmdModelNameSize = 20
	vmdBoneNameSize  = 15
)

type Animation struct {
	Name  string
	Bone  []*AnimationBoneSample
	Morph []*AnimationMorphSample
}

type AnimationBoneSample struct {
	Target   string
	Frame    int
	Position Vector3
	Rotation Vector4
	Params   [64]byte
}

type AnimationMorphSample struct {
	Target string
	Frame  int
	Value  float32
}

// BoneChannel holds the keyframes of one bone in frame order.
type BoneChannel struct {
	Target  string
	Samples []*AnimationBoneSample
}

// At returns the latest sample at or before frame, or nil if there is none.
func (ch *BoneChannel) At(frame int) *AnimationBoneSample {
	i := sort.Search(len(ch.Samples), func(i int) bool { return ch.Samples[i].Frame > frame })
	if i == 0 {
		return nil
	}
	return ch.Samples[i-1]
}

// BoneChannels groups bone samples by target, each sorted by frame.
func (a *Animation) BoneChannels() map[string]*BoneChannel {
	sort.SliceStable(a.Bone, func(i, j int) bool { return a.Bone[i].Frame < a.Bone[j].Frame })

	r := map[string]*BoneChannel{}
	for _, s := range a.Bone {
		ch, ok := r[s.Target]
		if !ok {
			ch = &BoneChannel{Target: s.Target}
			r[s.Target] = ch
		}
		ch.Samples = append(ch.Samples, s)
	}
	return r
}

type MorphChannel struct {
	Target  string
	Samples []*AnimationMorphSample
}

// At returns the latest sample at or before frame, or nil if there is none.
func (ch *MorphChannel) At(frame int) *AnimationMorphSample {
	i := sort.Search(len(ch.Samples), func(i int) bool { return ch.Samples[i].Frame > frame })
	if i == 0 {
		return nil
	}
	return ch.Samples[i-1]
}

// MorphChannels groups morph samples by target, each sorted by frame.
func (a *Animation) MorphChannels() map[string]*MorphChannel {
	sort.SliceStable(a.Morph, func(i, j int) bool { return a.Morph[i].Frame < a.Morph[j].Frame })

	r := map[string]*MorphChannel{}
	for _, s := range a.Morph {
		ch, ok := r[s.Target]
		if !ok {
			ch = &MorphChannel{Target: s.Target}
			r[s.Target] = ch
		}
		ch.Samples = append(ch.Samples, s)
	}
	return r
}

// MaxFrame returns the last keyframe number.
func (a *Animation) MaxFrame() int {
	max := 0
	for _, s := range a.Bone {
		if s.Frame > max {
			max = s.Frame
		}
	}
	for _, s := range a.Morph {
		if s.Frame > max {
			max = s.Frame
		}
	}
	return max
}

// ParseVMD reads bone and morph keyframes. Camera and light sections are ignored.
func ParseVMD(data []byte) (*Animation, error) {
	c := NewCursor(data)
	var anim Animation

	formatName, err := c.readFixedString(vmdMagicSize)
	if err != nil {
		return nil, err
	}
	if formatName != vmdMagic {
		return nil, fmt.Errorf("vmd magic %q: %w", formatName, ErrUnsupportedFormat)
	}
	if anim.Name, err = c.readFixedString(vmdModelNameSize); err != nil {
		return nil, err
	}

	frames, err := c.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("vmd bone frames: %w", err)
	}
	for i := 0; i < int(frames); i++ {
		sample := &AnimationBoneSample{}
		if err := c.readBoneSample(sample); err != nil {
			return nil, fmt.Errorf("vmd bone frame %d: %w", i, err)
		}
		anim.Bone = append(anim.Bone, sample)
	}

	if c.Remaining() == 0 {
		return &anim, nil
	}
	frames, err = c.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("vmd morph frames: %w", err)
	}
	for i := 0; i < int(frames); i++ {
		sample := &AnimationMorphSample{}
		if sample.Target, err = c.readFixedString(vmdBoneNameSize); err != nil {
			return nil, fmt.Errorf("vmd morph frame %d: %w", i, err)
		}
		frame, err := c.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("vmd morph frame %d: %w", i, err)
		}
		sample.Frame = int(frame)
		if sample.Value, err = c.ReadFloat32(); err != nil {
			return nil, fmt.Errorf("vmd morph frame %d: %w", i, err)
		}
		anim.Morph = append(anim.Morph, sample)
	}

	return &anim, nil
}

func (c *Cursor) readBoneSample(s *AnimationBoneSample) error {
	var err error
	if s.Target, err = c.readFixedString(vmdBoneNameSize); err != nil {
		return err
	}
	frame, err := c.ReadUint32()
	if err != nil {
		return err
	}
	s.Frame = int(frame)
	if s.Position, err = c.ReadVector3(); err != nil {
		return err
	}
	if s.Rotation, err = c.ReadVector4(); err != nil {
		return err
	}
	params, err := c.Read(len(s.Params))
	if err != nil {
		return err
	}
	copy(s.Params[:], params)
	return nil
}

// WriteVMD writes bone and morph keyframes with empty camera and light sections.
func WriteVMD(w *Writer, anim *Animation) {
	w.WriteFixedString([]byte(vmdMagic), vmdMagicSize)
	w.WriteFixedString(EncodeShiftJIS(anim.Name), vmdModelNameSize)
	w.WriteUint32(uint32(len(anim.Bone)))
	for _, s := range anim.Bone {
		w.WriteFixedString(EncodeShiftJIS(s.Target), vmdBoneNameSize)
		w.WriteUint32(uint32(s.Frame))
		w.WriteVector3(s.Position)
		w.WriteVector4(s.Rotation)
		w.Write(s.Params[:])
	}
	w.WriteUint32(uint32(len(anim.Morph)))
	for _, s := range anim.Morph {
		w.WriteFixedString(EncodeShiftJIS(s.Target), vmdBoneNameSize)
		w.WriteUint32(uint32(s.Frame))
		w.WriteFloat32(s.Value)
	}
	w.WriteUint32(0) // camera
	w.WriteUint32(0) // light
}

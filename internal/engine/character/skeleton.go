// Package character implements the playable hero: skeleton posing,
// animation clip playback with crossfades, and a terrain-following
// movement controller driven by keyboard intent.
package character

import (
	"github.com/mosslight/walkabout/pkg/formats"
	"github.com/mosslight/walkabout/pkg/math"
)

// Transform is a local translation/rotation/scale triple.
type Transform struct {
	Translation math.Vec3
	Rotation    math.Quat
	Scale       math.Vec3
}

// Matrix collapses the transform into a single local matrix.
func (t Transform) Matrix() math.Mat4 {
	return math.TRS(t.Translation, t.Rotation, t.Scale)
}

// Blend interpolates toward another transform. f=0 keeps the receiver,
// f=1 lands on other.
func (t Transform) Blend(other Transform, f float32) Transform {
	return Transform{
		Translation: t.Translation.Lerp(other.Translation, f),
		Rotation:    t.Rotation.Slerp(other.Rotation, f),
		Scale:       t.Scale.Lerp(other.Scale, f),
	}
}

// Bone is one joint of the skeleton. Parent indexes an earlier bone, or
// is -1 for the root.
type Bone struct {
	Name        string
	Parent      int
	Rest        Transform
	InverseBind math.Mat4
}

// Skeleton is the bone hierarchy of a skinned model.
type Skeleton struct {
	Bones  []Bone
	byName map[string]int
}

// NewSkeleton builds a skeleton from a parsed model. The model must
// already be validated so parents precede their children.
func NewSkeleton(m *formats.SKM) *Skeleton {
	s := &Skeleton{
		Bones:  make([]Bone, len(m.Bones)),
		byName: make(map[string]int, len(m.Bones)),
	}
	for i, b := range m.Bones {
		s.Bones[i] = Bone{
			Name:   b.Name,
			Parent: int(b.Parent),
			Rest: Transform{
				Translation: math.Vec3{X: b.RestTranslation[0], Y: b.RestTranslation[1], Z: b.RestTranslation[2]},
				Rotation:    math.Quat{X: b.RestRotation[0], Y: b.RestRotation[1], Z: b.RestRotation[2], W: b.RestRotation[3]},
				Scale:       math.Vec3{X: b.RestScale[0], Y: b.RestScale[1], Z: b.RestScale[2]},
			},
			InverseBind: math.Mat4(b.InverseBind),
		}
		s.byName[b.Name] = i
	}
	return s
}

// BoneIndex returns the index of the named bone, or -1 if absent.
func (s *Skeleton) BoneIndex(name string) int {
	if i, ok := s.byName[name]; ok {
		return i
	}
	return -1
}

// Pose holds the per-bone local transforms of one animation frame plus
// the matrices derived from them.
type Pose struct {
	Local   []Transform
	Global  []math.Mat4
	Palette []math.Mat4
}

// NewPose returns a pose initialized to the skeleton's rest transforms.
func (s *Skeleton) NewPose() *Pose {
	p := &Pose{
		Local:   make([]Transform, len(s.Bones)),
		Global:  make([]math.Mat4, len(s.Bones)),
		Palette: make([]math.Mat4, len(s.Bones)),
	}
	p.Reset(s)
	p.ComputeMatrices(s)
	return p
}

// Reset restores the rest pose locals.
func (p *Pose) Reset(s *Skeleton) {
	for i := range s.Bones {
		p.Local[i] = s.Bones[i].Rest
	}
}

// ComputeMatrices derives global and skinning palette matrices from the
// local transforms. Bones are stored parent-first, so a single forward
// pass resolves the whole hierarchy.
func (p *Pose) ComputeMatrices(s *Skeleton) {
	for i := range s.Bones {
		local := p.Local[i].Matrix()
		if parent := s.Bones[i].Parent; parent >= 0 {
			p.Global[i] = p.Global[parent].Mul(local)
		} else {
			p.Global[i] = local
		}
		p.Palette[i] = p.Global[i].Mul(s.Bones[i].InverseBind)
	}
}

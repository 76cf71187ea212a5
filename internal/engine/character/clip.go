package character

import (
	gomath "math"

	"github.com/mosslight/walkabout/pkg/formats"
	"github.com/mosslight/walkabout/pkg/math"
)

// RotKey is a rotation keyframe.
type RotKey struct {
	Time     float32
	Rotation math.Quat
}

// PosKey is a translation keyframe.
type PosKey struct {
	Time     float32
	Position math.Vec3
}

// Channel drives one bone of the skeleton.
type Channel struct {
	Bone    int
	RotKeys []RotKey
	PosKeys []PosKey
}

// Clip is an animation bound to a specific skeleton.
type Clip struct {
	Name     string
	Duration float32
	Loop     bool
	Channels []Channel
}

// BindClip resolves a parsed animation against a skeleton. Channels
// naming bones the skeleton does not have are dropped, and their bone
// names returned so the caller can log them.
func BindClip(a *formats.SKA, s *Skeleton) (*Clip, []string) {
	c := &Clip{
		Name:     a.Name,
		Duration: a.Duration,
		Loop:     a.Loop,
		Channels: make([]Channel, 0, len(a.Channels)),
	}
	var missing []string
	for i := range a.Channels {
		src := &a.Channels[i]
		bone := s.BoneIndex(src.Bone)
		if bone < 0 {
			missing = append(missing, src.Bone)
			continue
		}
		ch := Channel{Bone: bone}
		for _, k := range src.RotKeys {
			ch.RotKeys = append(ch.RotKeys, RotKey{
				Time:     k.Time,
				Rotation: math.Quat{X: k.Quat[0], Y: k.Quat[1], Z: k.Quat[2], W: k.Quat[3]},
			})
		}
		for _, k := range src.PosKeys {
			ch.PosKeys = append(ch.PosKeys, PosKey{
				Time:     k.Time,
				Position: math.Vec3{X: k.Pos[0], Y: k.Pos[1], Z: k.Pos[2]},
			})
		}
		c.Channels = append(c.Channels, ch)
	}
	return c, missing
}

// WrapTime maps an absolute playback time into the clip: looping clips
// wrap, one-shot clips hold their first or last frame.
func (c *Clip) WrapTime(t float32) float32 {
	if c.Duration <= 0 {
		return 0
	}
	if c.Loop {
		t = float32(gomath.Mod(float64(t), float64(c.Duration)))
		if t < 0 {
			t += c.Duration
		}
		return t
	}
	return math.Clamp(t, 0, c.Duration)
}

// Sample writes the clip's channel transforms at time t over the pose
// locals. Bones without a channel keep whatever the pose already holds.
func (c *Clip) Sample(t float32, pose *Pose) {
	t = c.WrapTime(t)
	for i := range c.Channels {
		ch := &c.Channels[i]
		if len(ch.RotKeys) > 0 {
			pose.Local[ch.Bone].Rotation = sampleRot(ch.RotKeys, t)
		}
		if len(ch.PosKeys) > 0 {
			pose.Local[ch.Bone].Translation = samplePos(ch.PosKeys, t)
		}
	}
}

// sampleRot interpolates rotation keys at the given time. Times before
// the first key clamp to it, times past the last key clamp to the last.
func sampleRot(keys []RotKey, t float32) math.Quat {
	if len(keys) == 1 {
		return keys[0].Rotation
	}
	prev, next := 0, 0
	for i := range keys {
		if keys[i].Time > t {
			next = i
			break
		}
		prev = i
		next = i
	}
	if prev == next {
		return keys[prev].Rotation
	}
	k0, k1 := keys[prev], keys[next]
	f := (t - k0.Time) / (k1.Time - k0.Time)
	return k0.Rotation.Slerp(k1.Rotation, f)
}

func samplePos(keys []PosKey, t float32) math.Vec3 {
	if len(keys) == 1 {
		return keys[0].Position
	}
	prev, next := 0, 0
	for i := range keys {
		if keys[i].Time > t {
			next = i
			break
		}
		prev = i
		next = i
	}
	if prev == next {
		return keys[prev].Position
	}
	k0, k1 := keys[prev], keys[next]
	f := (t - k0.Time) / (k1.Time - k0.Time)
	return k0.Position.Lerp(k1.Position, f)
}

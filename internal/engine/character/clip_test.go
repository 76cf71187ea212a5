package character

import (
	gomath "math"
	"testing"

	"github.com/mosslight/walkabout/pkg/formats"
	"github.com/mosslight/walkabout/pkg/math"
)

func quatKey(time, angle float32) formats.SKARotKey {
	q := math.QuatFromAxisAngle(math.Vec3{Z: 1}, angle)
	return formats.SKARotKey{Time: time, Quat: [4]float32{q.X, q.Y, q.Z, q.W}}
}

func TestBindClipResolvesBones(t *testing.T) {
	s := NewSkeleton(testModel())
	a := &formats.SKA{
		Name:     "wave",
		Duration: 1,
		Channels: []formats.SKAChannel{
			{Bone: "root", RotKeys: []formats.SKARotKey{quatKey(0, 0)}},
			{Bone: "child", RotKeys: []formats.SKARotKey{quatKey(0, 0)}},
			{Bone: "phantom", RotKeys: []formats.SKARotKey{quatKey(0, 0)}},
		},
	}
	c, missing := BindClip(a, s)
	if len(c.Channels) != 2 {
		t.Fatalf("channels = %d, want 2", len(c.Channels))
	}
	if c.Channels[0].Bone != 0 || c.Channels[1].Bone != 1 {
		t.Errorf("channel bones = %d, %d, want 0, 1", c.Channels[0].Bone, c.Channels[1].Bone)
	}
	if len(missing) != 1 || missing[0] != "phantom" {
		t.Errorf("missing = %v, want [phantom]", missing)
	}
}

func TestSampleRotMidpoint(t *testing.T) {
	s := NewSkeleton(testModel())
	a := &formats.SKA{
		Name:     "turn",
		Duration: 1,
		Channels: []formats.SKAChannel{
			{Bone: "root", RotKeys: []formats.SKARotKey{
				quatKey(0, 0),
				quatKey(1, gomath.Pi/2),
			}},
		},
	}
	c, _ := BindClip(a, s)
	p := s.NewPose()
	c.Sample(0.5, p)

	want := math.QuatFromAxisAngle(math.Vec3{Z: 1}, gomath.Pi/4)
	if d := p.Local[0].Rotation.Dot(want); absf(d) < 0.9999 {
		t.Errorf("midpoint rotation = %+v, want 45 degrees about Z (dot %g)", p.Local[0].Rotation, d)
	}
}

func TestSampleClampsOutsideKeyRange(t *testing.T) {
	s := NewSkeleton(testModel())
	a := &formats.SKA{
		Name:     "turn",
		Duration: 2,
		Channels: []formats.SKAChannel{
			{Bone: "root", RotKeys: []formats.SKARotKey{
				quatKey(0.5, 0),
				quatKey(1.5, gomath.Pi/2),
			}},
		},
	}
	c, _ := BindClip(a, s)

	p := s.NewPose()
	c.Sample(0, p)
	first := math.QuatIdentity()
	if d := p.Local[0].Rotation.Dot(first); absf(d) < 0.9999 {
		t.Errorf("before first key: rotation = %+v, want identity", p.Local[0].Rotation)
	}

	p.Reset(s)
	c.Sample(2, p)
	last := math.QuatFromAxisAngle(math.Vec3{Z: 1}, gomath.Pi/2)
	if d := p.Local[0].Rotation.Dot(last); absf(d) < 0.9999 {
		t.Errorf("after last key: rotation = %+v, want 90 degrees about Z", p.Local[0].Rotation)
	}
}

func TestSampleSingleKey(t *testing.T) {
	s := NewSkeleton(testModel())
	a := &formats.SKA{
		Name:     "hold",
		Duration: 1,
		Channels: []formats.SKAChannel{
			{Bone: "child", PosKeys: []formats.SKAPosKey{{Time: 0.3, Pos: [3]float32{1, 2, 3}}}},
		},
	}
	c, _ := BindClip(a, s)
	p := s.NewPose()
	c.Sample(0.9, p)
	got := p.Local[1].Translation
	if got.X != 1 || got.Y != 2 || got.Z != 3 {
		t.Errorf("single key translation = %+v, want (1, 2, 3)", got)
	}
}

func TestSamplePositionLerp(t *testing.T) {
	s := NewSkeleton(testModel())
	a := &formats.SKA{
		Name:     "bob",
		Duration: 1,
		Channels: []formats.SKAChannel{
			{Bone: "child", PosKeys: []formats.SKAPosKey{
				{Time: 0, Pos: [3]float32{0, 2, 0}},
				{Time: 1, Pos: [3]float32{0, 4, 0}},
			}},
		},
	}
	c, _ := BindClip(a, s)
	p := s.NewPose()
	c.Sample(0.25, p)
	if got := p.Local[1].Translation.Y; absf(got-2.5) > 1e-5 {
		t.Errorf("lerped Y = %g, want 2.5", got)
	}
}

func TestWrapTime(t *testing.T) {
	loop := &Clip{Duration: 2, Loop: true}
	oneShot := &Clip{Duration: 2}
	tests := []struct {
		name string
		clip *Clip
		in   float32
		want float32
	}{
		{"loop within", loop, 0.5, 0.5},
		{"loop wraps forward", loop, 2.5, 0.5},
		{"loop wraps backward", loop, -0.5, 1.5},
		{"one-shot within", oneShot, 1.5, 1.5},
		{"one-shot clamps end", oneShot, 2.5, 2},
		{"one-shot clamps start", oneShot, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.clip.WrapTime(tt.in); absf(got-tt.want) > 1e-5 {
				t.Errorf("WrapTime(%g) = %g, want %g", tt.in, got, tt.want)
			}
		})
	}
}

func TestSampleLeavesUnkeyedBonesAtRest(t *testing.T) {
	s := NewSkeleton(testModel())
	a := &formats.SKA{
		Name:     "turn",
		Duration: 1,
		Channels: []formats.SKAChannel{
			{Bone: "root", RotKeys: []formats.SKARotKey{quatKey(0, gomath.Pi / 2)}},
		},
	}
	c, _ := BindClip(a, s)
	p := s.NewPose()
	c.Sample(0.5, p)
	if got := p.Local[1].Translation.Y; got != 2 {
		t.Errorf("unkeyed child Y = %g, want rest value 2", got)
	}
}

package character

import (
	gomath "math"
	"testing"

	"github.com/mosslight/walkabout/pkg/formats"
)

func testClips(s *Skeleton) map[string]*Clip {
	return map[string]*Clip{
		ClipIdle: rotClip(s, ClipIdle, 0),
		ClipWalk: rotClip(s, ClipWalk, gomath.Pi/8),
		ClipRun:  rotClip(s, ClipRun, gomath.Pi/4),
		ClipJump: rotClip(s, ClipJump, gomath.Pi/2),
	}
}

func TestAnimatorPicksClipForState(t *testing.T) {
	s := NewSkeleton(testModel())
	m := NewMixer(s)
	a := NewAnimator(m, testClips(s))

	tests := []struct {
		state State
		clip  string
	}{
		{StateIdle, ClipIdle},
		{StateWalk, ClipWalk},
		{StateRun, ClipRun},
		{StateJump, ClipJump},
		{StateIdle, ClipIdle},
	}
	for _, tt := range tests {
		a.Apply(tt.state, 0.016)
		if got := m.Current(); got == nil || got.Name != tt.clip {
			t.Errorf("state %v plays %v, want %q", tt.state, got, tt.clip)
		}
	}
}

func TestAnimatorWalkBackReversesWalk(t *testing.T) {
	s := NewSkeleton(testModel())
	m := NewMixer(s)
	a := NewAnimator(m, testClips(s))

	a.Apply(StateWalkBack, 0.016)
	if got := m.Current(); got == nil || got.Name != ClipWalk {
		t.Fatalf("walk_back plays %v, want the walk clip", got)
	}
	if m.current.TimeScale != -1 {
		t.Errorf("time scale = %g, want -1", m.current.TimeScale)
	}
}

func TestAnimatorFallsBackToIdle(t *testing.T) {
	s := NewSkeleton(testModel())
	m := NewMixer(s)
	clips := testClips(s)
	delete(clips, ClipRun)
	a := NewAnimator(m, clips)

	a.Apply(StateRun, 0.016)
	if got := m.Current(); got == nil || got.Name != ClipIdle {
		t.Errorf("run without a run clip plays %v, want idle", got)
	}
}

func TestAnimatorSurvivesNoClips(t *testing.T) {
	s := NewSkeleton(testModel())
	m := NewMixer(s)
	a := NewAnimator(m, nil)

	a.Apply(StateWalk, 0.016)
	if m.Current() != nil {
		t.Error("no clips should leave nothing playing")
	}
	if len(m.Palette()) != 2 {
		t.Error("palette should still cover the skeleton")
	}
}

func TestAnimatorRepeatedStateKeepsPlaying(t *testing.T) {
	s := NewSkeleton(testModel())
	m := NewMixer(s)
	a := NewAnimator(m, testClips(s))

	a.Apply(StateWalk, 0.2)
	a.Apply(StateWalk, 0.2)
	if m.Fading() {
		t.Error("repeating a state should not restart the fade")
	}
	if absf(m.current.Time-0.4) > 1e-5 {
		t.Errorf("time = %g, want 0.4 accumulated", m.current.Time)
	}
}

func TestCharacterFacade(t *testing.T) {
	model := testModel()
	anims := []*formats.SKA{
		{Name: ClipIdle, Duration: 1, Loop: true, Channels: []formats.SKAChannel{
			{Bone: "root", RotKeys: []formats.SKARotKey{quatKey(0, 0)}},
		}},
		{Name: ClipWalk, Duration: 1, Loop: true, Channels: []formats.SKAChannel{
			{Bone: "root", RotKeys: []formats.SKARotKey{quatKey(0, 0)}},
			{Bone: "phantom", RotKeys: []formats.SKARotKey{quatKey(0, 0)}},
		}},
	}
	ch, warnings := New(model, anims, flatGround{}, Bounds{MinX: -10, MaxX: 10, MinZ: -10, MaxZ: 10}, DefaultParams(), 1, 2)
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one for the phantom bone", warnings)
	}
	if ch.Position().X != 1 || ch.Position().Z != 2 {
		t.Errorf("spawn position = %+v, want (1, _, 2)", ch.Position())
	}

	ch.Update(Intent{Forward: true}, 0.1)
	if ch.Controller.State() != StateWalk {
		t.Errorf("state = %v, want walk", ch.Controller.State())
	}
	if got := ch.Mixer.Current(); got == nil || got.Name != ClipWalk {
		t.Errorf("playing %v, want walk clip", got)
	}
	if len(ch.Palette()) != 2 {
		t.Errorf("palette size = %d, want 2", len(ch.Palette()))
	}
}

func TestCharacterModelMatrixAppliesScale(t *testing.T) {
	ch, _ := New(testModel(), nil, flatGround{}, Bounds{}, DefaultParams(), 0, 0)
	ch.Scale = 2
	m := ch.ModelMatrix()
	if m[0] != 2 || m[5] != 2 || m[10] != 2 {
		t.Errorf("scale diagonal = %g, %g, %g, want 2s", m[0], m[5], m[10])
	}
}

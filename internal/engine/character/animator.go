package character

// Clip names the animator looks up. Walking backward reuses ClipWalk
// played in reverse.
const (
	ClipIdle = "idle"
	ClipWalk = "walk"
	ClipRun  = "run"
	ClipJump = "jump"
)

// Crossfade durations in seconds. Jumps cut faster so the takeoff
// reads immediately.
const (
	fadeDefault float32 = 0.18
	fadeJump    float32 = 0.08
)

// Animator maps locomotion states to clips on a mixer. Missing clips
// degrade: a state without its clip falls back to idle, and a missing
// idle leaves the rest pose.
type Animator struct {
	mixer   *Mixer
	clips   map[string]*Clip
	state   State
	started bool
}

// NewAnimator wires a mixer to a set of clips keyed by name.
func NewAnimator(mixer *Mixer, clips map[string]*Clip) *Animator {
	return &Animator{mixer: mixer, clips: clips}
}

// Apply switches the playing clip when the state changed and advances
// the mixer by dt.
func (a *Animator) Apply(state State, dt float32) {
	if !a.started || state != a.state {
		a.play(state)
		a.state = state
		a.started = true
	}
	a.mixer.Update(dt)
}

func (a *Animator) play(state State) {
	name, timeScale, fade := ClipIdle, float32(1), fadeDefault
	switch state {
	case StateWalk:
		name = ClipWalk
	case StateWalkBack:
		name, timeScale = ClipWalk, -1
	case StateRun:
		name = ClipRun
	case StateJump:
		name, fade = ClipJump, fadeJump
	}
	clip := a.clips[name]
	if clip == nil && name != ClipIdle {
		clip = a.clips[ClipIdle]
		timeScale = 1
	}
	if clip == nil {
		return
	}
	a.mixer.Play(clip, fade, timeScale)
}

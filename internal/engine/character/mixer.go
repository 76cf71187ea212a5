package character

import "github.com/mosslight/walkabout/pkg/math"

// Action is one playing clip instance.
type Action struct {
	Clip      *Clip
	Time      float32
	TimeScale float32 // negative plays the clip backward
	Weight    float32
}

// Finished reports whether a one-shot action has reached its end.
func (a *Action) Finished() bool {
	if a == nil || a.Clip == nil || a.Clip.Loop {
		return false
	}
	if a.TimeScale < 0 {
		return a.Time <= 0
	}
	return a.Time >= a.Clip.Duration
}

// Mixer plays one clip at a time, crossfading when the clip changes.
// During a fade the outgoing and incoming weights always sum to one;
// outside a fade the current clip carries full weight.
type Mixer struct {
	skeleton *Skeleton
	pose     *Pose
	outgoing *Pose

	current  *Action
	previous *Action
	fadeLeft float32
	fadeDur  float32
}

// NewMixer creates a mixer producing poses for the given skeleton. The
// pose starts at rest, so the palette is valid before any clip plays.
func NewMixer(s *Skeleton) *Mixer {
	return &Mixer{
		skeleton: s,
		pose:     s.NewPose(),
		outgoing: s.NewPose(),
	}
}

// Play starts a clip, fading from whatever is playing over fade
// seconds. Playing the clip that is already current only updates its
// time scale. A negative time scale starts from the clip's end.
func (m *Mixer) Play(clip *Clip, fade, timeScale float32) {
	if clip == nil {
		return
	}
	if timeScale == 0 {
		timeScale = 1
	}
	if m.current != nil && m.current.Clip == clip {
		m.current.TimeScale = timeScale
		return
	}
	var start float32
	if timeScale < 0 {
		start = clip.Duration
	}
	next := &Action{Clip: clip, Time: start, TimeScale: timeScale}
	if m.current == nil || fade <= 0 {
		next.Weight = 1
		m.current = next
		m.previous = nil
		m.fadeLeft = 0
		m.fadeDur = 0
		return
	}
	m.previous = m.current
	m.current = next
	m.fadeLeft = fade
	m.fadeDur = fade
}

// Update advances playback and recomputes the skinning pose.
func (m *Mixer) Update(dt float32) {
	if m.current == nil {
		return
	}
	m.advance(m.current, dt)
	if m.previous != nil {
		m.advance(m.previous, dt)
		m.fadeLeft -= dt
		if m.fadeLeft <= 0 {
			m.previous = nil
			m.current.Weight = 1
		} else {
			w := 1 - m.fadeLeft/m.fadeDur
			m.current.Weight = w
			m.previous.Weight = 1 - w
		}
	} else {
		m.current.Weight = 1
	}

	m.pose.Reset(m.skeleton)
	if m.previous != nil {
		m.outgoing.Reset(m.skeleton)
		m.previous.Clip.Sample(m.previous.Time, m.outgoing)
		m.current.Clip.Sample(m.current.Time, m.pose)
		for i := range m.pose.Local {
			m.pose.Local[i] = m.outgoing.Local[i].Blend(m.pose.Local[i], m.current.Weight)
		}
	} else {
		m.current.Clip.Sample(m.current.Time, m.pose)
	}
	m.pose.ComputeMatrices(m.skeleton)
}

func (m *Mixer) advance(a *Action, dt float32) {
	a.Time = a.Clip.WrapTime(a.Time + dt*a.TimeScale)
}

// Pose returns the last computed pose.
func (m *Mixer) Pose() *Pose {
	return m.pose
}

// Palette returns the skinning matrices of the last computed pose.
func (m *Mixer) Palette() []math.Mat4 {
	return m.pose.Palette
}

// Current returns the clip playback is fading toward, or nil.
func (m *Mixer) Current() *Clip {
	if m.current == nil {
		return nil
	}
	return m.current.Clip
}

// Fading reports whether a crossfade is in progress.
func (m *Mixer) Fading() bool {
	return m.previous != nil
}

// Finished reports whether the current one-shot clip has played through.
func (m *Mixer) Finished() bool {
	return m.current.Finished()
}

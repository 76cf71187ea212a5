package character

import (
	"fmt"

	"github.com/mosslight/walkabout/pkg/formats"
	"github.com/mosslight/walkabout/pkg/math"
)

// Character bundles the playable hero: the skinned model and its
// skeleton, the bound animation clips, and the movement controller.
type Character struct {
	Skeleton   *Skeleton
	Model      *formats.SKM
	Clips      map[string]*Clip
	Controller *Controller
	Mixer      *Mixer
	Animator   *Animator
	Scale      float32
}

// New builds a character from parsed assets, spawning it at the given
// spot. Clips are keyed by their embedded names; channels referring to
// bones the model does not have are dropped and reported in the
// returned warnings.
func New(model *formats.SKM, clips []*formats.SKA, ground Ground, bounds Bounds, params Params, x, z float32) (*Character, []string) {
	skeleton := NewSkeleton(model)
	bound := make(map[string]*Clip, len(clips))
	var warnings []string
	for _, a := range clips {
		clip, missing := BindClip(a, skeleton)
		for _, name := range missing {
			warnings = append(warnings, fmt.Sprintf("clip %q skips unknown bone %q", a.Name, name))
		}
		bound[clip.Name] = clip
	}
	mixer := NewMixer(skeleton)
	return &Character{
		Skeleton:   skeleton,
		Model:      model,
		Clips:      bound,
		Controller: NewController(ground, bounds, params, x, z),
		Mixer:      mixer,
		Animator:   NewAnimator(mixer, bound),
		Scale:      1,
	}, warnings
}

// Update advances movement and animation one frame.
func (ch *Character) Update(in Intent, dt float32) []Event {
	events := ch.Controller.Update(in, dt)
	ch.Animator.Apply(ch.Controller.State(), dt)
	return events
}

// Palette returns the current skinning matrices.
func (ch *Character) Palette() []math.Mat4 {
	return ch.Mixer.Palette()
}

// Position returns the character's world position.
func (ch *Character) Position() math.Vec3 {
	return ch.Controller.Position
}

// ModelMatrix returns the world transform including model scale.
func (ch *Character) ModelMatrix() math.Mat4 {
	m := ch.Controller.ModelMatrix()
	if ch.Scale > 0 && ch.Scale != 1 {
		m = m.Mul(math.Scale(ch.Scale, ch.Scale, ch.Scale))
	}
	return m
}

package main

import (
	gomath "math"

	"github.com/mosslight/walkabout/pkg/formats"
	"github.com/mosslight/walkabout/pkg/math"
)

var (
	axisX = math.Vec3{X: 1}
	axisZ = math.Vec3{Z: 1}
)

// heroClips builds the four movement clips. Clip names match what the
// animator looks up, limb swings are rotations about joint-local axes,
// and looping clips end on their first pose so the wrap is seamless.
func heroClips() []*formats.SKA {
	return []*formats.SKA{
		idleClip(),
		walkClip(),
		runClip(),
		jumpClip(),
	}
}

func idleClip() *formats.SKA {
	const d = 3.2
	return &formats.SKA{
		Name:     "idle",
		Duration: d,
		Loop:     true,
		Channels: []formats.SKAChannel{
			swing("spine", d, axisZ, 0, 1.5, 0, -1.5, 0),
			swing("head", d, axisX, 0, 2, 0, -1, 0),
			swing("arm_l", d, axisX, 1.5, -1.5, 1.5, -1, 1.5),
			swing("arm_r", d, axisX, -1.5, 1.5, -1.5, 1, -1.5),
			bob("pelvis", d, 0.95, 0.015),
		},
	}
}

func walkClip() *formats.SKA {
	const d = 0.8
	return &formats.SKA{
		Name:     "walk",
		Duration: d,
		Loop:     true,
		Channels: []formats.SKAChannel{
			swing("thigh_l", d, axisX, 25, 0, -25, 0, 25),
			swing("thigh_r", d, axisX, -25, 0, 25, 0, -25),
			swing("shin_l", d, axisX, 5, 30, 10, 0, 5),
			swing("shin_r", d, axisX, 10, 0, 5, 30, 10),
			swing("arm_l", d, axisX, -20, 0, 20, 0, -20),
			swing("arm_r", d, axisX, 20, 0, -20, 0, 20),
			bob("pelvis", d, 0.95, 0.02),
		},
	}
}

func runClip() *formats.SKA {
	const d = 0.55
	return &formats.SKA{
		Name:     "run",
		Duration: d,
		Loop:     true,
		Channels: []formats.SKAChannel{
			swing("spine", d, axisX, 8),
			swing("thigh_l", d, axisX, 45, 0, -40, 0, 45),
			swing("thigh_r", d, axisX, -40, 0, 45, 0, -40),
			swing("shin_l", d, axisX, 15, 60, 20, 5, 15),
			swing("shin_r", d, axisX, 20, 5, 15, 60, 20),
			swing("arm_l", d, axisX, -35, 0, 35, 0, -35),
			swing("arm_r", d, axisX, 35, 0, -35, 0, 35),
			swing("forearm_l", d, axisX, -70),
			swing("forearm_r", d, axisX, -70),
			bob("pelvis", d, 0.95, 0.035),
		},
	}
}

// jumpClip matches the controller's airborne time: a crouch into a tuck
// that releases back to rest by landing.
func jumpClip() *formats.SKA {
	const d = 0.65
	return &formats.SKA{
		Name:     "jump",
		Duration: d,
		Loop:     false,
		Channels: []formats.SKAChannel{
			swing("spine", d, axisX, 0, 10, 5, 0),
			swing("thigh_l", d, axisX, 0, -70, -20, 0),
			swing("thigh_r", d, axisX, 0, -70, -20, 0),
			swing("shin_l", d, axisX, 0, 80, 30, 0),
			swing("shin_r", d, axisX, 0, 80, 30, 0),
			swing("arm_l", d, axisX, 0, -45, -60, 0),
			swing("arm_r", d, axisX, 0, -45, -60, 0),
		},
	}
}

// swing builds a rotation channel from evenly spaced keys in degrees
// about the given axis. A single angle yields a constant channel.
func swing(bone string, duration float32, axis math.Vec3, degrees ...float32) formats.SKAChannel {
	ch := formats.SKAChannel{Bone: bone}
	for i, deg := range degrees {
		t := float32(0)
		if len(degrees) > 1 {
			t = duration * float32(i) / float32(len(degrees)-1)
		}
		q := math.QuatFromAxisAngle(axis, deg*gomath.Pi/180)
		ch.RotKeys = append(ch.RotKeys, formats.SKARotKey{
			Time: t,
			Quat: [4]float32{q.X, q.Y, q.Z, q.W},
		})
	}
	return ch
}

// bob builds a position channel dipping below rest height by depth at
// the quarter points of the cycle, twice per loop like a footfall.
func bob(bone string, duration, rest, depth float32) formats.SKAChannel {
	heights := []float32{rest - depth, rest, rest - depth, rest, rest - depth}
	ch := formats.SKAChannel{Bone: bone}
	for i, h := range heights {
		ch.PosKeys = append(ch.PosKeys, formats.SKAPosKey{
			Time: duration * float32(i) / float32(len(heights)-1),
			Pos:  [3]float32{0, h, 0},
		})
	}
	return ch
}

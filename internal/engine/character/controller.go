package character

import (
	gomath "math"

	"github.com/mosslight/walkabout/pkg/math"
)

// State identifies the locomotion state machine's current mode.
type State int

const (
	StateIdle State = iota
	StateWalk
	StateWalkBack
	StateRun
	StateJump
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWalk:
		return "walk"
	case StateWalkBack:
		return "walk_back"
	case StateRun:
		return "run"
	case StateJump:
		return "jump"
	}
	return "unknown"
}

// Intent is the movement input for one frame. Jump is an edge, not a
// held state: set it only on the frame the key went down.
type Intent struct {
	Forward   bool
	Backward  bool
	TurnLeft  bool
	TurnRight bool
	Run       bool
	Jump      bool
}

// Event is a gameplay notification raised by the controller.
type Event int

const (
	EventStep Event = iota
	EventJump
	EventLand
)

// Ground reports terrain height under a world position.
type Ground interface {
	HeightAt(x, z float32) float32
}

// Bounds limits where the character may move. A zero-width axis leaves
// that axis unconstrained.
type Bounds struct {
	MinX, MaxX float32
	MinZ, MaxZ float32
}

// Params tunes controller motion. Speeds are world units per second,
// TurnSpeed is radians per second.
type Params struct {
	WalkSpeed    float32
	RunSpeed     float32
	BackSpeed    float32
	TurnSpeed    float32
	JumpHeight   float32
	JumpDuration float32
	StrideLength float32
}

// DefaultParams returns the stock locomotion tuning.
func DefaultParams() Params {
	return Params{
		WalkSpeed:    4,
		RunSpeed:     9,
		BackSpeed:    2.5,
		TurnSpeed:    150 * gomath.Pi / 180,
		JumpHeight:   1.6,
		JumpDuration: 0.65,
		StrideLength: 1.7,
	}
}

// Controller moves the character across the terrain and drives the
// locomotion state machine.
type Controller struct {
	Position math.Vec3
	Heading  float32 // radians around Y, 0 faces +Z

	params Params
	ground Ground
	bounds Bounds

	state     State
	jumpTime  float32
	jumpSpeed float32 // signed takeoff speed carried through the air
	stride    float32
}

// NewController places a character on the ground at the given spot.
func NewController(ground Ground, bounds Bounds, params Params, x, z float32) *Controller {
	c := &Controller{
		params:   params,
		ground:   ground,
		bounds:   bounds,
		Position: math.Vec3{X: x, Z: z},
	}
	c.clampToBounds()
	c.Position.Y = c.groundHeight(c.Position.X, c.Position.Z)
	return c
}

// State returns the current locomotion state.
func (c *Controller) State() State {
	return c.state
}

// Update advances one frame of movement. The returned events report
// footsteps, jump takeoffs and landings for this frame.
func (c *Controller) Update(in Intent, dt float32) []Event {
	var events []Event

	// Turning works in every state, including mid-air.
	if in.TurnLeft {
		c.Heading += c.params.TurnSpeed * dt
	}
	if in.TurnRight {
		c.Heading -= c.params.TurnSpeed * dt
	}
	c.Heading = math.WrapAngle(c.Heading)

	if c.state != StateJump && in.Jump {
		c.state = StateJump
		c.jumpTime = 0
		c.jumpSpeed = c.groundSpeed(in)
		c.stride = 0
		events = append(events, EventJump)
	}

	var speed float32
	if c.state == StateJump {
		speed = c.jumpSpeed
	} else {
		c.state = groundState(in)
		speed = c.groundSpeed(in)
	}

	if speed != 0 {
		sin, cos := gomath.Sincos(float64(c.Heading))
		c.Position.X += float32(sin) * speed * dt
		c.Position.Z += float32(cos) * speed * dt
	}
	c.clampToBounds()

	ground := c.groundHeight(c.Position.X, c.Position.Z)
	if c.state == StateJump {
		c.jumpTime += dt
		f := c.jumpTime / c.params.JumpDuration
		if f >= 1 {
			c.state = groundState(in)
			c.Position.Y = ground
			events = append(events, EventLand)
		} else {
			c.Position.Y = ground + c.jumpArc(f)
		}
	} else {
		c.Position.Y = ground
	}

	switch c.state {
	case StateWalk, StateRun, StateWalkBack:
		c.stride += abs32(speed) * dt
		if c.stride >= c.params.StrideLength {
			c.stride -= c.params.StrideLength
			events = append(events, EventStep)
		}
	default:
		c.stride = 0
	}

	return events
}

// Teleport moves the character instantly, snapping to the ground and
// cancelling any jump in progress.
func (c *Controller) Teleport(x, z float32) {
	c.Position.X = x
	c.Position.Z = z
	c.clampToBounds()
	c.Position.Y = c.groundHeight(c.Position.X, c.Position.Z)
	c.state = StateIdle
	c.jumpTime = 0
	c.stride = 0
}

// Forward returns the facing direction on the ground plane.
func (c *Controller) Forward() math.Vec3 {
	sin, cos := gomath.Sincos(float64(c.Heading))
	return math.Vec3{X: float32(sin), Z: float32(cos)}
}

// ModelMatrix returns the character's world transform.
func (c *Controller) ModelMatrix() math.Mat4 {
	return math.Translate(c.Position.X, c.Position.Y, c.Position.Z).Mul(math.RotateY(c.Heading))
}

// jumpArc returns the height above ground at jump progress f in [0,1).
// The parabola peaks at JumpHeight halfway through.
func (c *Controller) jumpArc(f float32) float32 {
	return 4 * c.params.JumpHeight * f * (1 - f)
}

// groundState picks the locomotion state for on-foot movement. Holding
// forward and backward together cancels to idle.
func groundState(in Intent) State {
	forward := in.Forward && !in.Backward
	backward := in.Backward && !in.Forward
	switch {
	case forward && in.Run:
		return StateRun
	case forward:
		return StateWalk
	case backward:
		return StateWalkBack
	default:
		return StateIdle
	}
}

// groundSpeed returns the signed speed along the facing direction.
func (c *Controller) groundSpeed(in Intent) float32 {
	switch groundState(in) {
	case StateRun:
		return c.params.RunSpeed
	case StateWalk:
		return c.params.WalkSpeed
	case StateWalkBack:
		return -c.params.BackSpeed
	}
	return 0
}

func (c *Controller) groundHeight(x, z float32) float32 {
	if c.ground == nil {
		return 0
	}
	return c.ground.HeightAt(x, z)
}

func (c *Controller) clampToBounds() {
	if c.bounds.MaxX > c.bounds.MinX {
		c.Position.X = math.Clamp(c.Position.X, c.bounds.MinX, c.bounds.MaxX)
	}
	if c.bounds.MaxZ > c.bounds.MinZ {
		c.Position.Z = math.Clamp(c.Position.Z, c.bounds.MinZ, c.bounds.MaxZ)
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Package input handles SDL2 input events and keyboard movement state.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Event types for game use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Mouse button aliases so consumers stay off the SDL constants.
const (
	MouseButtonLeft   = sdl.BUTTON_LEFT
	MouseButtonMiddle = sdl.BUTTON_MIDDLE
	MouseButtonRight  = sdl.BUTTON_RIGHT
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	DX     int
	DY     int
	WheelY float32
	Button uint8
}

// Movement is a per-frame snapshot of the keyboard movement intent.
type Movement struct {
	Forward   bool
	Backward  bool
	TurnLeft  bool
	TurnRight bool
	Run       bool
	Jump      bool
}

// Any reports whether any movement key is engaged.
func (m Movement) Any() bool {
	return m.Forward || m.Backward || m.TurnLeft || m.TurnRight || m.Jump
}

// Input handles all input processing.
type Input struct {
	events      []Event
	keysDown    map[sdl.Scancode]bool
	buttonsDown map[uint8]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:      make([]Event, 0, 16),
		keysDown:    make(map[sdl.Scancode]bool),
		buttonsDown: make(map[uint8]bool),
	}
}

// Update polls SDL events and converts them to game events.
// Returns true if the game should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				if e.Repeat == 0 {
					i.events = append(i.events, Event{
						Type: EventKeyDown,
						Key:  e.Keysym.Scancode,
					})
				}
				i.keysDown[e.Keysym.Scancode] = true
			} else if e.Type == sdl.KEYUP {
				i.events = append(i.events, Event{
					Type: EventKeyUp,
					Key:  e.Keysym.Scancode,
				})
				delete(i.keysDown, e.Keysym.Scancode)
			}

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				DX:     int(e.XRel),
				DY:     int(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN {
				i.events = append(i.events, Event{
					Type:   EventMouseDown,
					MouseX: int(e.X),
					MouseY: int(e.Y),
					Button: e.Button,
				})
				i.buttonsDown[e.Button] = true
			} else if e.Type == sdl.MOUSEBUTTONUP {
				i.events = append(i.events, Event{
					Type:   EventMouseUp,
					MouseX: int(e.X),
					MouseY: int(e.Y),
					Button: e.Button,
				})
				delete(i.buttonsDown, e.Button)
			}

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseWheel,
				WheelY: float32(e.PreciseY),
			})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyDown checks if a specific key is currently held.
func (i *Input) IsKeyDown(scancode sdl.Scancode) bool {
	return i.keysDown[scancode]
}

// IsButtonDown checks if a mouse button is currently held.
func (i *Input) IsButtonDown(button uint8) bool {
	return i.buttonsDown[button]
}

// Movement returns the keyboard movement intent for this frame. Direction
// and run are held states; jump triggers only on the frame the key goes
// down.
func (i *Input) Movement() Movement {
	return Movement{
		Forward:   i.IsKeyDown(sdl.SCANCODE_W) || i.IsKeyDown(sdl.SCANCODE_UP),
		Backward:  i.IsKeyDown(sdl.SCANCODE_S) || i.IsKeyDown(sdl.SCANCODE_DOWN),
		TurnLeft:  i.IsKeyDown(sdl.SCANCODE_A) || i.IsKeyDown(sdl.SCANCODE_LEFT),
		TurnRight: i.IsKeyDown(sdl.SCANCODE_D) || i.IsKeyDown(sdl.SCANCODE_RIGHT),
		Run:       i.IsKeyDown(sdl.SCANCODE_LSHIFT) || i.IsKeyDown(sdl.SCANCODE_RSHIFT),
		Jump:      i.IsKeyPressed(sdl.SCANCODE_SPACE),
	}
}

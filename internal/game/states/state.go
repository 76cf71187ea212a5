// Package states implements game state management.
package states

import (
	"github.com/mosslight/walkabout/internal/assets"
	"github.com/mosslight/walkabout/internal/config"
	"github.com/mosslight/walkabout/internal/engine/audio"
	"github.com/mosslight/walkabout/internal/engine/input"
	"github.com/mosslight/walkabout/internal/engine/window"
)

// Context carries the services every state shares. The game owns them;
// states only borrow.
type Context struct {
	Config *config.Config
	Assets *assets.Manager
	Audio  *audio.Manager
	Input  *input.Input
	Window *window.Window
}

// State represents a game state (loading, playing).
type State interface {
	// Enter is called when entering this state.
	Enter() error

	// Exit is called when leaving this state.
	Exit() error

	// Update is called every frame.
	Update(dt float64) error

	// Render is called every frame to draw the state.
	Render() error

	// HandleInput processes one input event.
	HandleInput(ev input.Event) error
}

// Manager manages game state transitions.
type Manager struct {
	ctx     *Context
	current State
	next    State
}

// NewManager creates a new state manager.
func NewManager(ctx *Context) *Manager {
	return &Manager{ctx: ctx}
}

// Context returns the shared services.
func (m *Manager) Context() *Context {
	return m.ctx
}

// Current returns the current state.
func (m *Manager) Current() State {
	return m.current
}

// Change schedules a state change for the next Update.
func (m *Manager) Change(next State) {
	m.next = next
}

// Update processes a pending state change, then updates the current state.
func (m *Manager) Update(dt float64) error {
	if m.next != nil {
		if m.current != nil {
			if err := m.current.Exit(); err != nil {
				return err
			}
		}
		m.current = m.next
		m.next = nil
		if err := m.current.Enter(); err != nil {
			return err
		}
	}

	if m.current != nil {
		return m.current.Update(dt)
	}
	return nil
}

// Render renders the current state.
func (m *Manager) Render() error {
	if m.current != nil {
		return m.current.Render()
	}
	return nil
}

// HandleInput forwards an input event to the current state.
func (m *Manager) HandleInput(ev input.Event) error {
	if m.current != nil {
		return m.current.HandleInput(ev)
	}
	return nil
}

// Shutdown exits the current state.
func (m *Manager) Shutdown() error {
	if m.current == nil {
		return nil
	}
	err := m.current.Exit()
	m.current = nil
	return err
}

// Package game implements the main game loop and state management.
package game

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/mosslight/walkabout/internal/assets"
	"github.com/mosslight/walkabout/internal/config"
	"github.com/mosslight/walkabout/internal/engine/audio"
	"github.com/mosslight/walkabout/internal/engine/debug"
	"github.com/mosslight/walkabout/internal/engine/input"
	"github.com/mosslight/walkabout/internal/engine/renderer"
	"github.com/mosslight/walkabout/internal/engine/window"
	"github.com/mosslight/walkabout/internal/game/states"
	"github.com/mosslight/walkabout/internal/logger"
)

const windowTitle = "Walkabout"

// maxFrameDelta caps dt so a stalled frame (window drag, debugger)
// doesn't launch the character across the map.
const maxFrameDelta = 0.1

// Game is the main game instance.
type Game struct {
	cfg     *config.Config
	running bool

	window *window.Window
	input  *input.Input
	assets *assets.Manager
	audio  *audio.Manager
	states *states.Manager
	shots  *debug.Screenshots
}

// New creates a new game instance. The window and GL context exist
// when it returns; asset loading starts on the first frame.
func New(cfg *config.Config) (*Game, error) {
	logger.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("data", cfg.Data.Dir),
	)

	g := &Game{cfg: cfg}

	// Create window (this also creates the OpenGL context)
	var err error
	g.window, err = window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := renderer.Init(); err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	g.input = input.New()

	g.assets = assets.NewManager()
	if err := g.assets.AddRoot(cfg.Data.Dir); err != nil {
		logger.Warn("asset directory unavailable, everything degrades to fallbacks", zap.Error(err))
	}

	g.audio = audio.New()
	if cfg.Audio.Enabled {
		if err := g.audio.Init(); err != nil {
			logger.Warn("audio unavailable, running muted", zap.Error(err))
		} else {
			g.audio.SetVolumes(float64(cfg.Audio.MasterVolume), float64(cfg.Audio.EffectsVolume))
		}
	}

	g.shots = debug.NewScreenshots("screenshots", "walkabout")

	g.states = states.NewManager(&states.Context{
		Config: cfg,
		Assets: g.assets,
		Audio:  g.audio,
		Input:  g.input,
		Window: g.window,
	})
	g.states.Change(states.NewLoadingState(g.states))

	logger.Info("game initialized")
	return g, nil
}

// Run starts the main game loop.
func (g *Game) Run() error {
	g.running = true

	lastTicks := sdl.GetTicks64()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting game loop")

	for g.running {
		frameStart := sdl.GetTicks64()
		dt := float64(frameStart-lastTicks) / 1000.0
		lastTicks = frameStart
		if dt > maxFrameDelta {
			dt = maxFrameDelta
		}

		// 1. Process input
		if g.input.Update() {
			break
		}
		for _, ev := range g.input.Events() {
			g.handleEvent(ev)
			if err := g.states.HandleInput(ev); err != nil {
				return fmt.Errorf("input error: %w", err)
			}
		}

		// 2. Update current state
		if err := g.states.Update(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		// 3. Render
		if err := g.states.Render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// 4. Present
		g.window.SwapBuffers()

		g.limitFrameRate(frameStart)

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("frames", frameCount),
				zap.Float64("dtMs", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// handleEvent covers the global bindings; everything else belongs to
// the current state.
func (g *Game) handleEvent(ev input.Event) {
	switch ev.Type {
	case input.EventQuit:
		g.running = false

	case input.EventKeyDown:
		switch ev.Key {
		case sdl.SCANCODE_ESCAPE:
			g.running = false
		case sdl.SCANCODE_F12:
			g.captureScreenshot()
		}

	case input.EventWindowResize:
		dw, dh := g.window.DrawableSize()
		renderer.Resize(int32(dw), int32(dh))
	}
}

// limitFrameRate sleeps out the rest of the frame budget when a cap is
// configured. VSync usually makes this moot.
func (g *Game) limitFrameRate(frameStart uint64) {
	if g.cfg.Graphics.FPSLimit <= 0 {
		return
	}
	budget := uint64(1000 / g.cfg.Graphics.FPSLimit)
	elapsed := sdl.GetTicks64() - frameStart
	if elapsed < budget {
		sdl.Delay(uint32(budget - elapsed))
	}
}

func (g *Game) captureScreenshot() {
	capturer, ok := g.states.Current().(interface {
		CapturePixels() ([]byte, int32, int32)
	})
	if !ok {
		return
	}

	pixels, w, h := capturer.CapturePixels()
	if len(pixels) == 0 {
		return
	}

	path, err := g.shots.SavePixels(pixels, int(w), int(h))
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close cleans up game resources.
func (g *Game) Close() {
	logger.Info("closing game")

	if g.states != nil {
		if err := g.states.Shutdown(); err != nil {
			logger.Warn("state shutdown", zap.Error(err))
		}
	}
	if g.audio != nil {
		g.audio.Close()
	}
	if g.assets != nil {
		g.assets.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}

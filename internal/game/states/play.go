package states

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/mosslight/walkabout/internal/config"
	"github.com/mosslight/walkabout/internal/engine/camera"
	"github.com/mosslight/walkabout/internal/engine/character"
	"github.com/mosslight/walkabout/internal/engine/input"
	"github.com/mosslight/walkabout/internal/engine/picking"
	"github.com/mosslight/walkabout/internal/engine/scene"
	"github.com/mosslight/walkabout/internal/engine/shadow"
	"github.com/mosslight/walkabout/internal/engine/terrain"
	"github.com/mosslight/walkabout/internal/logger"
	"github.com/mosslight/walkabout/pkg/math"
)

// Sound effect names bound to controller events.
const (
	soundStep = "step"
	soundJump = "jump"
)

// PlayState owns the live scene: terrain, the hero, the follow camera
// and the audio bindings. All GPU uploads happen in Enter, on the main
// thread.
type PlayState struct {
	manager *Manager
	loaded  worldAssets

	scn    *scene.Scene
	cam    *camera.Follow
	hero   *character.Character
	ground *terrain.Heightfield

	// Window size in screen coordinates, for mouse picking and aspect.
	winW, winH int
}

// NewPlayState creates the play state around decoded assets.
func NewPlayState(manager *Manager, loaded worldAssets) *PlayState {
	return &PlayState{
		manager: manager,
		loaded:  loaded,
	}
}

// Enter uploads everything to the GPU and spawns the hero.
func (s *PlayState) Enter() error {
	ctx := s.manager.ctx
	cfg := ctx.Config

	s.winW, s.winH = ctx.Window.GetSize()
	dw, dh := ctx.Window.DrawableSize()

	var err error
	s.scn, err = scene.New(scene.Config{
		Width:            int32(dw),
		Height:           int32(dh),
		ShadowResolution: shadow.DefaultResolution,
		ShadowsEnabled:   cfg.Scene.Shadows,
		FogEnabled:       cfg.Scene.Fog.Enabled,
		FogNear:          cfg.Scene.Fog.Near,
		FogFar:           cfg.Scene.Fog.Far,
		SkyColor:         math.Vec3{X: cfg.Scene.SkyColor[0], Y: cfg.Scene.SkyColor[1], Z: cfg.Scene.SkyColor[2]},
	})
	if err != nil {
		return err
	}

	s.ground = s.loaded.heightfield
	if s.ground == nil {
		s.ground, _ = terrain.Flat(terrain.DefaultOptions())
	}
	fc := cfg.Terrain.FallbackColor
	s.scn.SetTerrainBaseColor(math.Vec3{X: fc[0], Y: fc[1], Z: fc[2]})
	s.scn.SetTerrain(s.ground.BuildMesh(), s.loaded.groundTex)

	s.spawnHero(cfg)

	s.cam = newFollowCamera(cfg.Camera)
	s.cam.Update(s.cameraTarget(), 0)

	s.bindSounds()

	logger.Info("entering world",
		zap.Bool("character", s.hero != nil),
		zap.Bool("shadows", cfg.Scene.Shadows),
		zap.Int("width", dw),
		zap.Int("height", dh))

	return nil
}

func (s *PlayState) spawnHero(cfg *config.Config) {
	model := s.loaded.model
	if model == nil {
		return
	}
	if len(model.Bones) > scene.MaxBones {
		logger.Warn("character model has too many bones, showing terrain only",
			zap.Int("bones", len(model.Bones)),
			zap.Int("max", scene.MaxBones))
		return
	}

	b := s.ground.Bounds
	bounds := character.Bounds{MinX: b.Min.X, MaxX: b.Max.X, MinZ: b.Min.Z, MaxZ: b.Max.Z}

	hero, warnings := character.New(model, s.loaded.clips, s.ground, bounds, characterParams(cfg.Character), 0, 0)
	for _, w := range warnings {
		logger.Warn("animation binding", zap.String("detail", w))
	}
	hero.Scale = cfg.Character.Scale

	s.hero = hero
	s.scn.SetCharacter(model, s.loaded.modelTex)
}

// bindSounds loads the effects played on controller events. Failures
// just mute the effect.
func (s *PlayState) bindSounds() {
	ctx := s.manager.ctx
	if !ctx.Config.Audio.Enabled || !ctx.Audio.Enabled() {
		return
	}

	for name, assetPath := range map[string]string{
		soundStep: "audio/step.wav",
		soundJump: "audio/jump.wav",
	} {
		path, err := ctx.Assets.Resolve(assetPath)
		if err == nil {
			err = ctx.Audio.LoadEffect(name, path)
		}
		if err != nil {
			logger.Warn("sound unavailable", zap.String("name", name), zap.Error(err))
		}
	}
}

// Exit releases the GPU resources.
func (s *PlayState) Exit() error {
	if s.scn != nil {
		s.scn.Destroy()
		s.scn = nil
	}
	return nil
}

// Update advances the hero from the current key state, then eases the
// camera after it.
func (s *PlayState) Update(dt float64) error {
	ctx := s.manager.ctx

	if s.hero != nil {
		mv := ctx.Input.Movement()
		events := s.hero.Update(character.Intent{
			Forward:   mv.Forward,
			Backward:  mv.Backward,
			TurnLeft:  mv.TurnLeft,
			TurnRight: mv.TurnRight,
			Run:       mv.Run,
			Jump:      mv.Jump,
		}, float32(dt))

		for _, ev := range events {
			switch ev {
			case character.EventStep, character.EventLand:
				ctx.Audio.Play(soundStep)
			case character.EventJump:
				ctx.Audio.Play(soundJump)
			}
		}
	}

	s.cam.Update(s.cameraTarget(), float32(dt))
	return nil
}

// Render draws the frame.
func (s *PlayState) Render() error {
	view := s.cam.ViewMatrix()
	proj := s.cam.ProjectionMatrix(s.aspect())

	model := math.Identity()
	var palette []math.Mat4
	if s.hero != nil {
		model = s.hero.ModelMatrix()
		palette = s.hero.Palette()
	}

	s.scn.Render(view, proj, s.cam.Position(), model, palette)
	return nil
}

// HandleInput routes camera drags, zoom, teleport clicks and resizes.
func (s *PlayState) HandleInput(ev input.Event) error {
	switch ev.Type {
	case input.EventMouseMove:
		if s.manager.ctx.Input.IsButtonDown(input.MouseButtonRight) {
			s.cam.HandleDrag(float32(ev.DX), float32(ev.DY))
		}

	case input.EventMouseWheel:
		s.cam.HandleZoom(ev.WheelY)

	case input.EventMouseDown:
		if ev.Button == input.MouseButtonMiddle {
			s.teleportToCursor(ev.MouseX, ev.MouseY)
		}

	case input.EventWindowResize:
		s.winW, s.winH = ev.Width, ev.Height
		dw, dh := s.manager.ctx.Window.DrawableSize()
		s.scn.Resize(int32(dw), int32(dh))
	}
	return nil
}

// teleportToCursor moves the hero to the terrain point under the mouse.
func (s *PlayState) teleportToCursor(mouseX, mouseY int) {
	if s.hero == nil || s.winW == 0 || s.winH == 0 {
		return
	}

	viewProj := s.cam.ProjectionMatrix(s.aspect()).Mul(s.cam.ViewMatrix())
	ray := picking.ScreenToRay(float32(mouseX), float32(mouseY), float32(s.winW), float32(s.winH), viewProj.Inverse())

	hit, ok := ray.IntersectHeightfield(s.ground)
	if !ok {
		return
	}
	s.hero.Controller.Teleport(hit.X, hit.Z)
	logger.Debug("teleport",
		zap.Float32("x", hit.X),
		zap.Float32("z", hit.Z))
}

// CapturePixels returns the last rendered frame for screenshots.
func (s *PlayState) CapturePixels() ([]byte, int32, int32) {
	if s.scn == nil {
		return nil, 0, 0
	}
	return s.scn.CapturePixels()
}

func (s *PlayState) cameraTarget() math.Vec3 {
	if s.hero != nil {
		return s.hero.Position()
	}
	return math.Vec3{Y: s.ground.HeightAt(0, 0)}
}

func (s *PlayState) aspect() float32 {
	if s.winH == 0 {
		return 1
	}
	return float32(s.winW) / float32(s.winH)
}

// characterParams maps the character config onto controller tuning.
// Turn speed converts from degrees to radians.
func characterParams(cfg config.CharacterConfig) character.Params {
	return character.Params{
		WalkSpeed:    cfg.WalkSpeed,
		RunSpeed:     cfg.RunSpeed,
		BackSpeed:    cfg.BackSpeed,
		TurnSpeed:    cfg.TurnSpeed * gomath.Pi / 180,
		JumpHeight:   cfg.JumpHeight,
		JumpDuration: cfg.JumpDuration,
		StrideLength: cfg.StrideLength,
	}
}

// newFollowCamera applies the camera config over the stock follow
// camera. Pitch and drag sensitivity convert from degrees.
func newFollowCamera(cfg config.CameraConfig) *camera.Follow {
	cam := camera.NewFollow()
	if cfg.Distance > 0 {
		cam.Distance = cfg.Distance
	}
	if cfg.MinDistance > 0 {
		cam.MinDistance = cfg.MinDistance
	}
	if cfg.MaxDistance > 0 {
		cam.MaxDistance = cfg.MaxDistance
	}
	if cfg.Pitch != 0 {
		cam.Pitch = cfg.Pitch * gomath.Pi / 180
	}
	if cfg.DragSensitivity > 0 {
		cam.DragSensitivity = cfg.DragSensitivity * gomath.Pi / 180
	}
	if cfg.ZoomSensitivity > 0 {
		cam.ZoomSensitivity = cfg.ZoomSensitivity
	}
	cam.Smoothing = cfg.Smoothing
	return cam
}

package scene

import (
	"fmt"
	"image"
	"image/color"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/mosslight/walkabout/internal/engine/framebuffer"
	"github.com/mosslight/walkabout/internal/engine/lighting"
	"github.com/mosslight/walkabout/internal/engine/scene/shaders"
	"github.com/mosslight/walkabout/internal/engine/shader"
	"github.com/mosslight/walkabout/internal/engine/shadow"
	"github.com/mosslight/walkabout/internal/engine/terrain"
	"github.com/mosslight/walkabout/internal/engine/texture"
	"github.com/mosslight/walkabout/internal/logger"
	"github.com/mosslight/walkabout/pkg/formats"
	"github.com/mosslight/walkabout/pkg/math"
)

// shadowFocusRadius is the half-size of the tight shadow box kept
// centered on the character, in world units.
const shadowFocusRadius = 18

// Config contains scene creation options.
type Config struct {
	Width            int32
	Height           int32
	ShadowResolution int32
	ShadowsEnabled   bool
	FogEnabled       bool
	FogNear          float32
	FogFar           float32
	SkyColor         math.Vec3
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Width:            1280,
		Height:           720,
		ShadowResolution: shadow.DefaultResolution,
		ShadowsEnabled:   true,
		FogEnabled:       true,
		FogNear:          40,
		FogFar:           160,
		SkyColor:         math.Vec3{X: 0.53, Y: 0.72, Z: 0.87},
	}
}

// viewState carries the per-frame camera, lighting and shadow state
// shared by the renderers.
type viewState struct {
	viewProj      math.Mat4
	cameraPos     math.Vec3
	env           lighting.Environment
	lightViewProj math.Mat4
	shadowMap     *shadow.Map
	shadowsOn     bool
	fogOn         bool
	fogNear       float32
	fogFar        float32
	fogColor      math.Vec3
}

// Scene renders terrain and character into an offscreen framebuffer and
// presents it with a blit. Either renderer may be missing: the scene
// degrades to terrain-only, or to a bare sky clear.
type Scene struct {
	config Config

	framebuffer *framebuffer.Framebuffer
	terrain     *TerrainRenderer
	character   *CharacterRenderer

	shadowMap    *shadow.Map
	depthStatic  *shader.Program
	depthSkinned *shader.Program

	// Lighting and atmosphere, adjustable at runtime.
	Env        lighting.Environment
	SkyColor   math.Vec3
	FogEnabled bool
	FogNear    float32
	FogFar     float32
	FogColor   math.Vec3

	shadowsEnabled bool
	fallbackTex    uint32
}

// New creates a scene. A failed shadow map disables shadows instead of
// failing the scene.
func New(cfg Config) (*Scene, error) {
	s := &Scene{
		config:         cfg,
		Env:            lighting.Default(),
		SkyColor:       cfg.SkyColor,
		FogEnabled:     cfg.FogEnabled,
		FogNear:        cfg.FogNear,
		FogFar:         cfg.FogFar,
		FogColor:       cfg.SkyColor,
		shadowsEnabled: cfg.ShadowsEnabled,
	}

	var err error
	s.framebuffer, err = framebuffer.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}

	if cfg.ShadowsEnabled {
		s.shadowMap, err = shadow.NewMap(cfg.ShadowResolution)
		if err != nil {
			logger.Warn("Shadow map unavailable, shadows disabled", zap.Error(err))
			s.shadowsEnabled = false
		}
	} else {
		s.shadowsEnabled = false
	}

	if s.shadowMap != nil {
		s.depthStatic, err = shader.NewProgram(shaders.DepthVertex, shaders.DepthFragment)
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("depth shader: %w", err)
		}
		s.depthSkinned, err = shader.NewProgram(shaders.DepthSkinnedVertex, shaders.DepthFragment)
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("skinned depth shader: %w", err)
		}
	}

	s.terrain, err = NewTerrainRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating terrain renderer: %w", err)
	}

	s.character, err = NewCharacterRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating character renderer: %w", err)
	}

	s.fallbackTex = uploadTexture(texture.Solid(color.RGBA{R: 255, G: 255, B: 255, A: 255}))

	return s, nil
}

// SetTerrain uploads the terrain mesh and ground texture. A nil texture
// renders the terrain in its base color.
func (s *Scene) SetTerrain(mesh *terrain.Mesh, tex *image.RGBA) {
	s.terrain.Upload(mesh)
	s.terrain.SetTexture(tex)
}

// SetTerrainBaseColor sets the untextured terrain fallback color.
func (s *Scene) SetTerrainBaseColor(c math.Vec3) {
	s.terrain.SetBaseColor(c)
}

// SetCharacter uploads the character mesh and texture. A nil texture
// falls back to flat white so lighting still shapes the model.
func (s *Scene) SetCharacter(model *formats.SKM, tex *image.RGBA) {
	s.character.Upload(model)
	s.character.SetTexture(tex, s.fallbackTex)
}

// HasCharacter reports whether a character mesh is loaded.
func (s *Scene) HasCharacter() bool {
	return s.character.Ready()
}

// TerrainBounds returns the AABB of the loaded terrain mesh.
func (s *Scene) TerrainBounds() terrain.Bounds {
	return s.terrain.Bounds()
}

// Render draws one frame: a shadow depth pass when enabled, then the
// lit scene into the offscreen framebuffer, blitted to the window.
// charModel and palette are ignored until a character is loaded.
func (s *Scene) Render(view, proj math.Mat4, cameraPos math.Vec3, charModel math.Mat4, palette []math.Mat4) {
	st := viewState{
		viewProj:      proj.Mul(view),
		cameraPos:     cameraPos,
		env:           s.Env,
		lightViewProj: math.Identity(),
		shadowMap:     s.shadowMap,
		shadowsOn:     s.shadowsEnabled && s.shadowMap != nil && s.terrain.Ready(),
		fogOn:         s.FogEnabled,
		fogNear:       s.FogNear,
		fogFar:        s.FogFar,
		fogColor:      s.FogColor,
	}

	if st.shadowsOn {
		st.lightViewProj = s.lightMatrix(charModel)
		s.renderShadowPass(st.lightViewProj, charModel, palette)
	}

	restore := s.framebuffer.BindWithViewport()
	s.framebuffer.Clear(s.SkyColor.X, s.SkyColor.Y, s.SkyColor.Z, 1.0)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	s.terrain.Render(st)
	if s.character.Ready() {
		s.character.Render(st, charModel, palette)
	}

	restore()
	s.framebuffer.BlitToScreen(s.config.Width, s.config.Height)
}

// lightMatrix frames the sun's ortho projection: tightly around the
// character when one is loaded, otherwise around the whole terrain.
func (s *Scene) lightMatrix(charModel math.Mat4) math.Mat4 {
	b := s.terrain.Bounds()
	bounds := shadow.AABB{Min: b.Min, Max: b.Max}
	lightDir := s.Env.Sun.Direction()
	if s.character.Ready() {
		focus := math.Vec3{X: charModel[12], Y: charModel[13], Z: charModel[14]}
		return shadow.FollowLightMatrix(lightDir, bounds, focus, shadowFocusRadius)
	}
	return shadow.DirectionalLightMatrix(lightDir, bounds)
}

func (s *Scene) renderShadowPass(lightViewProj, charModel math.Mat4, palette []math.Mat4) {
	s.shadowMap.Bind()

	s.depthStatic.Use()
	s.depthStatic.SetMat4("uLightViewProj", lightViewProj)
	s.depthStatic.SetMat4("uModel", math.Identity())
	s.terrain.RenderDepth()

	if s.character.Ready() {
		s.character.RenderDepth(s.depthSkinned, lightViewProj, charModel, palette)
	}

	s.shadowMap.Unbind()
}

// Resize updates the render target dimensions.
func (s *Scene) Resize(width, height int32) {
	if width == s.config.Width && height == s.config.Height {
		return
	}
	s.config.Width = width
	s.config.Height = height
	s.framebuffer.Resize(width, height)
}

// CapturePixels reads back the last rendered frame as RGBA, bottom-up
// as GL stores it.
func (s *Scene) CapturePixels() ([]byte, int32, int32) {
	width, height := s.framebuffer.Size()
	return s.framebuffer.ReadPixels(), width, height
}

// Destroy releases all resources.
func (s *Scene) Destroy() {
	if s.terrain != nil {
		s.terrain.Destroy()
	}
	if s.character != nil {
		s.character.Destroy()
	}
	if s.shadowMap != nil {
		s.shadowMap.Destroy()
	}
	if s.depthStatic != nil {
		s.depthStatic.Delete()
	}
	if s.depthSkinned != nil {
		s.depthSkinned.Delete()
	}
	if s.framebuffer != nil {
		s.framebuffer.Destroy()
	}
	if s.fallbackTex != 0 {
		gl.DeleteTextures(1, &s.fallbackTex)
		s.fallbackTex = 0
	}
}

// uploadTexture uploads an RGBA image with mipmaps and anisotropic
// filtering, returning the texture ID.
func uploadTexture(img *image.RGBA) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Bounds().Dx()), int32(img.Bounds().Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))

	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, 8.0)

	return texID
}
